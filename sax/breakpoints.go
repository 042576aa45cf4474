package sax

// Alphabet size limits supported by the breakpoint table.
const (
	MinAlphabet = 2
	MaxAlphabet = 10
)

// breakpoints holds the equiprobable standard-normal quantiles from
// Lin, Keogh, Lonardi & Chiu (2003), "A Symbolic Representation of Time
// Series, with Implications for Streaming Algorithms", Table 3.
// breakpoints[a] contains a-1 ascending thresholds.
var breakpoints = map[int][]float64{
	2:  {0},
	3:  {-0.43, 0.43},
	4:  {-0.67, 0, 0.67},
	5:  {-0.84, -0.25, 0.25, 0.84},
	6:  {-0.97, -0.43, 0, 0.43, 0.97},
	7:  {-1.07, -0.57, -0.18, 0.18, 0.57, 1.07},
	8:  {-1.15, -0.67, -0.32, 0, 0.32, 0.67, 1.15},
	9:  {-1.22, -0.76, -0.43, -0.14, 0.14, 0.43, 0.76, 1.22},
	10: {-1.28, -0.84, -0.52, -0.25, 0, 0.25, 0.52, 0.84, 1.28},
}

// region returns the index of the breakpoint region a value falls into.
// The rightmost bin is open ended: values above the last threshold map
// to region len(cuts).
func region(value float64, cuts []float64) int {
	for k, cut := range cuts {
		if value <= cut {
			return k
		}
	}
	return len(cuts)
}
