package frm

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/steenrotsman/frm-miner/mining"
)

// Motif is a frequent representative motif: a symbolic pattern mapped back
// to the continuous series it was mined from. Two motifs are the same
// motif exactly when their Pattern strings are equal.
//
// A motif is constructed by the miner with Pattern and Indexes populated;
// materialization fills Length, Prototype, BestMatches and NAED. After the
// driver sorts its results a motif is read-only.
type Motif struct {
	// Pattern is the SAX word the motif was mined as.
	Pattern string
	// Indexes maps a series index to the ascending symbolic start
	// positions of every occurrence of Pattern in that series.
	Indexes map[int][]int
	// Length is the motif length in continuous samples: |Pattern| * w.
	Length int
	// Prototype is the representative subsequence of the motif, averaged
	// per series first and then across series.
	Prototype []float64
	// BestMatches maps a series index to the continuous start position of
	// the occurrence closest to the prototype.
	BestMatches map[int]int
	// NAED is the normalized aggregate Euclidean distance: the sum over
	// containing series of the distance between the prototype and the
	// closest occurrence, divided by |Indexes| * Length. Lower is better.
	NAED float64

	seglen int
}

func newMotif(p *mining.Pattern, seglen int) *Motif {
	return &Motif{
		Pattern:     p.Seq,
		Indexes:     p.Indexes,
		Length:      len(p.Seq) * seglen,
		BestMatches: make(map[int]int),
		seglen:      seglen,
	}
}

// Support returns the number of distinct series containing the motif.
func (m *Motif) Support() int {
	return len(m.Indexes)
}

// Series returns the indexes of all containing series in ascending order.
func (m *Motif) Series() []int {
	return sortedSeries(m.Indexes)
}

// materialize maps the symbolic pattern back to continuous space using the
// standardized database the pattern was mined from.
func (m *Motif) materialize(db [][]float64) {
	m.setPrototype(db)
	m.setBestMatches(db)
}

// occurrence returns the continuous window covered by the occurrence at
// symbolic position j. When the window would overrun the series end the
// start is shifted left by the overflow, so the window always holds
// exactly Length samples.
func (m *Motif) occurrence(series []float64, j int) []float64 {
	start := j * m.seglen
	if over := start + m.Length - len(series); over > 0 {
		start -= over
	}
	return series[start : start+m.Length]
}

// setPrototype computes the elementwise mean of the per-series average
// occurrences. Averaging per series first keeps series with many
// occurrences from dominating the prototype.
func (m *Motif) setPrototype(db [][]float64) {
	prototype := make([]float64, m.Length)
	average := make([]float64, m.Length)
	for _, i := range m.Series() {
		for x := range average {
			average[x] = 0
		}
		for _, j := range m.Indexes[i] {
			floats.Add(average, m.occurrence(db[i], j))
		}
		floats.AddScaled(prototype, 1/float64(len(m.Indexes[i])), average)
	}
	floats.Scale(1/float64(len(m.Indexes)), prototype)
	m.Prototype = prototype
}

// setBestMatches selects, per series, the occurrence with the smallest
// Euclidean distance to the prototype and accumulates those minimum
// distances into NAED.
func (m *Motif) setBestMatches(db [][]float64) {
	var sum float64
	for _, i := range m.Series() {
		best, minDist := 0, math.Inf(1)
		for _, j := range m.Indexes[i] {
			if d := floats.Distance(m.occurrence(db[i], j), m.Prototype, 2); d < minDist {
				minDist, best = d, j
			}
		}
		m.BestMatches[i] = best * m.seglen
		sum += minDist
	}
	m.NAED = sum / float64(m.Support()*m.Length)
}
