// Package sax discretises real-valued time series into symbolic sequences
// using z-normalisation, Piecewise Aggregate Approximation and Symbolic
// Aggregate approXimation.
package sax

import (
	"strings"

	"github.com/projectdiscovery/utils/errkit"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrAlphabet = errkit.New("alphabet size must be between 2 and 10")
	ErrSegLen   = errkit.New("segment length must be a positive integer")
)

// Standardize z-normalises every series independently to zero mean and
// unit standard deviation. The population standard deviation is used; a
// series with zero variance is mapped to all zeros.
func Standardize(db [][]float64) [][]float64 {
	standardized := make([][]float64, len(db))
	for i, series := range db {
		standardized[i] = standardize(series)
	}
	return standardized
}

func standardize(series []float64) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	mean, std := stat.PopMeanStdDev(series, nil)
	if std == 0 {
		return out
	}
	for i, v := range series {
		out[i] = (v - mean) / std
	}
	return out
}

// PAA reduces a series to the arithmetic means of non-overlapping,
// contiguous segments of w samples each. A trailing remainder shorter
// than w is discarded, so the output has ⌊len(series)/w⌋ values.
func PAA(series []float64, w int) []float64 {
	segments := make([]float64, len(series)/w)
	for i := range segments {
		segments[i] = stat.Mean(series[i*w:(i+1)*w], nil)
	}
	return segments
}

// Symbolize converts standardized series into SAX words over an alphabet
// of size a, with segment length w. Each PAA value is mapped to the index
// of its breakpoint region and rendered as a lowercase letter starting at
// 'a'. A series shorter than w yields an empty word.
func Symbolize(db [][]float64, w, a int) ([]string, error) {
	cuts, ok := breakpoints[a]
	if !ok {
		return nil, ErrAlphabet
	}
	if w < 1 {
		return nil, ErrSegLen
	}
	words := make([]string, len(db))
	for i, series := range db {
		words[i] = symbolize(series, w, cuts)
	}
	return words, nil
}

func symbolize(series []float64, w int, cuts []float64) string {
	segments := PAA(series, w)
	var word strings.Builder
	word.Grow(len(segments))
	for _, segment := range segments {
		word.WriteByte('a' + byte(region(segment, cuts)))
	}
	return word.String()
}
