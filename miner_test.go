package frm

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB = [][]float64{
	{0, 1, 2, 2, 1, 0},
	{0, 0, 1, 1, 0, 0},
	{2, 1, 1, 0, 0, 0},
	{2, 1, 0, 0, 1, 2},
	{0, 1, 0, 1, 0, 1},
}

func testOptions() *Options {
	return &Options{
		MinSup:     0.5,
		SegLen:     1,
		Alphabet:   3,
		MinLen:     1,
		MaxOverlap: 1,
	}
}

func motifPatterns(motifs []*Motif) []string {
	patterns := make([]string, len(motifs))
	for x, motif := range motifs {
		patterns[x] = motif.Pattern
	}
	sort.Strings(patterns)
	return patterns
}

func TestMinerSeedDatabase(t *testing.T) {
	m, err := New(testOptions())
	require.Nil(t, err)
	motifs, err := m.Mine(testDB)
	require.Nil(t, err)
	require.Equal(t, []string{"a", "aa", "c", "ca", "cc"}, motifPatterns(motifs))

	minFreq := int(math.Ceil(0.5 * float64(len(testDB))))
	for _, motif := range motifs {
		// support invariant
		assert.GreaterOrEqual(t, motif.Support(), minFreq, motif.Pattern)
		// prototype shape
		require.Len(t, motif.Prototype, len(motif.Pattern)*m.Options.SegLen)
		require.Equal(t, len(motif.Pattern)*m.Options.SegLen, motif.Length)
		// best match keys are a subset of index keys
		for i := range motif.BestMatches {
			require.Contains(t, motif.Indexes, i)
		}
		for _, indexes := range motif.Indexes {
			require.NotEmpty(t, indexes)
			require.True(t, sort.IntsAreSorted(indexes))
		}
	}

	// motifs are ranked by ascending naed
	for x := 1; x < len(motifs); x++ {
		require.LessOrEqual(t, motifs[x-1].NAED, motifs[x].NAED)
	}
}

func TestMinerMaxLen(t *testing.T) {
	opts := testOptions()
	opts.MaxLen = 1
	m, err := New(opts)
	require.Nil(t, err)
	motifs, err := m.Mine(testDB)
	require.Nil(t, err)
	require.Equal(t, []string{"a", "c"}, motifPatterns(motifs))
}

func TestMinerBestMatchIsMinimal(t *testing.T) {
	m, err := New(testOptions())
	require.Nil(t, err)
	motifs, err := m.Mine(testDB)
	require.Nil(t, err)

	standardized := make([][]float64, len(testDB))
	for i := range testDB {
		standardized[i] = standardizeSeries(testDB[i])
	}

	for _, motif := range motifs {
		for _, i := range motif.Series() {
			chosen := motif.BestMatches[i] / m.Options.SegLen
			best := distanceAt(standardized[i], motif, chosen)
			for _, j := range motif.Indexes[i] {
				assert.LessOrEqual(t, best, distanceAt(standardized[i], motif, j)+1e-12)
			}
		}
	}
}

func distanceAt(series []float64, motif *Motif, j int) float64 {
	occurrence := motif.occurrence(series, j)
	var sum float64
	for x := range occurrence {
		d := occurrence[x] - motif.Prototype[x]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func standardizeSeries(series []float64) []float64 {
	var mean float64
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))
	var variance float64
	for _, v := range series {
		variance += (v - mean) * (v - mean)
	}
	std := math.Sqrt(variance / float64(len(series)))
	out := make([]float64, len(series))
	for x, v := range series {
		out[x] = (v - mean) / std
	}
	return out
}

func TestMinerIdempotent(t *testing.T) {
	m, err := New(testOptions())
	require.Nil(t, err)
	first, err := m.Mine(testDB)
	require.Nil(t, err)
	second, err := m.Mine(testDB)
	require.Nil(t, err)

	require.Len(t, second, len(first))
	for x := range first {
		require.Equal(t, first[x].Pattern, second[x].Pattern)
		require.Equal(t, first[x].Indexes, second[x].Indexes)
		require.Equal(t, first[x].BestMatches, second[x].BestMatches)
		require.Equal(t, first[x].Prototype, second[x].Prototype)
		require.Equal(t, first[x].NAED, second[x].NAED)
	}
}

func TestMinerTopK(t *testing.T) {
	m, err := New(testOptions())
	require.Nil(t, err)
	all, err := m.Mine(testDB)
	require.Nil(t, err)

	opts := testOptions()
	opts.TopK = 2
	m, err = New(opts)
	require.Nil(t, err)
	top, err := m.Mine(testDB)
	require.Nil(t, err)
	require.Len(t, top, 2)
	for x := range top {
		require.Equal(t, all[x].Pattern, top[x].Pattern)
	}

	// k larger than the motif count returns everything
	opts = testOptions()
	opts.TopK = 1000
	m, err = New(opts)
	require.Nil(t, err)
	top, err = m.Mine(testDB)
	require.Nil(t, err)
	require.Len(t, top, len(all))
}

func TestMinerEmptyDatabase(t *testing.T) {
	m, err := New(testOptions())
	require.Nil(t, err)
	motifs, err := m.Mine(nil)
	require.Nil(t, err)
	require.Empty(t, motifs)
}

func TestMinerShortSeriesAreLegal(t *testing.T) {
	opts := testOptions()
	opts.SegLen = 4
	m, err := New(opts)
	require.Nil(t, err)
	// both series are shorter than the segment length, so the symbolic
	// database is empty
	motifs, err := m.Mine([][]float64{{1, 2}, {3, 4}})
	require.Nil(t, err)
	require.Empty(t, motifs)
}

func TestOptionsValidate(t *testing.T) {
	cases := []Options{
		{MinSup: 0, SegLen: 1, Alphabet: 3},
		{MinSup: -1, SegLen: 1, Alphabet: 3},
		{MinSup: 1.5, SegLen: 1, Alphabet: 3},
		{MinSup: 0.5, SegLen: 0, Alphabet: 3},
		{MinSup: 0.5, SegLen: 1, Alphabet: 1},
		{MinSup: 0.5, SegLen: 1, Alphabet: 11},
		{MinSup: 0.5, SegLen: 1, Alphabet: 3, MaxOverlap: 1.5},
		{MinSup: 0.5, SegLen: 1, Alphabet: 3, MaxOverlap: -0.1},
	}
	for _, opts := range cases {
		_, err := New(&opts)
		require.NotNil(t, err, "%+v", opts)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := &Options{MinSup: 0.5, SegLen: 2, Alphabet: 4}
	require.Nil(t, opts.Validate())
	require.Equal(t, DefaultMinLen, opts.MinLen)
	require.Equal(t, DefaultMaxOverlap, opts.MaxOverlap)

	opts = &Options{MinSup: 0.5, SegLen: 2, Alphabet: 4, MinLen: -2, TopK: -1}
	require.Nil(t, opts.Validate())
	require.Equal(t, 1, opts.MinLen)
	require.Equal(t, 0, opts.TopK)
}
