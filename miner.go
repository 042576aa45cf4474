// Package frm mines frequent representative motifs from a database of
// real-valued time series of possibly unequal length. Series are
// discretised with SAX, frequent symbolic patterns are mined level-wise,
// and every surviving pattern is mapped back to a continuous prototype
// with one best-matching occurrence per series.
package frm

import (
	"sort"

	"github.com/projectdiscovery/gologger"
	errorutil "github.com/projectdiscovery/utils/errors"

	"github.com/steenrotsman/frm-miner/mining"
	"github.com/steenrotsman/frm-miner/sax"
)

// Defaults applied by Options.Validate when a value is left unset.
const (
	DefaultMinLen     = 3
	DefaultMaxOverlap = 0.9
)

// Miner Options
type Options struct {
	// MinSup is the minimum fraction of series a motif has to occur in,
	// in (0,1]
	MinSup float64 `yaml:"minsup"`
	// SegLen is the segment length for Piecewise Aggregate Approximation
	SegLen int `yaml:"seglen"`
	// Alphabet is the SAX alphabet size, between 2 and 10
	Alphabet int `yaml:"alphabet"`
	// MinLen is the minimal symbolic pattern length (default 3)
	MinLen int `yaml:"min-len"`
	// MaxLen is the maximal symbolic pattern length (0 = unbounded)
	MaxLen int `yaml:"max-len"`
	// MaxOverlap prunes a pattern when the fraction of it covered by the
	// longest common subsequence with a longer pattern exceeds this value
	// (default 0.9, 1 disables overlap pruning)
	MaxOverlap float64 `yaml:"max-overlap"`
	// TopK limits the number of motifs returned (0 = all)
	TopK int `yaml:"top-k"`
}

// Validate fills in defaults for unset values and errors out eagerly on
// values outside their documented ranges.
func (o *Options) Validate() error {
	if o.MinSup <= 0 || o.MinSup > 1 {
		return errorutil.NewWithTag("frm", "minsup must be in (0,1], got %v", o.MinSup)
	}
	if o.SegLen < 1 {
		return errorutil.NewWithTag("frm", "seglen must be a positive integer, got %v", o.SegLen)
	}
	if o.Alphabet < sax.MinAlphabet || o.Alphabet > sax.MaxAlphabet {
		return errorutil.NewWithTag("frm", "alphabet size must be between %v and %v, got %v", sax.MinAlphabet, sax.MaxAlphabet, o.Alphabet)
	}
	if o.MinLen == 0 {
		o.MinLen = DefaultMinLen
	}
	if o.MinLen < 1 {
		o.MinLen = 1
	}
	if o.MaxLen < 0 {
		o.MaxLen = 0
	}
	if o.MaxOverlap == 0 {
		o.MaxOverlap = DefaultMaxOverlap
	}
	if o.MaxOverlap < 0 || o.MaxOverlap > 1 {
		return errorutil.NewWithTag("frm", "max-overlap must be in (0,1], got %v", o.MaxOverlap)
	}
	if o.TopK < 0 {
		o.TopK = 0
	}
	return nil
}

// Miner runs the motif mining pipeline.
type Miner struct {
	Options *Options
	// Motifs holds the motifs found by the last call to Mine, ordered by
	// ascending NAED.
	Motifs []*Motif
}

// New creates and returns a new miner instance from options
func New(opts *Options) (*Miner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Miner{Options: opts}, nil
}

// Mine runs the full pipeline on a database of time series: standardize,
// discretise, mine frequent patterns, materialize them as motifs, and
// rank them by ascending NAED. An empty database or an absence of
// frequent patterns yields an empty slice, not an error.
func (m *Miner) Mine(db [][]float64) ([]*Motif, error) {
	standardized := sax.Standardize(db)
	sequences, err := sax.Symbolize(standardized, m.Options.SegLen, m.Options.Alphabet)
	if err != nil {
		return nil, err
	}

	pm, err := mining.NewPatternMiner(m.Options.MinSup, m.Options.MinLen, m.Options.MaxLen, m.Options.MaxOverlap)
	if err != nil {
		return nil, err
	}
	patterns := pm.Mine(sequences)
	gologger.Verbose().Msgf("mined %d frequent patterns from %d series", len(patterns), len(db))

	motifs := make([]*Motif, 0, len(patterns))
	for _, pattern := range patterns {
		motif := newMotif(pattern, m.Options.SegLen)
		motif.materialize(standardized)
		motifs = append(motifs, motif)
	}

	// ties on NAED are broken by pattern string so runs are reproducible
	sort.SliceStable(motifs, func(a, b int) bool {
		if motifs[a].NAED != motifs[b].NAED {
			return motifs[a].NAED < motifs[b].NAED
		}
		return motifs[a].Pattern < motifs[b].Pattern
	})

	if m.Options.TopK > 0 && m.Options.TopK < len(motifs) {
		motifs = motifs[:m.Options.TopK]
	}
	m.Motifs = motifs
	return motifs, nil
}
