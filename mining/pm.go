// Package mining implements level-wise frequent pattern mining over
// symbolic sequences with position-tracking support counts.
package mining

import (
	"math"
	"sort"

	"github.com/projectdiscovery/utils/errkit"
	mapsutil "github.com/projectdiscovery/utils/maps"
	sliceutil "github.com/projectdiscovery/utils/slice"
)

var (
	ErrMinSup = errkit.New("minimum support must be in (0,1]")
)

// Pattern is a frequent symbolic pattern together with every position at
// which it occurs across the sequence database.
type Pattern struct {
	// Seq is the symbolic string form of the pattern.
	Seq string
	// Indexes maps a sequence index to the ascending start positions of
	// every occurrence of Seq in that sequence.
	Indexes map[int][]int
}

func newPattern(seq string) *Pattern {
	return &Pattern{Seq: seq, Indexes: make(map[int][]int)}
}

// recordIndex records an occurrence of the pattern in sequence i at
// position j. Callers scan left to right, so positions stay ascending.
func (p *Pattern) recordIndex(i, j int) {
	p.Indexes[i] = append(p.Indexes[i], j)
}

// Support returns the number of distinct sequences containing the pattern.
func (p *Pattern) Support() int {
	return len(p.Indexes)
}

// Series returns the indexes of all containing sequences in ascending order.
func (p *Pattern) Series() []int {
	series := mapsutil.GetKeys(p.Indexes)
	sort.Ints(series)
	return series
}

// PatternMiner mines frequent patterns from a collection of symbolic
// sequences. Candidates of length k are generated by joining frequent
// (k-1)-patterns and counted only at the positions their parent occurs at.
type PatternMiner struct {
	minsup     float64
	minLen     int
	maxLen     int
	maxOverlap float64

	// frequent maps pattern strings to their position records
	frequent map[string]*Pattern
	// levels[k] lists frequent patterns of length k in discovery order
	levels  [][]string
	minFreq int
	k       int
}

// NewPatternMiner creates a pattern miner. A pattern is frequent when it
// occurs in at least ⌈minsup·N⌉ of the N sequences. minLen values below 1
// are clamped to 1; maxLen 0 leaves the pattern length unbounded;
// maxOverlap values of 1 and above disable overlap pruning.
func NewPatternMiner(minsup float64, minLen, maxLen int, maxOverlap float64) (*PatternMiner, error) {
	if minsup <= 0 || minsup > 1 {
		return nil, ErrMinSup
	}
	if minLen < 1 {
		minLen = 1
	}
	return &PatternMiner{
		minsup:     minsup,
		minLen:     minLen,
		maxLen:     maxLen,
		maxOverlap: maxOverlap,
	}, nil
}

// Mine returns all frequent patterns in the sequences that survive the
// length filter and overlap pruning. Every returned pattern carries the
// complete set of its occurrence positions.
func (pm *PatternMiner) Mine(sequences []string) []*Pattern {
	pm.frequent = make(map[string]*Pattern)
	pm.levels = [][]string{{}, {}}
	pm.minFreq = int(math.Ceil(pm.minsup * float64(len(sequences))))

	pm.mineSingles(sequences)

	// no frequent k-patterns means no frequent (k+1)-patterns can exist
	for pm.k = 2; len(pm.levels[pm.k-1]) > 0 && (pm.maxLen == 0 || pm.k <= pm.maxLen); pm.k++ {
		pm.levels = append(pm.levels, nil)
		for _, candidate := range pm.candidates() {
			pattern := newPattern(candidate)
			parent := pm.frequent[candidate[:pm.k-1]]
			for _, i := range parent.Series() {
				sequence := sequences[i]
				for _, j := range parent.Indexes[i] {
					if j+pm.k <= len(sequence) && sequence[j:j+pm.k] == candidate {
						pattern.recordIndex(i, j)
					}
				}
			}
			pm.keepFrequent(pattern)
		}
	}

	return pm.removeRedundant()
}

// mineSingles makes one scan over the sequences to record the positions of
// every 1-pattern before pruning the infrequent ones.
func (pm *PatternMiner) mineSingles(sequences []string) {
	singles := make(map[string]*Pattern)
	for i, sequence := range sequences {
		for j := 0; j < len(sequence); j++ {
			symbol := sequence[j : j+1]
			pattern, ok := singles[symbol]
			if !ok {
				pattern = newPattern(symbol)
				singles[symbol] = pattern
			}
			pattern.recordIndex(i, j)
		}
	}

	symbols := mapsutil.GetKeys(singles)
	sort.Strings(symbols)
	for _, symbol := range symbols {
		pm.keepFrequent(singles[symbol])
	}
}

// candidates joins frequent (k-1)-patterns p1, p2 with p1[1:] == p2[:k-2]
// into candidate k-patterns. The same candidate string can be produced by
// different parent pairs, so the list is deduplicated before counting.
func (pm *PatternMiner) candidates() []string {
	prev := pm.levels[pm.k-1]
	var joined []string
	for _, p1 := range prev {
		for _, p2 := range prev {
			if p1[1:] == p2[:len(p2)-1] {
				joined = append(joined, p1+p2[len(p2)-1:])
			}
		}
	}
	return sliceutil.Dedupe(joined)
}

// keepFrequent registers a pattern when it meets the support threshold.
func (pm *PatternMiner) keepFrequent(p *Pattern) {
	if p.Support() < pm.minFreq {
		return
	}
	pm.frequent[p.Seq] = p
	pm.levels[len(p.Seq)] = append(pm.levels[len(p.Seq)], p.Seq)
}

// removeRedundant drops patterns shorter than the minimum length and, when
// overlap pruning is enabled, prunes every pattern that mostly consists of
// a longest common subsequence shared with a longer surviving pattern. The
// longer pattern always wins; ties are broken lexicographically.
func (pm *PatternMiner) removeRedundant() []*Pattern {
	kept := make([]string, 0, len(pm.frequent))
	for seq := range pm.frequent {
		if len(seq) >= pm.minLen {
			kept = append(kept, seq)
		}
	}
	sort.Slice(kept, func(a, b int) bool {
		if len(kept[a]) != len(kept[b]) {
			return len(kept[a]) > len(kept[b])
		}
		return kept[a] < kept[b]
	})

	if pm.maxOverlap < 1 {
		pruned := make(map[string]struct{})
		for x, p1 := range kept {
			if _, ok := pruned[p1]; ok {
				continue
			}
			for _, p2 := range kept[x+1:] {
				if _, ok := pruned[p2]; ok {
					continue
				}
				if float64(LCS(p1, p2))/float64(len(p2)) > pm.maxOverlap {
					pruned[p2] = struct{}{}
				}
			}
		}
		surviving := kept[:0]
		for _, seq := range kept {
			if _, ok := pruned[seq]; !ok {
				surviving = append(surviving, seq)
			}
		}
		kept = surviving
	}

	patterns := make([]*Pattern, 0, len(kept))
	for _, seq := range kept {
		patterns = append(patterns, pm.frequent[seq])
	}
	return patterns
}
