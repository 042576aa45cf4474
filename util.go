package frm

import (
	"sort"

	mapsutil "github.com/projectdiscovery/utils/maps"
)

// sortedSeries returns the keys of an index map in ascending order.
// Aggregations over series are commutative, but iterating in a fixed
// order keeps float rounding identical across runs.
func sortedSeries(indexes map[int][]int) []int {
	series := mapsutil.GetKeys(indexes)
	sort.Ints(series)
	return series
}
