package resolver

import (
	"sort"

	"github.com/jmylchreest/backdrop/internal/scene"
)

// Flatten turns an intersection forest into a single list ordered by
// compositing priority: earlier entries sit farther back, later entries
// closer to the viewer. Each snapshot's nesting level is restamped during
// the pre-order traversal so it is relative to this forest's root rather
// than the whole document.
//
// The sort is a two-key comparator: nesting level descending, then the
// sibling index magnitude descending. This is a deliberate approximation of
// paint order; true stacking across disjoint branches is not determinable
// from local indices alone, so ties keep their traversal order, which is why
// the sort must be stable.
func Flatten(set *IntersectionSet) []*scene.Snapshot {
	var flat []*scene.Snapshot

	var visit func(s *scene.Snapshot, level int)
	visit = func(s *scene.Snapshot, level int) {
		s.NestingLevel = level
		flat = append(flat, s)
		for _, child := range s.Children {
			visit(child, level+1)
		}
	}
	for _, child := range set.Page.Children {
		visit(child, 0)
	}

	sort.SliceStable(flat, func(i, j int) bool {
		a, b := flat[i], flat[j]
		if a.NestingLevel != b.NestingLevel {
			return a.NestingLevel > b.NestingLevel
		}
		return abs(a.ZIndex) > abs(b.ZIndex)
	})

	return flat
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
