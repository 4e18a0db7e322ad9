package scene

import (
	"fmt"

	"github.com/jmylchreest/backdrop/internal/geometry"
)

// maxParentDepth bounds the ancestor walk during capture. A chain longer
// than this is treated as a parent-cycle invariant violation.
const maxParentDepth = 512

// Snapshot is an immutable record of one scene node, captured from the host
// graph for a single resolution. Fills and bounds are copied; no live host
// references are retained. Children and the shallow ancestor chain are
// populated by the intersection finder as it descends.
type Snapshot struct {
	ID      string
	Name    string
	Kind    NodeKind
	Visible bool
	Opacity float64
	Fills   []Fill
	Blend   BlendMode
	Bounds  *geometry.BBox

	// NestingLevel is the count of containers between the node and the
	// page. Restamped during flattening so it is relative to the captured
	// forest rather than the whole document.
	NestingLevel int

	// ZIndex is the node's position among its direct siblings,
	// bottom-most sibling first.
	ZIndex int

	// TreeVisible is the node's effective visibility: its own flag and
	// every ancestor's, resolved at capture time.
	TreeVisible bool

	// Selected marks the node the resolution is running for, so it can be
	// excluded from its own candidate set.
	Selected bool

	Parent   *Snapshot
	Children []*Snapshot
}

// Capture builds a Snapshot of n, marking it selected when its id matches
// selectedID. The parent chain is captured shallowly (fills and bounds, no
// children) up to the page root, which also yields the nesting level and the
// inherited visibility. Returns an error on a malformed parent chain.
func Capture(n Node, selectedID string) (*Snapshot, error) {
	snap := capture(n, selectedID)

	// Walk and snapshot the ancestor chain, stopping at the page root.
	level := 0
	cursor := snap
	for parent := n.Parent(); parent != nil && parent.Kind() != KindPage; parent = parent.Parent() {
		if level >= maxParentDepth {
			return nil, fmt.Errorf("node %s: parent chain exceeds %d levels, assuming a cycle", n.ID(), maxParentDepth)
		}
		level++
		cursor.Parent = capture(parent, selectedID)
		cursor = cursor.Parent
	}

	// Stamp nesting levels and inherited visibility outermost-first, so
	// each snapshot's TreeVisible covers exactly its own ancestor chain.
	chain := make([]*Snapshot, 0, level+1)
	for s := snap; s != nil; s = s.Parent {
		chain = append(chain, s)
	}
	visible := true
	for i := len(chain) - 1; i >= 0; i-- {
		s := chain[i]
		s.NestingLevel = len(chain) - 1 - i
		visible = visible && s.Visible
		s.TreeVisible = visible
	}

	return snap, nil
}

// CaptureShallow copies the node's own fields into a fresh Snapshot without
// walking the parent chain. Callers that descend the graph top-down stamp
// NestingLevel and TreeVisible from their own traversal state.
func CaptureShallow(n Node, selectedID string) *Snapshot {
	return capture(n, selectedID)
}

// capture copies the node's own fields into a fresh Snapshot.
func capture(n Node, selectedID string) *Snapshot {
	snap := &Snapshot{
		ID:          n.ID(),
		Name:        n.Name(),
		Kind:        n.Kind(),
		Visible:     n.Visible(),
		Opacity:     n.Opacity(),
		Blend:       n.Blend(),
		ZIndex:      siblingIndex(n),
		TreeVisible: n.Visible(),
		Selected:    selectedID != "" && n.ID() == selectedID,
	}

	// Hosts without a blend mode on this node (pages) render as normal.
	if snap.Blend == "" {
		snap.Blend = BlendNormal
	}

	if bounds, ok := n.Bounds(); ok {
		b := bounds
		snap.Bounds = &b
	}

	if fills := n.Fills(); len(fills) > 0 {
		snap.Fills = make([]Fill, len(fills))
		copy(snap.Fills, fills)
	}

	return snap
}

// siblingIndex returns the node's position within its parent's children,
// bottom-most sibling first. Nodes without a parent sit at index 0.
func siblingIndex(n Node) int {
	parent := n.Parent()
	if parent == nil {
		return 0
	}
	for i, sibling := range parent.Children() {
		if sibling.ID() == n.ID() {
			return i
		}
	}
	return 0
}

// SolidFill returns the top-most background-candidate fill on the snapshot.
// Fills are stored bottom-most first, so the scan runs from the end.
func (s *Snapshot) SolidFill() (Fill, bool) {
	for i := len(s.Fills) - 1; i >= 0; i-- {
		if s.Fills[i].IsCandidate() {
			return s.Fills[i], true
		}
	}
	return Fill{}, false
}

// HasBounds reports whether the snapshot carries a bounding box.
func (s *Snapshot) HasBounds() bool {
	return s.Bounds != nil
}
