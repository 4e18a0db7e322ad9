package resolver

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/backdrop/internal/geometry"
	"github.com/jmylchreest/backdrop/internal/scene"
)

// maxWalkDepth bounds recursion into the host graph. A deeper tree is
// treated as an invariant violation (cyclic children) rather than walked.
const maxWalkDepth = 512

// IntersectionSet is the forest of snapshots that could sit behind one
// selection, rooted at a synthetic page snapshot so the page's own fill is
// always a reachable candidate.
type IntersectionSet struct {
	Page *scene.Snapshot
}

// Len returns the number of collected snapshots, excluding the page root.
func (set *IntersectionSet) Len() int {
	count := 0
	var visit func(s *scene.Snapshot)
	visit = func(s *scene.Snapshot) {
		count++
		for _, child := range s.Children {
			visit(child)
		}
	}
	for _, child := range set.Page.Children {
		visit(child)
	}
	return count
}

// Finder walks the page forest and collects every node whose geometry
// overlaps a selection and whose stacking position allows it to sit behind
// that selection.
type Finder struct {
	provider scene.Provider
	log      hclog.Logger
}

// NewFinder creates a Finder over the given provider.
func NewFinder(provider scene.Provider, log hclog.Logger) *Finder {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Finder{provider: provider, log: log}
}

// Find produces the intersection set for the selected node. The search
// universe is bounded at every nesting level: inside any container on the
// selected node's ancestor path, only children at or before the path child's
// sibling position are examined, since later siblings render in front of the
// selection and can never be its background.
func (f *Finder) Find(selected scene.Node) (*IntersectionSet, error) {
	set := &IntersectionSet{Page: f.pageSnapshot()}

	selBounds, ok := selected.Bounds()
	if !ok {
		// A selection without geometry intersects nothing; the set still
		// carries the page so the fallback chain has its last resort.
		f.log.Debug("selection has no bounding box, skipping intersection walk", "node", selected.ID())
		return set, nil
	}

	limits, err := f.pathLimits(selected)
	if err != nil {
		return nil, err
	}

	walk := walkState{
		finder:     f,
		selectedID: selected.ID(),
		selBounds:  selBounds,
		limits:     limits,
	}
	if err := walk.descend(f.provider.PageChildren(), limitFor(limits, "", true), set.Page, 0); err != nil {
		return nil, err
	}

	f.log.Debug("intersection walk complete", "node", selected.ID(), "candidates", set.Len())
	return set, nil
}

// pageSnapshot builds the synthetic page root for an intersection set.
func (f *Finder) pageSnapshot() *scene.Snapshot {
	snap := &scene.Snapshot{
		ID:          "page",
		Name:        "page",
		Kind:        scene.KindPage,
		Visible:     true,
		TreeVisible: true,
		Opacity:     1,
		Blend:       scene.BlendNormal,
	}
	if fill, ok := f.provider.PageBackground(); ok {
		snap.Fills = []scene.Fill{fill}
	}
	return snap
}

// pathLimits maps each container on the selected node's ancestor path to the
// sibling index of the path child inside it. The page level is keyed by the
// empty string, since the page may sit outside the Parent chain entirely.
func (f *Finder) pathLimits(selected scene.Node) (map[string]int, error) {
	limits := make(map[string]int)
	cursor := selected
	for depth := 0; ; depth++ {
		if depth >= maxWalkDepth {
			return nil, fmt.Errorf("node %s: ancestor path exceeds %d levels, assuming a cycle", selected.ID(), maxWalkDepth)
		}

		parent := cursor.Parent()
		if parent == nil {
			// Hosts that expose no page node leave root-level nodes
			// without a parent; their position among the page children
			// bounds the root-level scan.
			limits[""] = indexAmong(f.provider.PageChildren(), cursor)
			break
		}

		idx := indexAmong(parent.Children(), cursor)
		if parent.Kind() == scene.KindPage {
			limits[""] = idx
			break
		}
		limits[parent.ID()] = idx
		cursor = parent
	}
	return limits, nil
}

// indexAmong returns n's position within siblings, or 0 when absent.
func indexAmong(siblings []scene.Node, n scene.Node) int {
	for i, sibling := range siblings {
		if sibling.ID() == n.ID() {
			return i
		}
	}
	return 0
}

// limitFor resolves the sibling upper bound for a container. Containers off
// the ancestor path are scanned in full.
func limitFor(limits map[string]int, containerID string, isPage bool) int {
	key := containerID
	if isPage {
		key = ""
	}
	if limit, ok := limits[key]; ok {
		return limit
	}
	return -1
}

// walkState carries the per-resolution parameters of the recursive walk.
type walkState struct {
	finder     *Finder
	selectedID string
	selBounds  geometry.BBox
	limits     map[string]int
}

// descend examines nodes bottom-most first, collecting every visible node
// that intersects the selection and recursing into its children. limit is
// the highest sibling index to examine, or -1 for no bound.
func (w *walkState) descend(nodes []scene.Node, limit int, parent *scene.Snapshot, depth int) error {
	if depth >= maxWalkDepth {
		return fmt.Errorf("scene walk exceeds %d levels, assuming a cycle", maxWalkDepth)
	}

	if limit < 0 || limit >= len(nodes) {
		limit = len(nodes) - 1
	}

	for i := 0; i <= limit; i++ {
		node := nodes[i]

		// The selection and anything nested inside it render in front of
		// the selection; neither belongs to the candidate set.
		if node.ID() == w.selectedID {
			continue
		}

		// Visibility is inherited: an invisible node hides its whole
		// subtree regardless of geometry.
		if !node.Visible() {
			continue
		}

		bounds, ok := node.Bounds()
		if !ok {
			// No bounding box never matches, and a container we cannot
			// place cannot have placeable content behind the selection.
			continue
		}
		if !geometry.Intersects(bounds, w.selBounds) {
			continue
		}

		snap := scene.CaptureShallow(node, w.selectedID)
		snap.ZIndex = i
		snap.NestingLevel = parent.NestingLevel + 1
		snap.TreeVisible = parent.TreeVisible && node.Visible()
		snap.Parent = parent
		parent.Children = append(parent.Children, snap)

		childLimit := limitFor(w.limits, node.ID(), false)
		if err := w.descend(node.Children(), childLimit, snap, depth+1); err != nil {
			return err
		}
	}

	return nil
}
