package resolver

import (
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/backdrop/internal/colour"
	"github.com/jmylchreest/backdrop/internal/geometry"
	"github.com/jmylchreest/backdrop/internal/scene"
)

// DefaultFallback is the fixed dark colour returned when every phase of the
// fallback chain comes up empty.
var DefaultFallback = colour.RGB{R: 30, G: 30, B: 30}

// maxAncestorLevels bounds the upward walk from intersecting nodes in the
// ancestor phase, the safety valve against pathological trees.
const maxAncestorLevels = 3

// Resolver is the decision core: an explicit fallback chain evaluated in
// order, where the first phase producing a concrete colour wins. Resolve
// never fails open; the fixed fallback colour is the terminal case.
type Resolver struct {
	provider scene.Provider
	finder   *Finder
	cache    *Cache
	log      hclog.Logger
	fallback colour.RGB
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the diagnostic logger. Resolution phases report their
// outcome at debug level.
func WithLogger(log hclog.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithCache attaches a resolution cache.
func WithCache(cache *Cache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithCacheTTL attaches a fresh resolution cache with the given TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		r.cache = NewCache(ttl)
	}
}

// WithFallback overrides the fixed fallback colour.
func WithFallback(c colour.RGB) Option {
	return func(r *Resolver) {
		r.fallback = c
	}
}

// New creates a Resolver over the given scene provider.
func New(provider scene.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		provider: provider,
		log:      hclog.NewNullLogger(),
		fallback: DefaultFallback,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.finder = NewFinder(provider, r.log)
	return r
}

// ResolveSelection resolves the background behind the provider's current
// selection. With nothing selected it returns the fixed fallback.
func (r *Resolver) ResolveSelection() Result {
	return r.Resolve(r.provider.Selection())
}

// Resolve determines the single solid colour that visually sits behind the
// selected node. It is total: every outcome, including an internal
// invariant violation, maps to a Result.
func (r *Resolver) Resolve(selected scene.Node) (result Result) {
	// An invariant violation inside one resolution (a cyclic parent
	// chain, a hostile provider) degrades to the fixed fallback rather
	// than surfacing to the caller.
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("resolution panicked, returning fallback", "panic", p)
			result = Result{Colour: r.fallback, Source: SourceFallback}
		}
	}()

	if selected == nil {
		r.log.Debug("nothing selected, returning fallback")
		return Result{Colour: r.fallback, Source: SourceFallback}
	}

	if r.cache != nil {
		r.cache.NoteSelection(selected.ID())
	}

	selSnap, err := r.selectedChain(selected)
	if err != nil {
		r.log.Error("failed to capture selection, returning fallback", "node", selected.ID(), "error", err)
		return Result{Colour: r.fallback, Source: SourceFallback}
	}

	// Phase 1: direct siblings behind the target, nearest first.
	if res, ok := r.resolveSibling(selected, selSnap); ok {
		r.log.Debug("background resolved", "node", selected.ID(), "source", res.Source, "colour", res.Hex())
		return res
	}

	// Phase 2: the immediate parent container.
	if res, ok := r.resolveParent(selected); ok {
		r.log.Debug("background resolved", "node", selected.ID(), "source", res.Source, "colour", res.Hex())
		return res
	}

	// Phases 3 and 4 work over the intersection set.
	set, err := r.intersections(selected)
	if err != nil {
		r.log.Error("intersection walk failed, falling through to page", "node", selected.ID(), "error", err)
		set = &IntersectionSet{Page: r.finder.pageSnapshot()}
	}
	candidates := Flatten(&IntersectionSet{Page: pruneIneligible(set.Page)})

	// Phase 3: intersecting nodes, topmost in compositing order first.
	if res, ok := r.resolveIntersecting(candidates, selSnap); ok {
		r.log.Debug("background resolved", "node", selected.ID(), "source", res.Source, "colour", res.Hex())
		return res
	}

	// Phase 4: ancestors of intersecting nodes that contain the target.
	if res, ok := r.resolveAncestors(candidates, selSnap); ok {
		r.log.Debug("background resolved", "node", selected.ID(), "source", res.Source, "colour", res.Hex())
		return res
	}

	// Phase 5: the page's own background paint.
	if fill, ok := r.provider.PageBackground(); ok && fill.IsCandidate() {
		r.log.Debug("background resolved", "node", selected.ID(), "source", SourcePage, "colour", fill.Colour.Hex())
		return Result{Colour: fill.Colour, Source: SourcePage}
	}

	// Phase 6: the terminal case.
	r.log.Debug("background resolved", "node", selected.ID(), "source", SourceFallback, "colour", r.fallback.Hex())
	return Result{Colour: r.fallback, Source: SourceFallback}
}

// selectedChain captures the selected node with its ancestor chain, through
// the cache when one is attached.
func (r *Resolver) selectedChain(selected scene.Node) (*scene.Snapshot, error) {
	if r.cache != nil {
		if chain, ok := r.cache.Chain(selected.ID()); ok {
			if _, live := r.provider.NodeByID(selected.ID()); live {
				return chain, nil
			}
			// The node has left the host graph; treat as a miss.
			r.cache.Clear()
		}
	}

	chain, err := scene.Capture(selected, selected.ID())
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.StoreChain(selected.ID(), chain)
	}
	return chain, nil
}

// intersections runs the finder, through the cache when one is attached. A
// cached set naming any node the host no longer knows is discarded.
func (r *Resolver) intersections(selected scene.Node) (*IntersectionSet, error) {
	if r.cache == nil {
		return r.finder.Find(selected)
	}

	if set, ok := r.cache.IntersectionSet(selected.ID()); ok {
		if r.setIsLive(set) {
			r.log.Debug("intersection cache hit", "node", selected.ID())
			return set, nil
		}
		r.log.Debug("intersection cache stale, recomputing", "node", selected.ID())
		r.cache.Clear()
	}

	set, err := r.finder.Find(selected)
	if err != nil {
		return nil, err
	}
	r.cache.StoreIntersectionSet(selected.ID(), set)
	return set, nil
}

// setIsLive reports whether every node in a cached set still resolves in
// the host graph.
func (r *Resolver) setIsLive(set *IntersectionSet) bool {
	live := true
	var visit func(s *scene.Snapshot)
	visit = func(s *scene.Snapshot) {
		if !live {
			return
		}
		if _, ok := r.provider.NodeByID(s.ID); !ok {
			live = false
			return
		}
		for _, child := range s.Children {
			visit(child)
		}
	}
	for _, child := range set.Page.Children {
		visit(child)
	}
	return live
}

// resolveSibling scans the target's direct siblings with a lower stacking
// position, nearest to the target first, for an eligible solid fill whose
// geometry intersects or fully encloses the target.
func (r *Resolver) resolveSibling(selected scene.Node, selSnap *scene.Snapshot) (Result, bool) {
	if selSnap.Bounds == nil {
		return Result{}, false
	}
	parent := selected.Parent()
	if parent == nil {
		return Result{}, false
	}

	siblings := parent.Children()
	selIdx := indexAmong(siblings, selected)

	for i := selIdx - 1; i >= 0; i-- {
		sibling := siblings[i]
		if !sibling.Visible() {
			continue
		}

		snap := scene.CaptureShallow(sibling, selected.ID())
		if !BlendEligible(snap.Blend) {
			continue
		}
		fill, ok := candidateFill(snap)
		if !ok {
			continue
		}
		if snap.Bounds == nil {
			continue
		}
		if !geometry.Intersects(*snap.Bounds, *selSnap.Bounds) && !geometry.Contains(*snap.Bounds, *selSnap.Bounds) {
			continue
		}

		return Result{Colour: fill.Colour, Source: SourceSibling}, true
	}

	return Result{}, false
}

// resolveParent takes the immediate parent container's solid fill, when the
// parent is a real container rather than the page.
func (r *Resolver) resolveParent(selected scene.Node) (Result, bool) {
	parent := selected.Parent()
	if parent == nil || parent.Kind() == scene.KindPage {
		return Result{}, false
	}

	snap := scene.CaptureShallow(parent, selected.ID())
	if !BlendEligible(snap.Blend) {
		return Result{}, false
	}
	fill, ok := candidateFill(snap)
	if !ok {
		return Result{}, false
	}

	return Result{Colour: fill.Colour, Source: SourceParent}, true
}

// resolveIntersecting scans the flattened candidates from topmost (last in
// sorted order) backward for the first eligible solid fill.
func (r *Resolver) resolveIntersecting(candidates []*scene.Snapshot, selSnap *scene.Snapshot) (Result, bool) {
	if selSnap.Bounds == nil {
		return Result{}, false
	}

	for i := len(candidates) - 1; i >= 0; i-- {
		snap := candidates[i]
		if snap.Selected || !snap.TreeVisible {
			continue
		}
		fill, ok := candidateFill(snap)
		if !ok {
			continue
		}

		return Result{Colour: fill.Colour, Source: SourceIntersecting}, true
	}

	return Result{}, false
}

// resolveAncestors walks up from each intersecting node, bounded to a few
// levels, for an eligible ancestor whose geometry contains the target. The
// walk stops early at an ancestor with an unsupported blend mode.
func (r *Resolver) resolveAncestors(candidates []*scene.Snapshot, selSnap *scene.Snapshot) (Result, bool) {
	if selSnap.Bounds == nil {
		return Result{}, false
	}

	for i := len(candidates) - 1; i >= 0; i-- {
		level := 0
		for ancestor := candidates[i].Parent; ancestor != nil && level < maxAncestorLevels; ancestor = ancestor.Parent {
			if ancestor.Kind == scene.KindPage {
				break
			}
			level++

			if !BlendEligible(ancestor.Blend) {
				// Anything above composites unpredictably; stop the walk.
				break
			}
			fill, ok := candidateFill(ancestor)
			if !ok {
				continue
			}
			if ancestor.Bounds == nil || !geometry.Contains(*ancestor.Bounds, *selSnap.Bounds) {
				continue
			}

			return Result{Colour: fill.Colour, Source: SourceAncestor}, true
		}
	}

	return Result{}, false
}
