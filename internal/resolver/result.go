package resolver

import "github.com/jmylchreest/backdrop/internal/colour"

// Source records which phase of the fallback chain produced a result. It is
// diagnostic only; callers must not branch on it.
type Source string

const (
	// SourceSibling: a direct sibling behind the target.
	SourceSibling Source = "sibling"

	// SourceParent: the target's immediate parent container.
	SourceParent Source = "parent"

	// SourceIntersecting: an intersecting node in compositing order.
	SourceIntersecting Source = "intersecting-node"

	// SourceAncestor: an ancestor of an intersecting node that contains
	// the target.
	SourceAncestor Source = "ancestor"

	// SourcePage: the page's own background paint.
	SourcePage Source = "page"

	// SourceFallback: the fixed default colour; the terminal case.
	SourceFallback Source = "fallback"
)

// Result is the outcome of one background resolution. Resolution is total:
// a Result is always produced and the fallback colour is the terminal case.
type Result struct {
	Colour colour.RGB `json:"color"`
	Source Source     `json:"source"`
}

// Hex returns the resolved colour as a hex string.
func (r Result) Hex() string {
	return r.Colour.Hex()
}
