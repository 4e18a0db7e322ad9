// Package resolver determines the single solid colour that sits behind a
// selected node once every intersecting layer around it is composited.
package resolver

import "github.com/jmylchreest/backdrop/internal/scene"

// Eligibility classifies a node's usability as a background source.
type Eligibility int

const (
	// Eligible means the node can provide a background colour.
	Eligible Eligibility = iota

	// IneligibleBlend means the node (or its winning fill) uses a blend
	// mode without a compositing rule the resolver can reason about. The
	// node and everything nested inside it are skipped.
	IneligibleBlend

	// NoSolidFill means the node carries no visible solid fill with
	// non-zero opacity, so it cannot provide a colour itself.
	NoSolidFill
)

// String returns the eligibility as a diagnostic label.
func (e Eligibility) String() string {
	switch e {
	case Eligible:
		return "eligible"
	case IneligibleBlend:
		return "ineligible-blend"
	case NoSolidFill:
		return "no-solid-fill"
	default:
		return "unknown"
	}
}

// blendEligible is the allow-list of blend modes with a compositing rule the
// resolver understands. Anything absent from the table is ineligible, which
// keeps modes added by future hosts out of consideration by default.
var blendEligible = map[scene.BlendMode]bool{
	scene.BlendNormal:      true,
	scene.BlendPassThrough: true,
	scene.BlendDarken:      true,
	scene.BlendMultiply:    true,
	scene.BlendColourBurn:  true,
	scene.BlendLighten:     true,
	scene.BlendScreen:      true,
	scene.BlendColourDodge: true,
	scene.BlendOverlay:     true,
	scene.BlendSoftLight:   true,
	scene.BlendHardLight:   true,
	scene.BlendDifference:  true,
	scene.BlendExclusion:   true,
	scene.BlendHue:         true,
	scene.BlendSaturation:  true,
	scene.BlendColour:      true,
	scene.BlendLuminosity:  true,

	scene.BlendLinearBurn:  false,
	scene.BlendLinearDodge: false,
}

// BlendEligible reports whether mode can be reasoned about as part of a
// compositing path. The empty mode counts as normal.
func BlendEligible(mode scene.BlendMode) bool {
	if mode == "" {
		return true
	}
	return blendEligible[mode]
}

// candidateFill returns the top-most fill on the snapshot that can serve as
// a background source, honouring per-fill visibility, opacity, paint kind
// and blend mode. Fills are stored bottom-most first.
func candidateFill(s *scene.Snapshot) (scene.Fill, bool) {
	for i := len(s.Fills) - 1; i >= 0; i-- {
		fill := s.Fills[i]
		if !fill.IsCandidate() {
			continue
		}
		if !BlendEligible(fill.Blend) {
			continue
		}
		return fill, true
	}
	return scene.Fill{}, false
}

// Classify returns the tri-state eligibility of a snapshot. The blend check
// runs first: a node whose own blend mode cannot be reasoned about is
// ineligible regardless of its fills.
func Classify(s *scene.Snapshot) Eligibility {
	if !BlendEligible(s.Blend) {
		return IneligibleBlend
	}
	if _, ok := candidateFill(s); !ok {
		return NoSolidFill
	}
	return Eligible
}

// pruneIneligible returns a copy of the forest with every blend-ineligible
// subtree removed. Snapshots are shared with the input; only the child
// slices are rebuilt, so cached sets are never mutated.
func pruneIneligible(root *scene.Snapshot) *scene.Snapshot {
	pruned := *root
	pruned.Children = nil
	for _, child := range root.Children {
		if !BlendEligible(child.Blend) {
			continue
		}
		pruned.Children = append(pruned.Children, pruneIneligible(child))
	}
	return &pruned
}
