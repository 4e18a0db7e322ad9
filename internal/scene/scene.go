// Package scene defines the read-only scene-graph contract the resolver
// depends on, the immutable snapshot records it works over, and a file-backed
// document implementation for driving the resolver without a live host.
package scene

import (
	"github.com/jmylchreest/backdrop/internal/colour"
	"github.com/jmylchreest/backdrop/internal/geometry"
)

// NodeKind identifies the kind of a scene-graph node.
type NodeKind string

const (
	KindPage  NodeKind = "page"
	KindFrame NodeKind = "frame"
	KindGroup NodeKind = "group"
	KindShape NodeKind = "shape"
	KindText  NodeKind = "text"
)

// BlendMode is the rule governing how a layer's colour combines with what is
// beneath it. The zero value is treated as BlendNormal.
type BlendMode string

const (
	BlendNormal      BlendMode = "normal"
	BlendPassThrough BlendMode = "pass-through"
	BlendDarken      BlendMode = "darken"
	BlendMultiply    BlendMode = "multiply"
	BlendColourBurn  BlendMode = "colour-burn"
	BlendLighten     BlendMode = "lighten"
	BlendScreen      BlendMode = "screen"
	BlendColourDodge BlendMode = "colour-dodge"
	BlendOverlay     BlendMode = "overlay"
	BlendSoftLight   BlendMode = "soft-light"
	BlendHardLight   BlendMode = "hard-light"
	BlendDifference  BlendMode = "difference"
	BlendExclusion   BlendMode = "exclusion"
	BlendHue         BlendMode = "hue"
	BlendSaturation  BlendMode = "saturation"
	BlendColour      BlendMode = "colour"
	BlendLuminosity  BlendMode = "luminosity"

	// The linear variants have no compositing rule the resolver can reason
	// about; nodes carrying them are never valid background sources.
	BlendLinearBurn  BlendMode = "linear-burn"
	BlendLinearDodge BlendMode = "linear-dodge"
)

// PaintKind identifies the kind of paint a fill carries.
type PaintKind string

const (
	PaintSolid    PaintKind = "solid"
	PaintGradient PaintKind = "gradient"
	PaintImage    PaintKind = "image"
	PaintVideo    PaintKind = "video"
)

// Fill is one paint on a node. Only solid, visible fills with non-zero
// opacity are eligible background sources.
type Fill struct {
	Kind    PaintKind
	Colour  colour.RGB
	Visible bool
	Opacity float64
	Blend   BlendMode
}

// IsCandidate reports whether the fill can serve as a background source:
// a visible solid paint with opacity above zero.
func (f Fill) IsCandidate() bool {
	return f.Kind == PaintSolid && f.Visible && f.Opacity > 0
}

// Node is one node in the host scene graph. Implementations are owned by the
// host; the resolver only ever reads through this interface.
type Node interface {
	// ID returns the host's stable identity for the node.
	ID() string

	// Name returns the node's display name.
	Name() string

	// Kind returns the node kind.
	Kind() NodeKind

	// Visible returns the node's own visibility flag. Visibility of
	// ancestors is not folded in; callers walk the parent chain.
	Visible() bool

	// Opacity returns the node's layer opacity in [0, 1].
	Opacity() float64

	// Fills returns the node's paints, bottom-most first.
	Fills() []Fill

	// Blend returns the node's blend mode. An empty value means the host
	// exposes none (e.g. a page) and is treated as normal.
	Blend() BlendMode

	// Bounds returns the node's axis-aligned bounding box in document
	// space. The second result is false for detached or unbounded nodes,
	// which never intersect anything.
	Bounds() (geometry.BBox, bool)

	// Parent returns the parent node, or nil at the document root.
	Parent() Node

	// Children returns the node's children in paint order, bottom-most
	// sibling first.
	Children() []Node
}

// Provider is the narrow host boundary the resolver depends on. A Provider
// is a stable read for the duration of one resolution; the resolver never
// mutates it.
type Provider interface {
	// Selection returns the currently selected node, or nil.
	Selection() Node

	// PageChildren returns the page's root-level nodes in paint order.
	PageChildren() []Node

	// PageBackground returns the page's own background paint, if any.
	PageBackground() (Fill, bool)

	// NodeByID looks a node up by identity. A failed lookup signals that
	// cached state referring to the id is stale.
	NodeByID(id string) (Node, bool)
}
