package resolver

import (
	"path/filepath"
	"testing"

	"github.com/jmylchreest/backdrop/internal/colour"
	"github.com/jmylchreest/backdrop/internal/geometry"
	"github.com/jmylchreest/backdrop/internal/scene"
)

// mustScene parses a JSON scene document or fails the test.
func mustScene(t *testing.T, src string) *scene.Document {
	t.Helper()
	doc, err := scene.Parse([]byte(src), scene.FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

// resolve runs a full resolution over the document's selection.
func resolve(t *testing.T, doc *scene.Document, opts ...Option) Result {
	t.Helper()
	return New(doc, opts...).ResolveSelection()
}

func TestResolveSibling(t *testing.T) {
	// Red below the selection, green above it. Only the layer behind
	// counts.
	doc := mustScene(t, `{
		"selection": "target",
		"page": {
			"background": "#ffffff",
			"children": [
				{"id": "under", "bounds": {"x": 0, "y": 0, "w": 100, "h": 100},
					"fills": [{"color": "#ff0000"}]},
				{"id": "target", "bounds": {"x": 50, "y": 50, "w": 100, "h": 100}},
				{"id": "over", "bounds": {"x": 60, "y": 60, "w": 100, "h": 100},
					"fills": [{"color": "#00ff00"}]}
			]
		}
	}`)

	res := resolve(t, doc)
	if res.Source != SourceSibling {
		t.Errorf("source = %s, want %s", res.Source, SourceSibling)
	}
	if res.Hex() != "#ff0000" {
		t.Errorf("colour = %s, want #ff0000", res.Hex())
	}
}

func TestResolveSiblingNearestFirst(t *testing.T) {
	doc := mustScene(t, `{
		"selection": "target",
		"page": {
			"children": [
				{"id": "far", "bounds": {"x": 0, "y": 0, "w": 100, "h": 100},
					"fills": [{"color": "#0000ff"}]},
				{"id": "near", "bounds": {"x": 0, "y": 0, "w": 100, "h": 100},
					"fills": [{"color": "#ff0000"}]},
				{"id": "target", "bounds": {"x": 10, "y": 10, "w": 20, "h": 20}}
			]
		}
	}`)

	res := resolve(t, doc)
	if res.Source != SourceSibling || res.Hex() != "#ff0000" {
		t.Errorf("got %s from %s, want #ff0000 from the nearest sibling", res.Hex(), res.Source)
	}
}

func TestResolveSiblingSkipsNonOverlapping(t *testing.T) {
	// The lower sibling sits entirely to the left of the selection, so
	// the chain falls through to the page.
	doc := mustScene(t, `{
		"selection": "target",
		"page": {
			"background": "#336699",
			"children": [
				{"id": "aside", "bounds": {"x": 0, "y": 0, "w": 40, "h": 40},
					"fills": [{"color": "#ff0000"}]},
				{"id": "target", "bounds": {"x": 100, "y": 100, "w": 20, "h": 20}}
			]
		}
	}`)

	res := resolve(t, doc)
	if res.Source != SourcePage || res.Hex() != "#336699" {
		t.Errorf("got %s from %s, want #336699 from the page", res.Hex(), res.Source)
	}
}

func TestResolveParent(t *testing.T) {
	// A text node sitting first inside a filled frame has no sibling
	// behind it; the frame itself is the background.
	doc := mustScene(t, `{
		"selection": "title",
		"page": {
			"background": "#ffffff",
			"children": [
				{"id": "hero", "kind": "frame",
					"bounds": {"x": 0, "y": 0, "w": 800, "h": 400},
					"fills": [{"color": "#1e1e1e"}],
					"children": [
						{"id": "title", "kind": "text",
							"bounds": {"x": 40, "y": 40, "w": 300, "h": 60}},
						{"id": "badge",
							"bounds": {"x": 700, "y": 20, "w": 60, "h": 60},
							"fills": [{"color": "rebeccapurple"}]}
					]}
			]
		}
	}`)

	res := resolve(t, doc)
	if res.Source != SourceParent {
		t.Errorf("source = %s, want %s", res.Source, SourceParent)
	}
	if res.Hex() != "#1e1e1e" {
		t.Errorf("colour = %s, want #1e1e1e", res.Hex())
	}
}

func TestResolveIntersecting(t *testing.T) {
	// The selection lives in a fill-less group; the colour comes from a
	// shape in the sibling branch behind it.
	doc := mustScene(t, `{
		"selection": "target",
		"page": {
			"children": [
				{"id": "backdrop", "kind": "frame",
					"bounds": {"x": 0, "y": 0, "w": 200, "h": 200},
					"children": [
						{"id": "wash", "bounds": {"x": 0, "y": 0, "w": 200, "h": 200},
							"fills": [{"color": "#abcdef"}]}
					]},
				{"id": "wrapper", "kind": "group",
					"bounds": {"x": 40, "y": 40, "w": 60, "h": 60},
					"children": [
						{"id": "target", "bounds": {"x": 50, "y": 50, "w": 20, "h": 20}}
					]}
			]
		}
	}`)

	res := resolve(t, doc)
	if res.Source != SourceIntersecting {
		t.Errorf("source = %s, want %s", res.Source, SourceIntersecting)
	}
	if res.Hex() != "#abcdef" {
		t.Errorf("colour = %s, want #abcdef", res.Hex())
	}
}

func TestResolveExcludesSelf(t *testing.T) {
	// The selection's own fill must never be its background.
	doc := mustScene(t, `{
		"selection": "target",
		"page": {
			"background": "#445566",
			"children": [
				{"id": "target", "bounds": {"x": 0, "y": 0, "w": 50, "h": 50},
					"fills": [{"color": "#ff0000"}]}
			]
		}
	}`)

	res := resolve(t, doc)
	if res.Source != SourcePage || res.Hex() != "#445566" {
		t.Errorf("got %s from %s, want the page background", res.Hex(), res.Source)
	}
}

func TestResolveSkipsHiddenSibling(t *testing.T) {
	doc := mustScene(t, `{
		"selection": "target",
		"page": {
			"background": "#ffffff",
			"children": [
				{"id": "hidden", "visible": false,
					"bounds": {"x": 0, "y": 0, "w": 100, "h": 100},
					"fills": [{"color": "#ff0000"}]},
				{"id": "target", "bounds": {"x": 10, "y": 10, "w": 20, "h": 20}}
			]
		}
	}`)

	res := resolve(t, doc)
	if res.Source != SourcePage {
		t.Errorf("source = %s, want %s", res.Source, SourcePage)
	}
}

func TestResolveSkipsHiddenBranch(t *testing.T) {
	// Visibility is inherited: a visible shape inside a hidden frame is
	// never a candidate, even when its geometry matches.
	doc := mustScene(t, `{
		"selection": "target",
		"page": {
			"background": "#101010",
			"children": [
				{"id": "ghostframe", "kind": "frame", "visible": false,
					"bounds": {"x": 0, "y": 0, "w": 200, "h": 200},
					"children": [
						{"id": "ghost", "bounds": {"x": 0, "y": 0, "w": 200, "h": 200},
							"fills": [{"color": "#ff0000"}]}
					]},
				{"id": "wrapper", "kind": "group",
					"bounds": {"x": 40, "y": 40, "w": 60, "h": 60},
					"children": [
						{"id": "target", "bounds": {"x": 50, "y": 50, "w": 20, "h": 20}}
					]}
			]
		}
	}`)

	res := resolve(t, doc)
	if res.Source != SourcePage || res.Hex() != "#101010" {
		t.Errorf("got %s from %s, want #101010 from the page", res.Hex(), res.Source)
	}
}

func TestResolveSkipsIneligibleBlend(t *testing.T) {
	doc := mustScene(t, `{
		"selection": "target",
		"page": {
			"background": "#ffffff",
			"children": [
				{"id": "burned", "blend": "linear-burn",
					"bounds": {"x": 0, "y": 0, "w": 100, "h": 100},
					"fills": [{"color": "#ff0000"}]},
				{"id": "target", "bounds": {"x": 10, "y": 10, "w": 20, "h": 20}}
			]
		}
	}`)

	res := resolve(t, doc)
	if res.Source != SourcePage {
		t.Errorf("source = %s, want %s", res.Source, SourcePage)
	}
}

func TestResolveIneligibleBlendHidesSubtree(t *testing.T) {
	// A blend-ineligible container takes its descendants with it.
	doc := mustScene(t, `{
		"selection": "target",
		"page": {
			"background": "#123456",
			"children": [
				{"id": "burned", "kind": "frame", "blend": "linear-dodge",
					"bounds": {"x": 0, "y": 0, "w": 200, "h": 200},
					"children": [
						{"id": "inner", "bounds": {"x": 0, "y": 0, "w": 200, "h": 200},
							"fills": [{"color": "#ff0000"}]}
					]},
				{"id": "wrapper", "kind": "group",
					"bounds": {"x": 40, "y": 40, "w": 60, "h": 60},
					"children": [
						{"id": "target", "bounds": {"x": 50, "y": 50, "w": 20, "h": 20}}
					]}
			]
		}
	}`)

	res := resolve(t, doc)
	if res.Source != SourcePage || res.Hex() != "#123456" {
		t.Errorf("got %s from %s, want #123456 from the page", res.Hex(), res.Source)
	}
}

func TestResolveFallback(t *testing.T) {
	doc := mustScene(t, `{
		"selection": "target",
		"page": {
			"children": [
				{"id": "target", "bounds": {"x": 0, "y": 0, "w": 10, "h": 10}}
			]
		}
	}`)

	res := resolve(t, doc)
	if res.Source != SourceFallback {
		t.Errorf("source = %s, want %s", res.Source, SourceFallback)
	}
	if res.Hex() != "#1e1e1e" {
		t.Errorf("colour = %s, want #1e1e1e", res.Hex())
	}
}

func TestResolveFallbackOverride(t *testing.T) {
	doc := mustScene(t, `{
		"selection": "target",
		"page": {"children": [{"id": "target"}]}
	}`)

	res := resolve(t, doc, WithFallback(colour.RGB{R: 255, G: 255, B: 255}))
	if res.Source != SourceFallback || res.Hex() != "#ffffff" {
		t.Errorf("got %s from %s, want the overridden fallback", res.Hex(), res.Source)
	}
}

func TestResolveNilSelection(t *testing.T) {
	doc := mustScene(t, `{"page": {"children": [{"id": "a"}]}}`)

	res := New(doc).Resolve(nil)
	if res.Source != SourceFallback {
		t.Errorf("source = %s, want %s", res.Source, SourceFallback)
	}
}

func TestResolveNoBounds(t *testing.T) {
	// A selection without geometry cannot intersect anything, but the
	// chain stays total.
	doc := mustScene(t, `{
		"selection": "target",
		"page": {
			"background": "#ffffff",
			"children": [{"id": "target"}]
		}
	}`)

	res := resolve(t, doc)
	if res.Source != SourcePage || res.Hex() != "#ffffff" {
		t.Errorf("got %s from %s, want the page background", res.Hex(), res.Source)
	}
}

func TestResolveDeterministic(t *testing.T) {
	doc := mustScene(t, `{
		"selection": "target",
		"page": {
			"background": "#ffffff",
			"children": [
				{"id": "under", "bounds": {"x": 0, "y": 0, "w": 100, "h": 100},
					"fills": [{"color": "#ff0000"}]},
				{"id": "target", "bounds": {"x": 50, "y": 50, "w": 100, "h": 100}}
			]
		}
	}`)

	r := New(doc, WithCacheTTL(DefaultCacheTTL))
	first := r.ResolveSelection()
	for i := 0; i < 5; i++ {
		if got := r.ResolveSelection(); got != first {
			t.Fatalf("resolution %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestResolveAncestorPhase(t *testing.T) {
	// Exercised directly: a fill-less intersecting node whose captured
	// ancestor encloses the selection.
	selBounds := geometry.BBox{X: 40, Y: 40, Width: 20, Height: 20}
	outer := &scene.Snapshot{
		ID: "outer", Kind: scene.KindFrame, Visible: true, TreeVisible: true, Opacity: 1,
		Blend:  scene.BlendNormal,
		Bounds: &geometry.BBox{X: 0, Y: 0, Width: 200, Height: 200},
		Fills: []scene.Fill{{
			Kind: scene.PaintSolid, Colour: colour.RGB{R: 17, G: 34, B: 51},
			Visible: true, Opacity: 1,
		}},
	}
	leaf := &scene.Snapshot{
		ID: "leaf", Kind: scene.KindShape, Visible: true, TreeVisible: true, Opacity: 1,
		Blend:  scene.BlendNormal,
		Bounds: &geometry.BBox{X: 45, Y: 45, Width: 5, Height: 5},
		Parent: outer,
	}
	sel := &scene.Snapshot{ID: "sel", Bounds: &selBounds}

	r := New(mustScene(t, `{"page": {"children": []}}`))
	res, ok := r.resolveAncestors([]*scene.Snapshot{leaf}, sel)
	if !ok {
		t.Fatal("expected the ancestor phase to produce a colour")
	}
	if res.Source != SourceAncestor || res.Hex() != "#112233" {
		t.Errorf("got %s from %s, want #112233 from %s", res.Hex(), res.Source, SourceAncestor)
	}
}

func TestResolveAncestorStopsAtBlend(t *testing.T) {
	// An ineligible blend on the chain ends the upward walk even when a
	// usable ancestor sits above it.
	selBounds := geometry.BBox{X: 40, Y: 40, Width: 20, Height: 20}
	top := &scene.Snapshot{
		ID: "top", Kind: scene.KindFrame, Visible: true, TreeVisible: true, Opacity: 1,
		Blend:  scene.BlendNormal,
		Bounds: &geometry.BBox{X: 0, Y: 0, Width: 400, Height: 400},
		Fills: []scene.Fill{{
			Kind: scene.PaintSolid, Colour: colour.RGB{R: 255},
			Visible: true, Opacity: 1,
		}},
	}
	burned := &scene.Snapshot{
		ID: "burned", Kind: scene.KindGroup, Visible: true, TreeVisible: true, Opacity: 1,
		Blend:  scene.BlendLinearBurn,
		Bounds: &geometry.BBox{X: 0, Y: 0, Width: 300, Height: 300},
		Parent: top,
	}
	leaf := &scene.Snapshot{
		ID: "leaf", Kind: scene.KindShape, Visible: true, TreeVisible: true, Opacity: 1,
		Blend:  scene.BlendNormal,
		Bounds: &geometry.BBox{X: 45, Y: 45, Width: 5, Height: 5},
		Parent: burned,
	}
	sel := &scene.Snapshot{ID: "sel", Bounds: &selBounds}

	r := New(mustScene(t, `{"page": {"children": []}}`))
	if _, ok := r.resolveAncestors([]*scene.Snapshot{leaf}, sel); ok {
		t.Error("walk should stop at the ineligible blend")
	}
}

func TestResolveSampleScenes(t *testing.T) {
	tests := []struct {
		file   string
		colour string
		source Source
	}{
		{"overlap.json", "#ff0000", SourceSibling},
		{"nested.yaml", "#1e1e1e", SourceParent},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			doc, err := scene.LoadFile(filepath.Join("..", "..", "testdata", tt.file))
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			res := New(doc).ResolveSelection()
			if res.Source != tt.source || res.Hex() != tt.colour {
				t.Errorf("got %s from %s, want %s from %s", res.Hex(), res.Source, tt.colour, tt.source)
			}
		})
	}
}
