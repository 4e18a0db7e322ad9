package resolver

import (
	"testing"

	"github.com/jmylchreest/backdrop/internal/colour"
	"github.com/jmylchreest/backdrop/internal/scene"
)

func TestBlendEligible(t *testing.T) {
	tests := []struct {
		mode scene.BlendMode
		want bool
	}{
		{scene.BlendNormal, true},
		{scene.BlendPassThrough, true},
		{scene.BlendMultiply, true},
		{scene.BlendLuminosity, true},
		{"", true},
		{scene.BlendLinearBurn, false},
		{scene.BlendLinearDodge, false},
		{"plasma-warp", false},
	}

	for _, tt := range tests {
		if got := BlendEligible(tt.mode); got != tt.want {
			t.Errorf("BlendEligible(%q) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	solid := scene.Fill{
		Kind: scene.PaintSolid, Colour: colour.RGB{R: 1},
		Visible: true, Opacity: 1,
	}

	tests := []struct {
		name string
		snap *scene.Snapshot
		want Eligibility
	}{
		{
			name: "solid fill",
			snap: &scene.Snapshot{Blend: scene.BlendNormal, Fills: []scene.Fill{solid}},
			want: Eligible,
		},
		{
			name: "no fills",
			snap: &scene.Snapshot{Blend: scene.BlendNormal},
			want: NoSolidFill,
		},
		{
			name: "gradient only",
			snap: &scene.Snapshot{Blend: scene.BlendNormal, Fills: []scene.Fill{
				{Kind: scene.PaintGradient, Visible: true, Opacity: 1},
			}},
			want: NoSolidFill,
		},
		{
			name: "blend trumps fills",
			snap: &scene.Snapshot{Blend: scene.BlendLinearBurn, Fills: []scene.Fill{solid}},
			want: IneligibleBlend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.snap); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCandidateFillSkipsIneligibleBlend(t *testing.T) {
	s := &scene.Snapshot{Fills: []scene.Fill{
		{Kind: scene.PaintSolid, Colour: colour.RGB{R: 255}, Visible: true, Opacity: 1},
		{Kind: scene.PaintSolid, Colour: colour.RGB{G: 255}, Visible: true, Opacity: 1,
			Blend: scene.BlendLinearDodge},
	}}

	fill, ok := candidateFill(s)
	if !ok {
		t.Fatal("expected a candidate fill")
	}
	if fill.Colour.Hex() != "#ff0000" {
		t.Errorf("candidate = %s, want the lower eligible fill", fill.Colour.Hex())
	}
}

func TestPruneIneligible(t *testing.T) {
	burned := &scene.Snapshot{ID: "burned", Blend: scene.BlendLinearBurn,
		Children: []*scene.Snapshot{{ID: "inner", Blend: scene.BlendNormal}}}
	kept := &scene.Snapshot{ID: "kept", Blend: scene.BlendNormal}
	root := &scene.Snapshot{ID: "page", Kind: scene.KindPage, Blend: scene.BlendNormal,
		Children: []*scene.Snapshot{burned, kept}}

	pruned := pruneIneligible(root)

	if len(pruned.Children) != 1 || pruned.Children[0].ID != "kept" {
		t.Errorf("pruned children = %v, want only kept", flatIDs(pruned.Children))
	}

	// The input forest must survive untouched; cached sets share it.
	if len(root.Children) != 2 {
		t.Error("pruning mutated the original forest")
	}
	if len(burned.Children) != 1 {
		t.Error("pruning mutated a removed subtree")
	}
}

func TestEligibilityString(t *testing.T) {
	tests := []struct {
		e    Eligibility
		want string
	}{
		{Eligible, "eligible"},
		{IneligibleBlend, "ineligible-blend"},
		{NoSolidFill, "no-solid-fill"},
		{Eligibility(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.e.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
