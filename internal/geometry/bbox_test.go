package geometry

import "testing"

func TestIntersects(t *testing.T) {
	tests := []struct {
		name string
		a    BBox
		b    BBox
		want bool
	}{
		{
			name: "overlapping",
			a:    BBox{X: 0, Y: 0, Width: 100, Height: 100},
			b:    BBox{X: 50, Y: 50, Width: 100, Height: 100},
			want: true,
		},
		{
			name: "identical",
			a:    BBox{X: 10, Y: 10, Width: 20, Height: 20},
			b:    BBox{X: 10, Y: 10, Width: 20, Height: 20},
			want: true,
		},
		{
			name: "disjoint horizontally",
			a:    BBox{X: 0, Y: 0, Width: 10, Height: 10},
			b:    BBox{X: 20, Y: 0, Width: 10, Height: 10},
			want: false,
		},
		{
			name: "disjoint vertically",
			a:    BBox{X: 0, Y: 0, Width: 10, Height: 10},
			b:    BBox{X: 0, Y: 20, Width: 10, Height: 10},
			want: false,
		},
		{
			name: "edge touching does not intersect",
			a:    BBox{X: 0, Y: 0, Width: 10, Height: 10},
			b:    BBox{X: 10, Y: 0, Width: 10, Height: 10},
			want: false,
		},
		{
			name: "corner touching does not intersect",
			a:    BBox{X: 0, Y: 0, Width: 10, Height: 10},
			b:    BBox{X: 10, Y: 10, Width: 10, Height: 10},
			want: false,
		},
		{
			name: "one inside other",
			a:    BBox{X: 0, Y: 0, Width: 100, Height: 100},
			b:    BBox{X: 25, Y: 25, Width: 10, Height: 10},
			want: true,
		},
		{
			name: "zero width never intersects",
			a:    BBox{X: 5, Y: 5, Width: 0, Height: 10},
			b:    BBox{X: 0, Y: 0, Width: 100, Height: 100},
			want: false,
		},
		{
			name: "zero height never intersects",
			a:    BBox{X: 5, Y: 5, Width: 10, Height: 0},
			b:    BBox{X: 0, Y: 0, Width: 100, Height: 100},
			want: false,
		},
		{
			name: "negative coordinates",
			a:    BBox{X: -50, Y: -50, Width: 100, Height: 100},
			b:    BBox{X: -10, Y: -10, Width: 5, Height: 5},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersects(tt.a, tt.b); got != tt.want {
				t.Errorf("Intersects(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Intersection is symmetric.
			if got := Intersects(tt.b, tt.a); got != tt.want {
				t.Errorf("Intersects(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name  string
		outer BBox
		inner BBox
		want  bool
	}{
		{
			name:  "fully inside",
			outer: BBox{X: 0, Y: 0, Width: 100, Height: 100},
			inner: BBox{X: 10, Y: 10, Width: 20, Height: 20},
			want:  true,
		},
		{
			name:  "contains itself",
			outer: BBox{X: 0, Y: 0, Width: 100, Height: 100},
			inner: BBox{X: 0, Y: 0, Width: 100, Height: 100},
			want:  true,
		},
		{
			name:  "partial overlap",
			outer: BBox{X: 0, Y: 0, Width: 100, Height: 100},
			inner: BBox{X: 90, Y: 90, Width: 20, Height: 20},
			want:  false,
		},
		{
			name:  "disjoint",
			outer: BBox{X: 0, Y: 0, Width: 10, Height: 10},
			inner: BBox{X: 50, Y: 50, Width: 10, Height: 10},
			want:  false,
		},
		{
			name:  "inner larger than outer",
			outer: BBox{X: 25, Y: 25, Width: 10, Height: 10},
			inner: BBox{X: 0, Y: 0, Width: 100, Height: 100},
			want:  false,
		},
		{
			name:  "flush at edges",
			outer: BBox{X: 0, Y: 0, Width: 100, Height: 100},
			inner: BBox{X: 0, Y: 50, Width: 100, Height: 50},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(tt.outer, tt.inner); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.outer, tt.inner, got, tt.want)
			}
		})
	}
}
