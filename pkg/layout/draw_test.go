package layout

import "testing"

func TestCollides_FrameBorder(t *testing.T) {
	lay := &Layout{
		Nodes:     map[string]Box{},
		Subgraphs: map[string]Box{"s": {X: 2, Y: 2, W: 10, H: 6}},
	}
	tests := []struct {
		name string
		r    Box
		want bool
	}{
		{"on top border", Box{X: 4, Y: 2, W: 3, H: 1}, true},
		{"on bottom border", Box{X: 4, Y: 7, W: 3, H: 1}, true},
		{"crossing left border", Box{X: 1, Y: 4, W: 4, H: 1}, true},
		{"crossing right border", Box{X: 10, Y: 4, W: 4, H: 1}, true},
		{"inside the frame", Box{X: 4, Y: 4, W: 3, H: 1}, false},
		{"outside the frame", Box{X: 20, Y: 4, W: 3, H: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collides(tt.r, lay, nil); got != tt.want {
				t.Errorf("collides(%+v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestCollides_PlacedLabels(t *testing.T) {
	lay := &Layout{Nodes: map[string]Box{}}
	placed := []Box{{X: 5, Y: 3, W: 4, H: 1}}

	if !collides(Box{X: 7, Y: 3, W: 4, H: 1}, lay, placed) {
		t.Error("overlapping an earlier label should collide")
	}
	if collides(Box{X: 7, Y: 4, W: 4, H: 1}, lay, placed) {
		t.Error("adjacent row should not collide")
	}
}
