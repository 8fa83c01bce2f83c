package strokemesh

import (
	"image/color"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"#fff", White},
		{"f00", Red},
		{"#00ff00", Green},
		{"0000ff80", RGBA{B: 1, A: 128.0 / 255}},
		{"#f008", RGBA{R: 1, A: 136.0 / 255}},
		{"zz", Black},
	}
	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorRoundTrip(t *testing.T) {
	c := color.NRGBA{R: 10, G: 200, B: 30, A: 128}
	if got := FromColor(c).Color(); got != c {
		t.Errorf("FromColor(%v).Color() = %v", c, got)
	}
}

func TestPremultiply(t *testing.T) {
	got := RGBA{R: 1, G: 0.5, B: 0, A: 0.5}.Premultiply()
	want := RGBA{R: 0.5, G: 0.25, B: 0, A: 0.5}
	if got != want {
		t.Errorf("Premultiply() = %v, want %v", got, want)
	}
}
