package glyph

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/strokemesh/internal/geom"
)

// Glyph is a shaped glyph at its pen position.
type Glyph struct {
	ID       uint32
	Position geom.Vec2
	Advance  float64
	// Cluster is the rune index of the text the glyph came from.
	Cluster int
}

// Shaper lays out text in one font. It is safe for concurrent use.
type Shaper struct {
	font *font.Font
	pool sync.Pool
}

// NewShaper parses a TrueType or OpenType font.
func NewShaper(data []byte) (*Shaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("glyph: parse font: %w", err)
	}
	s := &Shaper{font: face.Font}
	s.pool.New = func() any { return &shaping.HarfbuzzShaper{} }
	return s, nil
}

var (
	defaultOnce   sync.Once
	defaultShaper *Shaper
	errDefault    error
)

// Default returns a shaper for the Go Regular font.
func Default() (*Shaper, error) {
	defaultOnce.Do(func() {
		defaultShaper, errDefault = NewShaper(goregular.TTF)
	})
	return defaultShaper, errDefault
}

// Shape lays out text at size pixels with its baseline starting at
// origin. Mixed direction text is split into bidi runs, which are placed
// left to right in visual order.
func (s *Shaper) Shape(text string, size float64, origin geom.Vec2) []Glyph {
	if text == "" {
		return nil
	}
	runes := []rune(text)

	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return s.shapeRun(runes, 0, len(runes), di.DirectionLTR, size, origin, nil)
	}
	order, err := p.Order()
	if err != nil {
		return s.shapeRun(runes, 0, len(runes), di.DirectionLTR, size, origin, nil)
	}

	var out []Glyph
	pen := origin
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		start, end := run.Pos()
		dir := di.DirectionLTR
		if run.Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		n := len(out)
		out = s.shapeRun(runes, start, min(end+1, len(runes)), dir, size, pen, out)
		for _, g := range out[n:] {
			pen.X += g.Advance
		}
	}
	return out
}

func (s *Shaper) shapeRun(runes []rune, start, end int, dir di.Direction, size float64, pen geom.Vec2, dst []Glyph) []Glyph {
	if start >= end {
		return dst
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  start,
		RunEnd:    end,
		Direction: dir,
		Face:      font.NewFace(s.font),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes[start:end]),
		Language:  language.NewLanguage("en"),
	}
	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.pool.Put(hb)

	for _, g := range output.Glyphs {
		adv := float64(g.Advance) / 64
		dst = append(dst, Glyph{
			ID: uint32(g.GlyphID),
			Position: geom.V2(
				pen.X+float64(g.XOffset)/64,
				pen.Y-float64(g.YOffset)/64,
			),
			Advance: adv,
			Cluster: g.TextIndex(),
		})
		pen.X += adv
	}
	return dst
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
