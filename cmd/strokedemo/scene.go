package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/strokemesh"
)

// Scene is the TOML description of one frame.
type Scene struct {
	Width      int         `toml:"width"`
	Height     int         `toml:"height"`
	Background string      `toml:"background"`
	Strokes    []StrokeDef `toml:"stroke"`
	Fills      []FillDef   `toml:"fill"`
}

// Placement holds the transform and clipping applied to one item.
type Placement struct {
	Translate [2]float64 `toml:"translate"`
	Rotate    float64    `toml:"rotate"` // degrees
	Scale     float64    `toml:"scale"`
	ClipRect  []float64  `toml:"clip_rect"` // x, y, w, h
}

// StrokeDef is one stroked path.
type StrokeDef struct {
	Placement
	Path       string  `toml:"path"`
	Color      string  `toml:"color"`
	Width      float64 `toml:"width"`
	Join       string  `toml:"join"`
	Cap        string  `toml:"cap"`
	MiterLimit float64 `toml:"miter_limit"`
	Arcs       bool    `toml:"arcs"`
	AntiAlias  bool    `toml:"antialias"`
	Close      bool    `toml:"close"`
}

// FillDef is one filled path.
type FillDef struct {
	Placement
	Path  string `toml:"path"`
	Color string `toml:"color"`
	Rule  string `toml:"rule"`
}

const defaultScene = `
width = 480
height = 320
background = "#f4f1ea"

[[fill]]
path = "M 300 40 L 440 40 L 440 180 L 300 180 Z M 340 80 L 400 80 L 400 140 L 340 140 Z"
color = "#8fb8de"
rule = "evenodd"

[[stroke]]
path = "M 40 260 L 120 60 L 200 260 L 240 120"
color = "#c0392b"
width = 18
join = "miter"
cap = "square"

[[stroke]]
path = "M 260 240 Q 340 120 440 260"
color = "#2c3e50"
width = 10
join = "round"
cap = "round"

[[stroke]]
path = "M 40 110 A 200 110 180"
color = "#27ae60"
width = 8
arcs = true
cap = "arcround"

[[stroke]]
path = "M 250 200 L 450 300"
color = "#8e44ad"
width = 14
cap = "adjustable"
clip_rect = [250, 200, 120, 120]
`

// loadScene reads the scene at path, or the built in scene when path is
// empty.
func loadScene(path string) (*Scene, error) {
	data := []byte(defaultScene)
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}
	return parseScene(data)
}

func parseScene(data []byte) (*Scene, error) {
	s := &Scene{Width: 512, Height: 512, Background: "#ffffff"}
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("scene size %dx%d", s.Width, s.Height)
	}
	return s, nil
}

// Draw issues the scene to painter, which must be inside a frame.
func (s *Scene) Draw(p *strokemesh.Painter) error {
	for i, f := range s.Fills {
		path, err := parsePath(f.Path)
		if err != nil {
			return fmt.Errorf("fill %d: %w", i, err)
		}
		rule, err := parseRule(f.Rule)
		if err != nil {
			return fmt.Errorf("fill %d: %w", i, err)
		}
		p.Save()
		f.apply(p)
		p.SetBrush(strokemesh.Solid(strokemesh.Hex(f.Color)))
		err = p.FillPath(path, rule)
		if rerr := p.Restore(); err == nil {
			err = rerr
		}
		if err != nil {
			return fmt.Errorf("fill %d: %w", i, err)
		}
	}
	for i, st := range s.Strokes {
		path, err := parsePath(st.Path)
		if err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
		style, err := st.style()
		if err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
		p.Save()
		st.apply(p)
		p.SetBrush(strokemesh.Solid(strokemesh.Hex(st.Color)))
		err = p.StrokePath(path, style)
		if rerr := p.Restore(); err == nil {
			err = rerr
		}
		if err != nil {
			return fmt.Errorf("stroke %d: %w", i, err)
		}
	}
	return nil
}

func (pl *Placement) apply(p *strokemesh.Painter) {
	if len(pl.ClipRect) == 4 {
		r := pl.ClipRect
		p.ClipInRect(r[0], r[1], r[2], r[3])
	}
	if pl.Translate != [2]float64{} {
		p.Translate(pl.Translate[0], pl.Translate[1])
	}
	if pl.Rotate != 0 {
		p.Rotate(pl.Rotate * math.Pi / 180)
	}
	if pl.Scale != 0 && pl.Scale != 1 {
		p.Scale(pl.Scale)
	}
}

func (st *StrokeDef) style() (strokemesh.StrokeStyle, error) {
	style := strokemesh.DefaultStrokeStyle()
	if st.Width > 0 {
		style.Width = st.Width
	}
	if st.MiterLimit != 0 {
		style.MiterLimit = st.MiterLimit
	}
	style.Arcs = st.Arcs
	style.AntiAlias = st.AntiAlias
	style.CloseContours = st.Close

	switch strings.ToLower(st.Join) {
	case "":
	case "none":
		style.Join = strokemesh.NoJoins
	case "bevel":
		style.Join = strokemesh.BevelJoins
	case "miterclip":
		style.Join = strokemesh.MiterClipJoins
	case "miterbevel":
		style.Join = strokemesh.MiterBevelJoins
	case "miter":
		style.Join = strokemesh.MiterJoins
	case "round":
		style.Join = strokemesh.RoundedJoins
	case "arcround":
		style.Join = strokemesh.ArcRoundedJoins
	default:
		return style, fmt.Errorf("unknown join %q", st.Join)
	}

	switch strings.ToLower(st.Cap) {
	case "", "flat":
		style.Cap = strokemesh.FlatCaps
	case "square":
		style.Cap = strokemesh.SquareCaps
	case "round":
		style.Cap = strokemesh.RoundedCaps
	case "adjustable":
		style.Cap = strokemesh.AdjustableCaps
	case "arcround":
		style.Cap = strokemesh.ArcRoundedCaps
	default:
		return style, fmt.Errorf("unknown cap %q", st.Cap)
	}
	return style, nil
}

func parseRule(s string) (strokemesh.FillRule, error) {
	switch strings.ToLower(s) {
	case "", "nonzero":
		return strokemesh.NonZero, nil
	case "evenodd":
		return strokemesh.EvenOdd, nil
	case "complementnonzero":
		return strokemesh.ComplementNonZero, nil
	case "complementevenodd":
		return strokemesh.ComplementEvenOdd, nil
	}
	return strokemesh.NonZero, fmt.Errorf("unknown fill rule %q", s)
}

// parsePath reads commands of the form
//
//	M x y | L x y | Q cx cy x y | C c1x c1y c2x c2y x y | A x y degrees | Z
//
// separated by white space.
func parsePath(s string) (*strokemesh.Path, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	p := strokemesh.NewPath()
	args := map[string]int{"M": 2, "L": 2, "Q": 4, "C": 6, "A": 3, "Z": 0}
	for i := 0; i < len(fields); {
		cmd := strings.ToUpper(fields[i])
		n, ok := args[cmd]
		if !ok {
			return nil, fmt.Errorf("path: unknown command %q", fields[i])
		}
		if i+n >= len(fields) {
			return nil, fmt.Errorf("path: %s needs %d numbers", cmd, n)
		}
		v := make([]float64, n)
		for k := range v {
			f, err := strconv.ParseFloat(fields[i+1+k], 64)
			if err != nil {
				return nil, fmt.Errorf("path: %w", err)
			}
			v[k] = f
		}
		switch cmd {
		case "M":
			p.MoveTo(v[0], v[1])
		case "L":
			p.LineTo(v[0], v[1])
		case "Q":
			p.QuadTo(v[0], v[1], v[2], v[3])
		case "C":
			p.CubicTo(v[0], v[1], v[2], v[3], v[4], v[5])
		case "A":
			p.ArcTo(v[0], v[1], v[2]*math.Pi/180)
		case "Z":
			p.Close()
		}
		i += 1 + n
	}
	if p.Empty() {
		return nil, fmt.Errorf("path: empty")
	}
	return p, nil
}
