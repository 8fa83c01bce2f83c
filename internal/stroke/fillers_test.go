package stroke

import (
	"math"
	"testing"

	"github.com/gogpu/strokemesh/internal/attrib"
	"github.com/gogpu/strokemesh/internal/geom"
)

func TestBevelJoinChunks(t *testing.T) {
	sp := NewStrokedPath(corner())
	d := sp.JoinData(BevelJoins, 0)
	joins := sp.Joins()

	if got := len(d.Attributes()); got != 12 {
		t.Fatalf("len(Attributes()) = %d, want 12", got)
	}
	for i := 0; i < joins.NumNonClosing; i++ {
		c := d.Chunk(joins.Joins[i].Chunk)
		if len(c.Attributes) != 3 || len(c.Indices) != 3 {
			t.Errorf("join %d chunk = %d attributes, %d indices; want 3, 3", i, len(c.Attributes), len(c.Indices))
		}
	}

	node := d.Chunk(joins.NonClosingJoins(0).Chunk)
	if len(node.Attributes) != 6 || len(node.Indices) != 6 {
		t.Errorf("node chunk = %d attributes, %d indices; want 6, 6", len(node.Attributes), len(node.Indices))
	}
	if node.ZRange != (attrib.Range{Begin: 2, End: 4}) {
		t.Errorf("node ZRange = %v, want [2, 4)", node.ZRange)
	}
	if got := node.IncrementZ(); got != 4 {
		t.Errorf("IncrementZ() = %d, want 4", got)
	}
}

func TestBevelJoinGolden(t *testing.T) {
	sp := NewStrokedPath(corner())
	d := sp.JoinData(BevelJoins, 0)

	// the left turn at (10, 0), depth 3: the outer side is below the
	// corner
	c := d.Chunk(sp.Joins().Joins[0].Chunk)
	want := []attrib.Attribute{
		{
			Attrib0: attrib.PackVec4(10, 0, 0, -1),
			Attrib1: attrib.PackVec4(10, 10, 0, 0),
			Attrib2: [4]uint32{0x02000071, attrib.PackFloat(10), attrib.PackFloat(30), 0},
		},
		{
			Attrib0: attrib.PackVec4(10, 0, 0, 0),
			Attrib1: attrib.PackVec4(10, 10, 0, 0),
			Attrib2: [4]uint32{0x02000061, attrib.PackFloat(10), attrib.PackFloat(30), 0},
		},
		{
			Attrib0: attrib.PackVec4(10, 0, 1, 0),
			Attrib1: attrib.PackVec4(10, 10, 0, 0),
			Attrib2: [4]uint32{0x02000071, attrib.PackFloat(10), attrib.PackFloat(30), 0},
		},
	}
	for i := range want {
		if c.Attributes[i] != want[i] {
			t.Errorf("vertex %d = %x, want %x", i, c.Attributes[i], want[i])
		}
	}
	if c.Indices[0] != 0 || c.Indices[1] != 1 || c.Indices[2] != 2 || c.IndexAdjust != 0 {
		t.Errorf("indices = %v adjust %d, want [0 1 2] adjust 0", c.Indices, c.IndexAdjust)
	}

	second := d.Chunk(sp.Joins().Joins[1].Chunk)
	if second.IndexAdjust != -3 || second.Indices[0] != 3 {
		t.Errorf("second join indices = %v adjust %d, want to start at 3 with adjust -3", second.Indices, second.IndexAdjust)
	}
}

func TestFillerSizes(t *testing.T) {
	sp := NewStrokedPath(corner())

	joinTests := []struct {
		style   JoinStyle
		attrs   int
		indices int
	}{
		{BevelJoins, 3, 3},
		{MiterClipJoins, 5, 9},
		{MiterBevelJoins, 4, 6},
		{MiterJoins, 4, 6},
		// every corner of the square turns by a right angle
		{RoundedJoins, 5, 9},
		{ArcRoundedJoins, 11, 27},
	}
	for _, tt := range joinTests {
		t.Run(tt.style.String(), func(t *testing.T) {
			d := sp.JoinData(tt.style, 1)
			if got := len(d.Attributes()); got != 4*tt.attrs {
				t.Errorf("len(Attributes()) = %d, want %d", got, 4*tt.attrs)
			}
			if got := len(d.Indices()); got != 4*tt.indices {
				t.Errorf("len(Indices()) = %d, want %d", got, 4*tt.indices)
			}
		})
	}

	capTests := []struct {
		style   CapStyle
		attrs   int
		indices int
	}{
		{SquareCaps, 5, 9},
		{AdjustableCaps, 6, 12},
		{RoundedCaps, 8, 18},
		{ArcRoundedCaps, 14, 36},
	}
	for _, tt := range capTests {
		t.Run(tt.style.String(), func(t *testing.T) {
			d := sp.CapData(tt.style, 1)
			if got := len(d.Attributes()); got != 2*tt.attrs {
				t.Errorf("len(Attributes()) = %d, want %d", got, 2*tt.attrs)
			}
			if got := len(d.Indices()); got != 2*tt.indices {
				t.Errorf("len(Indices()) = %d, want %d", got, 2*tt.indices)
			}
		})
	}

	if sp.JoinData(NoJoins, 1) != nil || sp.CapData(FlatCaps, 1) != nil {
		t.Error("NoJoins and FlatCaps should have no data")
	}

	// three edges, the last two bevelled, plus the closing edge
	edges := sp.EdgeData(LineEdges)
	if got := len(edges.Attributes()); got != 6*4+6*3 {
		t.Errorf("line edge attributes = %d, want %d", got, 6*4+6*3)
	}
}

func TestSegmentsForArc(t *testing.T) {
	tests := []struct {
		angle  float64
		thresh float64
		want   int
	}{
		{math.Pi / 2, 1, 4},
		{math.Pi, 1, 7},
		{0, 0.1, 4},
		{-math.Pi, 1, 7},
	}
	for _, tt := range tests {
		if got := SegmentsForArc(tt.angle, tt.thresh); got != tt.want {
			t.Errorf("SegmentsForArc(%v, %v) = %d, want %d", tt.angle, tt.thresh, got, tt.want)
		}
	}
}

func TestChunkIndicesStayInChunk(t *testing.T) {
	tp := polyline(zigzag(150, 0, 0, 1, 20)...)
	sp := NewStrokedPath(tp)
	for _, d := range []*attrib.Data{
		sp.EdgeData(LineEdges),
		sp.EdgeData(ArcEdges),
		sp.JoinData(MiterClipJoins, 0),
		sp.CapData(RoundedCaps, 0.1),
	} {
		for i := 0; i < d.NumChunks(); i++ {
			c := d.Chunk(i)
			for _, idx := range c.Indices {
				local := int(idx) + c.IndexAdjust
				if local < 0 || local >= len(c.Attributes) {
					t.Fatalf("chunk %d index %d rebases to %d, outside %d attributes", i, idx, local, len(c.Attributes))
				}
			}
		}
	}
}

func TestRoundedCacheRefines(t *testing.T) {
	sp := NewStrokedPath(corner())

	d := sp.JoinData(RoundedJoins, 0.3)
	levels := sp.RoundedJoinLevels()
	if len(levels) != 3 || levels[0] != 1 || levels[1] != 0.5 || levels[2] != 0.25 {
		t.Fatalf("RoundedJoinLevels() = %v, want [1 0.5 0.25]", levels)
	}
	if sp.JoinData(RoundedJoins, 0.3) != d {
		t.Error("same threshold should return the cached data")
	}
	if sp.JoinData(RoundedJoins, 0.25) != d {
		t.Error("threshold 0.25 should return the 0.25 level")
	}
	if sp.JoinData(RoundedJoins, 0.6) != sp.JoinData(RoundedJoins, 0.5) {
		t.Error("threshold 0.6 should return the 0.5 level")
	}
	if len(sp.RoundedJoinLevels()) != 3 {
		t.Errorf("coarser requests added levels: %v", sp.RoundedJoinLevels())
	}
	if sp.JoinData(RoundedJoins, 1e-9) != sp.JoinData(RoundedJoins, MinThreshold) {
		t.Error("thresholds below MinThreshold should be served at MinThreshold")
	}
	levels = sp.RoundedJoinLevels()
	if last := levels[len(levels)-1]; last > MinThreshold || last < MinThreshold/2 {
		t.Errorf("finest level = %v, want within (%v, %v]", last, MinThreshold/2, MinThreshold)
	}
}

// unitClip maps [0, size]^2 onto clip space and bounds it with the four
// clip planes.
func unitClip(size float64) SelectParams {
	s := 2 / size
	return SelectParams{
		ClipEquations: []geom.Vec3{
			geom.V3(1, 0, 1), geom.V3(-1, 0, 1),
			geom.V3(0, 1, 1), geom.V3(0, -1, 1),
		},
		ClipMatrix: geom.Mat3{
			{s, 0, -1},
			{0, s, -1},
			{0, 0, 1},
		},
	}
}

func TestComputeChunksOffscreen(t *testing.T) {
	tp := polyline(zigzag(200, 1000, 1000, 1, 30)...)
	sp := NewStrokedPath(tp)
	p := unitClip(100)
	p.IncludeClosing = true

	var s Scratch
	var dst ChunkSet
	sel := Selection{Edges: sp.EdgeData(LineEdges), Joins: sp.JoinData(BevelJoins, 0), EdgeSlack: 1, JoinSlack: 1}
	if err := sp.ComputeChunks(&s, &p, &sel, &dst); err != nil {
		t.Fatalf("ComputeChunks() error = %v", err)
	}
	if len(dst.Edges) != 0 || len(dst.Joins) != 0 || len(dst.Caps) != 0 {
		t.Errorf("ComputeChunks() = %+v, want nothing", dst)
	}
}

func TestComputeChunksAllVisible(t *testing.T) {
	tp := polyline(zigzag(200, 10, 10, 0.25, 30)...)
	sp := NewStrokedPath(tp)
	p := unitClip(100)

	var s Scratch
	var dst ChunkSet
	sel := Selection{
		Edges: sp.EdgeData(LineEdges),
		Joins: sp.JoinData(BevelJoins, 0),
		Caps:  sp.CapData(SquareCaps, 0),
	}
	if err := sp.ComputeChunks(&s, &p, &sel, &dst); err != nil {
		t.Fatalf("ComputeChunks() error = %v", err)
	}
	want := []int{sp.Edges().NonClosing(0).Chunk}
	if len(dst.Edges) != 1 || dst.Edges[0] != want[0] {
		t.Errorf("Edges = %v, want %v", dst.Edges, want)
	}
	if len(dst.Joins) != 1 || dst.Joins[0] != sp.Joins().NonClosingJoins(0).Chunk {
		t.Errorf("Joins = %v, want the root chunk", dst.Joins)
	}
	if len(dst.Caps) != 1 {
		t.Errorf("Caps = %v, want the root chunk", dst.Caps)
	}

	p.IncludeClosing = true
	if err := sp.ComputeChunks(&s, &p, &sel, &dst); err != nil {
		t.Fatalf("ComputeChunks() error = %v", err)
	}
	if len(dst.Edges) != 2 || dst.Edges[1] != sp.Edges().Closing(0).Chunk {
		t.Errorf("closed Edges = %v, want root non-closing then closing", dst.Edges)
	}
	if len(dst.Caps) != 0 {
		t.Errorf("closed Caps = %v, want none", dst.Caps)
	}
}

func TestComputeChunksPartial(t *testing.T) {
	tp := polyline(zigzag(200, 0, 10, 0.5, 30)...)
	sp := NewStrokedPath(tp)
	p := unitClip(100)
	// keep local x <= 50
	p.ClipEquations = append(p.ClipEquations, geom.V3(-1, 0, 0))

	var s Scratch
	var dst ChunkSet
	data := sp.EdgeData(LineEdges)
	sel := Selection{Edges: data}
	if err := sp.ComputeChunks(&s, &p, &sel, &dst); err != nil {
		t.Fatalf("ComputeChunks() error = %v", err)
	}

	edges := sp.Edges()
	chunkElems := make(map[int]attrib.Range)
	for id := 0; id < edges.NumNodes(); id++ {
		chunkElems[edges.NonClosing(id).Chunk] = edges.NonClosing(id).Elements
	}
	covered := make([]bool, edges.NumNonClosing)
	for _, c := range dst.Edges {
		if c == edges.NonClosing(0).Chunk {
			t.Fatal("the root chunk was selected for a half visible path")
		}
		r := chunkElems[c]
		for i := r.Begin; i < r.End; i++ {
			covered[i] = true
		}
	}
	for i := 0; i < edges.NumNonClosing; i++ {
		e := &edges.Edges[i]
		if e.Bounds.Min().X < 49 && !covered[i] {
			t.Errorf("visible sub-edge %d at %v was culled", i, e.Start)
		}
	}
}

func TestComputeChunksBudget(t *testing.T) {
	tp := polyline(zigzag(200, 10, 10, 0.25, 30)...)
	sp := NewStrokedPath(tp)
	data := sp.EdgeData(LineEdges)
	edges := sp.Edges()

	largestLeaf := 0
	leaves := 0
	for id := 0; id < edges.NumNodes(); id++ {
		if _, _, ok := edges.Children(id); ok {
			continue
		}
		leaves++
		largestLeaf = max(largestLeaf, len(data.Chunk(edges.NonClosing(id).Chunk).Attributes))
	}

	var s Scratch
	var dst ChunkSet
	p := unitClip(100)
	p.MaxAttributes = largestLeaf
	sel := Selection{Edges: data}
	if err := sp.ComputeChunks(&s, &p, &sel, &dst); err != nil {
		t.Fatalf("ComputeChunks() error = %v", err)
	}
	if len(dst.Edges) < 2 || len(dst.Edges) > leaves {
		t.Errorf("len(Edges) = %d, want between 2 and %d", len(dst.Edges), leaves)
	}
	for _, c := range dst.Edges {
		if n := len(data.Chunk(c).Attributes); n > largestLeaf {
			t.Errorf("chunk %d has %d attributes, over the budget %d", c, n, largestLeaf)
		}
	}

	// below the smallest single edge
	p.MaxAttributes = 5
	err := sp.ComputeChunks(&s, &p, &sel, &dst)
	if err != ErrBudgetExceeded {
		t.Errorf("ComputeChunks() error = %v, want ErrBudgetExceeded", err)
	}
}

func TestComputeChunksJoinsOutside(t *testing.T) {
	tp := polyline(zigzag(200, 1000, 1000, 1, 30)...)
	sp := NewStrokedPath(tp)
	joins := sp.Joins()
	p := unitClip(100)

	var s Scratch
	var dst ChunkSet
	sel := Selection{
		Edges:        sp.EdgeData(LineEdges),
		Joins:        sp.JoinData(MiterJoins, 0),
		Caps:         sp.CapData(SquareCaps, 0),
		EdgeSlack:    1,
		JoinSlack:    1,
		JoinsOutside: true,
	}
	if err := sp.ComputeChunks(&s, &p, &sel, &dst); err != nil {
		t.Fatalf("ComputeChunks() error = %v", err)
	}
	if len(dst.Joins) != 1 || dst.Joins[0] != joins.NonClosingJoins(0).Chunk {
		t.Errorf("Joins = %v, want the root chunk %d", dst.Joins, joins.NonClosingJoins(0).Chunk)
	}
	if len(dst.Caps) != 0 || len(dst.Edges) != 0 {
		t.Errorf("Caps = %v, Edges = %v; want both culled", dst.Caps, dst.Edges)
	}

	p.IncludeClosing = true
	if err := sp.ComputeChunks(&s, &p, &sel, &dst); err != nil {
		t.Fatalf("ComputeChunks() error = %v", err)
	}
	want := []int{joins.NonClosingJoins(0).Chunk, joins.ClosingJoins(0).Chunk}
	if len(dst.Joins) != 2 || dst.Joins[0] != want[0] || dst.Joins[1] != want[1] {
		t.Errorf("closing Joins = %v, want %v", dst.Joins, want)
	}

	// over the budget the root gives way to smaller chunks
	largest := 0
	for i := range joins.Joins {
		largest = max(largest, len(sel.Joins.Chunk(joins.Joins[i].Chunk).Indices))
	}
	p.IncludeClosing = false
	p.MaxIndices = largest
	if err := sp.ComputeChunks(&s, &p, &sel, &dst); err != nil {
		t.Fatalf("ComputeChunks() error = %v", err)
	}
	if len(dst.Joins) < 2 {
		t.Errorf("len(Joins) = %d, want the root split up", len(dst.Joins))
	}
	for _, c := range dst.Joins {
		if n := len(sel.Joins.Chunk(c).Indices); n > largest {
			t.Errorf("chunk %d has %d indices, over the budget %d", c, n, largest)
		}
	}
}

func TestArcEdgesCarryNoCappers(t *testing.T) {
	sp := NewStrokedPath(corner())
	edges, _ := BuildSubEdges(corner())
	wantAttrs := 0
	for i := range edges {
		a, _ := edgeSize(ArcEdges, &edges[i])
		wantAttrs += a
	}
	d := sp.EdgeData(ArcEdges)
	if got := len(d.Attributes()); got != wantAttrs {
		t.Errorf("len(Attributes()) = %d, want %d", got, wantAttrs)
	}
	for i, a := range d.Attributes() {
		if pt := UnpackArcPoint(a); pt.Type() == ArcPointDashedCapper {
			t.Errorf("attribute %d is a dashed capper point", i)
		}
	}
	// a plain line segment is its six vertices and nothing else
	for i := range edges {
		if edges[i].HasBevel {
			continue
		}
		if a, n := edgeSize(ArcEdges, &edges[i]); a != 6 || n != 12 {
			t.Errorf("edgeSize(edge %d) = %d, %d; want 6, 12", i, a, n)
		}
	}
}
