package stroke

import (
	"math"

	"github.com/gogpu/strokemesh/internal/geom"
	"github.com/gogpu/strokemesh/internal/path"
)

// segmentTris are the two quads sharing the center line of a segment.
var segmentTris = []uint32{
	0, 2, 5,
	0, 5, 3,
	2, 1, 4,
	2, 4, 5,
}

var arcSegmentTris = []uint32{
	4, 6, 7,
	4, 7, 5,
	2, 4, 5,
	2, 5, 3,
	8, 0, 1,
	9, 2, 3,
	0, 1, 10,
	1, 10, 11,
}

var (
	segmentBoundary = [3]bool{true, true, false}
	segmentSign     = [3]float64{1, -1, 0}
)

// edgeSize returns the vertex and index count of sub-edge e drawn with
// style s, including its bevels.
func edgeSize(s EdgeStyle, e *SubEdge) (int, int) {
	if s == LineEdges {
		a, i := 6, 12
		if e.HasBevel {
			a, i = a+6, i+6
		}
		return a, i
	}

	var a, i int
	if e.HasBevel {
		if e.UseArcForBevel {
			a, i = a+10, i+18
		} else {
			a, i = a+6, i+6
		}
	}
	if e.Type == path.ArcSegment {
		return a + 12, i + 24
	}
	return a + 6, i + 12
}

func edgeStartPoint(e *SubEdge) StrokedPoint {
	return StrokedPoint{
		Position:                 e.Start,
		DistanceFromEdgeStart:    e.DistanceFromEdgeStart,
		DistanceFromContourStart: e.DistanceFromContourStart,
		EdgeLength:               e.EdgeLength,
		ContourLength:            e.ContourLength,
	}
}

func edgeEndPoint(e *SubEdge) StrokedPoint {
	p := edgeStartPoint(e)
	p.Position = e.End
	p.DistanceFromEdgeStart += e.Length
	p.DistanceFromContourStart += e.Length
	return p
}

// packLineEdge writes e with StrokedPoint vertices: the outer bevel, the
// segment quads, then the inner bevel.
func packLineEdge(w *meshWriter, e *SubEdge, depth uint32) {
	if e.HasBevel {
		packLineBevel(w, e, e.BevelLambda, depth)
	}

	base := w.vertex()
	start, end := edgeStartPoint(e), edgeEndPoint(e)
	for k := 0; k < 3; k++ {
		start.PreOffset = e.BeginNormal.Mul(segmentSign[k])
		start.AuxiliaryOffset = e.Delta
		start.Packed = PackStrokedBits(segmentBoundary[k], PointSubEdge, depth)
		w.stroked(&start)
	}
	for k := 0; k < 3; k++ {
		end.PreOffset = e.EndNormal.Mul(segmentSign[k])
		end.AuxiliaryOffset = e.Delta.Neg()
		end.Packed = PackStrokedBits(segmentBoundary[k], PointSubEdge, depth) | EndSubEdgeMask
		w.stroked(&end)
	}
	w.tris(base, segmentTris)

	if e.HasBevel {
		packLineBevel(w, e, -e.BevelLambda, depth)
	}
}

func packLineBevel(w *meshWriter, e *SubEdge, lambda float64, depth uint32) {
	base := w.vertex()
	pt := edgeStartPoint(e)
	pt.Packed = PackStrokedBits(false, PointSubEdge, depth) | BevelEdgeMask
	w.stroked(&pt)
	pt.PreOffset = e.BevelNormal.Mul(lambda)
	pt.Packed = PackStrokedBits(true, PointSubEdge, depth) | BevelEdgeMask
	w.stroked(&pt)
	pt.PreOffset = e.BeginNormal.Mul(lambda)
	w.stroked(&pt)
	w.indices = append(w.indices, base, base+1, base+2)
}

func edgeStartArcPoint(e *SubEdge) ArcPoint {
	return ArcPoint{
		Position:                 e.Start,
		DistanceFromEdgeStart:    e.DistanceFromEdgeStart,
		DistanceFromContourStart: e.DistanceFromContourStart,
		EdgeLength:               e.EdgeLength,
		ContourLength:            e.ContourLength,
	}
}

func edgeEndArcPoint(e *SubEdge) ArcPoint {
	p := edgeStartArcPoint(e)
	p.Position = e.End
	p.DistanceFromEdgeStart += e.Length
	p.DistanceFromContourStart += e.Length
	return p
}

// packArcEdge writes e with ArcPoint vertices: the outer bevel, the
// segment, then the inner bevel.
func packArcEdge(w *meshWriter, e *SubEdge, depth uint32) {
	if e.HasBevel {
		packArcBevel(w, e, e.BevelLambda, depth)
	}
	if e.Type == path.ArcSegment {
		packArcSegment(w, e, depth)
	} else {
		packArcLineSegment(w, e, depth)
	}
	if e.HasBevel {
		packArcBevel(w, e, -e.BevelLambda, depth)
	}
}

func packArcBevel(w *meshWriter, e *SubEdge, lambda float64, depth uint32) {
	pt := edgeStartArcPoint(e)
	n0, n1 := e.BevelNormal.Mul(lambda), e.BeginNormal.Mul(lambda)
	if e.UseArcForBevel {
		packArcJoin(w, &pt, 1, n0, angleBetween(n0, n1), n1, depth, false)
		return
	}
	base := w.vertex()
	pt.Packed = ArcDistanceConstantMask | PackArcBits(false, ArcPointLineSegment, depth)
	w.arc(&pt)
	pt.Packed = ArcDistanceConstantMask | PackArcBits(true, ArcPointLineSegment, depth)
	pt.OffsetDirection = n0
	w.arc(&pt)
	pt.OffsetDirection = n1
	w.arc(&pt)
	w.indices = append(w.indices, base, base+1, base+2)
}

func packArcLineSegment(w *meshWriter, e *SubEdge, depth uint32) {
	base := w.vertex()
	start, end := edgeStartArcPoint(e), edgeEndArcPoint(e)
	for k := 0; k < 3; k++ {
		start.OffsetDirection = e.BeginNormal.Mul(segmentSign[k])
		start.Data = e.Delta
		start.Packed = PackArcBits(segmentBoundary[k], ArcPointLineSegment, depth)
		w.arc(&start)
	}
	for k := 0; k < 3; k++ {
		end.OffsetDirection = e.EndNormal.Mul(segmentSign[k])
		end.Data = e.Delta.Neg()
		end.Packed = PackArcBits(segmentBoundary[k], ArcPointLineSegment, depth) | ArcEndSegmentMask
		w.arc(&end)
	}
	w.tris(base, segmentTris)
}

// packArcSegment writes the twelve vertices of an arc: pairs on the inner
// boundary, on the arc, on the outer boundary, beyond the outer boundary,
// collapsing to the center, and beyond the inner boundary.
func packArcSegment(w *meshWriter, e *SubEdge, depth uint32) {
	base := w.vertex()
	begin, end := edgeStartArcPoint(e), edgeEndArcPoint(e)
	data := geom.V2(e.Radius, e.AngleEnd-e.AngleBegin)
	begin.Data, end.Data = data, data
	sb, cb := math.Sincos(e.AngleBegin)
	se, ce := math.Sincos(e.AngleEnd)
	begin.OffsetDirection = geom.V2(cb, sb)
	end.OffsetDirection = geom.V2(ce, se)

	pair := func(beginWord, endWord uint32) {
		begin.Packed = beginWord
		w.arc(&begin)
		end.Packed = endWord
		w.arc(&end)
	}
	onArc := PackArcBits(false, ArcPointArc, depth)
	boundary := PackArcBits(true, ArcPointArc, depth)

	inner := ArcInnerStrokingMask | boundary
	pair(inner, inner|ArcEndSegmentMask)
	pair(onArc, onArc|ArcEndSegmentMask)
	pair(boundary, boundary|ArcEndSegmentMask)
	pair(ArcBeyondBoundaryMask|boundary, ArcBeyondBoundaryMask|boundary|ArcEndSegmentMask)
	pair(ArcMoveToCenterMask|onArc, ArcMoveToCenterMask|ArcEndSegmentMask|ArcInnerStrokingMask|boundary)
	beyondInner := ArcBeyondBoundaryMask | ArcInnerStrokingMask | boundary
	pair(beyondInner, beyondInner|ArcEndSegmentMask)

	w.tris(base, arcSegmentTris)
}
