package forge

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Gizmo geometry tables. All vertices are in the gizmo's local space,
// as line lists (consecutive vertex pairs form segments); the rig's
// transform places and scales them in the world.

const (
	GizmoSizeOnScreenPixels = 150.0

	gizmoAxisOffset          = 0.2
	gizmoAxisLength          = 1.0
	gizmoAxisDetectionRadius = 0.075

	gizmoPlaneOffset = 0.25
	gizmoPlaneSize   = 0.25

	gizmoRingRadius   = 1.0
	gizmoRingSegments = 32

	gizmoAxisLineWidth  = 3.0
	gizmoPlaneLineWidth = 2.0
)

type GizmoVertex struct {
	Position  mgl32.Vec3
	LineWidth float32
}

var gizmoAxisDirs = [3]mgl32.Vec3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// gizmoPlaneSpan maps a plane index to the two axis indices spanning
// it: 0 is XY, 1 is XZ, 2 is YZ.
var gizmoPlaneSpan = [3][2]int{
	{0, 1},
	{0, 2},
	{1, 2},
}

// GizmoPlaneNormal returns the unit normal of plane i in gizmo space.
func GizmoPlaneNormal(plane int) mgl32.Vec3 {
	span := gizmoPlaneSpan[plane]
	return gizmoAxisDirs[span[0]].Cross(gizmoAxisDirs[span[1]])
}

// GizmoPlaneSpan returns the two spanning unit axes of plane i.
func GizmoPlaneSpan(plane int) (mgl32.Vec3, mgl32.Vec3) {
	span := gizmoPlaneSpan[plane]
	return gizmoAxisDirs[span[0]], gizmoAxisDirs[span[1]]
}

// GizmoAxisSegment returns the endpoints of axis i's line segment in
// gizmo space, used both for drawing and for the capsule hit test.
func GizmoAxisSegment(axis int) (mgl32.Vec3, mgl32.Vec3) {
	d := gizmoAxisDirs[axis]
	return d.Mul(gizmoAxisOffset), d.Mul(gizmoAxisOffset + gizmoAxisLength)
}

// gizmoPlaneCorners returns the four outline corners of plane i.
func gizmoPlaneCorners(plane int) [4]mgl32.Vec3 {
	u, v := GizmoPlaneSpan(plane)
	base := u.Add(v).Mul(gizmoPlaneOffset)
	return [4]mgl32.Vec3{
		base,
		base.Add(u.Mul(gizmoPlaneSize)),
		base.Add(u.Add(v).Mul(gizmoPlaneSize)),
		base.Add(v.Mul(gizmoPlaneSize)),
	}
}

// GizmoPlaneCenter returns the midpoint of plane i's quad, the anchor
// for the plane hit test.
func GizmoPlaneCenter(plane int) mgl32.Vec3 {
	u, v := GizmoPlaneSpan(plane)
	return u.Add(v).Mul(gizmoPlaneOffset + gizmoPlaneSize/2)
}

// GizmoPlaneContains reports whether a point already on plane i's
// plane falls inside its quad. p is in gizmo space.
func GizmoPlaneContains(plane int, p mgl32.Vec3) bool {
	u, v := GizmoPlaneSpan(plane)
	pu := p.Dot(u)
	pv := p.Dot(v)
	lo := float32(gizmoPlaneOffset)
	hi := float32(gizmoPlaneOffset + gizmoPlaneSize)
	return pu >= lo && pu <= hi && pv >= lo && pv <= hi
}

// TranslationGizmoVertices lays out three axis segments followed by
// three plane outlines. The sub-ranges returned by
// GizmoAxisHighlightRange and GizmoPlaneHighlightRange index into this
// slice.
func TranslationGizmoVertices() []GizmoVertex {
	verts := make([]GizmoVertex, 0, 30)

	for axis := 0; axis < 3; axis++ {
		a, b := GizmoAxisSegment(axis)
		verts = append(verts,
			GizmoVertex{Position: a, LineWidth: gizmoAxisLineWidth},
			GizmoVertex{Position: b, LineWidth: gizmoAxisLineWidth},
		)
	}

	for plane := 0; plane < 3; plane++ {
		c := gizmoPlaneCorners(plane)
		for i := 0; i < 4; i++ {
			verts = append(verts,
				GizmoVertex{Position: c[i], LineWidth: gizmoPlaneLineWidth},
				GizmoVertex{Position: c[(i+1)%4], LineWidth: gizmoPlaneLineWidth},
			)
		}
	}

	return verts
}

// RotationGizmoVertices lays out three rings, one per rotation axis,
// each a closed loop of gizmoRingSegments segments.
func RotationGizmoVertices() []GizmoVertex {
	verts := make([]GizmoVertex, 0, 3*2*gizmoRingSegments)

	for plane := 0; plane < 3; plane++ {
		u, v := GizmoPlaneSpan(plane)
		for i := 0; i < gizmoRingSegments; i++ {
			a0 := 2 * math.Pi * float64(i) / gizmoRingSegments
			a1 := 2 * math.Pi * float64(i+1) / gizmoRingSegments

			p0 := u.Mul(float32(math.Cos(a0) * gizmoRingRadius)).Add(v.Mul(float32(math.Sin(a0) * gizmoRingRadius)))
			p1 := u.Mul(float32(math.Cos(a1) * gizmoRingRadius)).Add(v.Mul(float32(math.Sin(a1) * gizmoRingRadius)))

			verts = append(verts,
				GizmoVertex{Position: p0, LineWidth: gizmoAxisLineWidth},
				GizmoVertex{Position: p1, LineWidth: gizmoAxisLineWidth},
			)
		}
	}

	return verts
}

// ScaleGizmoVertices lays out three axis segments with a short cross
// tick at each tip.
func ScaleGizmoVertices() []GizmoVertex {
	verts := make([]GizmoVertex, 0, 6+12)

	for axis := 0; axis < 3; axis++ {
		a, b := GizmoAxisSegment(axis)
		verts = append(verts,
			GizmoVertex{Position: a, LineWidth: gizmoAxisLineWidth},
			GizmoVertex{Position: b, LineWidth: gizmoAxisLineWidth},
		)
	}

	const tick = 0.06
	for axis := 0; axis < 3; axis++ {
		_, tip := GizmoAxisSegment(axis)
		u := gizmoAxisDirs[(axis+1)%3]
		v := gizmoAxisDirs[(axis+2)%3]
		verts = append(verts,
			GizmoVertex{Position: tip.Sub(u.Mul(tick)), LineWidth: gizmoAxisLineWidth},
			GizmoVertex{Position: tip.Add(u.Mul(tick)), LineWidth: gizmoAxisLineWidth},
			GizmoVertex{Position: tip.Sub(v.Mul(tick)), LineWidth: gizmoAxisLineWidth},
			GizmoVertex{Position: tip.Add(v.Mul(tick)), LineWidth: gizmoAxisLineWidth},
		)
	}

	return verts
}

// TranslationAxisEntityVertices returns the per-axis slice of the
// translation gizmo: axis i's segment followed by plane i's outline.
// Within it the axis occupies [0, 2) and the plane [2, 10).
func TranslationAxisEntityVertices(axis int) []GizmoVertex {
	verts := make([]GizmoVertex, 0, 10)

	a, b := GizmoAxisSegment(axis)
	verts = append(verts,
		GizmoVertex{Position: a, LineWidth: gizmoAxisLineWidth},
		GizmoVertex{Position: b, LineWidth: gizmoAxisLineWidth},
	)

	c := gizmoPlaneCorners(axis)
	for i := 0; i < 4; i++ {
		verts = append(verts,
			GizmoVertex{Position: c[i], LineWidth: gizmoPlaneLineWidth},
			GizmoVertex{Position: c[(i+1)%4], LineWidth: gizmoPlaneLineWidth},
		)
	}

	return verts
}

// RotationAxisEntityVertices returns ring i of the rotation gizmo.
func RotationAxisEntityVertices(axis int) []GizmoVertex {
	all := RotationGizmoVertices()
	start, end := GizmoRingHighlightRange(axis)
	return all[start:end]
}

// ScaleAxisEntityVertices returns axis i's segment and tip ticks of
// the scale gizmo.
func ScaleAxisEntityVertices(axis int) []GizmoVertex {
	verts := make([]GizmoVertex, 0, 6)

	a, b := GizmoAxisSegment(axis)
	verts = append(verts,
		GizmoVertex{Position: a, LineWidth: gizmoAxisLineWidth},
		GizmoVertex{Position: b, LineWidth: gizmoAxisLineWidth},
	)

	const tick = 0.06
	_, tip := GizmoAxisSegment(axis)
	u := gizmoAxisDirs[(axis+1)%3]
	v := gizmoAxisDirs[(axis+2)%3]
	verts = append(verts,
		GizmoVertex{Position: tip.Sub(u.Mul(tick)), LineWidth: gizmoAxisLineWidth},
		GizmoVertex{Position: tip.Add(u.Mul(tick)), LineWidth: gizmoAxisLineWidth},
		GizmoVertex{Position: tip.Sub(v.Mul(tick)), LineWidth: gizmoAxisLineWidth},
		GizmoVertex{Position: tip.Add(v.Mul(tick)), LineWidth: gizmoAxisLineWidth},
	)

	return verts
}

// Highlight ranges within a per-axis entity mesh.
const (
	GizmoEntityAxisStart  = 0
	GizmoEntityAxisEnd    = 2
	GizmoEntityPlaneStart = 2
	GizmoEntityPlaneEnd   = 10
)

// GizmoAxisHighlightRange returns the [start, end) vertex range of
// axis i within TranslationGizmoVertices.
func GizmoAxisHighlightRange(axis int) (int, int) {
	return axis * 2, axis*2 + 2
}

// GizmoPlaneHighlightRange returns the [start, end) vertex range of
// plane i's outline within TranslationGizmoVertices.
func GizmoPlaneHighlightRange(plane int) (int, int) {
	start := 6 + plane*8
	return start, start + 8
}

// GizmoRingHighlightRange returns the [start, end) vertex range of
// ring i within RotationGizmoVertices.
func GizmoRingHighlightRange(ring int) (int, int) {
	per := 2 * gizmoRingSegments
	return ring * per, (ring + 1) * per
}
