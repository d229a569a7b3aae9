package forge

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray and segment intersection helpers shared by picking and gizmo
// dragging. Rays are origin + t*direction with t >= 0; directions are
// not required to be unit length unless stated.

// RayRayNearestPoint returns (t, s, distance): the parameters of the
// nearest points on each ray and the distance between those points.
// For near-parallel rays it falls back to projecting ray a's origin
// onto ray b.
func RayRayNearestPoint(ro, rd, ao, ad mgl32.Vec3) (float32, float32, float32) {
	r := ro.Sub(ao)
	a := rd.Dot(rd)
	b := rd.Dot(ad)
	e := ad.Dot(ad)
	f := ad.Dot(r)

	det := a*e - b*b
	if det < 1e-6 {
		if e > 0 {
			s := f / e
			p := ao.Add(ad.Mul(s))
			return 0, s, p.Sub(ro).Len()
		}
		return 0, 0, r.Len()
	}

	c := rd.Dot(r)
	t := (b*f - c*e) / det
	s := (a*f - b*c) / det

	p1 := ro.Add(rd.Mul(t))
	p2 := ao.Add(ad.Mul(s))
	return t, s, p1.Sub(p2).Len()
}

// NearestPointOnSegment clamps the projection of p onto segment ab.
func NearestPointOnSegment(p, a, b mgl32.Vec3) mgl32.Vec3 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return a
	}

	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return a.Add(ab.Mul(t))
}

// Distance2RayPoint returns the squared distance from a point to the
// ray and the parameter t of the closest point on the ray (clamped to
// t >= 0). rd must be non-zero.
func Distance2RayPoint(ro, rd, p mgl32.Vec3) (float32, float32) {
	lenSq := rd.Dot(rd)
	t := p.Sub(ro).Dot(rd) / lenSq
	if t < 0 {
		t = 0
	}
	q := ro.Add(rd.Mul(t))
	d := p.Sub(q)
	return d.Dot(d), t
}

// Distance2RaySegment returns the squared distance between a ray and a
// segment, and the ray parameter t at the closest approach.
func Distance2RaySegment(ro, rd, a, b mgl32.Vec3) (float32, float32) {
	_, s, _ := RayRayNearestPoint(ro, rd, a, b.Sub(a))
	if s < 0 {
		s = 0
	}
	if s > 1 {
		s = 1
	}

	segPoint := a.Add(b.Sub(a).Mul(s))
	return Distance2RayPoint(ro, rd, segPoint)
}

// IntersectRaySphere returns the two intersection parameters t0 <= t1,
// or false when the ray misses. Intersections behind the origin are
// reported with negative t.
func IntersectRaySphere(ro, rd, center mgl32.Vec3, radius float32) (bool, float32, float32) {
	dir := rd.Normalize()
	m := ro.Sub(center)
	bHalf := m.Dot(dir)
	c := m.Dot(m) - radius*radius

	disc := bHalf*bHalf - c
	if disc < 0 {
		return false, 0, 0
	}

	sq := float32(math.Sqrt(float64(disc)))
	return true, -bHalf - sq, -bHalf + sq
}

// IntersectRayCapsule tests a ray against a capsule given by segment ab
// and radius.
func IntersectRayCapsule(ro, rd, a, b mgl32.Vec3, radius float32) (bool, float32) {
	d2, t := Distance2RaySegment(ro, rd, a, b)
	if d2 >= radius*radius {
		return false, 0
	}
	return true, t
}

// IntersectRayPlane intersects a ray with the plane n.x = offset.
// Rejects parallel rays and hits behind the origin.
func IntersectRayPlane(ro, rd, normal mgl32.Vec3, offset float32) (bool, float32) {
	denom := normal.Dot(rd)
	if denom == 0 {
		return false, 0
	}

	t := (offset - normal.Dot(ro)) / denom
	if t < 0 {
		return false, 0
	}
	return true, t
}

// RayPoint evaluates ro + t*rd.
func RayPoint(ro, rd mgl32.Vec3, t float32) mgl32.Vec3 {
	return ro.Add(rd.Mul(t))
}
