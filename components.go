package forge

import (
	"github.com/go-gl/mathgl/mgl32"
)

type MeshComponent struct {
	Mesh    Mesh
	Visible bool
}

// MaterialComponent drives how the renderer shades an entity.
// HighlightStart/HighlightEnd select the vertex sub-range drawn with
// the highlight color while Highlighted is set; (0, 0) means the whole
// mesh.
type MaterialComponent struct {
	Material       Material
	Color          [4]float32
	HighlightColor [4]float32
	Highlighted    bool
	HighlightStart int
	HighlightEnd   int
}

// ColliderComponent is a sphere used for click picking, with an AABB
// half-extent for the broadphase grid.
type ColliderComponent struct {
	Radius          float32
	AABBHalfExtents mgl32.Vec3
}

// EditorSelectedComponent tags the entity currently selected in the
// editor.
type EditorSelectedComponent struct{}
