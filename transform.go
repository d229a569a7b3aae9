package forge

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent is the world-space transform of an entity. For
// parented entities it is derived from LocalTransformComponent by the
// hierarchy system; for roots it is authoritative.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Dirty    bool
}

// LocalTransformComponent is a transform relative to the Parent entity.
type LocalTransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

type Parent struct {
	Entity EntityId
}

func IdentityTransform() TransformComponent {
	return TransformComponent{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func IdentityLocalTransform() LocalTransformComponent {
	return LocalTransformComponent{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix composes translation * rotation * scale.
func (t *TransformComponent) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

func (t *LocalTransformComponent) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

func mulVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}

// getTransform fetches an entity's world transform by value. The second
// return is false when the entity is gone or carries no transform.
func getTransform(cmd *Commands, eid EntityId) (TransformComponent, bool) {
	for _, c := range cmd.GetAllComponents(eid) {
		if tr, ok := c.(TransformComponent); ok {
			return tr, true
		}
	}
	return TransformComponent{}, false
}

func getLocalTransform(cmd *Commands, eid EntityId) (LocalTransformComponent, bool) {
	for _, c := range cmd.GetAllComponents(eid) {
		if tr, ok := c.(LocalTransformComponent); ok {
			return tr, true
		}
	}
	return LocalTransformComponent{}, false
}

func getParent(cmd *Commands, eid EntityId) (EntityId, bool) {
	for _, c := range cmd.GetAllComponents(eid) {
		if p, ok := c.(Parent); ok {
			return p.Entity, true
		}
	}
	return NoEntity, false
}
