package forge

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTransformHierarchy(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	parent := cmd.AddEntity(
		TransformComponent{
			Position: mgl32.Vec3{10, 0, 0},
			Rotation: mgl32.QuatIdent(),
			Scale:    mgl32.Vec3{1, 1, 1},
		},
	)
	child := cmd.AddEntity(
		Parent{Entity: parent},
		LocalTransformComponent{
			Position: mgl32.Vec3{0, 5, 0},
			Rotation: mgl32.QuatIdent(),
			Scale:    mgl32.Vec3{1, 1, 1},
		},
		TransformComponent{},
	)
	grandchild := cmd.AddEntity(
		Parent{Entity: child},
		LocalTransformComponent{
			Position: mgl32.Vec3{0, 0, 2},
			Rotation: mgl32.QuatIdent(),
			Scale:    mgl32.Vec3{1, 1, 1},
		},
		TransformComponent{},
	)

	app.FlushCommands()

	TransformHierarchySystem(cmd)

	childWorld, ok := getTransform(cmd, child)
	if !ok {
		t.Fatal("Child lost its world transform")
	}
	if childWorld.Position != (mgl32.Vec3{10, 5, 0}) {
		t.Errorf("Child world position: expected (10,5,0), got %v", childWorld.Position)
	}

	grandchildWorld, _ := getTransform(cmd, grandchild)
	if grandchildWorld.Position != (mgl32.Vec3{10, 5, 2}) {
		t.Errorf("Grandchild world position: expected (10,5,2), got %v", grandchildWorld.Position)
	}
}

func TestTransformHierarchy_ParentRotation(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	parent := cmd.AddEntity(
		TransformComponent{
			Position: mgl32.Vec3{0, 0, 0},
			Rotation: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}),
			Scale:    mgl32.Vec3{1, 1, 1},
		},
	)
	child := cmd.AddEntity(
		Parent{Entity: parent},
		LocalTransformComponent{
			Position: mgl32.Vec3{1, 0, 0},
			Rotation: mgl32.QuatIdent(),
			Scale:    mgl32.Vec3{1, 1, 1},
		},
		TransformComponent{},
	)

	app.FlushCommands()
	TransformHierarchySystem(cmd)

	// +X rotated 90 degrees around Y lands on -Z
	childWorld, _ := getTransform(cmd, child)
	if !almostEqual(childWorld.Position.X(), 0, 1e-5) || !almostEqual(childWorld.Position.Z(), -1, 1e-5) {
		t.Errorf("Expected rotated child near (0,0,-1), got %v", childWorld.Position)
	}
}

func TestTransformHierarchy_ParentScale(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	parent := cmd.AddEntity(
		TransformComponent{
			Position: mgl32.Vec3{0, 0, 0},
			Rotation: mgl32.QuatIdent(),
			Scale:    mgl32.Vec3{2, 2, 2},
		},
	)
	child := cmd.AddEntity(
		Parent{Entity: parent},
		LocalTransformComponent{
			Position: mgl32.Vec3{1, 0, 0},
			Rotation: mgl32.QuatIdent(),
			Scale:    mgl32.Vec3{1, 1, 1},
		},
		TransformComponent{},
	)

	app.FlushCommands()
	TransformHierarchySystem(cmd)

	childWorld, _ := getTransform(cmd, child)
	if childWorld.Position != (mgl32.Vec3{2, 0, 0}) {
		t.Errorf("Expected scaled child at (2,0,0), got %v", childWorld.Position)
	}
	if childWorld.Scale != (mgl32.Vec3{2, 2, 2}) {
		t.Errorf("Expected inherited scale (2,2,2), got %v", childWorld.Scale)
	}
}

func TestTransformHierarchy_MissingParent(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	child := cmd.AddEntity(
		Parent{Entity: EntityId(9999)},
		LocalTransformComponent{
			Position: mgl32.Vec3{1, 2, 3},
			Rotation: mgl32.QuatIdent(),
			Scale:    mgl32.Vec3{1, 1, 1},
		},
		TransformComponent{Position: mgl32.Vec3{7, 7, 7}},
	)

	app.FlushCommands()
	TransformHierarchySystem(cmd)

	// Orphaned child keeps its last world transform
	childWorld, _ := getTransform(cmd, child)
	if childWorld.Position != (mgl32.Vec3{7, 7, 7}) {
		t.Errorf("Orphan should keep its world position, got %v", childWorld.Position)
	}
}
