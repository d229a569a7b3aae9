package forge

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func selectionTestApp(t *testing.T) (*App, *Commands, *EventBus) {
	t.Helper()
	app := NewApp()
	cmd := app.Commands()

	bus := &EventBus{}
	cmd.AddResources(bus, NewSpatialHashGrid(2.0))

	cmd.AddEntity(CameraComponent{
		Position: mgl32.Vec3{0, 0, 10},
		LookAt:   mgl32.Vec3{0, 0, 0},
		Up:       mgl32.Vec3{0, 1, 0},
		Fov:      mgl32.DegToRad(60),
		Aspect:   800.0 / 600.0,
		Near:     0.1,
		Far:      100,
		Viewport: [4]float32{0, 0, 800, 600},
	})
	return app, cmd, bus
}

func rebuildSelectionIndex(app *App, cmd *Commands) {
	app.FlushCommands()
	UpdateAABBsSystem(cmd)
	grid, _ := GetResource[SpatialHashGrid](app)
	UpdateSpatialGridSystem(cmd, grid)
}

func addPickableBox(cmd *Commands, pos mgl32.Vec3) EntityId {
	return cmd.AddEntity(
		TransformComponent{Position: pos, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
		ColliderComponent{Radius: 0.8, AABBHalfExtents: mgl32.Vec3{0.8, 0.8, 0.8}},
		AABBComponent{},
	)
}

func TestPickPress_SelectsNearestCollider(t *testing.T) {
	app, cmd, bus := selectionTestApp(t)
	box := addPickableBox(cmd, mgl32.Vec3{0, 0, 0})
	behind := addPickableBox(cmd, mgl32.Vec3{0, 0, -5})
	rebuildSelectionIndex(app, cmd)

	var selected []EntityId
	bus.Subscribe(EventEntitySelected, func(ev Event) {
		selected = append(selected, ev.Entity)
	})

	// Viewport center: the ray passes through both boxes.
	handlePickPress(app, cmd, bus, 400, 300)
	app.FlushCommands()

	if len(selected) != 1 || selected[0] != box {
		t.Fatalf("Expected selection event for %v, got %v", box, selected)
	}
	if _, ok := GetComponent[EditorSelectedComponent](cmd, box); !ok {
		t.Error("Picked entity should carry the selection tag")
	}
	if _, ok := GetComponent[EditorSelectedComponent](cmd, behind); ok {
		t.Error("Occluded entity should not be selected")
	}
}

func TestPickPress_EmptyClickDeselects(t *testing.T) {
	app, cmd, bus := selectionTestApp(t)
	box := addPickableBox(cmd, mgl32.Vec3{0, 0, 0})
	rebuildSelectionIndex(app, cmd)

	var deselected []EntityId
	bus.Subscribe(EventEntityDeselected, func(ev Event) {
		deselected = append(deselected, ev.Entity)
	})

	handlePickPress(app, cmd, bus, 400, 300)
	app.FlushCommands()

	// Click the top-left corner, far off every collider.
	handlePickPress(app, cmd, bus, 5, 595)
	app.FlushCommands()

	if len(deselected) != 1 || deselected[0] != box {
		t.Fatalf("Expected deselection event for %v, got %v", box, deselected)
	}
	if _, ok := GetComponent[EditorSelectedComponent](cmd, box); ok {
		t.Error("Selection tag should be removed on empty click")
	}
}

func TestPickPress_RepeatedPickIsStable(t *testing.T) {
	app, cmd, bus := selectionTestApp(t)
	addPickableBox(cmd, mgl32.Vec3{0, 0, 0})
	rebuildSelectionIndex(app, cmd)

	events := 0
	bus.Subscribe(EventEntitySelected, func(ev Event) { events++ })
	bus.Subscribe(EventEntityDeselected, func(ev Event) { events++ })

	handlePickPress(app, cmd, bus, 400, 300)
	app.FlushCommands()
	handlePickPress(app, cmd, bus, 400, 300)
	app.FlushCommands()

	if events != 1 {
		t.Errorf("Re-picking the same entity should publish nothing, got %d events", events)
	}
}

func TestPickPress_YieldsToGizmo(t *testing.T) {
	app, cmd, bus := selectionTestApp(t)
	box := addPickableBox(cmd, mgl32.Vec3{0, 0, 0})
	rebuildSelectionIndex(app, cmd)

	cmd.AddResources(&GizmoInteraction{State: GizmoStateHoveringAxis})

	handlePickPress(app, cmd, bus, 400, 300)
	app.FlushCommands()

	if _, ok := GetComponent[EditorSelectedComponent](cmd, box); ok {
		t.Error("Picking must yield while the gizmo owns the mouse")
	}
}

func TestPickPress_IgnoresGizmoRigEntities(t *testing.T) {
	app, cmd, bus := selectionTestApp(t)
	rig := cmd.AddEntity(
		TransformComponent{Position: mgl32.Vec3{0, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
		ColliderComponent{Radius: 0.8, AABBHalfExtents: mgl32.Vec3{0.8, 0.8, 0.8}},
		AABBComponent{},
		GizmoRigComponent{},
	)
	rebuildSelectionIndex(app, cmd)

	handlePickPress(app, cmd, bus, 400, 300)
	app.FlushCommands()

	if _, ok := GetComponent[EditorSelectedComponent](cmd, rig); ok {
		t.Error("Gizmo rig entities must never be pickable")
	}
}
