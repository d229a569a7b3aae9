package forge

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Click selection: a left press casts a ray through the viewport and
// picks the nearest collider. The gizmo owns the mouse while hovering
// or dragging, so picking yields to it.

const selectionRayMaxDist = 1000.0

type SelectionModule struct{}

func (m SelectionModule) Install(app *App, cmd *Commands) {
	if bus, ok := GetResource[EventBus](app); ok {
		bus.Subscribe(EventMouseButtonPress, func(ev Event) {
			if ev.Button != MouseButtonLeft {
				return
			}
			handlePickPress(app, cmd, bus, ev.X, ev.Y)
		})
	}
}

func handlePickPress(app *App, cmd *Commands, bus *EventBus, x, y float32) {
	gz, hasGizmo := GetResource[GizmoInteraction](app)
	if hasGizmo && gz.IsBusy() {
		return
	}
	grid, ok := GetResource[SpatialHashGrid](app)
	if !ok {
		return
	}

	picked := NoEntity
	bestT := float32(math.Inf(1))

	MakeQuery1[CameraComponent](cmd).Map(func(camEid EntityId, cam *CameraComponent) bool {
		origin, dir, inView := CameraPixelRay(cam, x, y)
		if !inView {
			return true
		}

		for _, eid := range grid.QueryRay(origin, dir, selectionRayMaxDist) {
			tr, okTr := GetComponent[TransformComponent](cmd, eid)
			col, okCol := GetComponent[ColliderComponent](cmd, eid)
			if !okTr || !okCol {
				continue
			}
			if _, isRig := GetComponent[GizmoRigComponent](cmd, eid); isRig {
				continue
			}

			radius := col.Radius * maxAbsComponent(tr.Scale)
			hit, t0, t1 := IntersectRaySphere(origin, dir, tr.Position, radius)
			if !hit || t1 < 0 {
				continue
			}
			t := t0
			if t < 0 {
				t = t1
			}
			if t < bestT {
				bestT = t
				picked = eid
			}
		}
		return true
	})

	applySelection(cmd, bus, picked)
}

// applySelection retags the selected entity and publishes the
// selection events. Picking nothing clears the selection.
func applySelection(cmd *Commands, bus *EventBus, picked EntityId) {
	prev := NoEntity
	MakeQuery1[EditorSelectedComponent](cmd).Map(func(eid EntityId, sel *EditorSelectedComponent) bool {
		prev = eid
		return false
	})

	if picked == prev {
		return
	}

	if prev != NoEntity {
		cmd.RemoveComponents(prev, EditorSelectedComponent{})
		bus.Publish(Event{Type: EventEntityDeselected, Entity: prev})
	}
	if picked != NoEntity {
		cmd.AddComponents(picked, EditorSelectedComponent{})
		bus.Publish(Event{Type: EventEntitySelected, Entity: picked})
	}
}

func maxAbsComponent(v mgl32.Vec3) float32 {
	m := float32(math.Abs(float64(v.X())))
	if a := float32(math.Abs(float64(v.Y()))); a > m {
		m = a
	}
	if a := float32(math.Abs(float64(v.Z()))); a > m {
		m = a
	}
	return m
}
