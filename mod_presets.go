package forge

import (
	"encoding/json"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene presets: JSON snapshots of the editable entities. Gizmo rig
// entities are editor internals and never persisted.

type EntityData struct {
	ID         EntityId   `json:"id"`
	Position   mgl32.Vec3 `json:"position"`
	Rotation   mgl32.Quat `json:"rotation"`
	Scale      mgl32.Vec3 `json:"scale"`
	HasLocal   bool       `json:"has_local"`
	LocalPos   mgl32.Vec3 `json:"local_position,omitempty"`
	LocalRot   mgl32.Quat `json:"local_rotation,omitempty"`
	LocalScale mgl32.Vec3 `json:"local_scale,omitempty"`
	HasParent  bool       `json:"has_parent"`
	ParentID   EntityId   `json:"parent_id"`

	HasCollider    bool       `json:"has_collider"`
	ColliderRadius float32    `json:"collider_radius,omitempty"`
	ColliderHalf   mgl32.Vec3 `json:"collider_half_extents,omitempty"`

	HasMaterial   bool       `json:"has_material"`
	MaterialColor [4]float32 `json:"material_color,omitempty"`
}

type PresetData struct {
	Entities []EntityData `json:"entities"`
}

func SavePreset(cmd *Commands, filename string) error {
	preset := CapturePreset(cmd)

	bytes, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filename, bytes, 0644)
}

// CapturePreset snapshots every entity with a world transform, except
// editor-internal ones.
func CapturePreset(cmd *Commands) PresetData {
	var entities []EntityData

	MakeQuery1[TransformComponent](cmd).WithoutTypes(GizmoRigComponent{}).Map(func(eid EntityId, tr *TransformComponent) bool {
		data := EntityData{
			ID:       eid,
			Position: tr.Position,
			Rotation: tr.Rotation,
			Scale:    tr.Scale,
		}

		for _, c := range cmd.GetAllComponents(eid) {
			switch comp := c.(type) {
			case LocalTransformComponent:
				data.HasLocal = true
				data.LocalPos = comp.Position
				data.LocalRot = comp.Rotation
				data.LocalScale = comp.Scale
			case Parent:
				data.HasParent = true
				data.ParentID = comp.Entity
			case ColliderComponent:
				data.HasCollider = true
				data.ColliderRadius = comp.Radius
				data.ColliderHalf = comp.AABBHalfExtents
			case MaterialComponent:
				data.HasMaterial = true
				data.MaterialColor = comp.Color
			}
		}

		entities = append(entities, data)
		return true
	})

	return PresetData{Entities: entities}
}

func LoadPreset(cmd *Commands, filename string) ([]EntityId, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var preset PresetData
	if err := json.Unmarshal(bytes, &preset); err != nil {
		return nil, err
	}

	return SpawnPreset(cmd, preset), nil
}

// SpawnPreset recreates a captured scene. Entity ids are reassigned;
// parent links are remapped through the old-to-new id table in a
// second pass.
func SpawnPreset(cmd *Commands, preset PresetData) []EntityId {
	idMap := make(map[EntityId]EntityId)
	var newEntities []EntityId

	for _, data := range preset.Entities {
		components := []any{
			TransformComponent{
				Position: data.Position,
				Rotation: data.Rotation,
				Scale:    data.Scale,
			},
		}

		if data.HasLocal {
			components = append(components, LocalTransformComponent{
				Position: data.LocalPos,
				Rotation: data.LocalRot,
				Scale:    data.LocalScale,
			})
		}
		if data.HasCollider {
			components = append(components, ColliderComponent{
				Radius:          data.ColliderRadius,
				AABBHalfExtents: data.ColliderHalf,
			}, AABBComponent{})
		}
		if data.HasMaterial {
			components = append(components, MaterialComponent{
				Color: data.MaterialColor,
			})
		}

		newEid := cmd.AddEntity(components...)
		idMap[data.ID] = newEid
		newEntities = append(newEntities, newEid)
	}

	for _, data := range preset.Entities {
		if !data.HasParent {
			continue
		}
		if newChild, okC := idMap[data.ID]; okC {
			if newParent, okP := idMap[data.ParentID]; okP {
				cmd.AddComponents(newChild, Parent{Entity: newParent})
			}
		}
	}

	return newEntities
}
