package forge

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCapturePreset(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	parent := cmd.AddEntity(
		TransformComponent{Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
		ColliderComponent{Radius: 0.5, AABBHalfExtents: mgl32.Vec3{0.5, 0.5, 0.5}},
		MaterialComponent{Color: [4]float32{1, 0, 0, 1}},
	)
	cmd.AddEntity(
		TransformComponent{Position: mgl32.Vec3{3, 2, 3}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
		LocalTransformComponent{Position: mgl32.Vec3{2, 0, 0}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
		Parent{Entity: parent},
	)
	cmd.AddEntity(
		TransformComponent{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}},
		GizmoRigComponent{},
	)
	app.FlushCommands()

	preset := CapturePreset(cmd)

	if len(preset.Entities) != 2 {
		t.Fatalf("Expected 2 captured entities (rig excluded), got %d", len(preset.Entities))
	}

	var parentData, childData *EntityData
	for i := range preset.Entities {
		if preset.Entities[i].ID == parent {
			parentData = &preset.Entities[i]
		} else {
			childData = &preset.Entities[i]
		}
	}
	if parentData == nil || childData == nil {
		t.Fatal("Captured entities missing")
	}

	if !parentData.HasCollider || parentData.ColliderRadius != 0.5 {
		t.Error("Parent collider not captured")
	}
	if !parentData.HasMaterial || parentData.MaterialColor != [4]float32{1, 0, 0, 1} {
		t.Error("Parent material not captured")
	}
	if !childData.HasParent || childData.ParentID != parent {
		t.Error("Child parent link not captured")
	}
	if !childData.HasLocal || childData.LocalPos != (mgl32.Vec3{2, 0, 0}) {
		t.Error("Child local transform not captured")
	}
}

func TestSpawnPreset_RemapsParentIds(t *testing.T) {
	preset := PresetData{
		Entities: []EntityData{
			{
				ID:       EntityId(100),
				Position: mgl32.Vec3{1, 0, 0},
				Rotation: mgl32.QuatIdent(),
				Scale:    mgl32.Vec3{1, 1, 1},
			},
			{
				ID:         EntityId(200),
				Position:   mgl32.Vec3{3, 0, 0},
				Rotation:   mgl32.QuatIdent(),
				Scale:      mgl32.Vec3{1, 1, 1},
				HasLocal:   true,
				LocalPos:   mgl32.Vec3{2, 0, 0},
				LocalRot:   mgl32.QuatIdent(),
				LocalScale: mgl32.Vec3{1, 1, 1},
				HasParent:  true,
				ParentID:   EntityId(100),
			},
		},
	}

	app := NewApp()
	cmd := app.Commands()
	spawned := SpawnPreset(cmd, preset)
	app.FlushCommands()

	if len(spawned) != 2 {
		t.Fatalf("Expected 2 spawned entities, got %d", len(spawned))
	}

	link, ok := GetComponent[Parent](cmd, spawned[1])
	if !ok {
		t.Fatal("Spawned child lost its parent link")
	}
	if link.Entity != spawned[0] {
		t.Errorf("Parent link should point at the new id %v, got %v", spawned[0], link.Entity)
	}

	tr, _ := GetComponent[TransformComponent](cmd, spawned[0])
	if tr.Position != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Spawned transform position mismatch: %v", tr.Position)
	}
}

func TestSpawnPreset_ColliderGetsAABB(t *testing.T) {
	preset := PresetData{
		Entities: []EntityData{
			{
				ID:             EntityId(1),
				Rotation:       mgl32.QuatIdent(),
				Scale:          mgl32.Vec3{1, 1, 1},
				HasCollider:    true,
				ColliderRadius: 0.8,
				ColliderHalf:   mgl32.Vec3{0.8, 0.8, 0.8},
			},
		},
	}

	app := NewApp()
	cmd := app.Commands()
	spawned := SpawnPreset(cmd, preset)
	app.FlushCommands()

	if _, ok := GetComponent[ColliderComponent](cmd, spawned[0]); !ok {
		t.Error("Spawned entity missing collider")
	}
	if _, ok := GetComponent[AABBComponent](cmd, spawned[0]); !ok {
		t.Error("Colliders spawn with an AABB for the broadphase")
	}
}

func TestPresetSaveLoadRoundtrip(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	cmd.AddEntity(
		TransformComponent{Position: mgl32.Vec3{5, 6, 7}, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{2, 2, 2}},
		MaterialComponent{Color: [4]float32{0, 1, 0, 1}},
	)
	app.FlushCommands()

	path := filepath.Join(t.TempDir(), "scene.json")
	if err := SavePreset(cmd, path); err != nil {
		t.Fatalf("SavePreset: %v", err)
	}

	app2 := NewApp()
	cmd2 := app2.Commands()
	spawned, err := LoadPreset(cmd2, path)
	if err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	app2.FlushCommands()

	if len(spawned) != 1 {
		t.Fatalf("Expected 1 entity from roundtrip, got %d", len(spawned))
	}
	tr, _ := GetComponent[TransformComponent](cmd2, spawned[0])
	if tr.Position != (mgl32.Vec3{5, 6, 7}) || tr.Scale != (mgl32.Vec3{2, 2, 2}) {
		t.Errorf("Roundtripped transform mismatch: %+v", tr)
	}
	mat, ok := GetComponent[MaterialComponent](cmd2, spawned[0])
	if !ok || mat.Color != [4]float32{0, 1, 0, 1} {
		t.Error("Roundtripped material mismatch")
	}
}
