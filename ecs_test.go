package forge

import (
	"testing"
)

func TestEcs_MakeEcs(t *testing.T) {
	ecs := MakeEcs()

	if len(ecs.archetypes) != 0 {
		t.Errorf("Expected archetypes to be empty, got %v", ecs.archetypes)
	}

	if len(ecs.entityIndex) != 0 {
		t.Errorf("Expected entityIndex to be empty, got %v", ecs.entityIndex)
	}

	if ecs.entityIdCounter != 1 {
		t.Errorf("Expected entityIdCounter to start past NoEntity, got %v", ecs.entityIdCounter)
	}
}

func TestEcs_AddEntity(t *testing.T) {
	ecs := MakeEcs()

	entityId := ecs.addEntity()

	if entityId == NoEntity {
		t.Errorf("addEntity returned the NoEntity sentinel")
	}
	if _, ok := ecs.entityIndex[entityId]; !ok {
		t.Errorf("Expected entityId %v to be in entityIndex", entityId)
	}

	type TestComponent struct {
		x string
	}
	testComp := TestComponent{
		x: "test",
	}

	entityId2 := ecs.addEntity(testComp)
	if _, ok := ecs.entityIndex[entityId2]; !ok {
		t.Errorf("Expected entityId %v to be in entityIndex", entityId2)
	}

	archId1 := ecs.entityIndex[entityId]
	archId2 := ecs.entityIndex[entityId2]
	if archId1 == archId2 {
		t.Errorf("Entities with different components ended up in the same Archetype")
	}
}

func TestEcs_AddComponents(t *testing.T) {
	type TestComponent0 struct{ a int }
	type TestComponent1 struct{ x string }

	ecs := MakeEcs()

	entityId := ecs.addEntity(TestComponent0{a: 1337})
	srcArchId := ecs.entityIndex[entityId]

	ecs.addComponents(entityId, TestComponent1{x: "hi"})

	dstArchId := ecs.entityIndex[entityId]
	if srcArchId == dstArchId {
		t.Errorf("Entity should have moved to a new archetype")
	}

	arch := ecs.archetypes[dstArchId]
	row := arch.entities[entityId]

	comps0 := arch.componentData[ecs.getComponentId(componentTypeOf(TestComponent0{}))].([]TestComponent0)
	if comps0[row].a != 1337 {
		t.Errorf("Expected original component to survive the move, got %v", comps0[row].a)
	}

	comps1 := arch.componentData[ecs.getComponentId(componentTypeOf(TestComponent1{}))].([]TestComponent1)
	if comps1[row].x != "hi" {
		t.Errorf("Expected added component to be written, got %v", comps1[row].x)
	}
}

func TestEcs_RemoveComponents(t *testing.T) {
	type TestComponent0 struct{ a int }
	type TestComponent1 struct{ x string }

	ecs := MakeEcs()

	entityId := ecs.addEntity(TestComponent0{a: 7}, TestComponent1{x: "y"})
	ecs.removeComponents(entityId, TestComponent1{})

	archId := ecs.entityIndex[entityId]
	arch := ecs.archetypes[archId]

	if _, ok := arch.componentData[ecs.getComponentId(componentTypeOf(TestComponent1{}))]; ok {
		t.Errorf("Removed component type still present in target archetype")
	}

	row := arch.entities[entityId]
	comps0 := arch.componentData[ecs.getComponentId(componentTypeOf(TestComponent0{}))].([]TestComponent0)
	if comps0[row].a != 7 {
		t.Errorf("Expected remaining component to survive, got %v", comps0[row].a)
	}
}

func TestEcs_RemoveEntity(t *testing.T) {
	type TestComponent0 struct{ a int }

	ecs := MakeEcs()

	entityId := ecs.addEntity(TestComponent0{a: 1})
	if !ecs.entityExists(entityId) {
		t.Fatalf("Entity should exist after addEntity")
	}

	ecs.removeEntity(entityId)
	if ecs.entityExists(entityId) {
		t.Errorf("Entity should not exist after removeEntity")
	}

	// Removing twice is a no-op
	ecs.removeEntity(entityId)
}

func TestEcs_RowRecycling(t *testing.T) {
	type TestComponent0 struct{ a int }

	ecs := MakeEcs()

	e1 := ecs.addEntity(TestComponent0{a: 1})
	e2 := ecs.addEntity(TestComponent0{a: 2})

	ecs.removeEntity(e1)

	e3 := ecs.addEntity(TestComponent0{a: 3})

	archId := ecs.entityIndex[e3]
	arch := ecs.archetypes[archId]

	if len(arch.entities) != 2 {
		t.Errorf("Expected 2 live entities, got %v", len(arch.entities))
	}

	row2 := arch.entities[e2]
	row3 := arch.entities[e3]
	comps := arch.componentData[ecs.getComponentId(componentTypeOf(TestComponent0{}))].([]TestComponent0)
	if comps[row2].a != 2 || comps[row3].a != 3 {
		t.Errorf("Recycled row holds wrong data: %v / %v", comps[row2].a, comps[row3].a)
	}
}
