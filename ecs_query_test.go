package forge

import (
	"testing"
)

type queryCompA struct{ v int }
type queryCompB struct{ s string }
type queryCompC struct{ f float32 }

func TestQuery_Map(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	cmd.AddEntity(queryCompA{v: 1})
	cmd.AddEntity(queryCompA{v: 2}, queryCompB{s: "two"})
	cmd.AddEntity(queryCompB{s: "lonely"})
	app.FlushCommands()

	sum := 0
	MakeQuery1[queryCompA](cmd).Map(func(eid EntityId, a *queryCompA) bool {
		sum += a.v
		return true
	})
	if sum != 3 {
		t.Errorf("Expected A sum 3, got %v", sum)
	}

	count := 0
	MakeQuery2[queryCompA, queryCompB](cmd).Map(func(eid EntityId, a *queryCompA, b *queryCompB) bool {
		count++
		if a.v != 2 || b.s != "two" {
			t.Errorf("Unexpected pair %v %v", a.v, b.s)
		}
		return true
	})
	if count != 1 {
		t.Errorf("Expected 1 A+B entity, got %v", count)
	}
}

func TestQuery_EarlyExit(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	cmd.AddEntity(queryCompA{v: 1})
	cmd.AddEntity(queryCompA{v: 2})
	app.FlushCommands()

	visited := 0
	MakeQuery1[queryCompA](cmd).Map(func(eid EntityId, a *queryCompA) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("Expected Map to stop after first false, visited %v", visited)
	}
}

func TestQuery_WithTypes(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	cmd.AddEntity(queryCompA{v: 1})
	tagged := cmd.AddEntity(queryCompA{v: 2}, queryCompC{f: 0.5})
	app.FlushCommands()

	var hits []EntityId
	MakeQuery1[queryCompA](cmd).WithTypes(queryCompC{}).Map(func(eid EntityId, a *queryCompA) bool {
		hits = append(hits, eid)
		return true
	})

	if len(hits) != 1 || hits[0] != tagged {
		t.Errorf("WithTypes should only match the tagged entity, got %v", hits)
	}
}

func TestQuery_WithoutTypes(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	plain := cmd.AddEntity(queryCompA{v: 1})
	cmd.AddEntity(queryCompA{v: 2}, queryCompC{f: 0.5})
	app.FlushCommands()

	var hits []EntityId
	MakeQuery1[queryCompA](cmd).WithoutTypes(queryCompC{}).Map(func(eid EntityId, a *queryCompA) bool {
		hits = append(hits, eid)
		return true
	})

	if len(hits) != 1 || hits[0] != plain {
		t.Errorf("WithoutTypes should exclude the tagged entity, got %v", hits)
	}
}

func TestQuery_Optionals(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	cmd.AddEntity(queryCompA{v: 1})
	cmd.AddEntity(queryCompA{v: 2}, queryCompB{s: "two"})
	app.FlushCommands()

	withB := 0
	withoutB := 0
	MakeQuery2[queryCompA, queryCompB](cmd).Map(func(eid EntityId, a *queryCompA, b *queryCompB) bool {
		if b != nil {
			withB++
		} else {
			withoutB++
		}
		return true
	}, queryCompB{})

	if withB != 1 || withoutB != 1 {
		t.Errorf("Optional B: expected 1 with / 1 without, got %v / %v", withB, withoutB)
	}
}

func TestGetComponent(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	eid := cmd.AddEntity(queryCompA{v: 42})
	app.FlushCommands()

	a, ok := GetComponent[queryCompA](cmd, eid)
	if !ok || a.v != 42 {
		t.Fatalf("GetComponent failed: ok=%v", ok)
	}

	a.v = 43
	b, _ := GetComponent[queryCompA](cmd, eid)
	if b.v != 43 {
		t.Errorf("Pointer write did not stick, got %v", b.v)
	}

	if _, ok := GetComponent[queryCompB](cmd, eid); ok {
		t.Errorf("GetComponent should miss for absent component type")
	}
	if _, ok := GetComponent[queryCompA](cmd, NoEntity); ok {
		t.Errorf("GetComponent should miss for NoEntity")
	}
}
