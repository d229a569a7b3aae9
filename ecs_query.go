package forge

import (
	"reflect"
)

// Typed queries over the ECS. To get more arities:
//  1. Add a QueryN type and MakeQueryN constructor
//  2. Add identifyComponentsN
//  3. Copy MapN-1() and extend it following the other Map() functions
//
// WithTypes/WithoutTypes narrow the candidate archetypes by requiring
// (or rejecting) extra component types beyond the typed arguments.
type queryFilter struct {
	ecs     *Ecs
	with    []componentId
	without []componentId
}

func (f *queryFilter) addWith(ecs *Ecs, components ...any) {
	for _, c := range components {
		f.with = append(f.with, ecs.getComponentId(componentTypeOf(c)))
	}
}

func (f *queryFilter) addWithout(ecs *Ecs, components ...any) {
	for _, c := range components {
		f.without = append(f.without, ecs.getComponentId(componentTypeOf(c)))
	}
}

func (f *queryFilter) matches(arch *archetype) bool {
	for _, id := range f.with {
		if _, ok := arch.componentData[id]; !ok {
			return false
		}
	}
	for _, id := range f.without {
		if _, ok := arch.componentData[id]; ok {
			return false
		}
	}
	return true
}

func componentTypeOf(c any) reflect.Type {
	t := reflect.TypeOf(c)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// GetComponent returns a pointer to one entity's component, valid
// until the entity changes archetype.
func GetComponent[T any](cmd *Commands, eid EntityId) (*T, bool) {
	ecs := cmd.app.ecs
	archId, ok := ecs.entityIndex[eid]
	if !ok {
		return nil, false
	}
	arch := ecs.archetypes[archId]

	var t T
	id := ecs.getComponentId(reflect.TypeOf(t))
	data, ok := arch.componentData[id]
	if !ok {
		return nil, false
	}

	row := arch.entities[eid]
	comps := data.([]T)
	return &comps[row], true
}

type Query1[A any] struct{ filter queryFilter }
type Query2[A, B any] struct{ filter queryFilter }
type Query3[A, B, C any] struct{ filter queryFilter }
type Query4[A, B, C, D any] struct{ filter queryFilter }
type Query5[A, B, C, D, E any] struct{ filter queryFilter }

func MakeQuery1[A any](cmd *Commands) Query1[A] {
	return Query1[A]{filter: queryFilter{ecs: cmd.app.ecs}}
}
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] {
	return Query2[A, B]{filter: queryFilter{ecs: cmd.app.ecs}}
}
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] {
	return Query3[A, B, C]{filter: queryFilter{ecs: cmd.app.ecs}}
}
func MakeQuery4[A, B, C, D any](cmd *Commands) Query4[A, B, C, D] {
	return Query4[A, B, C, D]{filter: queryFilter{ecs: cmd.app.ecs}}
}
func MakeQuery5[A, B, C, D, E any](cmd *Commands) Query5[A, B, C, D, E] {
	return Query5[A, B, C, D, E]{filter: queryFilter{ecs: cmd.app.ecs}}
}

func (q Query1[A]) WithTypes(components ...any) Query1[A] {
	q.filter.addWith(q.filter.ecs, components...)
	return q
}
func (q Query1[A]) WithoutTypes(components ...any) Query1[A] {
	q.filter.addWithout(q.filter.ecs, components...)
	return q
}
func (q Query2[A, B]) WithTypes(components ...any) Query2[A, B] {
	q.filter.addWith(q.filter.ecs, components...)
	return q
}
func (q Query2[A, B]) WithoutTypes(components ...any) Query2[A, B] {
	q.filter.addWithout(q.filter.ecs, components...)
	return q
}
func (q Query3[A, B, C]) WithTypes(components ...any) Query3[A, B, C] {
	q.filter.addWith(q.filter.ecs, components...)
	return q
}
func (q Query3[A, B, C]) WithoutTypes(components ...any) Query3[A, B, C] {
	q.filter.addWithout(q.filter.ecs, components...)
	return q
}
func (q Query4[A, B, C, D]) WithTypes(components ...any) Query4[A, B, C, D] {
	q.filter.addWith(q.filter.ecs, components...)
	return q
}
func (q Query4[A, B, C, D]) WithoutTypes(components ...any) Query4[A, B, C, D] {
	q.filter.addWithout(q.filter.ecs, components...)
	return q
}
func (q Query5[A, B, C, D, E]) WithTypes(components ...any) Query5[A, B, C, D, E] {
	q.filter.addWith(q.filter.ecs, components...)
	return q
}
func (q Query5[A, B, C, D, E]) WithoutTypes(components ...any) Query5[A, B, C, D, E] {
	q.filter.addWithout(q.filter.ecs, components...)
	return q
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	ecs := q.filter.ecs
	id1 := identifyComponents1[A](ecs)
	opt := identifyOptionals(ecs, optionals...)

	for _, arch := range ecs.archetypes {
		if !q.filter.matches(arch) {
			continue
		}

		var comps1 []A
		noA := false
		if arg1CompData, ok := arch.componentData[id1]; ok {
			comps1 = arg1CompData.([]A)
		} else if _, ok := opt[id1]; ok {
			noA = true
		} else {
			continue
		}

		for entityId, row := range arch.entities {
			var a *A
			if !noA {
				a = &comps1[row]
			}

			if !m(entityId, a) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	ecs := q.filter.ecs
	id1, id2 := identifyComponents2[A, B](ecs)
	opt := identifyOptionals(ecs, optionals...)

	for _, arch := range ecs.archetypes {
		if !q.filter.matches(arch) {
			continue
		}

		var comps1 []A
		noA := false
		if arg1CompData, ok := arch.componentData[id1]; ok {
			comps1 = arg1CompData.([]A)
		} else if _, ok := opt[id1]; ok {
			noA = true
		} else {
			continue
		}

		var comps2 []B
		noB := false
		if arg2CompData, ok := arch.componentData[id2]; ok {
			comps2 = arg2CompData.([]B)
		} else if _, ok := opt[id2]; ok {
			noB = true
		} else {
			continue
		}

		for entityId, row := range arch.entities {
			var a *A
			if !noA {
				a = &comps1[row]
			}

			var b *B
			if !noB {
				b = &comps2[row]
			}

			if !m(entityId, a, b) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	ecs := q.filter.ecs
	id1, id2, id3 := identifyComponents3[A, B, C](ecs)
	opt := identifyOptionals(ecs, optionals...)

	for _, arch := range ecs.archetypes {
		if !q.filter.matches(arch) {
			continue
		}

		var comps1 []A
		noA := false
		if arg1CompData, ok := arch.componentData[id1]; ok {
			comps1 = arg1CompData.([]A)
		} else if _, ok := opt[id1]; ok {
			noA = true
		} else {
			continue
		}

		var comps2 []B
		noB := false
		if arg2CompData, ok := arch.componentData[id2]; ok {
			comps2 = arg2CompData.([]B)
		} else if _, ok := opt[id2]; ok {
			noB = true
		} else {
			continue
		}

		var comps3 []C
		noC := false
		if arg3CompData, ok := arch.componentData[id3]; ok {
			comps3 = arg3CompData.([]C)
		} else if _, ok := opt[id3]; ok {
			noC = true
		} else {
			continue
		}

		for entityId, row := range arch.entities {
			var a *A
			if !noA {
				a = &comps1[row]
			}

			var b *B
			if !noB {
				b = &comps2[row]
			}

			var c *C
			if !noC {
				c = &comps3[row]
			}

			if !m(entityId, a, b, c) {
				return
			}
		}
	}
}

func (q Query4[A, B, C, D]) Map(m func(EntityId, *A, *B, *C, *D) bool, optionals ...any) {
	ecs := q.filter.ecs
	id1, id2, id3, id4 := identifyComponents4[A, B, C, D](ecs)
	opt := identifyOptionals(ecs, optionals...)

	for _, arch := range ecs.archetypes {
		if !q.filter.matches(arch) {
			continue
		}

		var comps1 []A
		noA := false
		if arg1CompData, ok := arch.componentData[id1]; ok {
			comps1 = arg1CompData.([]A)
		} else if _, ok := opt[id1]; ok {
			noA = true
		} else {
			continue
		}

		var comps2 []B
		noB := false
		if arg2CompData, ok := arch.componentData[id2]; ok {
			comps2 = arg2CompData.([]B)
		} else if _, ok := opt[id2]; ok {
			noB = true
		} else {
			continue
		}

		var comps3 []C
		noC := false
		if arg3CompData, ok := arch.componentData[id3]; ok {
			comps3 = arg3CompData.([]C)
		} else if _, ok := opt[id3]; ok {
			noC = true
		} else {
			continue
		}

		var comps4 []D
		noD := false
		if arg4CompData, ok := arch.componentData[id4]; ok {
			comps4 = arg4CompData.([]D)
		} else if _, ok := opt[id4]; ok {
			noD = true
		} else {
			continue
		}

		for entityId, row := range arch.entities {
			var a *A
			if !noA {
				a = &comps1[row]
			}

			var b *B
			if !noB {
				b = &comps2[row]
			}

			var c *C
			if !noC {
				c = &comps3[row]
			}

			var d *D
			if !noD {
				d = &comps4[row]
			}

			if !m(entityId, a, b, c, d) {
				return
			}
		}
	}
}

func (q Query5[A, B, C, D, E]) Map(m func(EntityId, *A, *B, *C, *D, *E) bool, optionals ...any) {
	ecs := q.filter.ecs
	id1, id2, id3, id4, id5 := identifyComponents5[A, B, C, D, E](ecs)
	opt := identifyOptionals(ecs, optionals...)

	for _, arch := range ecs.archetypes {
		if !q.filter.matches(arch) {
			continue
		}

		var comps1 []A
		noA := false
		if arg1CompData, ok := arch.componentData[id1]; ok {
			comps1 = arg1CompData.([]A)
		} else if _, ok := opt[id1]; ok {
			noA = true
		} else {
			continue
		}

		var comps2 []B
		noB := false
		if arg2CompData, ok := arch.componentData[id2]; ok {
			comps2 = arg2CompData.([]B)
		} else if _, ok := opt[id2]; ok {
			noB = true
		} else {
			continue
		}

		var comps3 []C
		noC := false
		if arg3CompData, ok := arch.componentData[id3]; ok {
			comps3 = arg3CompData.([]C)
		} else if _, ok := opt[id3]; ok {
			noC = true
		} else {
			continue
		}

		var comps4 []D
		noD := false
		if arg4CompData, ok := arch.componentData[id4]; ok {
			comps4 = arg4CompData.([]D)
		} else if _, ok := opt[id4]; ok {
			noD = true
		} else {
			continue
		}

		var comps5 []E
		noE := false
		if arg5CompData, ok := arch.componentData[id5]; ok {
			comps5 = arg5CompData.([]E)
		} else if _, ok := opt[id5]; ok {
			noE = true
		} else {
			continue
		}

		for entityId, row := range arch.entities {
			var a *A
			if !noA {
				a = &comps1[row]
			}

			var b *B
			if !noB {
				b = &comps2[row]
			}

			var c *C
			if !noC {
				c = &comps3[row]
			}

			var d *D
			if !noD {
				d = &comps4[row]
			}

			var e *E
			if !noE {
				e = &comps5[row]
			}

			if !m(entityId, a, b, c, d, e) {
				return
			}
		}
	}
}

func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.getComponentId(componentTypeOf(c))] = struct{}{}
	}

	return res
}

func identifyComponents1[A any](ecs *Ecs) componentId {
	var a A
	return ecs.getComponentId(reflect.TypeOf(a))
}

func identifyComponents2[A, B any](ecs *Ecs) (componentId, componentId) {
	var a A
	var b B
	return ecs.getComponentId(reflect.TypeOf(a)), ecs.getComponentId(reflect.TypeOf(b))
}

func identifyComponents3[A, B, C any](ecs *Ecs) (componentId, componentId, componentId) {
	var a A
	var b B
	var c C
	return ecs.getComponentId(reflect.TypeOf(a)), ecs.getComponentId(reflect.TypeOf(b)), ecs.getComponentId(reflect.TypeOf(c))
}

func identifyComponents4[A, B, C, D any](ecs *Ecs) (componentId, componentId, componentId, componentId) {
	var a A
	var b B
	var c C
	var d D
	return ecs.getComponentId(reflect.TypeOf(a)), ecs.getComponentId(reflect.TypeOf(b)), ecs.getComponentId(reflect.TypeOf(c)), ecs.getComponentId(reflect.TypeOf(d))
}

func identifyComponents5[A, B, C, D, E any](ecs *Ecs) (componentId, componentId, componentId, componentId, componentId) {
	var a A
	var b B
	var c C
	var d D
	var e E
	return ecs.getComponentId(reflect.TypeOf(a)), ecs.getComponentId(reflect.TypeOf(b)), ecs.getComponentId(reflect.TypeOf(c)), ecs.getComponentId(reflect.TypeOf(d)), ecs.getComponentId(reflect.TypeOf(e))
}
