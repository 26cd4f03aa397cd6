package seascape

import (
	"reflect"
	"slices"
	"sync"
)

type EntityId uint64

// Ecs stores components per entity, keyed by component type. Components are
// copied on insert and handed to queries by pointer.
type Ecs struct {
	entities map[EntityId]map[reflect.Type]reflect.Value
	order    []EntityId

	idGeneratorLock sync.Mutex
	entityIdCounter EntityId
}

func NewEcs() *Ecs {
	return &Ecs{
		entities: make(map[EntityId]map[reflect.Type]reflect.Value),
	}
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.idGeneratorLock.Lock()
	defer ecs.idGeneratorLock.Unlock()
	ecs.entityIdCounter++
	return ecs.entityIdCounter
}

func (ecs *Ecs) insertEntity(entityId EntityId, components ...any) {
	if _, ok := ecs.entities[entityId]; !ok {
		ecs.entities[entityId] = make(map[reflect.Type]reflect.Value, len(components))
		// Ids are issued monotonically but flushed in buffer order.
		idx, _ := slices.BinarySearch(ecs.order, entityId)
		ecs.order = slices.Insert(ecs.order, idx, entityId)
	}
	ecs.addComponents(entityId, components...)
}

func (ecs *Ecs) addComponents(entityId EntityId, components ...any) {
	comps, ok := ecs.entities[entityId]
	if !ok {
		return
	}
	for _, component := range components {
		t, ptr := copyComponent(component)
		comps[t] = ptr
	}
}

func (ecs *Ecs) removeEntity(entityId EntityId) {
	if _, ok := ecs.entities[entityId]; !ok {
		return
	}
	delete(ecs.entities, entityId)
	if idx, found := slices.BinarySearch(ecs.order, entityId); found {
		ecs.order = slices.Delete(ecs.order, idx, idx+1)
	}
}

func (ecs *Ecs) has(entityId EntityId) bool {
	_, ok := ecs.entities[entityId]
	return ok
}

func (ecs *Ecs) allComponents(entityId EntityId) []any {
	comps := ecs.entities[entityId]
	res := make([]any, 0, len(comps))
	for _, ptr := range comps {
		res = append(res, ptr.Elem().Interface())
	}
	return res
}

func copyComponent(component any) (reflect.Type, reflect.Value) {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)
	return v.Type(), ptr
}

func component[A any](comps map[reflect.Type]reflect.Value) (*A, bool) {
	ptr, ok := comps[reflect.TypeFor[A]()]
	if !ok {
		return nil, false
	}
	return ptr.Interface().(*A), true
}

// GetComponent returns a pointer to the entity's A component.
func GetComponent[A any](cmd *Commands, entityId EntityId) (*A, bool) {
	comps, ok := cmd.app.ecs.entities[entityId]
	if !ok {
		return nil, false
	}
	return component[A](comps)
}

type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }

// Map visits matching entities in ascending id order until m returns false.
func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	for _, eid := range slices.Clone(q.ecs.order) {
		comps, ok := q.ecs.entities[eid]
		if !ok {
			continue
		}
		a, ok := component[A](comps)
		if !ok {
			continue
		}
		if !m(eid, a) {
			return
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	for _, eid := range slices.Clone(q.ecs.order) {
		comps, ok := q.ecs.entities[eid]
		if !ok {
			continue
		}
		a, okA := component[A](comps)
		b, okB := component[B](comps)
		if !okA || !okB {
			continue
		}
		if !m(eid, a, b) {
			return
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool) {
	for _, eid := range slices.Clone(q.ecs.order) {
		comps, ok := q.ecs.entities[eid]
		if !ok {
			continue
		}
		a, okA := component[A](comps)
		b, okB := component[B](comps)
		c, okC := component[C](comps)
		if !okA || !okB || !okC {
			continue
		}
		if !m(eid, a, b, c) {
			return
		}
	}
}

// Count returns the number of entities carrying A.
func (q Query1[A]) Count() int {
	n := 0
	q.Map(func(EntityId, *A) bool {
		n++
		return true
	})
	return n
}
