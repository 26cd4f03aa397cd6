package seascape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPosition struct{ x, y float32 }
type testLabel struct{ name string }
type testTag struct{}

func TestEcs_NewEcs(t *testing.T) {
	ecs := NewEcs()

	if len(ecs.entities) != 0 {
		t.Errorf("Expected entities to be empty, got %v", ecs.entities)
	}
	if ecs.entityIdCounter != 0 {
		t.Errorf("Expected entityIdCounter to be 0, got %v", ecs.entityIdCounter)
	}
}

func TestEcs_InsertCopiesComponents(t *testing.T) {
	ecs := NewEcs()
	pos := &testPosition{x: 1, y: 2}

	eid := ecs.nextEntityId()
	ecs.insertEntity(eid, pos, testLabel{name: "panel"})
	pos.x = 99

	cmd := (&App{ecs: ecs}).Commands()
	got, ok := GetComponent[testPosition](cmd, eid)
	require.True(t, ok)
	if got.x != 1 {
		t.Errorf("Expected stored component to be a copy, got x=%v", got.x)
	}

	got.x = 5
	again, _ := GetComponent[testPosition](cmd, eid)
	assert.Equal(t, float32(5), again.x, "queries hand out pointers into the store")
}

func TestEcs_AddAndRemove(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	e1 := cmd.AddEntity(testPosition{x: 1})
	e2 := cmd.AddEntity(testPosition{x: 2}, testLabel{name: "two"})
	assert.False(t, app.ecs.has(e1), "additions are buffered")

	app.FlushCommands()
	assert.True(t, app.ecs.has(e1))
	assert.Len(t, cmd.GetAllComponents(e2), 2)

	cmd.AddComponents(e1, &testTag{})
	cmd.RemoveEntity(e2)
	app.FlushCommands()

	_, ok := GetComponent[testTag](cmd, e1)
	assert.True(t, ok)
	assert.False(t, app.ecs.has(e2))
	assert.Equal(t, []EntityId{e1}, app.ecs.order)
}

func TestEcs_RemoveInSameStageAsAdd(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	eid := cmd.AddEntity(testPosition{x: 1})
	cmd.AddComponents(eid, testLabel{name: "late"})
	cmd.RemoveEntity(eid)
	app.FlushCommands()

	assert.False(t, app.ecs.has(eid))
	assert.Empty(t, app.ecs.order)
	assert.Zero(t, MakeQuery1[testPosition](cmd).Count())
}

func TestQuery_MapInIdOrder(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	var ids []EntityId
	for i := 0; i < 5; i++ {
		ids = append(ids, cmd.AddEntity(testPosition{x: float32(i)}))
	}
	cmd.AddComponents(ids[1], testLabel{name: "one"})
	cmd.AddComponents(ids[3], testLabel{name: "three"}, testTag{})
	app.FlushCommands()

	var seen []EntityId
	MakeQuery1[testPosition](cmd).Map(func(eid EntityId, p *testPosition) bool {
		seen = append(seen, eid)
		return true
	})
	assert.Equal(t, ids, seen)

	var labelled []string
	MakeQuery2[testPosition, testLabel](cmd).Map(func(eid EntityId, p *testPosition, l *testLabel) bool {
		labelled = append(labelled, l.name)
		return true
	})
	assert.Equal(t, []string{"one", "three"}, labelled)

	count := 0
	MakeQuery3[testPosition, testLabel, testTag](cmd).Map(func(eid EntityId, p *testPosition, l *testLabel, _ *testTag) bool {
		count++
		assert.Equal(t, ids[3], eid)
		return true
	})
	assert.Equal(t, 1, count)

	visited := 0
	MakeQuery1[testPosition](cmd).Map(func(EntityId, *testPosition) bool {
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited)
	assert.Equal(t, 5, MakeQuery1[testPosition](cmd).Count())
}

func TestQuery_RemoveDuringMap(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()
	cmd.AddEntity(testPosition{})
	cmd.AddEntity(testPosition{})
	app.FlushCommands()

	MakeQuery1[testPosition](cmd).Map(func(eid EntityId, _ *testPosition) bool {
		cmd.RemoveEntity(eid)
		return true
	})
	assert.Equal(t, 2, MakeQuery1[testPosition](cmd).Count(), "removals wait for the flush")

	app.FlushCommands()
	assert.Zero(t, MakeQuery1[testPosition](cmd).Count())
}
