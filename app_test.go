package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func TestApp_changeState(t *testing.T) {
	app := NewApp().UseStates(1, 2)
	app.state = 1

	app.changeState(2)
	assert.Equal(t, State(2), app.nextState)
	assert.True(t, app.stateTransitioning)

	app.executeChangeState(2)
	assert.Equal(t, State(2), app.state)
}

func TestApp_addResources(t *testing.T) {
	app := NewApp()

	r1 := &MockResource1{name: "one"}
	r2 := &MockResource2{name: "two"}
	app.addResources(r1, r2)

	got, ok := GetResource[MockResource1](app)
	require.True(t, ok)
	assert.Equal(t, "one", got.name)

	assert.Panics(t, func() {
		app.addResources(&MockResource1{name: "dup"})
	})
}

func TestApp_SystemDependencyInjection(t *testing.T) {
	app := NewApp()
	app.addResources(&MockResource1{name: "injected"})

	var seenName string
	var seenCmd *Commands

	app.UseSystem(System(func(cmd *Commands, r *MockResource1) {
		seenCmd = cmd
		seenName = r.name
	}).InStage(Update).RunAlways())

	app.Step()

	assert.Equal(t, "injected", seenName)
	require.NotNil(t, seenCmd)
	assert.Same(t, app, seenCmd.app)
}

func TestApp_UnresolvableDependencyPanics(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func(r *MockResource2) {}).InStage(Update).RunAlways())

	assert.Panics(t, func() { app.Step() })
}

type mockModule struct {
	installed *bool
}

func (m mockModule) Install(app *App, cmd *Commands) {
	*m.installed = true
	cmd.AddResources(&MockResource2{name: "from module"})
}

func TestApp_UseModules(t *testing.T) {
	installed := false
	app := NewApp().UseModules(mockModule{installed: &installed})
	app.build()

	assert.True(t, installed)
	r, ok := GetResource[MockResource2](app)
	require.True(t, ok)
	assert.Equal(t, "from module", r.name)
}

func TestApp_FlushCommands(t *testing.T) {
	type comp struct{ n int }

	app := NewApp()
	cmd := app.Commands()

	eid := cmd.AddEntity(comp{n: 5})
	assert.False(t, app.ecs.entityExists(eid), "entity should not exist before flush")

	app.FlushCommands()
	assert.True(t, app.ecs.entityExists(eid))

	cmd.AddComponents(eid, MockResource1{name: "tag"})
	app.FlushCommands()
	_, ok := GetComponent[MockResource1](cmd, eid)
	assert.True(t, ok)

	cmd.RemoveComponents(eid, MockResource1{})
	app.FlushCommands()
	_, ok = GetComponent[MockResource1](cmd, eid)
	assert.False(t, ok)

	cmd.RemoveEntity(eid)
	app.FlushCommands()
	assert.False(t, app.ecs.entityExists(eid))
}

func TestApp_StageOrder(t *testing.T) {
	app := NewApp()

	var order []string
	app.UseSystem(System(func(cmd *Commands) {
		order = append(order, "update")
	}).InStage(Update).RunAlways())
	app.UseSystem(System(func(cmd *Commands) {
		order = append(order, "prelude")
	}).InStage(Prelude).RunAlways())
	app.UseSystem(System(func(cmd *Commands) {
		order = append(order, "finale")
	}).InStage(Finale).RunAlways())

	app.Step()

	assert.Equal(t, []string{"prelude", "update", "finale"}, order)
}

func TestApp_UseStageInsertion(t *testing.T) {
	app := NewApp()
	custom := Stage{Name: "Custom", UpdateType: DynamicUpdate}
	app.UseStage(custom, BeforeStage(Update))

	var order []string
	app.UseSystem(System(func(cmd *Commands) {
		order = append(order, "custom")
	}).InStage(custom).RunAlways())
	app.UseSystem(System(func(cmd *Commands) {
		order = append(order, "update")
	}).InStage(Update).RunAlways())

	app.Step()

	assert.Equal(t, []string{"custom", "update"}, order)
}
