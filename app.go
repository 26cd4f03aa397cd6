package seascape

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs resources, entities and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

// App is the scene driver: resources, staged systems and the entity store.
// Everything runs on the goroutine that calls Step/Run.
type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	ecs       *Ecs

	frame         uint64
	exitRequested bool
	shutdownHooks []func()
	shutDown      bool

	// Command Buffering
	pendingAdditions []pendingAdd
	pendingRemovals  []EntityId
	pendingCompAdds  []pendingCompAdd
}

type pendingAdd struct {
	eid        EntityId
	components []any
}

type pendingCompAdd struct {
	eid        EntityId
	components []any
}

func NewApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
		ecs:       NewEcs(),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = nil
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// UseModules installs modules in order and flushes the entities they spawned.
func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, module := range modules {
		module.Install(app, cmd)
	}
	app.FlushCommands()
	return app
}

// OnShutdown registers a hook run once, in reverse registration order, when Run returns.
func (app *App) OnShutdown(hook func()) {
	app.shutdownHooks = append(app.shutdownHooks, hook)
}

// Frame returns the number of completed Steps.
func (app *App) Frame() uint64 {
	return app.frame
}

// Step runs every stage once, flushing buffered commands after each stage.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
		app.FlushCommands()
	}
	app.frame++
}

// Run steps until ctx is done or a system requests exit, then shuts down.
func (app *App) Run(ctx context.Context) error {
	defer app.Shutdown()

	app.Logger().Infof("Running scene with %d stages", len(app.stages))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		app.Step()

		if app.exitRequested {
			app.Logger().Infof("Exit requested after %d frames", app.frame)
			return nil
		}
	}
}

// Shutdown runs the shutdown hooks. Later calls are no-ops.
func (app *App) Shutdown() {
	if app.shutDown {
		return
	}
	app.shutDown = true
	for i := len(app.shutdownHooks) - 1; i >= 0; i-- {
		app.shutdownHooks[i]()
	}
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType == nil || resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("%v is not a pointer resource", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the registered *T resource.
func Resource[T any](app *App) (*T, bool) {
	res, ok := app.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return res.(*T), true
}

// MustResource is Resource for install-time dependencies between modules.
func MustResource[T any](app *App, requiredBy string) *T {
	res, ok := Resource[T](app)
	if !ok {
		panic(fmt.Sprintf("%s requires resource %s; install its module first", requiredBy, reflect.TypeFor[T]()))
	}
	return res
}

var typeOfCommands = reflect.TypeOf(Commands{})

// callSystem resolves each pointer parameter to *Commands or a resource.
func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.panicUnresolved(systemValue, systemType, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.panicUnresolved(systemValue, systemType, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) panicUnresolved(systemValue reflect.Value, systemType, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}

func (app *App) FlushCommands() {
	if len(app.pendingAdditions) == 0 && len(app.pendingRemovals) == 0 && len(app.pendingCompAdds) == 0 {
		return
	}

	for _, add := range app.pendingAdditions {
		app.ecs.insertEntity(add.eid, add.components...)
	}
	app.pendingAdditions = app.pendingAdditions[:0]

	for _, add := range app.pendingCompAdds {
		app.ecs.addComponents(add.eid, add.components...)
	}
	app.pendingCompAdds = app.pendingCompAdds[:0]

	// Removals last: an entity spawned and removed in the same stage stays gone.
	for _, eid := range app.pendingRemovals {
		app.ecs.removeEntity(eid)
	}
	app.pendingRemovals = app.pendingRemovals[:0]
}
