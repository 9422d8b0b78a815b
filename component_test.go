package gomponent_test

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/ZenLiuCN/fn"
	"github.com/ZenLiuCN/gomponent"
	"github.com/ZenLiuCN/gomponent/config"
	"github.com/ZenLiuCN/gomponent/dynamic"
	"github.com/ZenLiuCN/gomponent/dynamic/dynamictest"
	"github.com/ZenLiuCN/gomponent/host"
	"github.com/davecgh/go-spew/spew"
)

type recorder struct {
	trace []string
}

func (r *recorder) module(name string) dynamictest.Module {
	return dynamictest.Module{
		"onGameModeInit": func() { r.trace = append(r.trace, name+".init") },
		"onGameModeExit": func() { r.trace = append(r.trace, name+".exit") },
	}
}

type fixture struct {
	rec     *recorder
	backend *dynamictest.Backend
	hub     *gomponent.Hub
	core    *host.Core
	logs    *bytes.Buffer
}

func newFixture(cfg config.Store, categories ...gomponent.Category) *fixture {
	rec := new(recorder)
	b := dynamictest.New(map[string]dynamictest.Module{
		"plugins/testmode.so": rec.module("testmode"),
		"plugins/helper.so":   rec.module("helper"),
		"plugins/noinit.so":   {"onGameModeExit": func() { rec.trace = append(rec.trace, "noinit.exit") }},
	})
	b.Modules["plugins/testmode.so"]["onPlayerConnect"] = func(args ...uintptr) uintptr {
		rec.trace = append(rec.trace, "testmode.connect")
		return args[0] % 2
	}
	b.Modules["plugins/testmode.so"]["onPlayerText"] = func(args ...uintptr) uintptr {
		return args[0]
	}
	b.Modules["plugins/helper.so"]["onVehicleDeath"] = func(args ...uintptr) uintptr {
		rec.trace = append(rec.trace, "helper.vehicleDeath")
		return 1
	}
	logs := new(bytes.Buffer)
	core := host.New(cfg, host.NewLogger(log.New(logs, "", 0), gomponent.LogDebug), categories...)
	return &fixture{
		rec:     rec,
		backend: b,
		hub:     gomponent.New(gomponent.WithBackend(b)),
		core:    core,
		logs:    logs,
	}
}

func TestEndToEnd(t *testing.T) {
	f := newFixture(config.Store{gomponent.KeyGamemode: "testmode", gomponent.KeyPlugin: "helper"}, gomponent.Categories()...)
	fn.Panic(f.core.Start(f.hub))
	if f.hub.Gamemode().State() != gomponent.Initialized || f.hub.Plugin().State() != gomponent.Initialized {
		t.Fatalf("states gamemode=%s plugin=%s", f.hub.Gamemode().State(), f.hub.Plugin().State())
	}
	if f.backend.Count("onGameModeInit") != 2 {
		t.Fatalf("init calls = %d", f.backend.Count("onGameModeInit"))
	}

	connect := f.core.PlayerPool()
	if !connect.Dispatch(gomponent.PlayerConnect, gomponent.Event{Name: "onPlayerConnect", Args: []uintptr{3}}) {
		t.Fatal("odd player vetoed")
	}
	if connect.Dispatch(gomponent.PlayerConnect, gomponent.Event{Name: "onPlayerConnect", Args: []uintptr{4}}) {
		t.Fatal("even player allowed")
	}
	if !f.core.Dispatch(gomponent.Vehicles, gomponent.Event{Name: "onVehicleDeath", Args: []uintptr{1, 2}}) {
		t.Fatal("vehicle death vetoed")
	}
	if !f.core.Dispatch(gomponent.Dialogs, gomponent.Event{Name: "onDialogResponse"}) {
		t.Fatal("unexported event vetoed")
	}

	fn.Panic(f.core.Stop())
	want := []string{
		"testmode.init", "helper.init",
		"testmode.connect", "testmode.connect", "helper.vehicleDeath",
		"testmode.exit", "helper.exit",
	}
	if strings.Join(f.rec.trace, ",") != strings.Join(want, ",") {
		t.Fatalf("trace = %v\nwant %v", f.rec.trace, want)
	}
	if f.backend.Active() != 0 || len(f.backend.Closed) != 2 {
		t.Fatalf("active=%d closed=%v", f.backend.Active(), f.backend.Closed)
	}
	if f.hub.Gamemode().State() != gomponent.Unloaded {
		t.Fatal(f.hub.Gamemode().State())
	}
}

func TestGamemodeUnset(t *testing.T) {
	f := newFixture(config.Store{gomponent.KeyPlugin: "helper"})
	err := f.core.Start(f.hub)
	var ce *gomponent.ConfigMissingError
	if !errors.As(err, &ce) || ce.Key != gomponent.KeyGamemode {
		t.Fatalf("err = %v", err)
	}
	if len(f.backend.Opened) != 0 || f.hub.Plugin().State() != gomponent.Unloaded {
		t.Fatalf("plugin attempted: opened=%v", f.backend.Opened)
	}
	if !strings.Contains(f.logs.String(), "[error] go.gamemode config string is not set") {
		t.Fatal(f.logs.String())
	}
	fn.Panic(f.core.Stop())
	if len(f.rec.trace) != 0 {
		t.Fatalf("trace = %v", f.rec.trace)
	}
}

func TestGamemodeWithoutInit(t *testing.T) {
	f := newFixture(config.Store{gomponent.KeyGamemode: "noinit", gomponent.KeyPlugin: "helper"})
	err := f.core.Start(f.hub)
	if !errors.Is(err, dynamic.ErrMissingSymbol) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(f.logs.String(), "Failed to load gamemode: missing symbol onGameModeInit") {
		t.Fatal(f.logs.String())
	}
	if len(f.backend.Opened) != 1 || f.hub.Plugin().State() != gomponent.Unloaded {
		t.Fatalf("plugin attempted: opened=%v", f.backend.Opened)
	}
	if f.hub.Gamemode().State() != gomponent.Loaded {
		t.Fatal(f.hub.Gamemode().State())
	}
	fn.Panic(f.core.Stop())
	if len(f.rec.trace) != 0 {
		t.Fatalf("exit called without init: %v", f.rec.trace)
	}
	if f.backend.Active() != 0 {
		t.Fatal("gamemode module left mapped")
	}
}

func TestGamemodeMissingModule(t *testing.T) {
	f := newFixture(config.Store{gomponent.KeyGamemode: "absent", gomponent.KeyPlugin: "helper"})
	err := f.core.Start(f.hub)
	if !errors.Is(err, dynamic.ErrModuleLoad) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(f.logs.String(), "Failed to load gamemode: failed to load absent: ") {
		t.Fatal(f.logs.String())
	}
	fn.Panic(f.core.Stop())
}

func TestPluginUnset(t *testing.T) {
	f := newFixture(config.Store{gomponent.KeyGamemode: "testmode"})
	err := f.core.Start(f.hub)
	var ce *gomponent.ConfigMissingError
	if !errors.As(err, &ce) || ce.Key != gomponent.KeyPlugin {
		t.Fatalf("err = %v", err)
	}
	if f.hub.Gamemode().State() != gomponent.Initialized {
		t.Fatal(f.hub.Gamemode().State())
	}
	fn.Panic(f.core.Stop())
	if strings.Join(f.rec.trace, ",") != "testmode.init,testmode.exit" {
		t.Fatalf("trace = %v", f.rec.trace)
	}
}

func TestOnFreeClearsOnlyMatching(t *testing.T) {
	f := newFixture(config.Store{}, gomponent.Categories()...)
	f.hub.OnLoad(f.core)
	f.hub.OnInit(f.core)
	before := make(map[gomponent.Category]gomponent.Component)
	for _, c := range gomponent.Categories() {
		if before[c] = f.hub.Subsystem(c); before[c] == nil {
			t.Fatalf("%s not discovered", c)
		}
	}
	vehicles := f.core.Subsystem(gomponent.Vehicles)
	f.hub.OnFree(vehicles)
	for _, c := range gomponent.Categories() {
		got := f.hub.Subsystem(c)
		switch {
		case c == gomponent.Vehicles && got != nil:
			t.Fatal("vehicles not cleared")
		case c != gomponent.Vehicles && got != before[c]:
			t.Fatalf("%s changed", c)
		}
	}
	f.hub.OnFree(host.NewSubsystem(gomponent.Actors, true))
	if f.hub.Subsystem(gomponent.Actors) == nil {
		t.Fatal("unrelated component cleared actors")
	}
}

// labels is a host component held by value, its slice field makes it non comparable.
type labels struct {
	names []string
}

func (l labels) ComponentName() string { return "labels" }

type valueList map[gomponent.Category]gomponent.Component

func (v valueList) QueryComponent(c gomponent.Category) gomponent.Component { return v[c] }

func TestOnFreeNonComparable(t *testing.T) {
	f := newFixture(config.Store{}, gomponent.Actors)
	f.hub.OnLoad(f.core)
	f.hub.OnInit(valueList{
		gomponent.TextLabels: labels{names: []string{"a"}},
		gomponent.Actors:     f.core.Subsystem(gomponent.Actors),
	})
	fn.Panic(fn.Recover(func() { f.hub.OnFree(labels{names: []string{"a"}}) }))
	if f.hub.Subsystem(gomponent.TextLabels) == nil || f.hub.Subsystem(gomponent.Actors) == nil {
		t.Fatal("non comparable component cleared a subsystem")
	}
	f.hub.OnFree(nil)
	f.hub.OnFree(f.core.Subsystem(gomponent.Actors))
	if f.hub.Subsystem(gomponent.Actors) != nil {
		t.Fatal("actors not cleared")
	}
}

func TestVetoLowByte(t *testing.T) {
	f := newFixture(config.Store{gomponent.KeyGamemode: "testmode", gomponent.KeyPlugin: "helper"})
	fn.Panic(f.core.Start(f.hub))
	players := f.core.PlayerPool()
	if players.Dispatch(gomponent.PlayerText, gomponent.Event{Name: "onPlayerText", Args: []uintptr{0xAB00}}) {
		t.Fatal("false with garbage upper bits allowed")
	}
	if !players.Dispatch(gomponent.PlayerText, gomponent.Event{Name: "onPlayerText", Args: []uintptr{0xFF01}}) {
		t.Fatal("true with garbage upper bits vetoed")
	}
	fn.Panic(f.core.Stop())
}

func TestForwardTooManyArgs(t *testing.T) {
	f := newFixture(nil)
	ext := gomponent.NewExtension("gamemode", dynamic.NewLoaderWith(f.backend, ""))
	fn.Panic(ext.Load("testmode"))
	args := make([]uintptr, dynamic.MaxArgs+1)
	if _, ok := ext.Forward(gomponent.Event{Name: "onPlayerConnect", Args: args}); ok {
		t.Fatal("oversized event forwarded")
	}
	if r, ok := ext.Forward(gomponent.Event{Name: "onPlayerConnect", Args: args[:dynamic.MaxArgs]}); !ok || r != 0 {
		t.Fatalf("forward = %d, %v", r, ok)
	}
	if f.backend.Count("onPlayerConnect") != 1 {
		t.Fatalf("connect calls = %d", f.backend.Count("onPlayerConnect"))
	}
	fn.Panic(ext.Unload())
}

func TestAdapterRegistration(t *testing.T) {
	f := newFixture(config.Store{}, gomponent.Actors, gomponent.Vehicles, gomponent.TextLabels)
	f.hub.OnLoad(f.core)
	f.hub.OnInit(f.core)
	for _, c := range []gomponent.Category{gomponent.Actors, gomponent.Vehicles} {
		hs := f.core.Subsystem(c).Dispatcher().Handlers()
		if len(hs) != 1 || hs[0] != gomponent.EventHandler(f.hub.Adapter(c)) {
			t.Fatalf("%s handlers = %v", c, hs)
		}
	}
	if f.hub.Subsystem(gomponent.TextLabels) == nil || f.hub.Subsystem(gomponent.Dialogs) != nil {
		t.Fatal("discovery mismatch")
	}
	for _, d := range gomponent.PlayerDispatches() {
		hs := f.core.PlayerPool().Dispatcher(d).Handlers()
		if len(hs) != 1 || hs[0] != gomponent.EventHandler(f.hub.PlayerAdapter()) {
			t.Fatalf("player %s handlers = %v", d, hs)
		}
	}

	f.hub.OnFree(f.core.Subsystem(gomponent.Actors))
	fn.Panic(f.hub.Close())
	if n := len(f.core.Subsystem(gomponent.Vehicles).Dispatcher().Handlers()); n != 0 {
		t.Fatalf("vehicles still has %d handlers", n)
	}
	if n := len(f.core.Subsystem(gomponent.Actors).Dispatcher().Handlers()); n != 1 {
		t.Fatalf("released actors handlers touched: %d", n)
	}
	if n := len(f.core.PlayerPool().Dispatcher(gomponent.PlayerUpdate).Handlers()); n != 0 {
		t.Fatalf("player update still has %d handlers", n)
	}
}

func TestExtensionLifecycle(t *testing.T) {
	f := newFixture(nil)
	ext := gomponent.NewExtension("gamemode", dynamic.NewLoaderWith(f.backend, ""))
	fn.Panic(ext.Load("testmode"))
	if err := ext.Load("helper"); !errors.Is(err, gomponent.ErrAlreadyLoaded) {
		t.Fatalf("reload err = %v", err)
	}
	if ext.Names() != "testmode" {
		t.Fatal(ext.Names())
	}
	fn.Panic(ext.Unload())
	fn.Panic(ext.Unload())
	if f.backend.Count("onGameModeExit") != 1 {
		t.Fatalf("exit calls = %d", f.backend.Count("onGameModeExit"))
	}
	if _, ok := ext.Forward(gomponent.Event{Name: "onPlayerConnect", Args: []uintptr{1}}); ok {
		t.Fatal("forwarded into unloaded extension")
	}
	t.Log(spew.Sdump(f.rec.trace))
}

func TestCatalogue(t *testing.T) {
	for _, c := range gomponent.Categories() {
		if c != gomponent.TextLabels && len(gomponent.Events(c)) == 0 {
			t.Errorf("%s has no events", c)
		}
	}
	for _, d := range gomponent.PlayerDispatches() {
		if len(gomponent.PlayerEvents(d)) == 0 {
			t.Errorf("player %s has no events", d)
		}
	}
}
