package gomponent

import (
	"errors"
	"fmt"

	"github.com/ZenLiuCN/gomponent/dynamic"
)

// ErrAlreadyLoaded occurs when loading an Extension that is not unloaded.
var ErrAlreadyLoaded = errors.New("extension already loaded")

// ExtensionState is the lifecycle state of an Extension.
type ExtensionState uint8

const (
	Unloaded ExtensionState = iota
	Loaded
	Initialized
)

func (s ExtensionState) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case Initialized:
		return "initialized"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Extension is one logical loadable unit (the gamemode or a plugin) over its own Loader.
type Extension struct {
	kind       string
	names      string
	loader     *dynamic.Loader
	entries    dynamic.EntryPoints
	state      ExtensionState
	initCalled bool //onGameModeInit was called for the current load
}

// NewExtension create an Extension named kind over loader.
func NewExtension(kind string, loader *dynamic.Loader) *Extension {
	return &Extension{kind: kind, loader: loader}
}

// Kind of the extension, "gamemode" or "plugin".
func (e *Extension) Kind() string { return e.kind }

// Names of the loaded modules, empty when unloaded.
func (e *Extension) Names() string { return e.names }

// State of the extension.
func (e *Extension) State() ExtensionState { return e.state }

// Loader of the extension.
func (e *Extension) Loader() *dynamic.Loader { return e.loader }

// Load the space separated module names and call onGameModeInit of the active one.
func (e *Extension) Load(names string) error {
	if e.state != Unloaded {
		return fmt.Errorf("%s %s: %w", e.kind, e.names, ErrAlreadyLoaded)
	}
	err := e.loader.Load(names)
	if e.loader.Loaded() {
		e.state = Loaded
		e.names = names
	}
	if err != nil {
		return err
	}
	e.entries = dynamic.BindEntryPoints(e.loader)
	if !e.entries.Has(dynamic.OnGameModeInit) {
		return &dynamic.SymbolNotFoundError{Name: dynamic.OnGameModeInit.String()}
	}
	e.initCalled = true
	if err = e.entries.Call(dynamic.OnGameModeInit); err != nil {
		return err
	}
	e.state = Initialized
	return nil
}

// Unload calls onGameModeExit when onGameModeInit was called for this load, then releases the module.
// It is safe on an extension that never loaded.
func (e *Extension) Unload() (err error) {
	if e.initCalled {
		err = e.entries.Call(dynamic.OnGameModeExit)
	}
	err = errors.Join(err, e.loader.Unload())
	e.entries = dynamic.EntryPoints{}
	e.initCalled = false
	e.state = Unloaded
	e.names = ""
	return
}

// Forward an event to the symbol of the same name, ok is false when the extension is not initialized,
// the module does not export it or the event carries more than [dynamic.MaxArgs] arguments.
func (e *Extension) Forward(ev Event) (r uintptr, ok bool) {
	if e.state != Initialized || len(ev.Args) > dynamic.MaxArgs {
		return
	}
	if _, ok = e.loader.Resolve(ev.Name); !ok {
		return
	}
	r, err := e.loader.Invoke(ev.Name, ev.Args...)
	return r, err == nil
}
