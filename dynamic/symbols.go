package dynamic

import (
	"errors"
	"reflect"
)

var (
	// ErrModuleLoad occurs when the OS loader rejects a module.
	ErrModuleLoad = errors.New("module load failed")
	// ErrMissingSymbol occurs when can't found a symbol.
	ErrMissingSymbol = errors.New("missing symbol")
	// ErrSignatureMismatch occurs when a known entry point is requested with another func type.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrUninitialized occurs when calling into a Loader without an active module.
	ErrUninitialized = errors.New("module not loaded")
	// ErrTooManyArgs occurs when invoking a symbol with more than MaxArgs arguments.
	ErrTooManyArgs = errors.New("too many arguments")
)

type (
	// ModuleLoadError reports the module that the OS loader rejected and its diagnostic.
	ModuleLoadError struct {
		Name   string //module identifier
		Path   string //resolved file path
		Reason string //platform diagnostic, may be empty
	}
	// SymbolNotFoundError reports a symbol absent from the export table of the active module.
	SymbolNotFoundError struct {
		Name string
	}
)

func (e *ModuleLoadError) Error() string {
	msg := "failed to load " + e.Name
	if e.Name == "" {
		msg = "failed to load module: no module name given"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ModuleLoadError) Unwrap() error { return ErrModuleLoad }

func (e *SymbolNotFoundError) Error() string {
	return "missing symbol " + e.Name
}

func (e *SymbolNotFoundError) Unwrap() error { return ErrMissingSymbol }

// EntryPoint enumerates the symbols every module must export.
type EntryPoint uint8

const (
	OnGameModeInit EntryPoint = iota //called right after a successful load
	OnGameModeExit                   //called right before unload
	entryPointCount
)

var entryPointNames = [entryPointCount]string{
	OnGameModeInit: "onGameModeInit",
	OnGameModeExit: "onGameModeExit",
}

// signatures of the known entry points, keyed by exported name.
var signatures = map[string]reflect.Type{
	entryPointNames[OnGameModeInit]: reflect.TypeOf((func())(nil)),
	entryPointNames[OnGameModeExit]: reflect.TypeOf((func())(nil)),
}

func (e EntryPoint) String() string {
	if e < entryPointCount {
		return entryPointNames[e]
	}
	return "unknown"
}

// Signature of a known entry point name.
func Signature(name string) (t reflect.Type, ok bool) {
	t, ok = signatures[name]
	return
}

// EntryPoints is the checked table of entry points bound from one loaded module.
type EntryPoints [entryPointCount]func()

// BindEntryPoints resolves and binds every known entry point of the active module of l.
// Entry points the module does not export stay nil and fail on [EntryPoints.Call].
func BindEntryPoints(l *Loader) (e EntryPoints) {
	for i := EntryPoint(0); i < entryPointCount; i++ {
		if f, err := Call[func()](l, i.String()); err == nil {
			e[i] = f
		}
	}
	return
}

// Has reports whether the module exports p.
func (e *EntryPoints) Has(p EntryPoint) bool {
	return p < entryPointCount && e[p] != nil
}

// Call entry point p, returns a *SymbolNotFoundError when it was not exported.
func (e *EntryPoints) Call(p EntryPoint) error {
	if !e.Has(p) {
		return &SymbolNotFoundError{Name: p.String()}
	}
	e[p]()
	return nil
}
