package dynamic

import (
	"fmt"
	"log"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/ZenLiuCN/fn"
)

// DefaultDir is the module directory relative to the working directory.
const DefaultDir = "plugins"

// Loader maps named modules into the process and resolves their exported symbols.
//
// Use Steps:
//
//  1. [Loader.Load] one or more module names, the last one becomes the active module.
//  2. [Loader.Resolve], [Loader.Invoke] or [Call] symbols of the active module.
//  3. [Loader.Unload] to release the active module and forget every cached symbol.
type Loader struct {
	Dir     string //module directory
	backend Backend
	handle  Handle
	path    string
	cache   map[string]uintptr
	lookups int
	debug   bool
}

// NewLoader create a Loader over the native backend, an optional debug parameter enables debug logging.
func NewLoader(dir string, debug ...bool) *Loader {
	return NewLoaderWith(Native(), dir, debug...)
}

// NewLoaderWith create a Loader over backend b.
func NewLoaderWith(b Backend, dir string, debug ...bool) *Loader {
	if b == nil {
		b = Native()
	}
	if dir == "" {
		dir = DefaultDir
	}
	return &Loader{
		Dir:     dir,
		backend: b,
		cache:   make(map[string]uintptr),
		debug:   len(debug) > 0 && debug[0],
	}
}

// ModulePath resolves a module identifier to its platform file name.
func (s *Loader) ModulePath(name string) string {
	return filepath.Join(s.Dir, name+s.backend.Suffix())
}

// Load whitespace separated module names.
func (s *Loader) Load(names string) error {
	return s.LoadModules(strings.Fields(names)...)
}

// LoadModules loads names in order and stops at the first failure, modules loaded before the failure stay mapped.
// On success the last module is the active one.
func (s *Loader) LoadModules(names ...string) (err error) {
	if len(names) == 0 {
		return &ModuleLoadError{}
	}
	for _, name := range names {
		p := s.ModulePath(name)
		var h Handle
		if h, err = s.backend.Open(p); err != nil {
			return &ModuleLoadError{Name: name, Path: p, Reason: err.Error()}
		}
		if s.handle != 0 && s.debug {
			log.Printf("replace active module %s with %s", s.path, p)
		}
		s.handle = h
		s.path = p
		clear(s.cache)
		if s.debug {
			log.Printf("loaded module %s: %x", p, h)
		}
	}
	return
}

// Loaded reports whether there is an active module.
func (s *Loader) Loaded() bool {
	return s.handle != 0
}

// Path of the active module, empty if none.
func (s *Loader) Path() string {
	return s.path
}

// Find queries the export table of the active module, bypassing the cache.
func (s *Loader) Find(name string) (addr uintptr, ok bool) {
	if s.handle == 0 {
		return
	}
	s.lookups++
	addr = s.backend.Lookup(s.handle, name)
	if s.debug {
		log.Printf("lookup symbol %s: %x", name, addr)
	}
	return addr, addr != 0
}

// Resolve a symbol through the cache, a missing symbol is cached as well.
func (s *Loader) Resolve(name string) (addr uintptr, ok bool) {
	if s.handle == 0 {
		return
	}
	if addr, ok = s.cache[name]; ok {
		return addr, addr != 0
	}
	addr, ok = s.Find(name)
	s.cache[name] = addr
	return
}

// MaxArgs is the most integer arguments a native call can carry.
const MaxArgs = 15

// Invoke a symbol with integer sized arguments and return its integer result.
//
// The caller must pass the arguments the module declares for name, only the count is checked at the call boundary.
func (s *Loader) Invoke(name string, args ...uintptr) (uintptr, error) {
	if s.handle == 0 {
		return 0, ErrUninitialized
	}
	if len(args) > MaxArgs {
		return 0, fmt.Errorf("invoke %s with %d arguments: %w", name, len(args), ErrTooManyArgs)
	}
	addr, ok := s.Resolve(name)
	if !ok {
		return 0, &SymbolNotFoundError{Name: name}
	}
	return s.backend.Call(addr, args...), nil
}

// Symbols dump the names inside the cache, including the missing ones.
func (s *Loader) Symbols() []string {
	return fn.MapKeys(s.cache)
}

// Lookups count the export table queries since creation.
func (s *Loader) Lookups() int {
	return s.lookups
}

// Unload releases the active module and clears the cache. It does nothing without an active module.
func (s *Loader) Unload() (err error) {
	if s.handle == 0 {
		return
	}
	if s.debug {
		log.Printf("unload module %s", s.path)
	}
	err = s.backend.Close(s.handle)
	s.handle = 0
	s.path = ""
	clear(s.cache)
	return
}

// Call binds symbol sym of the active module of l as a func of type F.
//
// Known entry points must be requested with their registered signature, see [Signature].
func Call[F any](l *Loader, sym string) (f F, err error) {
	t := reflect.TypeOf((*F)(nil)).Elem()
	if t.Kind() != reflect.Func {
		err = fmt.Errorf("%w: %s is not a func type", ErrSignatureMismatch, t)
		return
	}
	if want, ok := Signature(sym); ok && want != t {
		err = fmt.Errorf("%w: %s is %s, not %s", ErrSignatureMismatch, sym, want, t)
		return
	}
	if l.handle == 0 {
		err = ErrUninitialized
		return
	}
	addr, ok := l.Resolve(sym)
	if !ok {
		err = &SymbolNotFoundError{Name: sym}
		return
	}
	l.backend.Bind(&f, addr)
	return
}

// Use create a function to bind and use symbol on the fly.
func Use[F any](l *Loader, sym string) func(func(f F, err error)) {
	return func(use func(f F, err error)) {
		use(Call[F](l, sym))
	}
}
