package pool

import (
	"errors"
	"slices"
	"sync"

	"github.com/ZenLiuCN/fn"
	"github.com/ZenLiuCN/gomponent/dynamic"
)

// Pool keeps one Loader per module so that each module can be unloaded on its own.
type Pool struct {
	Dir     string
	Modules map[string]*dynamic.Loader
	Loaded  []string //module names in load order
	backend dynamic.Backend
	sync.RWMutex
}

var (
	ErrAlreadyLoad = errors.New("module already loaded")
	ErrNotLoad     = errors.New("module not loaded")
)

// NewPool create new pool over backend b, nil for the native one.
func NewPool(dir string, b dynamic.Backend) *Pool {
	if b == nil {
		b = dynamic.Native()
	}
	return &Pool{Dir: dir, Modules: make(map[string]*dynamic.Loader), backend: b}
}

// Load module name into a fresh Loader.
func (p *Pool) Load(name string) (err error) {
	p.Lock()
	defer p.Unlock()
	if _, ok := p.Modules[name]; ok {
		return ErrAlreadyLoad
	}
	l := dynamic.NewLoaderWith(p.backend, p.Dir)
	if err = l.LoadModules(name); err != nil {
		return
	}
	p.Modules[name] = l
	p.Loaded = append(p.Loaded, name)
	return
}

// Unload module name and forget it.
func (p *Pool) Unload(name string) error {
	p.Lock()
	defer p.Unlock()
	l, ok := p.Modules[name]
	if !ok {
		return ErrNotLoad
	}
	delete(p.Modules, name)
	p.Loaded = slices.DeleteFunc(p.Loaded, func(s string) bool { return s == name })
	return l.Unload()
}

// Require resolve symbol of module name.
func (p *Pool) Require(name, symbol string) (addr uintptr, err error) {
	p.Lock()
	defer p.Unlock()
	l, ok := p.Modules[name]
	if !ok {
		return 0, ErrNotLoad
	}
	if addr, ok = l.Resolve(symbol); !ok {
		err = &dynamic.SymbolNotFoundError{Name: symbol}
	}
	return
}

// Invoke symbol of module name.
func (p *Pool) Invoke(name, symbol string, args ...uintptr) (uintptr, error) {
	p.Lock()
	defer p.Unlock()
	l, ok := p.Modules[name]
	if !ok {
		return 0, ErrNotLoad
	}
	return l.Invoke(symbol, args...)
}

// EntryPoints bound from module name.
func (p *Pool) EntryPoints(name string) (e dynamic.EntryPoints, err error) {
	p.Lock()
	defer p.Unlock()
	l, ok := p.Modules[name]
	if !ok {
		return e, ErrNotLoad
	}
	return dynamic.BindEntryPoints(l), nil
}

// Loader of module name, nil if not loaded.
func (p *Pool) Loader(name string) *dynamic.Loader {
	p.RLock()
	defer p.RUnlock()
	return p.Modules[name]
}

// Names of the loaded modules, unordered.
func (p *Pool) Names() []string {
	p.RLock()
	defer p.RUnlock()
	return fn.MapKeys(p.Modules)
}

// Close unloads every module in reverse load order.
func (p *Pool) Close() error {
	p.Lock()
	defer p.Unlock()
	var errs []error
	for i := len(p.Loaded) - 1; i >= 0; i-- {
		name := p.Loaded[i]
		errs = append(errs, p.Modules[name].Unload())
		delete(p.Modules, name)
	}
	p.Loaded = p.Loaded[:0]
	return errors.Join(errs...)
}
