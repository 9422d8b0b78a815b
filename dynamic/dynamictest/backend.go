// Package dynamictest provides an in-memory module backend for tests of code built on package dynamic.
package dynamictest

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ZenLiuCN/gomponent/dynamic"
)

// Module maps exported symbol names to Go funcs.
// Supported func types are func(), func() uintptr and func(...uintptr) uintptr.
type Module map[string]any

// Backend serves Modules keyed by file path, it records every loader interaction.
type Backend struct {
	Modules map[string]Module //loadable modules by path
	Opened  []string          //paths opened, in order
	Closed  []string          //paths closed, in order
	Lookups int               //export table queries
	Calls   []string          //symbols called, in order

	handles map[dynamic.Handle]string
	symbols map[uintptr]any
	names   map[uintptr]string
	addrs   map[string]uintptr
	next    uintptr
}

// New create a Backend serving modules.
func New(modules map[string]Module) *Backend {
	if modules == nil {
		modules = make(map[string]Module)
	}
	return &Backend{
		Modules: modules,
		handles: make(map[dynamic.Handle]string),
		symbols: make(map[uintptr]any),
		names:   make(map[uintptr]string),
		addrs:   make(map[string]uintptr),
	}
}

func (b *Backend) Open(path string) (dynamic.Handle, error) {
	path = strings.ReplaceAll(path, "\\", "/")
	if _, ok := b.Modules[path]; !ok {
		return 0, fmt.Errorf("%s: cannot open shared object file: No such file or directory", path)
	}
	b.next++
	h := dynamic.Handle(b.next)
	b.handles[h] = path
	b.Opened = append(b.Opened, path)
	return h, nil
}

func (b *Backend) Lookup(h dynamic.Handle, name string) uintptr {
	b.Lookups++
	path, ok := b.handles[h]
	if !ok {
		return 0
	}
	f, ok := b.Modules[path][name]
	if !ok {
		return 0
	}
	key := path + "\x00" + name
	if addr, ok := b.addrs[key]; ok {
		return addr
	}
	b.next++
	addr := b.next << 8
	b.addrs[key] = addr
	b.symbols[addr] = f
	b.names[addr] = name
	return addr
}

func (b *Backend) Bind(fptr any, addr uintptr) {
	f, ok := b.symbols[addr]
	if !ok {
		panic(fmt.Sprintf("bind unknown address %x", addr))
	}
	name := b.names[addr]
	target := reflect.ValueOf(fptr).Elem()
	v := reflect.ValueOf(f)
	if v.Type() != target.Type() {
		panic(fmt.Sprintf("bind %s: %s is not %s", name, v.Type(), target.Type()))
	}
	target.Set(reflect.MakeFunc(target.Type(), func(args []reflect.Value) []reflect.Value {
		b.Calls = append(b.Calls, name)
		if v.Type().IsVariadic() {
			//args already holds the packed variadic slice
			return v.CallSlice(args)
		}
		return v.Call(args)
	}))
}

func (b *Backend) Call(addr uintptr, args ...uintptr) uintptr {
	f, ok := b.symbols[addr]
	if !ok {
		panic(fmt.Sprintf("call unknown address %x", addr))
	}
	b.Calls = append(b.Calls, b.names[addr])
	switch x := f.(type) {
	case func():
		x()
		return 0
	case func() uintptr:
		return x()
	case func(...uintptr) uintptr:
		return x(args...)
	default:
		panic(fmt.Sprintf("unsupported symbol type %T", f))
	}
}

func (b *Backend) Close(h dynamic.Handle) error {
	path, ok := b.handles[h]
	if !ok {
		return fmt.Errorf("close unknown handle %x", h)
	}
	delete(b.handles, h)
	b.Closed = append(b.Closed, path)
	return nil
}

func (b *Backend) Suffix() string {
	return ".so"
}

// Count the calls of symbol name.
func (b *Backend) Count(name string) (n int) {
	for _, c := range b.Calls {
		if c == name {
			n++
		}
	}
	return
}

// Active count of currently opened handles.
func (b *Backend) Active() int {
	return len(b.handles)
}
