//go:build !(darwin || freebsd || linux || netbsd || windows)

package dynamic

import "errors"

type native struct{}

var errUnsupported = errors.New("native modules are not supported on this platform")

func (native) Open(string) (Handle, error)      { return 0, loadError(errUnsupported.Error()) }
func (native) Lookup(Handle, string) uintptr    { return 0 }
func (native) Bind(any, uintptr)                { panic(errUnsupported) }
func (native) Call(uintptr, ...uintptr) uintptr { panic(errUnsupported) }
func (native) Close(Handle) error               { return errUnsupported }
func (native) Suffix() string                   { return ".so" }
