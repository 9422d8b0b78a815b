//go:build windows

package dynamic

import (
	"errors"
	"fmt"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"
)

type native struct{}

func (native) Open(path string) (Handle, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		var code windows.Errno
		if errors.As(err, &code) {
			return 0, loadError(fmt.Sprintf("error code %d", uint32(code)))
		}
		return 0, loadError(err.Error())
	}
	return Handle(h), nil
}

func (native) Lookup(h Handle, name string) uintptr {
	addr, err := windows.GetProcAddress(windows.Handle(h), name)
	if err != nil {
		return 0
	}
	return addr
}

func (native) Bind(fptr any, addr uintptr) {
	purego.RegisterFunc(fptr, addr)
}

func (native) Call(addr uintptr, args ...uintptr) uintptr {
	r, _, _ := purego.SyscallN(addr, args...)
	return r
}

func (native) Close(h Handle) error {
	return windows.FreeLibrary(windows.Handle(h))
}

func (native) Suffix() string {
	return ".dll"
}
