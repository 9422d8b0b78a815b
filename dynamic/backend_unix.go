//go:build darwin || freebsd || linux || netbsd

package dynamic

import "github.com/ebitengine/purego"

type native struct{}

func (native) Open(path string) (Handle, error) {
	h, err := purego.Dlopen(path, purego.RTLD_GLOBAL|purego.RTLD_NOW)
	if err != nil {
		return 0, loadError(err.Error())
	}
	if h == 0 {
		return 0, loadError("")
	}
	return Handle(h), nil
}

func (native) Lookup(h Handle, name string) uintptr {
	addr, err := purego.Dlsym(uintptr(h), name)
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
	return purego.Dlclose(uintptr(h))
}

func (native) Suffix() string {
	return ".so"
}
