package dynamic

type (
	// Handle is an opaque OS module handle, zero means no module.
	Handle uintptr
	// Backend is the platform module loader used by a Loader.
	Backend interface {
		Open(path string) (h Handle, err error)      //map a module into the process
		Lookup(h Handle, name string) (addr uintptr) //address of an exported symbol, zero if not exported
		Bind(fptr any, addr uintptr)                 //make the func pointed by fptr call addr
		Call(addr uintptr, args ...uintptr) uintptr  //type-erased call with integer sized arguments
		Close(h Handle) error                        //release a module
		Suffix() string                              //platform file suffix of modules
	}
	// loadError is the diagnostic reported by the OS loader, it may be empty.
	loadError string
)

func (e loadError) Error() string { return string(e) }

// Native returns the backend of the running platform.
func Native() Backend {
	return native{}
}
