/*
Package dynamic loads native shared modules at runtime and calls their exported entry points.

# License

Source codes are under Apache License Version 2.0.

# Underwater

 1. A [Loader] maps named modules from a directory (plugins/<name>.so or plugins/<name>.dll) through a
    platform [Backend]: dlopen on POSIX systems via [purego], LoadLibrary on Windows.
 2. Exported symbols are resolved once and cached per Loader; a symbol missing from the export table is cached too.
 3. Symbols are called either type-erased through [Loader.Invoke] or bound to a Go func type with [Call].

# Notes

 1. A Loader owns exactly one active module. Loading several names keeps only the last handle; use one Loader
    (or a pool.Pool) per module that must be unloaded independently.
 2. Unloading clears the symbol cache, a reloaded module never sees addresses of the previous one.
 3. [Call] can not verify the native signature of an arbitrary symbol. Known entry points ([EntryPoint]) carry a
    fixed Go signature and a mismatching request fails with [ErrSignatureMismatch] instead of crashing.
 4. Loader is not thread-safe, it is meant to be driven by the host lifecycle thread.
 5. A call carries at most [MaxArgs] arguments, [Loader.Invoke] rejects longer lists with [ErrTooManyArgs].

[purego]: https://github.com/ebitengine/purego
*/
package dynamic
