/*
Package gomponent is a host component that loads native gamemode and plugin modules and forwards host events into them.

# License

Source codes are under Apache License Version 2.0.

# Underwater

 1. [Hub] is driven by the host: OnLoad caches the core services, OnInit discovers the optional subsystems
    (actors, vehicles, dialogs, ...) and registers one shared [Adapter] per category with their dispatchers,
    OnReady loads the modules named by the go.gamemode and go.plugin configuration strings.
 2. Each [Extension] owns a [dynamic.Loader]. Loading calls the module entry point onGameModeInit,
    unloading calls onGameModeExit before the module is released.
 3. Adapters forward every event to the symbol of the same name (onPlayerConnect, onVehicleDeath, ...)
    when the module exports it, see [Events] and [PlayerEvents].

# Notes

 1. Modules live in plugins/<name>.so (or plugins/<name>.dll on Windows) relative to the working directory.
 2. A failing gamemode load skips the plugin, nothing is retried.
 3. onGameModeExit is only called for a load whose onGameModeInit was called.
 4. The Hub is not thread-safe, the host calls it from its main loop only.
 5. Only the low byte of an event result is significant, so a C bool return of false vetoes the event.
 6. Components handed to OnFree should be pointers, a non comparable component value never matches a subsystem.

# Tooling

A standalone host and a module inspector are available as the gomponent cli:

	go install github.com/ZenLiuCN/gomponent/cmd/gomponent@latest

For more details see the cli help:

	gomponent -h
*/
package gomponent
