package gomponent

import (
	"errors"
	"log"

	"github.com/ZenLiuCN/gomponent/dynamic"
)

// Configuration keys naming the modules of each extension.
const (
	KeyGamemode = "go.gamemode"
	KeyPlugin   = "go.plugin"
)

// ConfigMissingError reports a required configuration string that is unset or empty.
type ConfigMissingError struct {
	Key string
}

func (e *ConfigMissingError) Error() string {
	return e.Key + " config string is not set"
}

// Hub is the host component forwarding subsystem events into the gamemode and plugin extensions.
//
// The host drives it in a fixed order:
//
//	OnLoad -> OnInit -> OnReady -> (events) -> OnFree* -> Close
type Hub struct {
	core     Core
	config   Config
	players  PlayerPool
	gamemode *Extension
	plugin   *Extension

	subsystems subsystems
	adapters   [categoryCount]*Adapter
	player     *Adapter
	playersOn  []EventDispatcher

	debug bool
}

// Option configures a Hub.
type Option func(*hubOptions)

type hubOptions struct {
	backend dynamic.Backend
	dir     string
	debug   bool
}

// WithBackend sets the module backend of both extensions, the native one by default.
func WithBackend(b dynamic.Backend) Option {
	return func(o *hubOptions) { o.backend = b }
}

// WithDir sets the module directory, dynamic.DefaultDir by default.
func WithDir(dir string) Option {
	return func(o *hubOptions) { o.dir = dir }
}

// WithDebug enables debug logging of the hub and its loaders.
func WithDebug(debug bool) Option {
	return func(o *hubOptions) { o.debug = debug }
}

// New create a Hub owning a gamemode and a plugin extension, each with its own Loader.
func New(opts ...Option) *Hub {
	o := hubOptions{dir: dynamic.DefaultDir}
	for _, opt := range opts {
		opt(&o)
	}
	if o.backend == nil {
		o.backend = dynamic.Native()
	}
	h := &Hub{
		gamemode:   NewExtension("gamemode", dynamic.NewLoaderWith(o.backend, o.dir, o.debug)),
		plugin:     NewExtension("plugin", dynamic.NewLoaderWith(o.backend, o.dir, o.debug)),
		subsystems: newSubsystems(),
		debug:      o.debug,
	}
	for i := range h.adapters {
		h.adapters[i] = &Adapter{name: Category(i).String(), hub: h}
	}
	h.player = &Adapter{name: "players", hub: h}
	return h
}

func (h *Hub) ComponentName() string { return "Go" }

func (h *Hub) ComponentVersion() string { return "1.0.0.0" }

// Gamemode extension of the hub.
func (h *Hub) Gamemode() *Extension { return h.gamemode }

// Plugin extension of the hub.
func (h *Hub) Plugin() *Extension { return h.plugin }

// Subsystem returns the cached reference of category c, nil if absent or released.
func (h *Hub) Subsystem(c Category) Component {
	if c < categoryCount {
		return h.subsystems[c].ref
	}
	return nil
}

// Adapter shared by the dispatchers of category c.
func (h *Hub) Adapter(c Category) *Adapter {
	if c < categoryCount {
		return h.adapters[c]
	}
	return nil
}

// PlayerAdapter shared by every player dispatcher.
func (h *Hub) PlayerAdapter() *Adapter { return h.player }

func (h *Hub) logf(level LogLevel, format string, args ...any) {
	if h.core != nil {
		h.core.Logf(level, format, args...)
		return
	}
	log.Printf("["+level.String()+"] "+format, args...)
}

// OnLoad caches the host-wide services.
func (h *Hub) OnLoad(core Core) {
	h.core = core
	h.config = core.Config()
	h.players = core.Players()
}

// OnInit discovers the optional subsystems and registers the adapters with their dispatchers.
func (h *Hub) OnInit(components ComponentList) {
	h.subsystems.discover(components, &h.adapters)
	if h.players == nil {
		return
	}
	h.playersOn = h.playersOn[:0]
	for _, d := range PlayerDispatches() {
		if disp := h.players.PlayerDispatcher(d); disp != nil {
			disp.AddEventHandler(h.player)
			h.playersOn = append(h.playersOn, disp)
		}
	}
}

// OnReady loads the gamemode then the plugin. The first failure is logged and ends the step.
func (h *Hub) OnReady() error {
	if err := h.load(h.gamemode, KeyGamemode); err != nil {
		return err
	}
	return h.load(h.plugin, KeyPlugin)
}

func (h *Hub) load(ext *Extension, key string) error {
	var names string
	if h.config != nil {
		names = h.config.GetString(key)
	}
	if names == "" {
		err := &ConfigMissingError{Key: key}
		h.logf(LogError, "%s", err)
		return err
	}
	if err := ext.Load(names); err != nil {
		h.logf(LogError, "Failed to load %s: %s", ext.Kind(), err)
		return err
	}
	return nil
}

// OnFree forgets the subsystem c when the host tears it down.
func (h *Hub) OnFree(c Component) {
	for _, cat := range h.subsystems.release(c) {
		if h.debug {
			h.logf(LogDebug, "subsystem %s released", cat)
		}
	}
}

// Reset is called by the host when the mode changes, the hub keeps no per-mode data.
func (h *Hub) Reset() {}

// Close detaches the adapters from the subsystems still present, then exits and unloads the gamemode and the plugin.
func (h *Hub) Close() error {
	h.subsystems.detach(&h.adapters)
	for _, d := range h.playersOn {
		d.RemoveEventHandler(h.player)
	}
	h.playersOn = nil
	var errs []error
	for _, ext := range [...]*Extension{h.gamemode, h.plugin} {
		if err := ext.Unload(); err != nil {
			h.logf(LogError, "Failed to unload %s: %s", ext.Kind(), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
