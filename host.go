package gomponent

import "fmt"

// LogLevel of a host log message.
type LogLevel uint8

const (
	LogDebug LogLevel = iota
	LogMessage
	LogWarning
	LogError
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogMessage:
		return "message"
	case LogWarning:
		return "warning"
	case LogError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// Category of an optional host subsystem.
type Category uint8

const (
	Actors Category = iota
	Checkpoints
	Classes
	Console
	Dialogs
	GangZones
	Menus
	Objects
	Pickups
	TextDraws
	TextLabels
	Vehicles
	CustomModels
	categoryCount
)

var categoryNames = [categoryCount]string{
	"actors", "checkpoints", "classes", "console", "dialogs", "gangzones", "menus",
	"objects", "pickups", "textdraws", "textlabels", "vehicles", "models",
}

func (c Category) String() string {
	if c < categoryCount {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Categories lists every subsystem category in discovery order.
func Categories() []Category {
	c := make([]Category, categoryCount)
	for i := range c {
		c[i] = Category(i)
	}
	return c
}

// PlayerDispatch selects one of the event dispatchers of the player pool.
type PlayerDispatch uint8

const (
	PlayerSpawn PlayerDispatch = iota
	PlayerConnect
	PlayerStream
	PlayerText
	PlayerShot
	PlayerChange
	PlayerDamage
	PlayerClick
	PlayerCheck
	PlayerUpdate
	playerDispatchCount
)

var playerDispatchNames = [playerDispatchCount]string{
	"spawn", "connect", "stream", "text", "shot", "change", "damage", "click", "check", "update",
}

func (d PlayerDispatch) String() string {
	if d < playerDispatchCount {
		return playerDispatchNames[d]
	}
	return fmt.Sprintf("dispatch(%d)", uint8(d))
}

// PlayerDispatches lists every dispatcher of the player pool.
func PlayerDispatches() []PlayerDispatch {
	d := make([]PlayerDispatch, playerDispatchCount)
	for i := range d {
		d[i] = PlayerDispatch(i)
	}
	return d
}

type (
	// Event raised by a host subsystem. Args are integer sized values passed to modules as is.
	Event struct {
		Name string
		Args []uintptr
	}
	// EventHandler receives subsystem events, returning false vetoes the event.
	EventHandler interface {
		HandleEvent(e Event) bool
	}
	// EventDispatcher fans events out to registered handlers.
	EventDispatcher interface {
		AddEventHandler(h EventHandler) bool
		RemoveEventHandler(h EventHandler) bool
	}
	// Component is any host owned subsystem. Components are compared by identity.
	Component interface {
		ComponentName() string
	}
	// EventSource is a Component exposing an event dispatcher.
	EventSource interface {
		Component
		EventDispatcher() EventDispatcher
	}
	// ComponentList is the host registry of optional subsystems, it returns nil for an absent one.
	ComponentList interface {
		QueryComponent(c Category) Component
	}
	// PlayerPool exposes the player event dispatchers.
	PlayerPool interface {
		PlayerDispatcher(d PlayerDispatch) EventDispatcher
	}
	// Config reads host configuration strings, an unset key reads as empty.
	Config interface {
		GetString(key string) string
	}
	// Logger is the leveled printf-style sink of the host.
	Logger interface {
		Logf(level LogLevel, format string, args ...any)
	}
	// Core is the set of host-wide services.
	Core interface {
		Logger
		Config() Config
		Players() PlayerPool
	}
)
