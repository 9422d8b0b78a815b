package host

import (
	"log"
	"slices"

	"github.com/ZenLiuCN/gomponent"
)

// Dispatcher is an ordered set of event handlers.
type Dispatcher struct {
	handlers []gomponent.EventHandler
}

// AddEventHandler registers h once, false if already registered.
func (d *Dispatcher) AddEventHandler(h gomponent.EventHandler) bool {
	if slices.Contains(d.handlers, h) {
		return false
	}
	d.handlers = append(d.handlers, h)
	return true
}

// RemoveEventHandler unregisters h, false if not registered.
func (d *Dispatcher) RemoveEventHandler(h gomponent.EventHandler) bool {
	i := slices.Index(d.handlers, h)
	if i < 0 {
		return false
	}
	d.handlers = slices.Delete(d.handlers, i, i+1)
	return true
}

// Handlers registered.
func (d *Dispatcher) Handlers() []gomponent.EventHandler {
	return slices.Clone(d.handlers)
}

// Dispatch e to every handler, false if any vetoed.
func (d *Dispatcher) Dispatch(e gomponent.Event) bool {
	allow := true
	for _, h := range d.handlers {
		if !h.HandleEvent(e) {
			allow = false
		}
	}
	return allow
}

// Subsystem is a host component of one category, with or without an event dispatcher.
type Subsystem struct {
	category   gomponent.Category
	dispatcher *Dispatcher
}

// NewSubsystem create a subsystem of category c, events tells whether it exposes a dispatcher.
func NewSubsystem(c gomponent.Category, events bool) *Subsystem {
	s := &Subsystem{category: c}
	if events {
		s.dispatcher = new(Dispatcher)
	}
	return s
}

func (s *Subsystem) ComponentName() string { return s.category.String() }

// Category of the subsystem.
func (s *Subsystem) Category() gomponent.Category { return s.category }

// EventDispatcher of the subsystem, nil when it raises no events.
func (s *Subsystem) EventDispatcher() gomponent.EventDispatcher {
	if s.dispatcher == nil {
		return nil
	}
	return s.dispatcher
}

// Dispatcher of the subsystem, nil when it raises no events.
func (s *Subsystem) Dispatcher() *Dispatcher { return s.dispatcher }

func (s *Subsystem) free() {
	if s.dispatcher != nil {
		s.dispatcher.handlers = nil
	}
}

// Players holds the player event dispatchers.
type Players struct {
	dispatchers map[gomponent.PlayerDispatch]*Dispatcher
}

// NewPlayers create a player pool with every dispatcher.
func NewPlayers() *Players {
	p := &Players{dispatchers: make(map[gomponent.PlayerDispatch]*Dispatcher)}
	for _, d := range gomponent.PlayerDispatches() {
		p.dispatchers[d] = new(Dispatcher)
	}
	return p
}

func (p *Players) PlayerDispatcher(d gomponent.PlayerDispatch) gomponent.EventDispatcher {
	if x, ok := p.dispatchers[d]; ok {
		return x
	}
	return nil
}

// Dispatcher of kind d.
func (p *Players) Dispatcher(d gomponent.PlayerDispatch) *Dispatcher {
	return p.dispatchers[d]
}

// Dispatch e through dispatcher d.
func (p *Players) Dispatch(d gomponent.PlayerDispatch, e gomponent.Event) bool {
	if x, ok := p.dispatchers[d]; ok {
		return x.Dispatch(e)
	}
	return false
}

// Logger adapts a standard logger to gomponent.Logger, dropping messages below Level.
type Logger struct {
	*log.Logger
	Level gomponent.LogLevel
}

// NewLogger create a Logger writing through l.
func NewLogger(l *log.Logger, level gomponent.LogLevel) *Logger {
	return &Logger{Logger: l, Level: level}
}

func (l *Logger) Logf(level gomponent.LogLevel, format string, args ...any) {
	if level < l.Level {
		return
	}
	l.Printf("["+level.String()+"] "+format, args...)
}
