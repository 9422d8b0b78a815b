// Package host is a minimal standalone host for a gomponent.Hub: it owns the optional subsystems and the
// player dispatchers and drives the hub lifecycle.
package host

import (
	"errors"
	"log"
	"os"
	"slices"

	"github.com/ZenLiuCN/gomponent"
)

var (
	// ErrStarted occurs when starting a Core twice.
	ErrStarted = errors.New("host already started")
	// ErrNotStarted occurs when stopping a Core that never started.
	ErrNotStarted = errors.New("host not started")
)

type (
	// Lifecycle is the component contract a Core drives.
	Lifecycle interface {
		OnLoad(core gomponent.Core)
		OnInit(components gomponent.ComponentList)
		OnReady() error
		OnFree(c gomponent.Component)
		Close() error
	}
	// Core implements the host services consumed by a gomponent.Hub.
	Core struct {
		config     gomponent.Config
		logger     gomponent.Logger
		players    *Players
		subsystems []*Subsystem
		component  Lifecycle
	}
)

// New create a Core serving cfg, with the subsystems of the given categories present.
// A nil logger logs through the standard logger at message level.
func New(cfg gomponent.Config, logger gomponent.Logger, categories ...gomponent.Category) *Core {
	if logger == nil {
		logger = NewLogger(log.New(os.Stderr, "", log.LstdFlags), gomponent.LogMessage)
	}
	c := &Core{config: cfg, logger: logger, players: NewPlayers()}
	for _, cat := range categories {
		if c.Subsystem(cat) == nil {
			c.subsystems = append(c.subsystems, NewSubsystem(cat, cat != gomponent.TextLabels))
		}
	}
	return c
}

func (c *Core) Config() gomponent.Config { return c.config }

func (c *Core) Players() gomponent.PlayerPool { return c.players }

// PlayerPool of the core, for dispatching player events.
func (c *Core) PlayerPool() *Players { return c.players }

func (c *Core) Logf(level gomponent.LogLevel, format string, args ...any) {
	c.logger.Logf(level, format, args...)
}

// QueryComponent returns the subsystem of category cat, nil if absent.
func (c *Core) QueryComponent(cat gomponent.Category) gomponent.Component {
	if s := c.Subsystem(cat); s != nil {
		return s
	}
	return nil
}

// Subsystem of category cat, nil if absent.
func (c *Core) Subsystem(cat gomponent.Category) *Subsystem {
	for _, s := range c.subsystems {
		if s.category == cat {
			return s
		}
	}
	return nil
}

// Start drives OnLoad, OnInit and OnReady of component.
func (c *Core) Start(component Lifecycle) error {
	if c.component != nil {
		return ErrStarted
	}
	c.component = component
	component.OnLoad(c)
	component.OnInit(c)
	return component.OnReady()
}

// Remove tears subsystem cat down and notifies the component.
func (c *Core) Remove(cat gomponent.Category) bool {
	i := slices.IndexFunc(c.subsystems, func(s *Subsystem) bool { return s.category == cat })
	if i < 0 {
		return false
	}
	s := c.subsystems[i]
	c.subsystems = slices.Delete(c.subsystems, i, i+1)
	if c.component != nil {
		c.component.OnFree(s)
	}
	s.free()
	return true
}

// Stop tears every subsystem down in reverse order, then closes the component.
func (c *Core) Stop() error {
	if c.component == nil {
		return ErrNotStarted
	}
	for i := len(c.subsystems) - 1; i >= 0; i-- {
		c.Remove(c.subsystems[i].category)
	}
	err := c.component.Close()
	c.component = nil
	return err
}

// Dispatch e through the subsystem of category cat, false if it is absent or a handler vetoed.
func (c *Core) Dispatch(cat gomponent.Category, e gomponent.Event) bool {
	s := c.Subsystem(cat)
	if s == nil || s.dispatcher == nil {
		return false
	}
	return s.dispatcher.Dispatch(e)
}
