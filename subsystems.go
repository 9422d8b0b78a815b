package gomponent

import "reflect"

// subsystem is one slot of the discovery table, ref is a weak reference to a host owned component.
type subsystem struct {
	category   Category
	ref        Component
	dispatcher EventDispatcher //nil when the component exposes none
}

type subsystems [categoryCount]subsystem

func newSubsystems() (s subsystems) {
	for i := range s {
		s[i].category = Category(i)
	}
	return
}

// discover queries every category from list and registers the adapter of the category when possible.
func (s *subsystems) discover(list ComponentList, adapters *[categoryCount]*Adapter) {
	for i := range s {
		slot := &s[i]
		slot.ref = list.QueryComponent(slot.category)
		slot.dispatcher = nil
		if slot.ref == nil {
			continue
		}
		if src, ok := slot.ref.(EventSource); ok {
			if d := src.EventDispatcher(); d != nil {
				d.AddEventHandler(adapters[i])
				slot.dispatcher = d
			}
		}
	}
}

// release clears every slot holding c and reports the categories cleared.
// A component of a non comparable type has no identity and matches nothing.
func (s *subsystems) release(c Component) (cleared []Category) {
	if c == nil || !reflect.TypeOf(c).Comparable() {
		return
	}
	for i := range s {
		if s[i].ref != nil && s[i].ref == c {
			s[i].ref = nil
			s[i].dispatcher = nil
			cleared = append(cleared, s[i].category)
		}
	}
	return
}

// detach removes the adapters from the dispatchers of every subsystem still present.
func (s *subsystems) detach(adapters *[categoryCount]*Adapter) {
	for i := range s {
		if s[i].dispatcher != nil {
			s[i].dispatcher.RemoveEventHandler(adapters[i])
			s[i].dispatcher = nil
		}
	}
}
