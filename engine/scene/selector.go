package scene

import "github.com/hubastard/isomap/engine/world"

// Selector holds the single active selection. Subscribers receive the new
// selection, or nil when it is cleared.
type Selector struct {
	current world.Selection
	changed observers[world.Selection]
}

func (s *Selector) Current() (world.Selection, bool) { return s.current, s.current != nil }

// Set replaces whatever was selected.
func (s *Selector) Set(sel world.Selection) {
	s.current = sel
	s.changed.notify(sel)
}

func (s *Selector) Clear() {
	if s.current == nil {
		return
	}
	s.current = nil
	s.changed.notify(nil)
}

func (s *Selector) Subscribe(fn func(world.Selection)) func() { return s.changed.add(fn) }
