package timer

import (
	"sync"

	"github.com/2beens/fitdash/internal/countdown"
)

var (
	_ countdown.Display = (*Surface)(nil)
	_ countdown.Trigger = (*Surface)(nil)
)

// Surface stands in for the timer's display element and its start/pause
// button: it keeps the last text shown and the last label set.
type Surface struct {
	mutex   sync.RWMutex
	display string
	label   countdown.Label
}

func (s *Surface) Show(text string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.display = text
}

func (s *Surface) SetLabel(label countdown.Label) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.label = label
}

func (s *Surface) Display() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.display
}

func (s *Surface) Label() countdown.Label {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.label
}
