package countdown

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrControllerClosed = errors.New("countdown controller closed")

// Label is the text of the trigger control.
type Label string

const (
	LabelStart Label = "Start"
	LabelPause Label = "Pause"
)

func (l Label) String() string {
	return string(l)
}

// Display is the write-only surface the formatted remaining time goes to.
type Display interface {
	Show(text string)
}

// Trigger is the control that starts and pauses the countdown.
type Trigger interface {
	SetLabel(label Label)
}

// Observer gets notified about countdown lifecycle events. All calls are made
// from the controller loop goroutine.
type Observer interface {
	Started(minutes int)
	Paused(remainingSeconds int)
	Restarted(minutes int)
	Ticked(remainingSeconds int)
	Completed()
	// Closed is the last call, running tells whether a countdown was cut short.
	Closed(running bool)
}

type Options struct {
	// DefaultMinutes is the initial value of the duration control.
	DefaultMinutes int
	// TickInterval defaults to one second.
	TickInterval time.Duration
	Clock        Clock
	Display      Display
	Trigger      Trigger
	Observer     Observer
}

type State struct {
	DurationMinutes  int    `json:"durationMinutes"`
	RemainingSeconds int    `json:"remainingSeconds"`
	Running          bool   `json:"running"`
	Display          string `json:"display"`
	Label            Label  `json:"label"`
}

// Controller owns a single countdown. Every input (toggle, duration change,
// state read) and every tick is applied on one loop goroutine, so they never
// interleave and at most one ticker is live at any time.
type Controller struct {
	clock        Clock
	tickInterval time.Duration
	display      Display
	trigger      Trigger
	observer     Observer

	// owned by the loop goroutine
	durationMinutes  int
	remainingSeconds int
	running          bool
	ticker           Ticker
	displayText      string
	label            Label

	actions   chan func()
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func New(opts Options) (*Controller, error) {
	if opts.DefaultMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}

	c := &Controller{
		clock:           opts.Clock,
		tickInterval:    opts.TickInterval,
		display:         opts.Display,
		trigger:         opts.Trigger,
		observer:        opts.Observer,
		durationMinutes: opts.DefaultMinutes,
		actions:         make(chan func()),
		done:            make(chan struct{}),
	}

	// the loop is not running yet, safe to touch the state here
	c.show(durationLabel(c.durationMinutes))
	c.setLabel(LabelStart)

	c.wg.Add(1)
	go c.loop()

	return c, nil
}

// Toggle starts the countdown from the full duration when idle, and pauses
// it when running. Pausing does not keep the remaining time for a resume:
// the next start counts down from the full duration again.
func (c *Controller) Toggle() (State, error) {
	var state State
	err := c.do(func() {
		c.running = !c.running
		if c.running {
			c.setLabel(LabelPause)
			c.start()
			if c.observer != nil {
				c.observer.Started(c.durationMinutes)
			}
		} else {
			c.setLabel(LabelStart)
			c.cancelTick()
			if c.observer != nil {
				c.observer.Paused(c.remainingSeconds)
			}
		}
		state = c.snapshot()
	})
	return state, err
}

// ChangeDuration sets a new duration. The display shows "{minutes}:00" right
// away; a running countdown restarts from the new full duration and shows it
// as MM:SS, an idle one stays idle.
func (c *Controller) ChangeDuration(minutes int) (State, error) {
	if minutes <= 0 {
		return State{}, ErrInvalidDuration
	}

	var state State
	err := c.do(func() {
		c.durationMinutes = minutes
		c.show(durationLabel(minutes))
		if c.running {
			c.start()
			if c.observer != nil {
				c.observer.Restarted(minutes)
			}
		}
		state = c.snapshot()
	})
	return state, err
}

func (c *Controller) State() (State, error) {
	var state State
	err := c.do(func() {
		state = c.snapshot()
	})
	return state, err
}

// Close stops the loop and cancels the live tick, if any. It is safe to call
// more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	c.wg.Wait()
}

func (c *Controller) do(action func()) error {
	finished := make(chan struct{})
	select {
	case c.actions <- func() {
		defer close(finished)
		action()
	}:
	case <-c.done:
		return ErrControllerClosed
	}
	<-finished
	return nil
}

func (c *Controller) loop() {
	defer c.wg.Done()
	for {
		var tickC <-chan time.Time
		if c.ticker != nil {
			tickC = c.ticker.C()
		}

		select {
		case <-c.done:
			c.cancelTick()
			if c.observer != nil {
				c.observer.Closed(c.running)
			}
			return
		case action := <-c.actions:
			action()
		case <-tickC:
			c.tick()
		}
	}
}

// start (re)computes the remaining time from the full duration and installs
// a fresh ticker, cancelling the previous one first.
func (c *Controller) start() {
	c.cancelTick()
	c.remainingSeconds = c.durationMinutes * 60
	c.ticker = c.clock.NewTicker(c.tickInterval)
	c.show(FormatTime(c.remainingSeconds))
}

func (c *Controller) tick() {
	c.remainingSeconds--
	c.show(FormatTime(c.remainingSeconds))
	if c.observer != nil {
		c.observer.Ticked(c.remainingSeconds)
	}

	if c.remainingSeconds <= 0 {
		c.cancelTick()
		c.running = false
		c.setLabel(LabelStart)
		log.Tracef("countdown of %d min finished", c.durationMinutes)
		if c.observer != nil {
			c.observer.Completed()
		}
	}
}

// cancelTick is a no-op when there is no live ticker.
func (c *Controller) cancelTick() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	c.ticker = nil
}

func (c *Controller) show(text string) {
	c.displayText = text
	if c.display != nil {
		c.display.Show(text)
	}
}

func (c *Controller) setLabel(label Label) {
	c.label = label
	if c.trigger != nil {
		c.trigger.SetLabel(label)
	}
}

func (c *Controller) snapshot() State {
	return State{
		DurationMinutes:  c.durationMinutes,
		RemainingSeconds: c.remainingSeconds,
		Running:          c.running,
		Display:          c.displayText,
		Label:            c.label,
	}
}
