package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitdash/internal/countdown"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Config struct {
	DefaultMinutes int
	// MaxMinutes caps the accepted duration, 0 means no cap.
	MaxMinutes   int
	TickInterval time.Duration
	// Clock defaults to the system clock.
	Clock countdown.Clock
}

// Service runs one countdown per dashboard session.
type Service struct {
	config         Config
	metricsManager *metrics.Manager
	registry       *countdown.Registry

	surfacesMutex sync.Mutex
	surfaces      map[string]*Surface
}

func NewService(config Config, metricsManager *metrics.Manager) (*Service, error) {
	if config.DefaultMinutes <= 0 {
		return nil, fmt.Errorf("default minutes %d: %w", config.DefaultMinutes, countdown.ErrInvalidDuration)
	}
	if config.MaxMinutes > 0 && config.DefaultMinutes > config.MaxMinutes {
		return nil, fmt.Errorf("default minutes %d above max %d: %w",
			config.DefaultMinutes, config.MaxMinutes, countdown.ErrInvalidDuration)
	}

	s := &Service{
		config:         config,
		metricsManager: metricsManager,
		surfaces:       make(map[string]*Surface),
	}
	s.registry = countdown.NewRegistry(s.controllerOptions)
	return s, nil
}

func (s *Service) controllerOptions(sessionToken string) countdown.Options {
	surface := &Surface{}
	s.surfacesMutex.Lock()
	s.surfaces[sessionToken] = surface
	s.surfacesMutex.Unlock()

	return countdown.Options{
		DefaultMinutes: s.config.DefaultMinutes,
		TickInterval:   s.config.TickInterval,
		Clock:          s.config.Clock,
		Display:        surface,
		Trigger:        surface,
		Observer: &metricsObserver{
			sessionToken:   sessionToken,
			metricsManager: s.metricsManager,
		},
	}
}

func (s *Service) controller(sessionToken string) (*countdown.Controller, error) {
	c, err := s.registry.GetOrCreate(sessionToken)
	if err != nil {
		return nil, err
	}
	s.metricsManager.GaugeActiveTimers.Set(float64(s.registry.Len()))
	return c, nil
}

func (s *Service) State(ctx context.Context, sessionToken string) (_ countdown.State, err error) {
	_, span := tracing.Start(ctx, "timer.state")
	defer func() { tracing.EndSpan(span, err) }()

	c, err := s.controller(sessionToken)
	if err != nil {
		return countdown.State{}, err
	}
	return c.State()
}

func (s *Service) Toggle(ctx context.Context, sessionToken string) (_ countdown.State, err error) {
	_, span := tracing.Start(ctx, "timer.toggle")
	defer func() { tracing.EndSpan(span, err) }()

	c, err := s.controller(sessionToken)
	if err != nil {
		return countdown.State{}, err
	}

	state, err := c.Toggle()
	if err != nil {
		return countdown.State{}, err
	}
	span.SetAttributes(attribute.Bool("timer.running", state.Running))
	return state, nil
}

// ChangeDuration parses the raw value of the duration control. Invalid
// values leave the countdown untouched and yield countdown.ErrInvalidDuration.
func (s *Service) ChangeDuration(ctx context.Context, sessionToken, rawMinutes string) (_ countdown.State, err error) {
	_, span := tracing.Start(ctx, "timer.changeDuration")
	defer func() { tracing.EndSpan(span, err) }()

	minutes, err := countdown.ParseDuration(rawMinutes, s.config.MaxMinutes)
	if err != nil {
		return countdown.State{}, err
	}
	span.SetAttributes(attribute.Int("timer.minutes", minutes))

	c, err := s.controller(sessionToken)
	if err != nil {
		return countdown.State{}, err
	}
	return c.ChangeDuration(minutes)
}

// Surface returns the display text and trigger label last written for the
// session, without going through the countdown loop.
func (s *Service) Surface(sessionToken string) (string, countdown.Label, bool) {
	s.surfacesMutex.Lock()
	surface, ok := s.surfaces[sessionToken]
	s.surfacesMutex.Unlock()
	if !ok {
		return "", "", false
	}
	return surface.Display(), surface.Label(), true
}

// Close tears down the session's countdown, if there is one.
func (s *Service) Close(sessionToken string) {
	if s.registry.Remove(sessionToken) {
		log.Debugf("timer for session [%s] closed", sessionToken)
	}
	s.surfacesMutex.Lock()
	delete(s.surfaces, sessionToken)
	s.surfacesMutex.Unlock()
	s.metricsManager.GaugeActiveTimers.Set(float64(s.registry.Len()))
}

func (s *Service) CloseAll() {
	s.registry.CloseAll()
	s.surfacesMutex.Lock()
	s.surfaces = make(map[string]*Surface)
	s.surfacesMutex.Unlock()
	s.metricsManager.GaugeActiveTimers.Set(0)
}

func (s *Service) ActiveTimers() int {
	return s.registry.Len()
}
