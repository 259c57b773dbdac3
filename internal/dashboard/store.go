package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/fitdash/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte = 1024 * 1024

	keyExercises   = "dashboard::exercises"
	keyWeeklyChart = "dashboard::chart::weekly"
	keyProgress    = "dashboard::progress"

	// static payloads never expire, they are only evicted under memory pressure
	noExpire = 0
)

// Store keeps the rendered dashboard payloads. Everything is rendered once
// on Warm and re-rendered only when freecache has evicted an entry.
type Store struct {
	cache     *freecache.Cache
	renderers map[string]func() any
}

func NewStore(cacheSizeMB int) *Store {
	if cacheSizeMB <= 0 {
		cacheSizeMB = 1
	}
	return &Store{
		cache: freecache.NewCache(cacheSizeMB * megabyte),
		renderers: map[string]func() any{
			keyExercises:   func() any { return Exercises() },
			keyWeeklyChart: func() any { return WeeklyChart() },
			keyProgress:    func() any { return ProgressCircles() },
		},
	}
}

// Warm renders all payloads into the cache.
func (s *Store) Warm() error {
	for key := range s.renderers {
		if _, err := s.render(key); err != nil {
			return err
		}
	}
	log.Debugf("dashboard store warmed up, %d entries", s.cache.EntryCount())
	return nil
}

func (s *Store) Exercises(ctx context.Context) ([]byte, error) {
	return s.get(ctx, keyExercises)
}

func (s *Store) WeeklyChart(ctx context.Context) ([]byte, error) {
	return s.get(ctx, keyWeeklyChart)
}

func (s *Store) ProgressCircles(ctx context.Context) ([]byte, error) {
	return s.get(ctx, keyProgress)
}

func (s *Store) get(ctx context.Context, key string) (_ []byte, err error) {
	_, span := tracing.Start(ctx, "dashboard.get")
	defer func() { tracing.EndSpan(span, err) }()

	payload, err := s.cache.Get([]byte(key))
	if err == nil {
		return payload, nil
	}
	if !errors.Is(err, freecache.ErrNotFound) {
		return nil, fmt.Errorf("get %s from cache: %w", key, err)
	}

	log.Debugf("dashboard payload %s not in cache, rendering", key)
	return s.render(key)
}

func (s *Store) render(key string) ([]byte, error) {
	renderer, ok := s.renderers[key]
	if !ok {
		return nil, fmt.Errorf("unknown dashboard payload: %s", key)
	}

	payload, err := json.Marshal(renderer())
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", key, err)
	}

	if err := s.cache.Set([]byte(key), payload, noExpire); err != nil {
		// still serve the rendered payload
		log.Errorf("failed to cache dashboard payload %s: %s", key, err)
	}
	return payload, nil
}
