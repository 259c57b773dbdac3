package countdown

import (
	"fmt"
	"sync"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	// closed session tokens are remembered long enough to outlive any
	// request that passed the auth check before the session went away
	closedTokensTTLSeconds = 10 * 60
	closedTokensCacheSize  = 1024 * 1024
)

// OptionsFactory builds the controller options for a new session.
type OptionsFactory func(sessionToken string) Options

// Registry keeps one Controller per dashboard session.
type Registry struct {
	mutex        sync.Mutex
	controllers  map[string]*Controller
	closedTokens *freecache.Cache
	shutDown     bool
	newOptions   OptionsFactory
}

func NewRegistry(newOptions OptionsFactory) *Registry {
	return &Registry{
		controllers:  make(map[string]*Controller),
		closedTokens: freecache.NewCache(closedTokensCacheSize),
		newOptions:   newOptions,
	}
}

// GetOrCreate returns the session's controller, creating it on first use.
// Sessions that were removed, and every session after CloseAll, get
// ErrControllerClosed.
func (r *Registry) GetOrCreate(sessionToken string) (*Controller, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if c, ok := r.controllers[sessionToken]; ok {
		return c, nil
	}
	if r.shutDown {
		return nil, ErrControllerClosed
	}
	if _, err := r.closedTokens.Get([]byte(sessionToken)); err == nil {
		return nil, ErrControllerClosed
	}

	c, err := New(r.newOptions(sessionToken))
	if err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	r.controllers[sessionToken] = c
	return c, nil
}

func (r *Registry) Get(sessionToken string) (*Controller, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	c, ok := r.controllers[sessionToken]
	return c, ok
}

// Remove closes and forgets the session's controller, and refuses to create
// a new one for the same token. It reports whether there was a controller.
func (r *Registry) Remove(sessionToken string) bool {
	r.mutex.Lock()
	c, ok := r.controllers[sessionToken]
	delete(r.controllers, sessionToken)
	if err := r.closedTokens.Set([]byte(sessionToken), []byte{1}, closedTokensTTLSeconds); err != nil {
		log.Errorf("remember closed session token: %s", err)
	}
	r.mutex.Unlock()

	if ok {
		c.Close()
	}
	return ok
}

func (r *Registry) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.controllers)
}

func (r *Registry) CloseAll() {
	r.mutex.Lock()
	controllers := r.controllers
	r.controllers = make(map[string]*Controller)
	r.shutDown = true
	r.mutex.Unlock()

	for _, c := range controllers {
		c.Close()
	}
}
