package registry

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/btree"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

var (
	ErrorPoolAlreadyExists = errors.New("pool already exists")
	ErrorPoolNotFound      = errors.New("pool not found")
	ErrorBadPoolName       = errors.New("bad pool name")
)

type Config struct {
	TickInterval time.Duration // zero disables the tick loop
}

// Registry holds the named pools and drives their update routine.
type Registry struct {
	config *Config

	mutex  sync.RWMutex
	status string
	pools  map[string]*Pool
	names  *btree.BTreeG[string]

	exit     chan struct{}
	stopOnce sync.Once
}

func NewRegistry(config *Config) *Registry {
	return &Registry{
		config: config,
		status: StatusOpening,
		pools:  map[string]*Pool{},
		names:  btree.NewOrderedG[string](16),
		exit:   make(chan struct{}),
	}
}

func (r *Registry) GetStatus() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.status
}

func (r *Registry) setStatus(status string) {
	r.mutex.Lock()
	r.status = status
	r.mutex.Unlock()
}

// Open makes the registry operational without starting the tick loop. A
// stopped registry stays closing.
func (r *Registry) Open() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.status == StatusClosing {
		return
	}
	r.status = StatusOperating
}

func (r *Registry) CreatePool(name string, options Options) (*Pool, error) {

	// names are part of the url, ':' starts an action
	if name == "" || strings.ContainsAny(name, "/:?#") {
		return nil, fmt.Errorf("%w: '%s'", ErrorBadPoolName, name)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.pools[name]; exists {
		return nil, fmt.Errorf("%w: '%s'", ErrorPoolAlreadyExists, name)
	}

	pool, err := NewPool(name, options)
	if err != nil {
		return nil, err
	}

	r.pools[name] = pool
	r.names.ReplaceOrInsert(name)

	return pool, nil
}

func (r *Registry) GetPool(name string) (*Pool, error) {

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	pool, exists := r.pools[name]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrorPoolNotFound, name)
	}

	return pool, nil
}

// ListPools returns the pools ordered by name.
func (r *Registry) ListPools() []*Pool {

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*Pool, 0, r.names.Len())
	r.names.Ascend(func(name string) bool {
		result = append(result, r.pools[name])
		return true
	})

	return result
}

func (r *Registry) DropPool(name string) error {

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.pools[name]; !exists {
		return fmt.Errorf("%w: '%s'", ErrorPoolNotFound, name)
	}

	delete(r.pools, name)
	r.names.Delete(name)

	return nil
}

// Tick runs the update routine of every pool once.
func (r *Registry) Tick(delta time.Duration) error {

	var errs []error
	for _, pool := range r.ListPools() {
		if err := pool.Update(delta); err != nil {
			errs = append(errs, fmt.Errorf("update '%s': %w", pool.Name, err))
		}
	}

	return errors.Join(errs...)
}

// Start opens the registry and ticks every pool until Stop is called.
func (r *Registry) Start() error {

	r.Open()
	if r.GetStatus() == StatusClosing {
		return nil
	}

	if r.config.TickInterval <= 0 {
		<-r.exit
		return nil
	}

	ticker := time.NewTicker(r.config.TickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-r.exit:
			return nil
		case now := <-ticker.C:
			err := r.Tick(now.Sub(last))
			if err != nil {
				log.Println("ERROR: tick:", err.Error())
			}
			last = now
		}
	}
}

func (r *Registry) Stop() error {

	r.stopOnce.Do(func() {
		r.setStatus(StatusClosing)
		for _, pool := range r.ListPools() {
			stats := pool.Stats()
			log.Printf("Closing pool '%s' (%d/%d occupied)\n", stats.Name, stats.Occupied, stats.Capacity)
		}
		close(r.exit)
	})

	return nil
}
