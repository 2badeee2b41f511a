// Package cache holds the small in-process caches used in front of slow
// collaborators such as the tips endpoint.
package cache

import (
	"sync"
	"time"

	applog "spendlog/internal/log"
)

// Cache is a keyed, expiring store of values.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner is implemented by caches that can drop expired entries on demand.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically sweeps registered caches.
type Janitor struct {
	logger *applog.Logger

	mu      sync.Mutex
	caches  []Cleaner
	stop    chan struct{}
	done    chan struct{}
	started bool
}

func NewJanitor(logger *applog.Logger) *Janitor {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Janitor{
		logger: logger.WithComponent(applog.ComponentCache),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Register adds a cache to the sweep list. Safe to call after Start.
func (j *Janitor) Register(c Cleaner) {
	j.mu.Lock()
	j.caches = append(j.caches, c)
	j.mu.Unlock()
}

// Start sweeps every interval until Stop is called. A non-positive interval
// disables sweeping.
func (j *Janitor) Start(interval time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started || interval <= 0 {
		return
	}
	j.started = true
	go j.run(interval)
}

// Sweep drops expired entries from every registered cache and returns how
// many were removed.
func (j *Janitor) Sweep() int {
	j.mu.Lock()
	caches := append([]Cleaner(nil), j.caches...)
	j.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	return total
}

func (j *Janitor) run(interval time.Duration) {
	defer close(j.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := j.Sweep(); n > 0 {
				j.logger.Debug("Expired cache entries removed", "count", n)
			}
		case <-j.stop:
			return
		}
	}
}

// Stop ends the sweep loop and waits for it to exit.
func (j *Janitor) Stop() {
	j.mu.Lock()
	started := j.started
	j.mu.Unlock()

	select {
	case <-j.stop:
		return
	default:
		close(j.stop)
	}
	if started {
		<-j.done
	}
}
