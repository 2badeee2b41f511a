package tips

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"spendlog/internal/cache"
	applog "spendlog/internal/log"
)

const cacheKey = "tips"

// DefaultFetchTimeout bounds a shared fetch once it no longer follows any
// single caller's context.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher is the remote side of the loader; *Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Tip, error)
}

// State is what the tips panel renders. Tips from the last successful load
// are kept when a later load fails.
type State struct {
	Tips      []Tip     `json:"tips"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Loader owns the tips view state. Concurrent loads share one fetch.
type Loader struct {
	fetcher Fetcher
	cache   cache.Cache[[]Tip]
	group   singleflight.Group
	logger  *applog.Logger
	now     func() time.Time
	timeout time.Duration

	mu       sync.Mutex
	state    State
	inflight int
}

// NewLoader builds a loader. A nil cache disables caching.
func NewLoader(fetcher Fetcher, c cache.Cache[[]Tip], logger *applog.Logger) *Loader {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Loader{
		fetcher: fetcher,
		cache:   c,
		logger:  logger.WithComponent(applog.ComponentTips),
		now:     time.Now,
		timeout: DefaultFetchTimeout,
		state:   State{Tips: []Tip{}},
	}
}

// State returns a copy of the current view state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// Load serves cached tips when fresh, otherwise fetches them.
func (l *Loader) Load(ctx context.Context) (State, error) {
	if l.cache != nil {
		if tips, ok := l.cache.Get(cacheKey); ok {
			l.mu.Lock()
			l.state.Tips = tips
			l.state.Error = ""
			st := l.snapshot()
			l.mu.Unlock()
			return st, nil
		}
	}
	return l.fetch(ctx)
}

// Refresh drops the cached list and fetches again.
func (l *Loader) Refresh(ctx context.Context) (State, error) {
	if l.cache != nil {
		l.cache.Delete(cacheKey)
	}
	return l.fetch(ctx)
}

func (l *Loader) fetch(ctx context.Context) (State, error) {
	l.mu.Lock()
	l.inflight++
	l.state.Error = ""
	l.mu.Unlock()

	// the fetch is shared, so one caller going away must not fail the others
	ch := l.group.DoChan(cacheKey, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		tips, err := l.fetcher.Fetch(fctx)
		if err != nil {
			return nil, err
		}
		if l.cache != nil {
			l.cache.Set(cacheKey, tips)
		}
		return tips, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		l.mu.Lock()
		defer l.mu.Unlock()
		l.inflight--
		l.logger.DebugContext(ctx, "Tips load abandoned by caller", applog.FieldError, ctx.Err())
		return l.snapshot(), ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--
	if res.Err != nil {
		l.state.Error = res.Err.Error()
		l.logger.WarnContext(ctx, "Tips load failed", applog.FieldError, res.Err, "shared", res.Shared)
		return l.snapshot(), res.Err
	}
	l.state.Tips = res.Val.([]Tip)
	l.state.Error = ""
	l.state.UpdatedAt = l.now()
	return l.snapshot(), nil
}

func (l *Loader) snapshot() State {
	st := l.state
	st.Tips = append([]Tip(nil), l.state.Tips...)
	if st.Tips == nil {
		st.Tips = []Tip{}
	}
	st.Loading = l.inflight > 0
	return st
}
