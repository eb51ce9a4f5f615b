// Package datasync is the single source of truth for content collections during a
// process lifetime. Writes land in memory and local persistence first; the remote
// table store is updated afterwards on a best-effort basis and never rolled back.
package datasync

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"krishibondhu/entities"
	"krishibondhu/pkg/catalog"
	"krishibondhu/pkg/persist"
	"krishibondhu/pkg/remote"
)

type Option func(*Store)

// WithRemoteTimeout bounds each remote fetch and write.
func WithRemoteTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.remoteTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

type Store struct {
	local         *persist.Adapter
	remote        remote.Client
	defaults      func() catalog.DataSet
	log           *zap.Logger
	remoteTimeout time.Duration
	now           func() time.Time

	mu          sync.RWMutex
	crops       []entities.Crop
	news        []entities.NewsItem
	market      []entities.MarketItem
	ads         []entities.AdItem
	weather     []entities.WeatherForecast
	phase       Phase
	loading     bool
	gen         uint64
	lastRefresh time.Time
	lastErr     string
	closed      bool

	bg      sync.WaitGroup // refreshes and remote writes
	pending atomic.Int64
	failed  atomic.Int64
	baseCtx context.Context
	cancel  context.CancelFunc

	subMu    sync.Mutex
	subs     map[int]chan Event
	nextSub  int
	subsDone bool
}

func New(local *persist.Adapter, rc remote.Client, defaults func() catalog.DataSet, log *zap.Logger, opts ...Option) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if rc == nil {
		rc = remote.NewDisabled()
	}
	if defaults == nil {
		defaults = catalog.Defaults
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		local:         local,
		remote:        rc,
		defaults:      defaults,
		log:           log,
		remoteTimeout: 10 * time.Second,
		now:           time.Now,
		phase:         PhaseIdle,
		baseCtx:       ctx,
		cancel:        cancel,
		subs:          map[int]chan Event{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize seeds every collection from local persistence (or the built-in data set)
// before returning, then refreshes from the remote store in the background. The returned
// channel is closed once the background refresh has finished.
func (s *Store) Initialize() <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(done)
		return done
	}
	ds := s.defaults()
	s.crops = loadOr(s.local, Crops, ds.Crops)
	s.news = loadOr(s.local, News, ds.News)
	s.market = loadOr(s.local, Market, ds.Market)
	s.ads = loadOr(s.local, Ads, []entities.AdItem{})
	s.weather = ds.Weather
	s.gen++
	gen := s.gen
	s.loading = true
	s.phase = PhaseSeeded
	s.publish(Event{Kind: EventSeeded, Phase: PhaseSeeded})

	s.phase = PhaseRefreshing
	s.publish(Event{Kind: EventRefreshing, Phase: PhaseRefreshing})
	s.bg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.bg.Done()
		defer close(done)
		s.refreshAll(gen)
	}()
	return done
}

func loadOr[T any](a *persist.Adapter, c Collection, fallback []T) []T {
	if saved, ok := persist.Load[T](a, string(c)); ok {
		return saved
	}
	return fallback
}

func (s *Store) refreshAll(gen uint64) {
	var ok atomic.Int32
	var eg errgroup.Group
	eg.Go(func() error { return countOK(&ok, refresh(s, gen, Crops, &s.crops)) })
	eg.Go(func() error { return countOK(&ok, refresh(s, gen, News, &s.news)) })
	eg.Go(func() error { return countOK(&ok, refresh(s, gen, Market, &s.market)) })
	eg.Go(func() error { return countOK(&ok, refresh(s, gen, Ads, &s.ads)) })
	// every fetch runs to completion; Wait reports the first failure
	err := eg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.loading = false
	s.lastErr = ""
	if err != nil {
		s.lastErr = err.Error()
	}
	if ok.Load() > 0 {
		s.phase = PhaseSynced
		s.lastRefresh = s.now()
		s.publish(Event{Kind: EventSynced, Phase: PhaseSynced})
		return
	}
	s.phase = PhaseOffline
	s.log.Info("remote store unreachable, serving local data")
	s.publish(Event{Kind: EventOffline, Phase: PhaseOffline, Err: err})
}

func countOK(n *atomic.Int32, err error) error {
	if err == nil {
		n.Add(1)
	}
	return err
}

// refresh replaces *list with the remote rows when the fetch succeeds with a
// non-empty result. It returns the fetch error, if any.
func refresh[T record](s *Store, gen uint64, c Collection, list *[]T) error {
	ctx, cancel := context.WithTimeout(s.baseCtx, s.remoteTimeout)
	defer cancel()

	var rows []T
	if err := s.remote.FetchAll(ctx, c.Table(), &rows); err != nil {
		s.log.Warn("remote fetch failed, keeping local data", zap.String("collection", string(c)), zap.Error(err))
		return fmt.Errorf("fetch %s: %w", c, err)
	}
	if len(rows) == 0 {
		s.log.Debug("remote collection empty, keeping local data", zap.String("collection", string(c)))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// reset, re-initialised or closed while the fetch was in flight
		return nil
	}
	*list = rows
	saveLocal(s, c, rows)
	s.publish(Event{Kind: EventRefreshed, Phase: s.phase, Collection: c})
	return nil
}

// Close stops issuing remote writes and waits for in-flight ones. If ctx expires
// first the remaining requests are cancelled.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.phase = PhaseClosed
	s.loading = false
	s.gen++ // a refresh still in flight must not reopen the store
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.bg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
		s.cancel()
		<-done
	}
	s.cancel()

	s.subMu.Lock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.subsDone = true
	s.subMu.Unlock()
	return err
}

// ResetAll discards local persistence and restores the built-in data set in memory.
// Any refresh still in flight is ignored when it lands.
func (s *Store) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.local.Clear(); err != nil {
		return err
	}
	ds := s.defaults()
	s.crops = ds.Crops
	s.news = ds.News
	s.market = ds.Market
	s.ads = []entities.AdItem{}
	s.weather = ds.Weather
	s.gen++
	s.loading = false
	if !s.closed {
		s.phase = PhaseSeeded
	}
	s.lastErr = ""
	s.log.Info("store reset to built-in data")
	s.publish(Event{Kind: EventReset, Phase: s.phase})
	return nil
}

// Subscribe returns a stream of state transitions. Events are dropped for a
// subscriber whose buffer is full. Call cancel to stop receiving. After Close
// the returned channel is already closed.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)
	s.subMu.Lock()
	if s.subsDone {
		s.subMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Phase:         s.phase,
		Loading:       s.loading,
		LastRefresh:   s.lastRefresh,
		PendingWrites: s.pending.Load(),
		FailedWrites:  s.failed.Load(),
		LastError:     s.lastErr,
	}
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Crops() []entities.Crop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Crop, len(s.crops))
	for i, c := range s.crops {
		out[i] = cloneCrop(c)
	}
	return out
}

func (s *Store) Crop(id string) (entities.Crop, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.crops, id); i >= 0 {
		return cloneCrop(s.crops[i]), true
	}
	return entities.Crop{}, false
}

func (s *Store) News() []entities.NewsItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.news)
}

func (s *Store) Market() []entities.MarketItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.market)
}

func (s *Store) MarketItem(id string) (entities.MarketItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.market, id); i >= 0 {
		return s.market[i], true
	}
	return entities.MarketItem{}, false
}

func (s *Store) Ads() []entities.AdItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ads)
}

// ActiveAd returns the first active ad for a display slot.
func (s *Store) ActiveAd(positionID string) (entities.AdItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.ads {
		if a.PositionID == positionID && a.Active {
			return a, true
		}
	}
	return entities.AdItem{}, false
}

func (s *Store) Weather() []entities.WeatherForecast {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.weather)
}

func cloneCrop(c entities.Crop) entities.Crop {
	c.Fertilizers = slices.Clone(c.Fertilizers)
	c.Pests = slices.Clone(c.Pests)
	c.Diseases = slices.Clone(c.Diseases)
	return c
}

func indexOf[T record](list []T, id string) int {
	return slices.IndexFunc(list, func(v T) bool { return v.GetID() == id })
}

func saveLocal[T any](s *Store, c Collection, list []T) {
	if err := persist.Save(s.local, string(c), list); err != nil {
		s.log.Warn("local save failed", zap.String("collection", string(c)), zap.Error(err))
	}
}
