package datasync

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"krishibondhu/entities"
	"krishibondhu/pkg/remote"
)

type remoteWrite func(ctx context.Context, rc remote.Client) error

// insert appends item, saves the collection locally and queues the remote insert.
func insert[T record](s *Store, c Collection, list *[]T, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(*list, item.GetID()) >= 0 {
		return fmt.Errorf("%s %q: %w", c, item.GetID(), ErrDuplicateID)
	}
	*list = append(*list, item)
	saveLocal(s, c, *list)
	s.afterMutationLocked(c, item.GetID(), "insert", func(ctx context.Context, rc remote.Client) error {
		return rc.Insert(ctx, c.Table(), item)
	})
	return nil
}

// replace swaps the item with the same ID in place.
func replace[T record](s *Store, c Collection, list *[]T, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(*list, item.GetID())
	if i < 0 {
		return fmt.Errorf("%s %q: %w", c, item.GetID(), ErrNotFound)
	}
	(*list)[i] = item
	saveLocal(s, c, *list)
	s.afterMutationLocked(c, item.GetID(), "update", func(ctx context.Context, rc remote.Client) error {
		return rc.Update(ctx, c.Table(), remote.ByID(item.GetID()), item)
	})
	return nil
}

// remove deletes the item with id. Unknown ids are a no-op and touch nothing.
func remove[T record](s *Store, c Collection, list *[]T, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(*list, id)
	if i < 0 {
		return false
	}
	*list = append((*list)[:i:i], (*list)[i+1:]...)
	saveLocal(s, c, *list)
	s.afterMutationLocked(c, id, "delete", func(ctx context.Context, rc remote.Client) error {
		return rc.Delete(ctx, c.Table(), remote.ByID(id))
	})
	return true
}

// afterMutationLocked publishes the change and fires the remote write without
// waiting for it. The caller holds s.mu.
func (s *Store) afterMutationLocked(c Collection, id, op string, write remoteWrite) {
	s.publish(Event{Kind: EventMutated, Phase: s.phase, Collection: c, ID: id})
	if s.closed {
		return
	}
	s.bg.Add(1)
	s.pending.Add(1)
	go func() {
		defer s.bg.Done()
		defer s.pending.Add(-1)

		ctx, cancel := context.WithTimeout(s.baseCtx, s.remoteTimeout)
		defer cancel()
		err := write(ctx, s.remote)
		if err == nil {
			return
		}
		s.failed.Add(1)
		s.log.Warn("remote write failed; local copy kept",
			zap.String("collection", string(c)), zap.String("op", op), zap.String("id", id), zap.Error(err))
		s.mu.Lock()
		s.lastErr = err.Error()
		phase := s.phase
		s.mu.Unlock()
		s.publish(Event{Kind: EventWriteFailed, Phase: phase, Collection: c, ID: id, Err: err})
	}()
}

func newID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

// AddCrop stores c, assigning an ID when it has none, and returns the stored value.
func (s *Store) AddCrop(c entities.Crop) (entities.Crop, error) {
	c = cloneCrop(c)
	c.ID = newID(c.ID)
	return c, insert(s, Crops, &s.crops, c)
}

func (s *Store) UpdateCrop(c entities.Crop) error { return replace(s, Crops, &s.crops, cloneCrop(c)) }

func (s *Store) DeleteCrop(id string) bool { return remove(s, Crops, &s.crops, id) }

func (s *Store) AddNews(n entities.NewsItem) (entities.NewsItem, error) {
	n.ID = newID(n.ID)
	return n, insert(s, News, &s.news, n)
}

func (s *Store) UpdateNews(n entities.NewsItem) error { return replace(s, News, &s.news, n) }

func (s *Store) DeleteNews(id string) bool { return remove(s, News, &s.news, id) }

func (s *Store) AddMarketItem(m entities.MarketItem) (entities.MarketItem, error) {
	m.ID = newID(m.ID)
	return m, insert(s, Market, &s.market, m)
}

func (s *Store) UpdateMarketItem(m entities.MarketItem) error { return replace(s, Market, &s.market, m) }

func (s *Store) DeleteMarketItem(id string) bool { return remove(s, Market, &s.market, id) }

// SaveAd upserts by display slot: an ad already holding a.PositionID is replaced,
// otherwise a is appended.
func (s *Store) SaveAd(a entities.AdItem) (entities.AdItem, error) {
	if strings.TrimSpace(a.PositionID) == "" {
		return a, fmt.Errorf("ad without position: %w", ErrInvalid)
	}
	if a.Type == "" {
		a.Type = entities.AdImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := -1
	for j, cur := range s.ads {
		if cur.PositionID == a.PositionID {
			i = j
			break
		}
	}
	if i >= 0 {
		if a.ID == "" {
			a.ID = s.ads[i].ID
		} else if j := indexOf(s.ads, a.ID); j >= 0 && j != i {
			return a, fmt.Errorf("ads %q held by %s: %w", a.ID, s.ads[j].PositionID, ErrDuplicateID)
		}
		s.ads[i] = a
		saveLocal(s, Ads, s.ads)
		s.afterMutationLocked(Ads, a.ID, "update", func(ctx context.Context, rc remote.Client) error {
			return rc.Update(ctx, Ads.Table(), remote.Eq("positionId", a.PositionID), a)
		})
		return a, nil
	}
	a.ID = newID(a.ID)
	if indexOf(s.ads, a.ID) >= 0 {
		return a, fmt.Errorf("ads %q: %w", a.ID, ErrDuplicateID)
	}
	s.ads = append(s.ads, a)
	saveLocal(s, Ads, s.ads)
	s.afterMutationLocked(Ads, a.ID, "insert", func(ctx context.Context, rc remote.Client) error {
		return rc.Insert(ctx, Ads.Table(), a)
	})
	return a, nil
}

func (s *Store) DeleteAd(id string) bool { return remove(s, Ads, &s.ads, id) }

// DeleteItem removes id from any collection by name.
func (s *Store) DeleteItem(c Collection, id string) bool {
	switch c {
	case Crops:
		return s.DeleteCrop(id)
	case News:
		return s.DeleteNews(id)
	case Market:
		return s.DeleteMarketItem(id)
	case Ads:
		return s.DeleteAd(id)
	}
	return false
}
