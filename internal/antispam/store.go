package antispam

import (
	"context"
	"sync"
	"time"
)

// Store keeps the scorer's state: rate windows, strikes and the blacklist.
// The memory implementation is per-process and lost on restart; the redis
// one shares state across horizontally scaled instances.
type Store interface {
	// Hit records one request from ip and reports whether the IP is over
	// its window budget (already blocked, or this hit exceeded it).
	Hit(ctx context.Context, ip string) (blocked bool, err error)

	// Strike records a suspicious event and returns the running total.
	Strike(ctx context.Context, ip string) (int, error)

	IsBlacklisted(ctx context.Context, ip string) (bool, error)
	Blacklist(ctx context.Context, ip string) error

	Close() error
}

type rateEntry struct {
	count        int
	windowStart  time.Time
	blockedUntil time.Time
}

type strikeEntry struct {
	count    int
	lastSeen time.Time
}

// MemoryStore is the single-process default. A background goroutine purges
// rate entries older than window+block duration and strikes older than the
// strike TTL on every cleanup tick.
type MemoryStore struct {
	cfg Config
	now func() time.Time

	mu        sync.Mutex
	rates     map[string]*rateEntry
	strikes   map[string]*strikeEntry
	blacklist map[string]struct{}

	stop chan struct{}
	once sync.Once
}

func NewMemoryStore(cfg Config) *MemoryStore {
	s := &MemoryStore{
		cfg:       cfg.withDefaults(),
		now:       time.Now,
		rates:     make(map[string]*rateEntry),
		strikes:   make(map[string]*strikeEntry),
		blacklist: make(map[string]struct{}),
		stop:      make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

func (s *MemoryStore) Hit(_ context.Context, ip string) (bool, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.rates[ip]
	if !ok {
		e = &rateEntry{windowStart: now}
		s.rates[ip] = e
	}
	if now.Before(e.blockedUntil) {
		return true, nil
	}
	if now.Sub(e.windowStart) > s.cfg.Window {
		e.count = 0
		e.windowStart = now
		e.blockedUntil = time.Time{}
	}
	e.count++
	if e.count > s.cfg.MaxRequests {
		e.blockedUntil = now.Add(s.cfg.BlockDuration)
		return true, nil
	}
	return false, nil
}

func (s *MemoryStore) Strike(_ context.Context, ip string) (int, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.strikes[ip]
	if !ok || now.Sub(e.lastSeen) > s.cfg.StrikeTTL {
		e = &strikeEntry{}
		s.strikes[ip] = e
	}
	e.count++
	e.lastSeen = now
	return e.count, nil
}

func (s *MemoryStore) IsBlacklisted(_ context.Context, ip string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blacklist[ip]
	return ok, nil
}

func (s *MemoryStore) Blacklist(_ context.Context, ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[ip] = struct{}{}
	return nil
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryStore) cleanup() {
	now := s.now()
	maxRateAge := s.cfg.Window + s.cfg.BlockDuration
	s.mu.Lock()
	defer s.mu.Unlock()
	for ip, e := range s.rates {
		if now.Sub(e.windowStart) > maxRateAge && now.After(e.blockedUntil) {
			delete(s.rates, ip)
		}
	}
	for ip, e := range s.strikes {
		if now.Sub(e.lastSeen) > s.cfg.StrikeTTL {
			delete(s.strikes, ip)
		}
	}
}
