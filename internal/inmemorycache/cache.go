package inmemorycache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"ulascansenturk/weather-app/internal/city"
)

type cacheEntry struct {
	data       []byte
	expiration time.Time
}

type InMemoryCache struct {
	cache           map[string]cacheEntry
	mutex           sync.Mutex
	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

func NewInMemoryCacheProvider(cleanupInterval time.Duration) *InMemoryCache {
	provider := &InMemoryCache{
		cache:           make(map[string]cacheEntry),
		cleanupInterval: cleanupInterval,
		stop:            make(chan struct{}),
	}

	go provider.startCleanup()

	return provider
}

func (m *InMemoryCache) Get(_ context.Context, key string) (*city.City, bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	entry, exists := m.cache[key]
	if !exists {
		return nil, false, nil
	}

	if time.Now().After(entry.expiration) {
		delete(m.cache, key)
		return nil, false, nil
	}

	var data city.City
	if err := json.Unmarshal(entry.data, &data); err != nil {
		return nil, false, err
	}

	return &data, true, nil
}

func (m *InMemoryCache) Set(_ context.Context, key string, data *city.City, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.cache[key] = cacheEntry{
		data:       jsonData,
		expiration: time.Now().Add(ttl),
	}

	return nil
}

func (m *InMemoryCache) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return len(m.cache)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (m *InMemoryCache) Close() error {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	return nil
}

func (m *InMemoryCache) startCleanup() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.removeExpired()
		}
	}
}

func (m *InMemoryCache) removeExpired() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	for k, v := range m.cache {
		if now.After(v.expiration) {
			delete(m.cache, k)
		}
	}
}
