package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/trainbooking/internal/models"
)

// Cache keeps answers of the booking API that do not depend on the user:
// schedule searches and route stations. Seat layouts are never cached.
type Cache interface {
	GetSchedules(ctx context.Context, req models.SearchRequest) ([]models.Schedule, bool)
	SetSchedules(ctx context.Context, req models.SearchRequest, schedules []models.Schedule) error
	GetRoute(ctx context.Context, trainNumber string) ([]models.RouteStation, bool)
	SetRoute(ctx context.Context, trainNumber string, stations []models.RouteStation) error
	Close() error
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host: "localhost",
		Port: "6379",
		TTL:  5 * time.Minute,
	}
}

// NewRedisClient connects and pings. The client is shared with the checkout store.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisCache) get(ctx context.Context, key string, out any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (c *RedisCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisCache) GetSchedules(ctx context.Context, req models.SearchRequest) ([]models.Schedule, bool) {
	var schedules []models.Schedule
	ok := c.get(ctx, scheduleKey(req), &schedules)
	return schedules, ok
}

func (c *RedisCache) SetSchedules(ctx context.Context, req models.SearchRequest, schedules []models.Schedule) error {
	return c.set(ctx, scheduleKey(req), schedules)
}

func (c *RedisCache) GetRoute(ctx context.Context, trainNumber string) ([]models.RouteStation, bool) {
	var stations []models.RouteStation
	ok := c.get(ctx, routeKey(trainNumber), &stations)
	return stations, ok
}

func (c *RedisCache) SetRoute(ctx context.Context, trainNumber string, stations []models.RouteStation) error {
	return c.set(ctx, routeKey(trainNumber), stations)
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetSchedules(context.Context, models.SearchRequest) ([]models.Schedule, bool) {
	return nil, false
}

func (c *NoOpCache) SetSchedules(context.Context, models.SearchRequest, []models.Schedule) error {
	return nil
}

func (c *NoOpCache) GetRoute(context.Context, string) ([]models.RouteStation, bool) {
	return nil, false
}

func (c *NoOpCache) SetRoute(context.Context, string, []models.RouteStation) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a process-local Cache used when Redis is not configured.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	items map[string]memoryItem
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, items: make(map[string]memoryItem)}
}

func (c *MemoryCache) get(key string, out any) bool {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(item.expiresAt) {
		return false
	}
	return json.Unmarshal(item.data, out) == nil
}

func (c *MemoryCache) set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, item := range c.items {
		if !now.Before(item.expiresAt) {
			delete(c.items, k)
		}
	}
	c.items[key] = memoryItem{data: data, expiresAt: now.Add(c.ttl)}
	return nil
}

func (c *MemoryCache) GetSchedules(_ context.Context, req models.SearchRequest) ([]models.Schedule, bool) {
	var schedules []models.Schedule
	ok := c.get(scheduleKey(req), &schedules)
	return schedules, ok
}

func (c *MemoryCache) SetSchedules(_ context.Context, req models.SearchRequest, schedules []models.Schedule) error {
	return c.set(scheduleKey(req), schedules)
}

func (c *MemoryCache) GetRoute(_ context.Context, trainNumber string) ([]models.RouteStation, bool) {
	var stations []models.RouteStation
	ok := c.get(routeKey(trainNumber), &stations)
	return stations, ok
}

func (c *MemoryCache) SetRoute(_ context.Context, trainNumber string, stations []models.RouteStation) error {
	return c.set(routeKey(trainNumber), stations)
}

func (c *MemoryCache) Close() error {
	return nil
}

func scheduleKey(req models.SearchRequest) string {
	keyData := struct {
		From string
		To   string
		Date string
	}{
		From: req.From,
		To:   req.To,
		Date: req.Date,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "schedule:" + hex.EncodeToString(hash[:])
}

func routeKey(trainNumber string) string {
	hash := sha256.Sum256([]byte(trainNumber))
	return "route:" + hex.EncodeToString(hash[:])
}
