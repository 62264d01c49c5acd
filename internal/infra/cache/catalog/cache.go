package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const keyPrefix = "catalog:service:"

// Cache read-through кэш услуг с этапами.
// Ошибки Redis не ломают запрос: чтение уходит в источник.
type Cache struct {
	source ServiceSource
	client Client
	ttl    time.Duration
	logger Logger
}

// NewCache оборачивает источник услуг кэшем Redis
func NewCache(source ServiceSource, client Client, ttl time.Duration, logger Logger) *Cache {
	return &Cache{
		source: source,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetServiceWithStages возвращает услугу из Redis или из источника с записью в Redis
func (c *Cache) GetServiceWithStages(ctx context.Context, id int64) (*domain.Service, error) {
	key := serviceKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedService
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached.toDomain(), nil
		}
		c.logger.Warn("catalog cache: corrupted entry %s, dropping", key)
		c.client.Del(ctx, key)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("catalog cache: get %s failed: %v", key, err)
	}

	service, err := c.source.GetServiceWithStages(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(fromDomain(service))
	if err != nil {
		c.logger.Error("catalog cache: marshal service id=%d: %v", id, err)
		return service, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache: set %s failed: %v", key, err)
	}

	return service, nil
}

func serviceKey(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}
