package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Rakhulsr/go-cartridge/app/models"
	"github.com/Rakhulsr/go-cartridge/app/repositories"
	"github.com/go-redis/redis/v8"
)

// ActionRecorder counts cart additions and purchases per product. Recording
// never fails the caller; errors are only logged.
type ActionRecorder interface {
	AddedToCart(ctx context.Context, productID string)
	Purchased(ctx context.Context, productID string)
}

type GormActionRecorder struct {
	repo repositories.ActionRepository
	now  func() time.Time
}

func NewGormActionRecorder(repo repositories.ActionRepository) *GormActionRecorder {
	return &GormActionRecorder{repo: repo, now: time.Now}
}

func (r *GormActionRecorder) AddedToCart(ctx context.Context, productID string) {
	r.increment(ctx, productID, repositories.ActionColumnCart)
}

func (r *GormActionRecorder) Purchased(ctx context.Context, productID string) {
	r.increment(ctx, productID, repositories.ActionColumnPurchase)
}

func (r *GormActionRecorder) increment(ctx context.Context, productID, column string) {
	if err := r.repo.Increment(ctx, productID, models.ActionBucket(r.now()), column); err != nil {
		log.Printf("GormActionRecorder: failed to increment %s for product %s: %v", column, productID, err)
	}
}

// RedisHashIncrementer is the part of the redis client used for counters.
type RedisHashIncrementer interface {
	HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd
}

// RedisActionRecorder keeps the counters in a redis hash per product and day,
// keyed product_actions:<product id>:<day bucket>.
type RedisActionRecorder struct {
	client RedisHashIncrementer
	now    func() time.Time
}

func NewRedisActionRecorder(client RedisHashIncrementer) *RedisActionRecorder {
	return &RedisActionRecorder{client: client, now: time.Now}
}

func (r *RedisActionRecorder) AddedToCart(ctx context.Context, productID string) {
	r.increment(ctx, productID, repositories.ActionColumnCart)
}

func (r *RedisActionRecorder) Purchased(ctx context.Context, productID string) {
	r.increment(ctx, productID, repositories.ActionColumnPurchase)
}

func (r *RedisActionRecorder) increment(ctx context.Context, productID, field string) {
	if err := r.client.HIncrBy(ctx, ActionKey(productID, r.now()), field, 1).Err(); err != nil {
		log.Printf("RedisActionRecorder: failed to increment %s for product %s: %v", field, productID, err)
	}
}

func ActionKey(productID string, t time.Time) string {
	return fmt.Sprintf("product_actions:%s:%d", productID, models.ActionBucket(t))
}

type noopActionRecorder struct{}

func (noopActionRecorder) AddedToCart(context.Context, string) {}
func (noopActionRecorder) Purchased(context.Context, string)   {}
