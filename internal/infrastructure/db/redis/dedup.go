package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// UpdateDedup provides replay protection for inbound Telegram update ids,
// backed by Redis. After a restart the poller may re-deliver updates whose
// offset was not yet acknowledged; seen ids are skipped.
// Key format: update:<update_id>
type UpdateDedup struct {
	client *redis.Client
}

// NewUpdateDedup creates an UpdateDedup wrapping the given Redis client.
func NewUpdateDedup(client *redis.Client) *UpdateDedup {
	return &UpdateDedup{client: client}
}

// IsDuplicate reports whether this update id has already been processed.
func (d *UpdateDedup) IsDuplicate(ctx context.Context, updateID int) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(updateID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this update id has been processed (expires after dedupTTL).
func (d *UpdateDedup) Mark(ctx context.Context, updateID int) error {
	return d.client.Set(ctx, d.key(updateID), "1", dedupTTL).Err()
}

func (d *UpdateDedup) key(updateID int) string {
	return fmt.Sprintf("update:%d", updateID)
}
