package store

import (
	"context"
	"encoding/json"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolbox/api"
	"github.com/redis/go-redis/v9"
)

// The redis store implements the ManifestStore interface using Redis as the
// backend, allowing manifests to be shared between processes.
// The keys namespace is organized as follows:
// - `/<prefix>/toolbox/manifest/<key>` for storing manifest documents

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a Redis backed ManifestStore.
func NewRedisStore(client *redis.Client, prefix string) ManifestStore {
	return &redisStore{
		client: client,
		prefix: prefix,
	}
}

func (m *redisStore) getRedisManifestKey(key string) string {
	return path.Join(m.prefix, "toolbox", "manifest", key)
}

func (m *redisStore) Get(ctx context.Context, key string) (*api.ManifestSchema, error) {
	data, err := m.client.Get(ctx, m.getRedisManifestKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get manifest from Redis")
	}

	manifest := new(api.ManifestSchema)
	if err := json.Unmarshal([]byte(data), manifest); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal manifest")
	}
	return manifest, nil
}

func (m *redisStore) Set(ctx context.Context, key string, manifest *api.ManifestSchema, ttl time.Duration) error {
	data, err := json.Marshal(manifest)
	if err != nil {
		return errors.Wrap(err, "failed to marshal manifest")
	}

	err = m.client.Set(ctx, m.getRedisManifestKey(key), data, ttl).Err()
	if err != nil {
		return errors.Wrap(err, "failed to store manifest in Redis")
	}
	return nil
}

func (m *redisStore) Delete(ctx context.Context, key string) error {
	err := m.client.Del(ctx, m.getRedisManifestKey(key)).Err()
	if err != nil {
		return errors.Wrap(err, "failed to delete manifest from Redis")
	}
	return nil
}
