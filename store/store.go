// Package store provides manifest stores used by the client to avoid
// refetching tool manifests on repeated loads.
package store

import (
	"context"
	"time"

	"github.com/effective-security/toolbox/api"
)

// ManifestStore caches manifests by key. The client keys entries by
// `tool/<name>` or `toolset/<name>`. A zero TTL means no expiration.
type ManifestStore interface {
	Get(ctx context.Context, key string) (*api.ManifestSchema, error)
	Set(ctx context.Context, key string, m *api.ManifestSchema, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
