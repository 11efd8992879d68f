// Package storage provides the persistent key-value store behind saved
// creations and in-progress drafts. The store is a single process-wide
// namespace map; callers partition it by namespace and must perform
// read-modify-write cycles without interleaving other store calls.
package storage

import "context"

// Namespaces used by the repositories.
const (
	NamespaceContent = "content"
	NamespaceDrafts  = "drafts"
)

// Store is the injected persistence abstraction. Implementations must
// return models.ErrKeyNotFound from Get when the key is absent.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
	Close() error
}
