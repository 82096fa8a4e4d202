// Package storage provides the key-value blob store used to persist small
// state snapshots (alarms, settings, user profile) across sessions.
package storage

// Provider is a string-keyed blob store. Implementations are best-effort
// durable; callers treat failures as "no saved state" rather than fatal.
type Provider interface {
	// Get returns the blob stored under key, or apperr.ErrNotFound.
	Get(key string) ([]byte, error)
	// Set stores the blob under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes the blob under key. Deleting an absent key is a no-op.
	Delete(key string) error
	// Close releases backend resources.
	Close() error
}
