package repo

import "errors"

// ErrNotFound возвращается, когда ключа нет в хранилище.
var ErrNotFound = errors.New("key not found")

// Fixed keys of a session tier.
const (
	KeyToken    = "token"
	KeyEmail    = "email"
	KeyUsername = "username"
)

// KVStore описывает один уровень хранения сессии на клиенте (durable или tab-scoped).
type KVStore interface {
	// Get returns the stored value or ErrNotFound.
	Get(key string) (string, error)
	Set(key, value string) error
	// Delete is a no-op for absent keys.
	Delete(key string) error
}
