// Package cache реализует кэш результатов операций чтения.
package cache

import (
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Cache хранит успешные результаты операций чтения без ограничения срока жизни.
// Любая запись в хранилище должна сопровождаться вызовом Flush.
type Cache struct {
	store *gocache.Cache
}

// New создаёт пустой кэш.
func New() *Cache {
	return &Cache{store: gocache.New(gocache.NoExpiration, 0)}
}

// Key строит ключ кэша из имени операции и её параметров.
func Key(op string, params ...string) string {
	if len(params) == 0 {
		return op
	}
	return op + ":" + strings.Join(params, "-")
}

// Set сохраняет значение по ключу.
func (c *Cache) Set(key string, v any) {
	c.store.Set(key, v, gocache.NoExpiration)
}

// Flush удаляет все записи.
func (c *Cache) Flush() {
	c.store.Flush()
}

// Len возвращает число записей.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

// Get возвращает значение по ключу, если оно есть и имеет тип T.
func Get[T any](c *Cache, key string) (T, bool) {
	var zero T
	v, ok := c.store.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
