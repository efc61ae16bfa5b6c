package storage

import "context"

// ObjectStorage — контракт хранилища бинарных ассетов.
// Put возвращает публичный URL загруженного объекта.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, string, error)
	URL(key string) string
}
