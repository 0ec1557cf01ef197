package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/w-h-a/culturelog/blob"
	"github.com/w-h-a/culturelog/culture"
)

type memoryBlob struct {
	options blob.Options
	objects map[string][]byte
	mtx     sync.RWMutex
}

func (b *memoryBlob) Put(ctx context.Context, path string, data []byte) error {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	cpy := make([]byte, len(data))
	copy(cpy, data)

	b.objects[path] = cpy

	return nil
}

func (b *memoryBlob) ResolveURL(ctx context.Context, path string) (string, error) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()

	if _, ok := b.objects[path]; !ok {
		return "", culture.ErrNotFound
	}

	base := b.options.PublicURL
	if len(base) == 0 {
		base = "memory:/"
	}

	return fmt.Sprintf("%s/%s", base, path), nil
}

func (b *memoryBlob) Delete(ctx context.Context, path string) error {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if _, ok := b.objects[path]; !ok {
		return culture.ErrNotFound
	}

	delete(b.objects, path)

	return nil
}

// Get returns the stored bytes for a path. Test helper.
func (b *memoryBlob) Get(path string) ([]byte, bool) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	data, ok := b.objects[path]
	return data, ok
}

func NewBlob(opts ...blob.Option) *memoryBlob {
	options := blob.NewOptions(opts...)

	b := &memoryBlob{
		options: options,
		objects: map[string][]byte{},
		mtx:     sync.RWMutex{},
	}

	return b
}
