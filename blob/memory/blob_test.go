package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/culturelog/blob"
	"github.com/w-h-a/culturelog/culture"
)

func TestPutAndResolve(t *testing.T) {
	b := NewBlob(blob.WithPublicURL("https://cdn.example.com"))
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "images/u1/1_spore.png", []byte("png-bytes")))

	url, err := b.ResolveURL(ctx, "images/u1/1_spore.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/u1/1_spore.png", url)

	data, ok := b.Get("images/u1/1_spore.png")
	require.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestResolveUnknownPath(t *testing.T) {
	b := NewBlob()

	_, err := b.ResolveURL(context.Background(), "images/u1/missing.png")
	assert.ErrorIs(t, err, culture.ErrNotFound)
}

func TestPutOverwrites(t *testing.T) {
	b := NewBlob()
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "p", []byte("one")))
	require.NoError(t, b.Put(ctx, "p", []byte("two")))

	data, ok := b.Get("p")
	require.True(t, ok)
	assert.Equal(t, []byte("two"), data)
}

func TestDelete(t *testing.T) {
	b := NewBlob()
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "p", []byte("one")))
	require.NoError(t, b.Delete(ctx, "p"))

	_, ok := b.Get("p")
	assert.False(t, ok)

	assert.ErrorIs(t, b.Delete(ctx, "p"), culture.ErrNotFound)
}

func TestPutCopiesData(t *testing.T) {
	b := NewBlob()
	ctx := context.Background()

	data := []byte("abc")
	require.NoError(t, b.Put(ctx, "p", data))
	data[0] = 'z'

	stored, ok := b.Get("p")
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), stored)
}
