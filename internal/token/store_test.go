package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	entries map[string]string
	err     error
}

func newFakeKV() *fakeKV {
	return &fakeKV{entries: make(map[string]string)}
}

func (kv *fakeKV) Get(_ context.Context, key string) (string, error) {
	if kv.err != nil {
		return "", kv.err
	}
	return kv.entries[key], nil
}

func (kv *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if kv.err != nil {
		return kv.err
	}
	kv.entries[key] = value.(string)
	return nil
}

type fakeSource struct {
	token string
	err   error
	calls int
}

func (s *fakeSource) FetchToken(_ context.Context) (string, error) {
	s.calls++
	return s.token, s.err
}

func TestTokenCacheHit(t *testing.T) {
	kv := newFakeKV()
	kv.entries[tokenKey] = "cached-token"
	source := &fakeSource{token: "fresh-token"}
	store := NewStore(kv, source)

	token, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached-token", token)
	assert.Zero(t, source.calls)
}

func TestTokenCacheMissFetchesAndBackfills(t *testing.T) {
	kv := newFakeKV()
	source := &fakeSource{token: "fresh-token"}
	store := NewStore(kv, source)

	token, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.Equal(t, "fresh-token", kv.entries[tokenKey])
}

func TestRefreshOverwritesCache(t *testing.T) {
	kv := newFakeKV()
	kv.entries[tokenKey] = "stale-token"
	source := &fakeSource{token: "fresh-token"}
	store := NewStore(kv, source)

	token, err := store.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.Equal(t, "fresh-token", kv.entries[tokenKey])
}

func TestRefreshSourceError(t *testing.T) {
	store := NewStore(newFakeKV(), &fakeSource{err: errors.New("issuer down")})
	_, err := store.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrTokenUnavailable)
}

func TestRefreshEmptyToken(t *testing.T) {
	store := NewStore(newFakeKV(), &fakeSource{token: ""})
	_, err := store.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrTokenUnavailable)
}
