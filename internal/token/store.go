// Package token 维护港股行情数据源的访问令牌。令牌由外部渠道签发、
// 存放在 Redis 中，由定时任务刷新。
package token

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// tokenKey 令牌在 Redis 中的键
const tokenKey = "Token:HKEX"

// tokenTTL 令牌缓存时长，略短于签发方的有效期
const tokenTTL = 30 * time.Minute

// ErrTokenUnavailable 缓存与签发渠道都拿不到令牌
var ErrTokenUnavailable = errors.New("hkex token unavailable")

// KV 令牌存取所需的键值操作
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Source 令牌签发渠道
type Source interface {
	FetchToken(ctx context.Context) (string, error)
}

// Store 令牌读穿缓存
type Store struct {
	kv     KV
	source Source
}

// NewStore 创建令牌存储
func NewStore(kv KV, source Source) *Store {
	return &Store{kv: kv, source: source}
}

// Token 返回当前有效令牌：优先读缓存，未命中时向签发渠道申领并回填
func (s *Store) Token(ctx context.Context) (string, error) {
	token, err := s.kv.Get(ctx, tokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to read token cache: %w", err)
	}
	if token != "" {
		return token, nil
	}
	return s.Refresh(ctx)
}

// Refresh 向签发渠道申领新令牌并写入缓存
func (s *Store) Refresh(ctx context.Context) (string, error) {
	token, err := s.source.FetchToken(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}
	if token == "" {
		return "", ErrTokenUnavailable
	}
	if err := s.kv.Set(ctx, tokenKey, token, tokenTTL); err != nil {
		return "", fmt.Errorf("failed to cache token: %w", err)
	}
	return token, nil
}
