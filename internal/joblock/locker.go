// Package joblock 提供跨实例的任务互斥租约。多副本部署时同一任务
// 同一时刻只允许一个实例执行，租约到期自动失效，实例崩溃不会留下死锁。
package joblock

import (
	"context"
	"time"
)

// KV 租约所需的键值操作
type KV interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// Locker 任务租约接口
type Locker interface {
	// TryAcquire 尝试取得租约，已被其它实例持有时返回 false
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	// Release 主动释放租约
	Release(ctx context.Context, name string) error
}

// RedisLocker 基于 Redis SETNX 的租约实现
type RedisLocker struct {
	kv KV
}

// NewRedisLocker 创建 Redis 租约实例
func NewRedisLocker(kv KV) *RedisLocker {
	return &RedisLocker{kv: kv}
}

func (l *RedisLocker) TryAcquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return l.kv.SetNX(ctx, name, "1", ttl)
}

func (l *RedisLocker) Release(ctx context.Context, name string) error {
	return l.kv.Delete(ctx, name)
}
