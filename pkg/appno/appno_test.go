package appno

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"
)

var (
	usagePattern  = regexp.MustCompile(`^YY\d{8}\d{4,}$`)
	createPattern = regexp.MustCompile(`^SC\d{6,}$`)
)

func TestMemoryGenerator_UsageNo(t *testing.T) {
	g := NewMemoryGenerator()

	first, err := g.UsageNo(context.Background())
	if err != nil {
		t.Fatalf("UsageNo 应成功: %v", err)
	}
	if !usagePattern.MatchString(first) {
		t.Errorf("编号格式错误: %s", first)
	}

	today := time.Now().Format("20060102")
	want := "YY" + today + "0001"
	if first != want {
		t.Errorf("期望首个编号=%s，实际=%s", want, first)
	}

	second, _ := g.UsageNo(context.Background())
	if second <= first {
		t.Errorf("编号应严格递增: %s -> %s", first, second)
	}
}

func TestMemoryGenerator_CreateNo(t *testing.T) {
	g := NewMemoryGenerator()

	first, err := g.CreateNo(context.Background())
	if err != nil {
		t.Fatalf("CreateNo 应成功: %v", err)
	}
	if !createPattern.MatchString(first) {
		t.Errorf("编号格式错误: %s", first)
	}

	second, _ := g.CreateNo(context.Background())
	if second == first {
		t.Errorf("编号不应重复: %s", first)
	}
}

func TestMemoryGenerator_Concurrent(t *testing.T) {
	g := NewMemoryGenerator()

	const n = 100
	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			no, err := g.UsageNo(context.Background())
			if err != nil {
				t.Errorf("UsageNo 应成功: %v", err)
				return
			}
			results <- no
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for no := range results {
		if seen[no] {
			t.Fatalf("并发生成出现重复编号: %s", no)
		}
		seen[no] = true
	}
}

// ── Redis 生成器（以假序列注入）──

type fakeSequencer struct {
	counters map[string]int64
	ttls     map[string]time.Duration
	err      error
}

func newFakeSequencer() *fakeSequencer {
	return &fakeSequencer{counters: make(map[string]int64), ttls: make(map[string]time.Duration)}
}

func (f *fakeSequencer) NextSequence(_ context.Context, key string, ttl time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counters[key]++
	f.ttls[key] = ttl
	return f.counters[key], nil
}

func TestRedisGenerator_UsageNo(t *testing.T) {
	seq := newFakeSequencer()
	g := NewRedisGenerator(seq)

	no, err := g.UsageNo(context.Background())
	if err != nil {
		t.Fatalf("UsageNo 应成功: %v", err)
	}
	today := time.Now().Format("20060102")
	if no != "YY"+today+"0001" {
		t.Errorf("期望编号=YY%s0001，实际=%s", today, no)
	}

	// 序列按日分 key，且设置过期避免堆积
	key := "appno:usage:" + today
	if seq.counters[key] != 1 {
		t.Errorf("期望按日计数 key=%s", key)
	}
	if seq.ttls[key] != 48*time.Hour {
		t.Errorf("期望过期=48h，实际=%v", seq.ttls[key])
	}
}

func TestRedisGenerator_CreateNo(t *testing.T) {
	seq := newFakeSequencer()
	g := NewRedisGenerator(seq)

	for i := 1; i <= 3; i++ {
		no, err := g.CreateNo(context.Background())
		if err != nil {
			t.Fatalf("CreateNo 应成功: %v", err)
		}
		want := fmt.Sprintf("SC%06d", i)
		if no != want {
			t.Errorf("期望编号=%s，实际=%s", want, no)
		}
	}
	if seq.ttls["appno:create"] != 0 {
		t.Error("刻章序列为全局计数，不应设置过期")
	}
}

func TestRedisGenerator_SequenceError(t *testing.T) {
	seq := newFakeSequencer()
	seq.err = errors.New("connection refused")
	g := NewRedisGenerator(seq)

	if _, err := g.UsageNo(context.Background()); err == nil {
		t.Error("序列失败时应返回错误")
	}
	if _, err := g.CreateNo(context.Background()); err == nil {
		t.Error("序列失败时应返回错误")
	}
}

func TestRedisGenerator_WideSequence(t *testing.T) {
	seq := newFakeSequencer()
	seq.counters["appno:usage:"+time.Now().Format("20060102")] = 9999
	g := NewRedisGenerator(seq)

	no, err := g.UsageNo(context.Background())
	if err != nil {
		t.Fatalf("UsageNo 应成功: %v", err)
	}
	// 超出4位后自然加宽，不回绕
	today := time.Now().Format("20060102")
	if no != "YY"+today+"10000" {
		t.Errorf("期望编号=YY%s10000，实际=%s", today, no)
	}
}
