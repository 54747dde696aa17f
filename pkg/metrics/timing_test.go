package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestTimingMetricRecord(t *testing.T) {
	m := newTimingMetric("test")
	m.Record(10 * time.Millisecond)
	m.Record(30 * time.Millisecond)
	m.Record(20 * time.Millisecond)

	s := m.Stats()
	if s.Count != 3 {
		t.Errorf("count = %d, want 3", s.Count)
	}
	if s.MaxMs != 30 {
		t.Errorf("max = %v, want 30", s.MaxMs)
	}
	if s.MinMs != 10 {
		t.Errorf("min = %v, want 10", s.MinMs)
	}
	if s.AvgMs != 20 {
		t.Errorf("avg = %v, want 20", s.AvgMs)
	}
}

func TestTimingMetricReset(t *testing.T) {
	m := newTimingMetric("test")
	m.Record(time.Millisecond)
	m.Reset()
	if m.Count() != 0 {
		t.Errorf("count after reset = %d", m.Count())
	}
}

func TestTimer(t *testing.T) {
	m := newTimingMetric("test")
	done := Timer(m)
	time.Sleep(time.Millisecond)
	done()
	if m.Count() != 1 {
		t.Fatalf("count = %d, want 1", m.Count())
	}
	if m.Stats().TotalMs <= 0 {
		t.Error("no time recorded")
	}
}

func TestDisabledSkipsRecording(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("test")
	m.Record(time.Millisecond)
	if m.Count() != 0 {
		t.Error("recorded while disabled")
	}

	c := newCacheMetric("test")
	c.Hit()
	if c.Hits() != 0 {
		t.Error("cache hit counted while disabled")
	}
}

func TestCacheMetric(t *testing.T) {
	c := newCacheMetric("test")
	c.Hit()
	c.Hit()
	c.Hit()
	c.Miss()

	if c.Hits() != 3 || c.Misses() != 1 {
		t.Errorf("hits=%d misses=%d", c.Hits(), c.Misses())
	}
	if got := c.HitRate(); got != 0.75 {
		t.Errorf("hit rate = %v, want 0.75", got)
	}

	c.Reset()
	if c.HitRate() != 0 {
		t.Error("hit rate nonzero after reset")
	}
}

func TestConcurrentRecording(t *testing.T) {
	m := newTimingMetric("test")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Record(time.Microsecond)
			}
		}()
	}
	wg.Wait()
	if m.Count() != 800 {
		t.Errorf("count = %d, want 800", m.Count())
	}
}

func TestAllTimingStatsSkipsEmpty(t *testing.T) {
	ResetAll()
	LayoutBuild.Record(time.Millisecond)
	defer ResetAll()

	stats := AllTimingStats()
	if len(stats) != 1 || stats[0].Name != "layout_build" {
		t.Errorf("stats = %+v", stats)
	}
}
