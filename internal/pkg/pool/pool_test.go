package pool

import (
	"strconv"
	"testing"
	"time"
)

func newTestCache(t testing.TB) *BigCache {
	t.Helper()
	cache, err := NewBigCache(4, time.Hour)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestBigCache(t *testing.T) {
	cache := newTestCache(t)

	if _, ok := cache.Get("forum:4"); ok {
		t.Fatal("empty cache should miss")
	}

	if err := cache.Set("forum:4", []byte("综合版1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok := cache.Get("forum:4")
	if !ok || string(v) != "综合版1" {
		t.Fatalf("get = %q, %v", v, ok)
	}
	if cache.Len() != 1 {
		t.Errorf("len = %d, want 1", cache.Len())
	}

	if err := cache.Remove("forum:4"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := cache.Remove("forum:4"); err != nil {
		t.Fatalf("removing a missing key: %v", err)
	}
	if _, ok := cache.Get("forum:4"); ok {
		t.Error("removed key still present")
	}
}

func TestBigCacheFlush(t *testing.T) {
	cache := newTestCache(t)
	for i := 0; i < 100; i++ {
		cache.Set("forum:"+strconv.Itoa(i), []byte("name"))
	}
	if err := cache.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("len after flush = %d", cache.Len())
	}
}

func BenchmarkBigCache_Get(b *testing.B) {
	cache := newTestCache(b)
	for i := 0; i < 10000; i++ {
		cache.Set("forum:"+strconv.Itoa(i), []byte("综合版1"))
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		cache.Get("forum:" + strconv.Itoa(i%10000))
	}
}
