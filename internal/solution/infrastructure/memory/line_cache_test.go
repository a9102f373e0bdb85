package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type countingSource struct {
	mu    sync.Mutex
	reads map[string]int
	files map[string][]string
}

func (s *countingSource) ReadLines(ctx context.Context, path string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[path]++
	lines, ok := s.files[path]
	if !ok {
		return nil, errors.New("missing")
	}
	return lines, nil
}

func TestLineCacheReadsOnce(t *testing.T) {
	src := &countingSource{
		reads: make(map[string]int),
		files: map[string][]string{"a.txt": {"header", "UseAnnual[2020,ELC,DE] 1"}},
	}
	cache, err := NewLineCache(src)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	for i := 0; i < 3; i++ {
		lines, err := cache.ReadLines(context.Background(), "a.txt")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(lines) != 2 {
			t.Fatalf("unexpected lines: %v", lines)
		}
	}
	if src.reads["a.txt"] != 1 {
		t.Fatalf("expected one backing read, got %d", src.reads["a.txt"])
	}

	cache.Forget("a.txt")
	if _, err := cache.ReadLines(context.Background(), "a.txt"); err != nil {
		t.Fatalf("read after forget: %v", err)
	}
	if src.reads["a.txt"] != 2 {
		t.Fatalf("expected re-read after forget, got %d", src.reads["a.txt"])
	}
}

func TestLineCacheDoesNotCacheFailures(t *testing.T) {
	src := &countingSource{reads: make(map[string]int), files: map[string][]string{}}
	cache, err := NewLineCache(src)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := cache.ReadLines(context.Background(), "missing.txt"); err == nil {
			t.Fatalf("expected error")
		}
	}
	if src.reads["missing.txt"] != 2 || cache.Len() != 0 {
		t.Fatalf("failures must not be cached: reads=%d len=%d", src.reads["missing.txt"], cache.Len())
	}
}

func TestNewLineCacheRejectsNil(t *testing.T) {
	if _, err := NewLineCache(nil); !errors.Is(err, ErrNilSource) {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
}
