package lang

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParseReader_CachesBySource(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	src := "x = 1\nx + 1\n"

	first, err := ParseReader(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	second, err := ParseReader(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Error("expected cached program for identical source")
	}

	other, err := ParseReader(t.Context(), strings.NewReader(src+"x\n"))
	if err != nil {
		t.Fatal(err)
	}

	if other == first {
		t.Error("different sources share a cache entry")
	}
}

func TestParseReader_OptionsAffectKey(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	src := "((((1))))"

	if _, err := ParseReader(t.Context(), strings.NewReader(src)); err != nil {
		t.Fatal(err)
	}

	_, err := ParseReader(t.Context(), strings.NewReader(src), WithMaxDepth(3))
	if !errors.Is(err, ErrNestingTooDeep) {
		t.Errorf("got %v, want %v", err, ErrNestingTooDeep)
	}
}

func TestParseReader_ErrorsNotCached(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	for range 2 {
		_, err := ParseReader(t.Context(), strings.NewReader("x = ("))
		if !errors.Is(err, ErrUnexpectedEOF) {
			t.Fatalf("got %v", err)
		}
	}

	n := 0

	globalCache.Range(func(any, any) bool {
		n++

		return true
	})

	if n != 0 {
		t.Errorf("expected empty cache, got %d entries", n)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(t.Context(), failingReader{})
	if !errors.Is(err, ErrReadInput) {
		t.Fatalf("got %v, want %v", err, ErrReadInput)
	}

	if !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("cause not wrapped: %v", err)
	}
}

func BenchmarkParseReader_Cached(b *testing.B) {
	src := strings.Repeat("x = x + 1\n", 200)

	ClearCache()
	b.Cleanup(ClearCache)

	for b.Loop() {
		if _, err := ParseReader(b.Context(), strings.NewReader(src)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_Uncached(b *testing.B) {
	src := strings.Repeat("x = x + 1\n", 200)

	for b.Loop() {
		if _, err := Parse(b.Context(), src); err != nil {
			b.Fatal(err)
		}
	}
}

func TestParseCached_SharesWithParseReader(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	src := "fn f()\n  return 1\nend\n"

	text, err := ReadSource(strings.NewReader(src))
	if err != nil || text != src {
		t.Fatalf("ReadSource = %q, %v", text, err)
	}

	a, err := ParseCached(t.Context(), text)
	if err != nil {
		t.Fatal(err)
	}

	b, err := ParseReader(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("ParseCached and ParseReader do not share cache entries")
	}
}
