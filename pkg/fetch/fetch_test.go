package fetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/mydungeon/pkg/cache"
	"github.com/matzehuels/mydungeon/pkg/errors"
)

func quiet() *log.Logger { return log.New(io.Discard) }

func TestParseBirth(t *testing.T) {
	b, err := ParseBirth("1991-09-06", "03:05")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([3]string{"1991", "9", "6"}, b.DateFields()); diff != "" {
		t.Errorf("DateFields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([2]string{"3", "5"}, b.TimeFields()); diff != "" {
		t.Errorf("TimeFields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1991, 9, 6, 3, 5}, b.Parts()); diff != "" {
		t.Errorf("Parts mismatch (-want +got):\n%s", diff)
	}

	for _, tc := range []struct{ date, clock string }{
		{"1991-9-6", "03:05"},
		{"1991-02-30", "03:05"},
		{"1991-09-06", "3:05"},
		{"1991-09-06", "24:00"},
	} {
		if _, err := ParseBirth(tc.date, tc.clock); !errors.IsInvalid(err) {
			t.Errorf("ParseBirth(%q, %q) err = %v, want invalid input", tc.date, tc.clock, err)
		}
	}
}

func TestExtractNumbers(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		exclude []int
		want    []int
	}{
		{"table cells", "1\t4\t6\n11 12 33", nil, []int{1, 4, 6, 11, 12, 33}},
		{"bounds", "0 1 60 61 99", nil, []int{1, 60}},
		{"leading zero", "05 5", nil, []int{5}},
		{"long runs", "123 1991 12", nil, []int{12}},
		{"attached letters", "a12 12b _7 8", nil, []int{8}},
		{"japanese words", "12番 No.7 （40）", nil, []int{7, 40}},
		{"duplicates keep first position", "8 1 8 1 3", nil, []int{8, 1, 3}},
		{"exclusions", "9 16 13 50 4 16", []int{1991, 9, 16, 13, 50}, []int{4}},
		{"fullwidth digits", "１２ 12", nil, []int{12}},
		{"nothing", "結果はありません", nil, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractNumbers(tt.text, tt.exclude...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractNumbers(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestStaticFetcher(t *testing.T) {
	s := StaticFetcher{StaticKey("1991-09-16", "13:50"): {1, 4, 6}}
	got, err := s.FetchNumbers(context.Background(), "1991-09-16", "13:50")
	if err != nil {
		t.Fatal(err)
	}
	got[0] = 99
	again, _ := s.FetchNumbers(context.Background(), "1991-09-16", "13:50")
	if again[0] != 1 {
		t.Error("StaticFetcher returned its backing slice")
	}
	if _, err := s.FetchNumbers(context.Background(), "2000-01-01", "00:00"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing entry err = %v, want NOT_FOUND", err)
	}
}

func numbersServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher(t *testing.T) {
	srv := numbersServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req NumbersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Birthdate != "1991-09-16" || req.Birthtime != "13:50" {
			http.Error(w, "unexpected birth", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(NumbersResponse{Numbers: []int{1, 8, 59}, Message: "ok"})
	})

	f := NewHTTPFetcher(srv.URL+"/api/numbers", srv.Client(), quiet())
	got, err := f.FetchNumbers(context.Background(), "1991-09-16", "13:50")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, 8, 59}, got); diff != "" {
		t.Errorf("numbers mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPFetcherRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := numbersServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(NumbersResponse{Numbers: []int{7}})
	})

	f := NewHTTPFetcher(srv.URL, srv.Client(), quiet())
	got, err := f.FetchNumbers(context.Background(), "1991-09-16", "13:50")
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 || len(got) != 1 || got[0] != 7 {
		t.Errorf("calls = %d, numbers = %v", calls.Load(), got)
	}
}

func TestHTTPFetcherClientErrorIsFinal(t *testing.T) {
	var calls atomic.Int32
	srv := numbersServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad", http.StatusBadRequest)
	})

	f := NewHTTPFetcher(srv.URL, srv.Client(), quiet())
	_, err := f.FetchNumbers(context.Background(), "1991-09-16", "13:50")
	if !errors.Is(err, errors.ErrCodeFetchFailed) {
		t.Errorf("err = %v, want FETCH_FAILED", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestHTTPFetcherEmptyIsNotAnError(t *testing.T) {
	srv := numbersServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"numbers":null,"message":"none"}`))
	})
	f := NewHTTPFetcher(srv.URL, srv.Client(), quiet())
	got, err := f.FetchNumbers(context.Background(), "1991-09-16", "13:50")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty non-nil slice", got)
	}
}

type countingFetcher struct {
	calls   int
	numbers []int
}

func (c *countingFetcher) FetchNumbers(context.Context, string, string) ([]int, error) {
	c.calls++
	return append([]int{}, c.numbers...), nil
}

func TestCachedFetcher(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(filepath.Join(t.TempDir(), "c"))
	if err != nil {
		t.Fatal(err)
	}

	inner := &countingFetcher{numbers: []int{1, 8}}
	f := NewCachedFetcher(inner, fc, nil, "test", time.Hour, quiet())
	for i := 0; i < 3; i++ {
		got, err := f.FetchNumbers(ctx, "1991-09-16", "13:50")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]int{1, 8}, got); diff != "" {
			t.Fatalf("call %d mismatch (-want +got):\n%s", i, diff)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}

	empty := &countingFetcher{numbers: []int{}}
	f = NewCachedFetcher(empty, fc, nil, "empty", time.Hour, quiet())
	f.FetchNumbers(ctx, "1991-09-16", "13:50")
	f.FetchNumbers(ctx, "1991-09-16", "13:50")
	if empty.calls != 2 {
		t.Errorf("empty results were cached: inner calls = %d, want 2", empty.calls)
	}
}

func TestRateLimitedHonorsContext(t *testing.T) {
	inner := &countingFetcher{numbers: []int{1}}
	f := NewRateLimited(inner, time.Hour, 1)
	ctx := context.Background()
	if _, err := f.FetchNumbers(ctx, "1991-09-16", "13:50"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := f.FetchNumbers(ctx, "1991-09-16", "13:50"); err == nil {
		t.Error("second call within the interval should fail on the deadline")
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}

func TestNewRodFetcherDefaults(t *testing.T) {
	f := NewRodFetcher(RodConfig{StepDelay: -1}, quiet())
	if f.Source() != DefaultTargetURL {
		t.Errorf("Source() = %q", f.Source())
	}
	if f.cfg.Timeout != 30*time.Second || f.cfg.SettleDelay != 3*time.Second || f.cfg.StepDelay != 0 {
		t.Errorf("cfg = %+v", f.cfg)
	}
}

func TestRodFetcherRejectsInvalidBirth(t *testing.T) {
	f := NewRodFetcher(DefaultRodConfig(), quiet())
	if _, err := f.FetchNumbers(context.Background(), "bad", "13:50"); !errors.IsInvalid(err) {
		t.Errorf("err = %v, want invalid input", err)
	}
}
