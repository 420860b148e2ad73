package classify

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/mydungeon/pkg/catalog"
)

func fixture(t testing.TB) *Classifier {
	t.Helper()
	tables, err := catalog.Load("../catalog/testdata")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	quiet := log.New(io.Discard)
	return New(catalog.New(tables, catalog.WithLogger(quiet)), quiet)
}

func moveNos(moves []catalog.Move) []int {
	out := []int{}
	for _, m := range moves {
		out = append(out, m.MoveNo)
	}
	return out
}

func TestDetectMoves(t *testing.T) {
	c := fixture(t)
	tests := []struct {
		name    string
		numbers []int
		want    []int
	}{
		{"single pair", []int{1, 8}, []int{1}},
		{"two independent pairs", []int{1, 6, 8, 59}, []int{1, 6}},
		{"no pairing", []int{1, 2, 3, 5, 7, 9}, []int{}},
		{"same move via two pairs", []int{1, 8, 20, 21}, []int{1}},
		{"input order decides", []int{59, 21, 6, 20}, []int{6, 1}},
		{"unknown numbers skipped", []int{99, 1, 100, 8}, []int{1}},
		{"empty", nil, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := moveNos(c.DetectMoves(tt.numbers))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DetectMoves(%v) mismatch (-want +got):\n%s", tt.numbers, diff)
			}
		})
	}
}

func TestDetectMovesNeverDuplicates(t *testing.T) {
	c := fixture(t)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		numbers := randomNumbers(rng)
		seen := map[int]bool{}
		for _, m := range c.DetectMoves(numbers) {
			if seen[m.MoveNo] {
				t.Fatalf("DetectMoves(%v) emitted move %d twice", numbers, m.MoveNo)
			}
			seen[m.MoveNo] = true
		}
	}
}

func TestActivationPairs(t *testing.T) {
	c := fixture(t)
	tests := []struct {
		name    string
		numbers []int
		want    map[int][2]int
	}{
		{"normalized", []int{8, 1}, map[int][2]int{1: {1, 8}}},
		{"later pair for same move wins", []int{1, 8, 20, 21}, map[int][2]int{1: {20, 21}}},
		{"two moves", []int{6, 1, 59, 8}, map[int][2]int{1: {1, 8}, 6: {6, 59}}},
		{"none", []int{2, 3, 5}, map[int][2]int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, c.ActivationPairs(tt.numbers)); diff != "" {
				t.Errorf("ActivationPairs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestActivatedNumbers(t *testing.T) {
	got := ActivatedNumbers(map[int][2]int{1: {1, 8}, 6: {6, 59}})
	if diff := cmp.Diff([]int{1, 6, 8, 59}, got); diff != "" {
		t.Errorf("ActivatedNumbers mismatch (-want +got):\n%s", diff)
	}
	if got := ActivatedNumbers(nil); got == nil || len(got) != 0 {
		t.Errorf("ActivatedNumbers(nil) = %#v, want empty slice", got)
	}
}

func randomNumbers(rng *rand.Rand) []int {
	candidates := []int{1, 2, 3, 5, 6, 7, 8, 9, 12, 20, 21, 59}
	var out []int
	for _, n := range candidates {
		if rng.Intn(2) == 0 {
			out = append(out, n)
		}
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
