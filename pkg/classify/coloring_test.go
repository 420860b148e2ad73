package classify

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestColorNumbers(t *testing.T) {
	c := fixture(t)

	t.Run("synergy beats solo", func(t *testing.T) {
		p1, p2 := []int{1, 8, 6, 59, 2}, []int{8}
		c1, c2 := c.ColorNumbers(p1, p2, c.Categorize(p1, p2))

		want1 := Coloring{
			Joint:          []int{},
			BothHave:       []int{},
			Person1Synergy: []int{1, 8},
			Person2Synergy: []int{},
			Solo:           []int{6, 59},
		}
		if diff := cmp.Diff(want1, c1); diff != "" {
			t.Errorf("person1 mismatch (-want +got):\n%s", diff)
		}
		want2 := Coloring{
			Joint:          []int{},
			BothHave:       []int{},
			Person1Synergy: []int{8},
			Person2Synergy: []int{},
			Solo:           []int{},
		}
		if diff := cmp.Diff(want2, c2); diff != "" {
			t.Errorf("person2 mismatch (-want +got):\n%s", diff)
		}
	})

	// Move 1 is both-have via (1,8) and joint via (20,21); every number of
	// move 1 therefore lands in joint.
	t.Run("joint beats both have", func(t *testing.T) {
		p1, p2 := []int{1, 8, 20}, []int{1, 8, 21}
		cats := c.Categorize(p1, p2)
		if len(cats.BothHave) != 1 || len(cats.Joint) != 1 {
			t.Fatalf("categories = joint %v both %v", moveNos(cats.Joint), moveNos(cats.BothHave))
		}
		c1, _ := c.ColorNumbers(p1, p2, cats)
		if diff := cmp.Diff([]int{1, 8, 20}, c1.Joint); diff != "" {
			t.Errorf("joint mismatch (-want +got):\n%s", diff)
		}
		if len(c1.BothHave) != 0 || len(c1.Solo) != 0 {
			t.Errorf("both_have = %v, solo = %v, want empty", c1.BothHave, c1.Solo)
		}
	})

	t.Run("unrelated numbers stay uncolored", func(t *testing.T) {
		p1, p2 := []int{2, 5}, []int{7}
		c1, _ := c.ColorNumbers(p1, p2, c.Categorize(p1, p2))
		for _, n := range p1 {
			if cat, ok := c1.Bucket(n); ok {
				t.Errorf("number %d colored %s, want none", n, cat)
			}
		}
	})
}

func TestColoringBucketsAreDisjoint(t *testing.T) {
	c := fixture(t)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		p1, p2 := randomNumbers(rng), randomNumbers(rng)
		c1, c2 := c.ColorNumbers(p1, p2, c.Categorize(p1, p2))
		for _, col := range []Coloring{c1, c2} {
			seen := map[int]bool{}
			for _, list := range [][]int{col.Joint, col.BothHave, col.Person1Synergy, col.Person2Synergy, col.Solo} {
				for _, n := range list {
					if seen[n] {
						t.Fatalf("ColorNumbers(%v, %v): %d in two buckets: %+v", p1, p2, n, col)
					}
					seen[n] = true
				}
			}
		}
	}
}

func TestBucket(t *testing.T) {
	col := Coloring{Joint: []int{1}, Solo: []int{6}}
	if cat, ok := col.Bucket(1); !ok || cat != Joint {
		t.Errorf("Bucket(1) = (%s, %v), want (joint, true)", cat, ok)
	}
	if cat, ok := col.Bucket(6); !ok || cat != Solo {
		t.Errorf("Bucket(6) = (%s, %v), want (solo, true)", cat, ok)
	}
	if _, ok := col.Bucket(2); ok {
		t.Error("Bucket(2) should be unclassified")
	}
}
