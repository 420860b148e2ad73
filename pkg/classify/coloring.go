package classify

import (
	"github.com/matzehuels/mydungeon/pkg/catalog"
)

// Coloring partitions one person's numbers into buckets. Each list is
// sorted ascending and the lists are pairwise disjoint.
type Coloring struct {
	Joint          []int `json:"joint_numbers"`
	BothHave       []int `json:"both_have_numbers"`
	Person1Synergy []int `json:"person1_synergy_numbers"`
	Person2Synergy []int `json:"person2_synergy_numbers"`
	Solo           []int `json:"solo_hissatsu_numbers"`
}

// Bucket reports which bucket n fell into.
func (c Coloring) Bucket(n int) (Category, bool) {
	for cat, list := range map[Category][]int{
		Joint:          c.Joint,
		BothHave:       c.BothHave,
		Person1Synergy: c.Person1Synergy,
		Person2Synergy: c.Person2Synergy,
		Solo:           c.Solo,
	} {
		for _, v := range list {
			if v == n {
				return cat, true
			}
		}
	}
	return None, false
}

// bucketPriority is the order in which buckets claim a number.
var bucketPriority = []Category{Joint, Person1Synergy, Person2Synergy, BothHave, Solo}

// ColorNumbers colors each person's numbers. The numbers of a category are
// both sides of every pairing row of every move in it; the solo numbers of
// a person come from that person's own activated moves.
func (c *Classifier) ColorNumbers(person1, person2 []int, cats Categories) (Coloring, Coloring) {
	pools := map[Category]map[int]bool{
		Joint:          c.moveNumbers(cats.Joint),
		BothHave:       c.moveNumbers(cats.BothHave),
		Person1Synergy: c.moveNumbers(cats.Person1Synergy),
		Person2Synergy: c.moveNumbers(cats.Person2Synergy),
	}

	color := func(numbers []int) Coloring {
		pools[Solo] = c.moveNumbers(c.DetectMoves(numbers))
		buckets := make(map[Category]map[int]bool, len(bucketPriority))
		for _, cat := range bucketPriority {
			buckets[cat] = make(map[int]bool)
		}
		for n := range toSet(numbers) {
			for _, cat := range bucketPriority {
				if pools[cat][n] {
					buckets[cat][n] = true
					break
				}
			}
		}
		return Coloring{
			Joint:          sortedKeys(buckets[Joint]),
			BothHave:       sortedKeys(buckets[BothHave]),
			Person1Synergy: sortedKeys(buckets[Person1Synergy]),
			Person2Synergy: sortedKeys(buckets[Person2Synergy]),
			Solo:           sortedKeys(buckets[Solo]),
		}
	}

	return color(person1), color(person2)
}

func (c *Classifier) moveNumbers(moves []catalog.Move) map[int]bool {
	set := make(map[int]bool)
	for _, m := range moves {
		for _, it := range c.cat.ItemsForMove(m.MoveNo) {
			set[it.No] = true
			if p, ok := it.Pair(); ok {
				set[p] = true
			}
		}
	}
	return set
}
