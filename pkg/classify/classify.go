package classify

import (
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mydungeon/pkg/catalog"
)

// Catalog is the read-only table access the classifier needs.
// *catalog.Catalog satisfies it.
type Catalog interface {
	Lookup(no int) (catalog.Item, bool)
	Move(no int) (catalog.Move, bool)
	Items() []catalog.Item
	ItemsForMove(moveNo int) []catalog.Item
}

// Category names a compatibility category or, for number coloring, the
// solo bucket.
type Category int

const (
	None Category = iota
	Joint
	BothHave
	Person1Synergy
	Person2Synergy
	Solo
)

func (c Category) String() string {
	switch c {
	case Joint:
		return "joint"
	case BothHave:
		return "both_have"
	case Person1Synergy:
		return "person1_synergy"
	case Person2Synergy:
		return "person2_synergy"
	case Solo:
		return "solo"
	}
	return "none"
}

// Classifier evaluates number sets against a catalog.
type Classifier struct {
	cat    Catalog
	logger *log.Logger
}

// New returns a Classifier over cat. A nil logger uses log.Default().
func New(cat Catalog, logger *log.Logger) *Classifier {
	if logger == nil {
		logger = log.Default()
	}
	return &Classifier{cat: cat, logger: logger}
}

// DetectMoves returns the moves activated by numbers. A move is emitted the
// first time one of its items is seen with its pair also present; input
// order decides emission order and each move appears once. Numbers without
// an item row are skipped with a warning.
func (c *Classifier) DetectMoves(numbers []int) []catalog.Move {
	present := toSet(numbers)
	seen := make(map[int]bool)
	moves := []catalog.Move{}

	for _, n := range numbers {
		it, ok := c.cat.Lookup(n)
		if !ok {
			c.logger.Warn("item not found", "no", n)
			continue
		}
		pair, hasPair := it.Pair()
		moveNo, hasMove := it.Move()
		if !hasPair || !hasMove || !present[pair] || seen[moveNo] {
			continue
		}
		seen[moveNo] = true

		mv, ok := c.cat.Move(moveNo)
		if !ok {
			c.logger.Warn("move not found", "hissatsu_no", moveNo)
			continue
		}
		moves = append(moves, mv)
	}

	c.logger.Debug("detected moves", "count", len(moves))
	return moves
}

// ActivationPairs maps each activated move to the normalized (low, high)
// number pair that activated it. Pairs are visited in input order; each
// normalized pair is considered once, and a later pair for the same move
// replaces an earlier one.
func (c *Classifier) ActivationPairs(numbers []int) map[int][2]int {
	present := toSet(numbers)
	processed := make(map[[2]int]bool)
	pairs := make(map[int][2]int)

	for _, n := range numbers {
		it, ok := c.cat.Lookup(n)
		if !ok {
			continue
		}
		pair, hasPair := it.Pair()
		moveNo, hasMove := it.Move()
		if !hasPair || !hasMove || !present[pair] {
			continue
		}
		key := normalize(n, pair)
		if processed[key] {
			continue
		}
		processed[key] = true
		pairs[moveNo] = key
	}
	return pairs
}

// ActivatedNumbers flattens pairs into a sorted set of numbers.
func ActivatedNumbers(pairs map[int][2]int) []int {
	set := make(map[int]bool)
	for _, p := range pairs {
		set[p[0]] = true
		set[p[1]] = true
	}
	return sortedKeys(set)
}

func normalize(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func toSet(numbers []int) map[int]bool {
	set := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		set[n] = true
	}
	return set
}

func sortedKeys(set map[int]bool) []int {
	keys := slices.Sorted(maps.Keys(set))
	if keys == nil {
		return []int{}
	}
	return keys
}
