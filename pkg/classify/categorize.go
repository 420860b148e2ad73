package classify

import (
	"github.com/matzehuels/mydungeon/pkg/catalog"
)

// Categories holds the moves of each compatibility category, in the order
// their pairing rows appear in the item table.
type Categories struct {
	Joint          []catalog.Move
	BothHave       []catalog.Move
	Person1Synergy []catalog.Move
	Person2Synergy []catalog.Move
}

// Get returns the moves of category cat.
func (c Categories) Get(cat Category) []catalog.Move {
	switch cat {
	case Joint:
		return c.Joint
	case BothHave:
		return c.BothHave
	case Person1Synergy:
		return c.Person1Synergy
	case Person2Synergy:
		return c.Person2Synergy
	}
	return nil
}

// DisplayOrder lists the categories top to bottom as drawn in the
// compatibility image.
var DisplayOrder = [4]Category{Joint, Person1Synergy, Person2Synergy, BothHave}

// Rows returns the category moves in DisplayOrder.
func (c Categories) Rows() [4][]catalog.Move {
	var rows [4][]catalog.Move
	for i, cat := range DisplayOrder {
		rows[i] = c.Get(cat)
	}
	return rows
}

func (c *Categories) add(cat Category, m catalog.Move) bool {
	var dst *[]catalog.Move
	switch cat {
	case Joint:
		dst = &c.Joint
	case BothHave:
		dst = &c.BothHave
	case Person1Synergy:
		dst = &c.Person1Synergy
	case Person2Synergy:
		dst = &c.Person2Synergy
	default:
		return false
	}
	for _, existing := range *dst {
		if existing.MoveNo == m.MoveNo {
			return false
		}
	}
	*dst = append(*dst, m)
	return true
}

// holdings records which sides of a pairing (A, B) each person holds.
type holdings struct {
	p1A, p1B, p2A, p2B bool
}

// category is the first-match chain, evaluated in fixed order. The four
// conditions happen to be exclusive, so the order only fixes precedence.
func (h holdings) category() Category {
	switch {
	case (h.p1A && !h.p1B && h.p2B && !h.p2A) || (h.p1B && !h.p1A && h.p2A && !h.p2B):
		return Joint
	case h.p1A && h.p1B && h.p2A && h.p2B:
		return BothHave
	case h.p1A && h.p1B && (h.p2A || h.p2B) && !(h.p2A && h.p2B):
		return Person1Synergy
	case h.p2A && h.p2B && (h.p1A || h.p1B) && !(h.p1A && h.p1B):
		return Person2Synergy
	}
	return None
}

type rowKey struct {
	lo, hi, move int
}

// Categorize sorts every pairing row of the item table into at most one
// category for the two number sets. A physical pairing reached from either
// side ((A,B) and (B,A) rows) is emitted once; a key is only recorded once
// its move has actually been emitted. Within a category each move appears
// once.
func (c *Classifier) Categorize(person1, person2 []int) Categories {
	p1, p2 := toSet(person1), toSet(person2)
	processed := make(map[rowKey]bool)
	cats := Categories{
		Joint:          []catalog.Move{},
		BothHave:       []catalog.Move{},
		Person1Synergy: []catalog.Move{},
		Person2Synergy: []catalog.Move{},
	}

	for _, row := range c.cat.Items() {
		if !row.Pairing() {
			continue
		}
		a, b, moveNo := row.No, *row.PairNo, *row.MoveNo
		pair := normalize(a, b)
		key := rowKey{pair[0], pair[1], moveNo}
		if processed[key] {
			continue
		}

		cat := holdings{p1A: p1[a], p1B: p1[b], p2A: p2[a], p2B: p2[b]}.category()
		if cat == None {
			continue
		}
		mv, ok := c.cat.Move(moveNo)
		if !ok {
			c.logger.Warn("move not found", "hissatsu_no", moveNo)
			continue
		}
		if cats.add(cat, mv) {
			processed[key] = true
			c.logger.Debug("categorized move", "category", cat, "hissatsu_no", moveNo, "name", mv.Name, "a", a, "b", b)
		}
	}

	c.logger.Debug("categorized moves",
		"joint", len(cats.Joint),
		"both_have", len(cats.BothHave),
		"person1_synergy", len(cats.Person1Synergy),
		"person2_synergy", len(cats.Person2Synergy))
	return cats
}
