package catalog

import "github.com/matzehuels/mydungeon/pkg/palette"

// Item is a row of the item table.
type Item struct {
	No          int           `json:"no"`
	Name        string        `json:"name"`
	PairNo      *int          `json:"pair_no"`
	PairName    *string       `json:"pair_name"`
	MoveNo      *int          `json:"hissatsu_no"`
	MoveName    *string       `json:"hissatsu_name"`
	Color       palette.Color `json:"color"`
	Movement    string        `json:"movement"`
	Description string        `json:"description"`
	OnState     string        `json:"on_state"`
	OffState    string        `json:"off_state"`
	ImagePath   string        `json:"image_path"`
}

// Pair returns the complementary number, if the item has one.
func (i Item) Pair() (int, bool) {
	if i.PairNo == nil {
		return 0, false
	}
	return *i.PairNo, true
}

// Move returns the move number the item contributes to, if any.
func (i Item) Move() (int, bool) {
	if i.MoveNo == nil {
		return 0, false
	}
	return *i.MoveNo, true
}

// HasMove reports whether the item is associated with a move.
func (i Item) HasMove() bool { return i.MoveNo != nil }

// Pairing reports whether the row defines a pairing, i.e. both the pair
// number and the move number are set.
func (i Item) Pairing() bool { return i.PairNo != nil && i.MoveNo != nil }

// Move is a row of the move table. Two moves are the same move iff their
// MoveNo values match.
type Move struct {
	MoveNo          int           `json:"hissatsu_no"`
	Name            string        `json:"name"`
	Color           palette.Color `json:"color"`
	Meaning         string        `json:"meaning"`
	Movement        string        `json:"movement"`
	BasicPosture    string        `json:"basic_posture"`
	Talent          string        `json:"talent"`
	Characteristics string        `json:"characteristics"`
	Advice          string        `json:"advice"`
	OnState         string        `json:"on_state"`
	OffState        string        `json:"off_state"`
	ImagePath       string        `json:"image_path"`
}

// ColorMeaning is a row of the color meaning table.
type ColorMeaning struct {
	System        palette.Group `json:"system"`
	SystemMeaning string        `json:"system_meaning"`
	Color         palette.Color `json:"color"`
	Meaning       string        `json:"meaning"`
}

// Action is a row of the action description table.
type Action struct {
	Action  string `json:"action"`
	Meaning string `json:"meaning"`
}

// Tables is the raw content of the four reference tables.
type Tables struct {
	Items   []Item
	Moves   []Move
	Colors  []ColorMeaning
	Actions []Action
}
