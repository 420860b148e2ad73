package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/mydungeon/pkg/errors"
	"github.com/matzehuels/mydungeon/pkg/palette"
)

// File names of the reference tables inside the CSV directory.
const (
	ItemFile   = "item_list.csv"
	MoveFile   = "hissatsuwaza_list.csv"
	ColorFile  = "meaning_of_color.csv"
	ActionFile = "how_to_action.csv"
)

// Column names as they appear in the table headers.
const (
	colNo          = "No"
	colItemName    = "アイテム名"
	colPairNo      = "対No"
	colPairName    = "対アイテム名"
	colMoveNo      = "必殺No"
	colMoveName    = "必殺技名"
	colColor       = "色"
	colMovement    = "動き方"
	colDescription = "説明"
	colOn          = "ON"
	colOff         = "OFF"
	colMeaning     = "意味"
	colPosture     = "基本姿勢"
	colTalent      = "才能"
	colTraits      = "特性"
	colAdvice      = "アドバイス"
	colSystem      = "系統"
	colSystemMean  = "系統意味"
	colColorMean   = "色意味"
)

var (
	itemColumns = []string{colNo, colItemName, colPairNo, colPairName, colMoveNo, colMoveName,
		colColor, colMovement, colDescription, colOn, colOff}
	moveColumns = []string{colMoveNo, colMoveName, colColor, colMeaning, colMovement,
		colPosture, colTalent, colTraits, colAdvice, colOn, colOff}
	colorColumns  = []string{colSystem, colSystemMean, colColor, colColorMean}
	actionColumns = []string{colMovement, colMeaning}
)

// Load reads the four reference tables from dir.
func Load(dir string) (*Tables, error) {
	var t Tables
	var err error
	if t.Items, err = loadFile(dir, ItemFile, ReadItems); err != nil {
		return nil, err
	}
	if t.Moves, err = loadFile(dir, MoveFile, ReadMoves); err != nil {
		return nil, err
	}
	if t.Colors, err = loadFile(dir, ColorFile, ReadColorMeanings); err != nil {
		return nil, err
	}
	if t.Actions, err = loadFile(dir, ActionFile, ReadActions); err != nil {
		return nil, err
	}
	return &t, nil
}

func loadFile[T any](dir, name string, read func(io.Reader, string) ([]T, error)) ([]T, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	return read(f, name)
}

// ReadItems decodes the item table. Rows with a blank No are skipped.
func ReadItems(r io.Reader, name string) ([]Item, error) {
	t, err := readTable(r, name, itemColumns)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(t.rows))
	for i, row := range t.rows {
		no, err := t.optInt(i, row, colNo)
		if err != nil {
			return nil, err
		}
		if no == nil {
			continue
		}
		pair, err := t.optInt(i, row, colPairNo)
		if err != nil {
			return nil, err
		}
		move, err := t.optInt(i, row, colMoveNo)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{
			No:          *no,
			Name:        t.str(row, colItemName),
			PairNo:      pair,
			PairName:    t.optStr(row, colPairName),
			MoveNo:      move,
			MoveName:    t.optStr(row, colMoveName),
			Color:       palette.Color(t.str(row, colColor)),
			Movement:    t.str(row, colMovement),
			Description: t.str(row, colDescription),
			OnState:     t.str(row, colOn),
			OffState:    t.str(row, colOff),
		})
	}
	return items, nil
}

// ReadMoves decodes the move table. Rows with a blank move number are skipped.
func ReadMoves(r io.Reader, name string) ([]Move, error) {
	t, err := readTable(r, name, moveColumns)
	if err != nil {
		return nil, err
	}
	moves := make([]Move, 0, len(t.rows))
	for i, row := range t.rows {
		no, err := t.optInt(i, row, colMoveNo)
		if err != nil {
			return nil, err
		}
		if no == nil {
			continue
		}
		moves = append(moves, Move{
			MoveNo:          *no,
			Name:            t.str(row, colMoveName),
			Color:           palette.Color(t.str(row, colColor)),
			Meaning:         t.str(row, colMeaning),
			Movement:        t.str(row, colMovement),
			BasicPosture:    t.str(row, colPosture),
			Talent:          t.str(row, colTalent),
			Characteristics: t.str(row, colTraits),
			Advice:          t.str(row, colAdvice),
			OnState:         t.str(row, colOn),
			OffState:        t.str(row, colOff),
		})
	}
	return moves, nil
}

// ReadColorMeanings decodes the color meaning table, carrying blank system
// cells forward from the previous row.
func ReadColorMeanings(r io.Reader, name string) ([]ColorMeaning, error) {
	t, err := readTable(r, name, colorColumns)
	if err != nil {
		return nil, err
	}
	out := make([]ColorMeaning, 0, len(t.rows))
	var system, systemMeaning string
	for _, row := range t.rows {
		if s := t.str(row, colSystem); s != "" {
			system = s
		}
		if s := t.str(row, colSystemMean); s != "" {
			systemMeaning = s
		}
		out = append(out, ColorMeaning{
			System:        palette.Group(system),
			SystemMeaning: systemMeaning,
			Color:         palette.Color(t.str(row, colColor)),
			Meaning:       t.str(row, colColorMean),
		})
	}
	return out, nil
}

// ReadActions decodes the action description table.
func ReadActions(r io.Reader, name string) ([]Action, error) {
	t, err := readTable(r, name, actionColumns)
	if err != nil {
		return nil, err
	}
	out := make([]Action, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, Action{
			Action:  t.str(row, colMovement),
			Meaning: t.str(row, colMeaning),
		})
	}
	return out, nil
}

// =============================================================================
// Table decoding
// =============================================================================

type table struct {
	name   string
	header map[string]int
	rows   [][]string
}

func readTable(r io.Reader, name string, required []string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeSchemaMismatch, "%s: missing header row", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchemaMismatch, err, "%s: read header", name)
	}

	t := &table{name: name, header: make(map[string]int, len(header))}
	for i, col := range cleanHeader(header) {
		if _, dup := t.header[col]; !dup {
			t.header[col] = i
		}
	}
	for _, col := range required {
		if _, ok := t.header[col]; !ok {
			return nil, errors.New(errors.ErrCodeSchemaMismatch, "%s: missing column %q", name, col)
		}
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchemaMismatch, err, "%s: read rows", name)
	}
	t.rows = rows
	return t, nil
}

// cleanHeader strips the UTF-8 BOM and surrounding whitespace from column
// names. Exported spreadsheets sometimes prefix the first column with a line
// marker such as "1→No"; everything up to the arrow is dropped.
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, col := range header {
		col = strings.TrimPrefix(col, "\ufeff")
		if i == 0 {
			if _, after, ok := strings.Cut(col, "→"); ok {
				col = after
			}
		}
		out[i] = strings.TrimSpace(col)
	}
	return out
}

func (t *table) str(row []string, col string) string {
	idx := t.header[col]
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (t *table) optStr(row []string, col string) *string {
	s := t.str(row, col)
	if s == "" {
		return nil
	}
	return &s
}

// optInt parses an optional integer cell. Spreadsheet exports may write
// integral values as "8.0", which are accepted.
func (t *table) optInt(rowIdx int, row []string, col string) (*int, error) {
	s := t.str(row, col)
	if s == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		n := int(f)
		return &n, nil
	}
	// +2: one for the header row, one for 1-based line numbers.
	return nil, errors.New(errors.ErrCodeSchemaMismatch,
		"%s line %d: column %q: invalid number %q", t.name, rowIdx+2, col, s)
}
