package catalog

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/mydungeon/pkg/errors"
	"github.com/matzehuels/mydungeon/pkg/palette"
)

func testCatalog(t *testing.T, opts ...Option) *Catalog {
	t.Helper()
	tables, err := Load("testdata")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	return New(tables, opts...)
}

func TestLoadFixture(t *testing.T) {
	c := testCatalog(t)

	it, ok := c.Item(1)
	if !ok {
		t.Fatal("item 1 not found")
	}
	if it.Name != "タレント" {
		t.Errorf("Name = %q, want タレント", it.Name)
	}
	if p, ok := it.Pair(); !ok || p != 8 {
		t.Errorf("Pair() = (%d, %v), want (8, true)", p, ok)
	}
	if m, ok := it.Move(); !ok || m != 1 {
		t.Errorf("Move() = (%d, %v), want (1, true)", m, ok)
	}
	if it.Color != palette.Red {
		t.Errorf("Color = %q, want %q", it.Color, palette.Red)
	}

	mv, ok := c.Move(6)
	if !ok || mv.Name != "エロ" {
		t.Errorf("Move(6) = (%q, %v), want (エロ, true)", mv.Name, ok)
	}
}

func TestBlankOptionalCellsAreAbsent(t *testing.T) {
	c := testCatalog(t)
	it, ok := c.Item(2)
	if !ok {
		t.Fatal("item 2 not found")
	}
	if it.PairNo != nil || it.MoveNo != nil || it.PairName != nil || it.MoveName != nil {
		t.Errorf("item 2 optional fields = %v %v %v %v, want all nil", it.PairNo, it.MoveNo, it.PairName, it.MoveName)
	}
	if it.Pairing() || it.HasMove() {
		t.Error("item 2 should not define a pairing")
	}
}

func TestItemsByNumbersSkipsMissing(t *testing.T) {
	c := testCatalog(t)
	got := c.ItemsByNumbers([]int{8, 99, 1})
	var nos []int
	for _, it := range got {
		nos = append(nos, it.No)
	}
	if diff := cmp.Diff([]int{8, 1}, nos); diff != "" {
		t.Errorf("ItemsByNumbers mismatch (-want +got):\n%s", diff)
	}
}

func TestItemsForMove(t *testing.T) {
	c := testCatalog(t)
	var nos []int
	for _, it := range c.ItemsForMove(1) {
		nos = append(nos, it.No)
	}
	if diff := cmp.Diff([]int{1, 8, 20, 21}, nos); diff != "" {
		t.Errorf("ItemsForMove(1) mismatch (-want +got):\n%s", diff)
	}
	if got := c.ItemsForMove(42); len(got) != 0 {
		t.Errorf("ItemsForMove(42) = %v, want empty", got)
	}
}

func TestImagesResolveThroughProber(t *testing.T) {
	c := testCatalog(t, WithProber(MapProber{
		"item/1":           "/data/images/item/1.jpg",
		"Hissatsuwaza/6_h": "/data/images/Hissatsuwaza/6_h.png",
	}))

	if it, _ := c.Item(1); it.ImagePath != "/data/images/item/1.jpg" {
		t.Errorf("Item(1).ImagePath = %q", it.ImagePath)
	}
	if it, _ := c.Item(8); it.ImagePath != "" {
		t.Errorf("Item(8).ImagePath = %q, want empty", it.ImagePath)
	}
	if mv, _ := c.Move(6); mv.ImagePath != "/data/images/Hissatsuwaza/6_h.png" {
		t.Errorf("Move(6).ImagePath = %q", mv.ImagePath)
	}
}

func TestDirProberExtensionOrder(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ItemDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"3.GIF", "3.png", "4.JPEG"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	p := DirProber{Root: root}
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"3", filepath.Join(dir, "3.png"), true},
		{"4", filepath.Join(dir, "4.JPEG"), true},
		{"5", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := p.Probe(ItemDir, tt.key)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Probe(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestColorCounts(t *testing.T) {
	c := testCatalog(t)
	got := c.ColorCounts(c.ItemsByNumbers([]int{1, 6, 8, 2, 5}))

	want := ColorCounts{ColorSystems: []SystemCount{
		{Name: palette.GroupRed, Meaning: "情熱", TotalCount: 3, Colors: []ColorCount{
			{Name: palette.Red, Meaning: "行動力", Count: 2},
			{Name: palette.Pink, Meaning: "愛情", Count: 1},
		}},
		{Name: palette.GroupGreen, Meaning: "調和", TotalCount: 1, Colors: []ColorCount{
			{Name: palette.Green, Meaning: "成長", Count: 1},
		}},
		{Name: palette.GroupYellow, Meaning: "喜び", TotalCount: 1, Colors: []ColorCount{
			{Name: palette.Yellow, Meaning: "明るさ", Count: 1},
		}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ColorCounts mismatch (-want +got):\n%s", diff)
	}
}

func TestColorCountsEmpty(t *testing.T) {
	c := testCatalog(t)
	got := c.ColorCounts(nil)
	if got.ColorSystems == nil || len(got.ColorSystems) != 0 {
		t.Errorf("ColorSystems = %#v, want empty non-nil slice", got.ColorSystems)
	}
}

func TestColorMeaningsForwardFill(t *testing.T) {
	c := testCatalog(t)
	rows := c.ColorMeanings()
	if rows[1].Color != palette.Pink || rows[1].System != palette.GroupRed || rows[1].SystemMeaning != "情熱" {
		t.Errorf("row 1 = %+v, want 桃 inheriting 赤系/情熱", rows[1])
	}
}

func TestDuplicateRowsFirstWins(t *testing.T) {
	one, two := 1, 2
	c := New(&Tables{Items: []Item{
		{No: 1, Name: "first", PairNo: &two, MoveNo: &one},
		{No: 1, Name: "second"},
	}}, WithLogger(log.New(io.Discard)))
	it, _ := c.Item(1)
	if it.Name != "first" {
		t.Errorf("Name = %q, want first", it.Name)
	}
	if n := len(c.Items()); n != 1 {
		t.Errorf("len(Items()) = %d, want 1", n)
	}
}

func TestReadItemsSchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing column", "No,アイテム名,対No\n1,a,2\n"},
		{"empty file", ""},
		{"bad number", "No,アイテム名,対No,対アイテム名,必殺No,必殺技名,色,動き方,説明,ON,OFF\n1,a,x,,,,赤,,,,\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadItems(strings.NewReader(tt.csv), ItemFile)
			if !errors.Is(err, errors.ErrCodeSchemaMismatch) {
				t.Errorf("err = %v, want SCHEMA_MISMATCH", err)
			}
		})
	}
}

func TestReadItemsAcceptsFloatCells(t *testing.T) {
	src := "No,アイテム名,対No,対アイテム名,必殺No,必殺技名,色,動き方,説明,ON,OFF\n" +
		"1,a,8.0,b,1.0,c,赤,,,,\n" +
		",blank,,,,,,,,,\n"
	items, err := ReadItems(strings.NewReader(src), ItemFile)
	if err != nil {
		t.Fatalf("ReadItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1 (blank key skipped)", len(items))
	}
	if p, _ := items[0].Pair(); p != 8 {
		t.Errorf("pair = %d, want 8", p)
	}
}

func TestCleanHeader(t *testing.T) {
	got := cleanHeader([]string{"\ufeff1→No", " アイテム名 ", "ON"})
	if diff := cmp.Diff([]string{"No", "アイテム名", "ON"}, got); diff != "" {
		t.Errorf("cleanHeader mismatch (-want +got):\n%s", diff)
	}
}

func TestImageURL(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		name string
		path string
		want string
	}{
		{"item", filepath.Join(sep+"srv", "database", "images", "item", "1.jpg"), "/images/item/1.jpg"},
		{"move", filepath.Join("database", "images", "Hissatsuwaza", "6_h.png"), "/images/Hissatsuwaza/6_h.png"},
		{"no images segment", filepath.Join(sep+"tmp", "1.jpg"), ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImageURL(tt.path); got != tt.want {
				t.Errorf("ImageURL(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
