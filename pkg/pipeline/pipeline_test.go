package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/mydungeon/pkg/catalog"
	"github.com/matzehuels/mydungeon/pkg/errors"
	"github.com/matzehuels/mydungeon/pkg/fetch"
	"github.com/matzehuels/mydungeon/pkg/fonts"
	"github.com/matzehuels/mydungeon/pkg/palette"
	"github.com/matzehuels/mydungeon/pkg/render"
	"github.com/matzehuels/mydungeon/pkg/storage"
)

func testRunner(t *testing.T, f fetch.Fetcher) (*Runner, *storage.FileStore) {
	t.Helper()
	logger := log.New(io.Discard)
	tables, err := catalog.Load("../catalog/testdata")
	if err != nil {
		t.Fatal(err)
	}
	cat := catalog.New(tables, catalog.WithLogger(logger), catalog.WithProber(catalog.MapProber{
		"item/1":           "/srv/database/images/item/1.jpg",
		"Hissatsuwaza/1_h": "/srv/database/images/Hissatsuwaza/1_h.jpg",
	}))
	font, err := fonts.Embedded()
	if err != nil {
		t.Fatal(err)
	}
	rend, err := render.New(render.WithFont(font), render.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(cat, f, rend, store, logger)
	r.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return r, store
}

func TestDiagnose(t *testing.T) {
	f := fetch.StaticFetcher{fetch.StaticKey("1991-09-16", "13:50"): {1, 2, 8, 42}}
	r, store := testRunner(t, f)

	resp, err := r.Diagnose(context.Background(), DiagnoseRequest{Birthdate: "1991-09-16", Birthtime: "13:50", Name: "太郎"})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}

	if !strings.HasPrefix(resp.ImageURL, "/output/result_20240102_030405_") {
		t.Errorf("ImageURL = %q", resp.ImageURL)
	}
	if !strings.HasPrefix(resp.ImagePath, store.Dir()) {
		t.Errorf("ImagePath = %q, want under %q", resp.ImagePath, store.Dir())
	}
	if _, err := os.Stat(resp.ImagePath); err != nil {
		t.Errorf("image not written: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 8, 42}, resp.Numbers); diff != "" {
		t.Errorf("Numbers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 8}, resp.HissatsuNumbers); diff != "" {
		t.Errorf("HissatsuNumbers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[int][2]int{1: {1, 8}}, resp.HissatsuPairs); diff != "" {
		t.Errorf("HissatsuPairs mismatch (-want +got):\n%s", diff)
	}
	// 42 has no item row and is skipped.
	if resp.ItemCount != 3 || resp.HissatsuCount != 1 {
		t.Errorf("counts = %d items, %d hissatsus; want 3, 1", resp.ItemCount, resp.HissatsuCount)
	}
	if got := resp.Items[0].ImageURL; got != "/images/item/1.jpg" {
		t.Errorf("Items[0].ImageURL = %q", got)
	}
	if got := resp.Hissatsus[0].ImageURL; got != "/images/Hissatsuwaza/1_h.jpg" {
		t.Errorf("Hissatsus[0].ImageURL = %q", got)
	}
	if len(resp.Actions) != 3 {
		t.Errorf("Actions = %d rows, want 3", len(resp.Actions))
	}
	systems := resp.ColorCounts.ColorSystems
	if len(systems) != 2 || systems[0].Name != palette.GroupRed || systems[0].TotalCount != 2 {
		t.Errorf("ColorCounts = %+v", systems)
	}
}

func TestDiagnoseJSONShape(t *testing.T) {
	f := fetch.StaticFetcher{fetch.StaticKey("1991-09-16", "13:50"): {1, 8}}
	r, _ := testRunner(t, f)
	resp, err := r.Diagnose(context.Background(), DiagnoseRequest{Birthdate: "1991-09-16", Birthtime: "13:50"})
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{
		"image_url", "image_path", "name", "birthdate", "birthtime", "numbers",
		"hissatsu_numbers", "hissatsu_pairs", "item_count", "hissatsu_count",
		"color_counts", "actions", "items", "hissatsus",
	} {
		if _, ok := obj[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if got := string(obj["hissatsu_pairs"]); got != `{"1":[1,8]}` {
		t.Errorf("hissatsu_pairs = %s", got)
	}

	var items []map[string]any
	if err := json.Unmarshal(obj["items"], &items); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"no", "name", "pair_no", "hissatsu_no", "color", "image_url"} {
		if _, ok := items[0][key]; !ok {
			t.Errorf("item missing key %q", key)
		}
	}
}

func TestDiagnoseEmptyFetch(t *testing.T) {
	f := fetch.StaticFetcher{fetch.StaticKey("2000-01-01", "00:00"): {}}
	r, _ := testRunner(t, f)
	resp, err := r.Diagnose(context.Background(), DiagnoseRequest{Birthdate: "2000-01-01", Birthtime: "00:00"})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if resp.ItemCount != 0 || len(resp.Items) != 0 || len(resp.HissatsuNumbers) != 0 {
		t.Errorf("want empty result, got %+v", resp)
	}
	if resp.Items == nil || resp.Hissatsus == nil || resp.Numbers == nil {
		t.Error("empty lists must serialize as [] not null")
	}
}

func TestDiagnoseErrors(t *testing.T) {
	boom := fetch.Func(func(context.Context, string, string) ([]int, error) {
		return nil, io.ErrUnexpectedEOF
	})
	tests := []struct {
		name    string
		fetcher fetch.Fetcher
		req     DiagnoseRequest
		code    errors.Code
	}{
		{"bad date", fetch.StaticFetcher{}, DiagnoseRequest{Birthdate: "1991-02-30", Birthtime: "13:50"}, errors.ErrCodeInvalidDate},
		{"bad time", fetch.StaticFetcher{}, DiagnoseRequest{Birthdate: "1991-09-16", Birthtime: "25:00"}, errors.ErrCodeInvalidTime},
		{"bad name", fetch.StaticFetcher{}, DiagnoseRequest{Birthdate: "1991-09-16", Birthtime: "13:50", Name: "a\x00b"}, errors.ErrCodeInvalidInput},
		{"uncoded fetch error", boom, DiagnoseRequest{Birthdate: "1991-09-16", Birthtime: "13:50"}, errors.ErrCodeFetchFailed},
		{"coded fetch error", fetch.StaticFetcher{}, DiagnoseRequest{Birthdate: "1991-09-16", Birthtime: "13:50"}, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := testRunner(t, tt.fetcher)
			_, err := r.Diagnose(context.Background(), tt.req)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCompatibility(t *testing.T) {
	f := fetch.StaticFetcher{
		fetch.StaticKey("1991-09-16", "13:50"): {1, 2, 6, 59},
		fetch.StaticKey("1993-04-01", "08:05"): {8, 5, 59},
	}
	r, _ := testRunner(t, f)

	resp, err := r.Compatibility(context.Background(), CompatibilityRequest{
		Person1Name:      "A",
		Person1Birthdate: "1991-09-16",
		Person1Birthtime: "13:50",
		Person2Birthdate: "1993-04-01",
		Person2Birthtime: "08:05",
	})
	if err != nil {
		t.Fatalf("Compatibility: %v", err)
	}

	if !strings.HasPrefix(resp.ImageURL, "/output/compatibility_20240102_030405_") {
		t.Errorf("ImageURL = %q", resp.ImageURL)
	}
	moveNos := func(ms []MoveView) []int {
		out := []int{}
		for _, m := range ms {
			out = append(out, m.MoveNo)
		}
		return out
	}
	if diff := cmp.Diff([]int{1}, moveNos(resp.JointHissatsus)); diff != "" {
		t.Errorf("joint mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{6}, moveNos(resp.Person1SynergyHissatsus)); diff != "" {
		t.Errorf("person1 synergy mismatch (-want +got):\n%s", diff)
	}
	if got := moveNos(resp.BothHaveHissatsus); len(got) != 0 {
		t.Errorf("both have = %v, want empty", got)
	}

	p1 := resp.Person1
	if p1.Name != "A" || p1.Birthdate != "1991-09-16" {
		t.Errorf("person1 = %+v", p1)
	}
	if diff := cmp.Diff([]int{1}, p1.Joint); diff != "" {
		t.Errorf("person1 joint numbers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{6, 59}, p1.Person1Synergy); diff != "" {
		t.Errorf("person1 synergy numbers mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{6}, moveNos(p1.SoloHissatsus)); diff != "" {
		t.Errorf("person1 solo hissatsus mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{8}, resp.Person2.Joint); diff != "" {
		t.Errorf("person2 joint numbers mismatch (-want +got):\n%s", diff)
	}
	if len(resp.Person2.Items) != 3 {
		t.Errorf("person2 items = %d, want 3", len(resp.Person2.Items))
	}

	// Union {1,2,5,6,8,59}: 赤 1,8; 桃 6,59; 緑 2; 黄 5.
	var totals []int
	for _, s := range resp.ColorCounts.ColorSystems {
		totals = append(totals, s.TotalCount)
	}
	if diff := cmp.Diff([]int{4, 1, 1}, totals); diff != "" {
		t.Errorf("color system totals mismatch (-want +got):\n%s", diff)
	}

	data, err := json.Marshal(resp.Person1)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"joint_numbers"`, `"both_have_numbers"`, `"person1_synergy_numbers"`, `"person2_synergy_numbers"`, `"solo_hissatsu_numbers"`, `"solo_hissatsus"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("person json missing %s", key)
		}
	}
}

func TestCompatibilityValidation(t *testing.T) {
	r, _ := testRunner(t, fetch.StaticFetcher{})
	_, err := r.Compatibility(context.Background(), CompatibilityRequest{
		Person1Birthdate: "1991-09-16",
		Person1Birthtime: "13:50",
		Person2Birthdate: "1993-13-01",
		Person2Birthtime: "08:05",
	})
	if !errors.Is(err, errors.ErrCodeInvalidDate) {
		t.Fatalf("err = %v, want INVALID_DATE", err)
	}
	if !strings.HasPrefix(errors.UserMessage(err), "person2: ") {
		t.Errorf("message = %q, want person2 prefix", errors.UserMessage(err))
	}
}

func TestCompatibilityFetchFailure(t *testing.T) {
	f := fetch.StaticFetcher{fetch.StaticKey("1991-09-16", "13:50"): {1}}
	r, _ := testRunner(t, f)
	_, err := r.Compatibility(context.Background(), CompatibilityRequest{
		Person1Birthdate: "1991-09-16",
		Person1Birthtime: "13:50",
		Person2Birthdate: "1993-04-01",
		Person2Birthtime: "08:05",
	})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND from the missing static entry", err)
	}
}
