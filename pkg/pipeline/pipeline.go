// Package pipeline runs a diagnosis end to end.
//
// A [Runner] fetches the number sequence for a birth date and time, looks
// the numbers up in the catalog, detects and classifies moves, lays out
// and renders the result image, stores it, and assembles the response
// served by the HTTP API and printed by the CLI.
//
// # Stages
//
//  1. Fetch: one sequence per person; two run concurrently in
//     compatibility mode
//  2. Resolve: items by number, solo moves per person
//  3. Classify (compatibility only): categories and number coloring
//  4. Render: layout, composite, encode PNG
//  5. Store: save under a unique artifact name
//
// # Usage
//
//	runner := pipeline.NewRunner(cat, fetcher, renderer, store, logger)
//	resp, err := runner.Diagnose(ctx, pipeline.DiagnoseRequest{
//	    Birthdate: "1991-09-16",
//	    Birthtime: "13:50",
//	})
package pipeline

import (
	"time"

	"github.com/matzehuels/mydungeon/pkg/catalog"
	"github.com/matzehuels/mydungeon/pkg/classify"
	"github.com/matzehuels/mydungeon/pkg/errors"
)

// OutputRoute is the URL prefix stored artifacts are served under.
const OutputRoute = "/output/"

// =============================================================================
// Requests
// =============================================================================

// DiagnoseRequest asks for a single-person result.
type DiagnoseRequest struct {
	Birthdate string `json:"birthdate"`
	Birthtime string `json:"birthtime"`
	Name      string `json:"name,omitempty"`
}

// Validate checks the birth fields and the optional name.
func (r DiagnoseRequest) Validate() error {
	if err := errors.ValidateBirth(r.Birthdate, r.Birthtime); err != nil {
		return err
	}
	return errors.ValidateName(r.Name)
}

// CompatibilityRequest asks for a two-person result.
type CompatibilityRequest struct {
	Person1Name      string `json:"person1_name,omitempty"`
	Person1Birthdate string `json:"person1_birthdate"`
	Person1Birthtime string `json:"person1_birthtime"`
	Person2Name      string `json:"person2_name,omitempty"`
	Person2Birthdate string `json:"person2_birthdate"`
	Person2Birthtime string `json:"person2_birthtime"`
}

// Validate checks both persons. Errors name the offending person.
func (r CompatibilityRequest) Validate() error {
	people := []struct {
		label             string
		date, clock, name string
	}{
		{"person1", r.Person1Birthdate, r.Person1Birthtime, r.Person1Name},
		{"person2", r.Person2Birthdate, r.Person2Birthtime, r.Person2Name},
	}
	for _, p := range people {
		err := DiagnoseRequest{Birthdate: p.date, Birthtime: p.clock, Name: p.name}.Validate()
		if err != nil {
			return errors.New(errors.GetCode(err), "%s: %s", p.label, errors.UserMessage(err))
		}
	}
	return nil
}

// =============================================================================
// Responses
// =============================================================================

// ItemView is an item row annotated with its image URL.
type ItemView struct {
	catalog.Item
	ImageURL string `json:"image_url"`
}

// MoveView is a move row annotated with its image URL.
type MoveView struct {
	catalog.Move
	ImageURL string `json:"image_url"`
}

// Stats records stage timings. It is not serialized.
type Stats struct {
	FetchTime  time.Duration
	RenderTime time.Duration
	StoreTime  time.Duration
}

// DiagnoseResponse is the single-person result.
type DiagnoseResponse struct {
	ImageURL        string              `json:"image_url"`
	ImagePath       string              `json:"image_path"`
	Name            string              `json:"name"`
	Birthdate       string              `json:"birthdate"`
	Birthtime       string              `json:"birthtime"`
	Numbers         []int               `json:"numbers"`
	HissatsuNumbers []int               `json:"hissatsu_numbers"`
	HissatsuPairs   map[int][2]int      `json:"hissatsu_pairs"`
	ItemCount       int                 `json:"item_count"`
	HissatsuCount   int                 `json:"hissatsu_count"`
	ColorCounts     catalog.ColorCounts `json:"color_counts"`
	Actions         []catalog.Action    `json:"actions"`
	Items           []ItemView          `json:"items"`
	Hissatsus       []MoveView          `json:"hissatsus"`

	Stats Stats `json:"-"`
}

// PersonResult is one side of a compatibility result. The embedded
// Coloring contributes the five number buckets.
type PersonResult struct {
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"`
	Birthtime string `json:"birthtime"`
	Numbers   []int  `json:"numbers"`
	classify.Coloring
	Items         []ItemView `json:"items"`
	SoloHissatsus []MoveView `json:"solo_hissatsus"`
}

// CompatibilityResponse is the two-person result. Color counts cover the
// union of both persons' numbers.
type CompatibilityResponse struct {
	ImageURL                string              `json:"image_url"`
	ImagePath               string              `json:"image_path"`
	Person1                 PersonResult        `json:"person1"`
	Person2                 PersonResult        `json:"person2"`
	JointHissatsus          []MoveView          `json:"joint_hissatsus"`
	BothHaveHissatsus       []MoveView          `json:"both_have_hissatsus"`
	Person1SynergyHissatsus []MoveView          `json:"person1_synergy_hissatsus"`
	Person2SynergyHissatsus []MoveView          `json:"person2_synergy_hissatsus"`
	ColorCounts             catalog.ColorCounts `json:"color_counts"`
	Actions                 []catalog.Action    `json:"actions"`

	Stats Stats `json:"-"`
}

func itemViews(items []catalog.Item) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		out = append(out, ItemView{Item: it, ImageURL: catalog.ImageURL(it.ImagePath)})
	}
	return out
}

func moveViews(moves []catalog.Move) []MoveView {
	out := make([]MoveView, 0, len(moves))
	for _, m := range moves {
		out = append(out, MoveView{Move: m, ImageURL: catalog.ImageURL(m.ImagePath)})
	}
	return out
}
