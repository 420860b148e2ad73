package fetch

import (
	"context"
	"strconv"
	"strings"

	"github.com/matzehuels/mydungeon/pkg/errors"
)

// Fetcher returns the number sequence for a birth date (YYYY-MM-DD) and
// time (HH:MM).
type Fetcher interface {
	FetchNumbers(ctx context.Context, birthdate, birthtime string) ([]int, error)
}

// Func adapts a function to Fetcher.
type Func func(ctx context.Context, birthdate, birthtime string) ([]int, error)

func (f Func) FetchNumbers(ctx context.Context, birthdate, birthtime string) ([]int, error) {
	return f(ctx, birthdate, birthtime)
}

// Birth is a parsed birth date and time.
type Birth struct {
	Year, Month, Day int
	Hour, Minute     int
}

// ParseBirth validates and splits a birth date and time.
func ParseBirth(birthdate, birthtime string) (Birth, error) {
	if err := errors.ValidateBirth(birthdate, birthtime); err != nil {
		return Birth{}, err
	}
	d := strings.Split(birthdate, "-")
	t := strings.Split(birthtime, ":")
	var b Birth
	for _, f := range []struct {
		dst *int
		src string
	}{
		{&b.Year, d[0]}, {&b.Month, d[1]}, {&b.Day, d[2]},
		{&b.Hour, t[0]}, {&b.Minute, t[1]},
	} {
		n, err := strconv.Atoi(f.src)
		if err != nil {
			return Birth{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %q", f.src)
		}
		*f.dst = n
	}
	return b, nil
}

// DateFields returns year, month and day as form values without leading
// zeros.
func (b Birth) DateFields() [3]string {
	return [3]string{strconv.Itoa(b.Year), strconv.Itoa(b.Month), strconv.Itoa(b.Day)}
}

// TimeFields returns hour and minute as form values without leading zeros.
func (b Birth) TimeFields() [2]string {
	return [2]string{strconv.Itoa(b.Hour), strconv.Itoa(b.Minute)}
}

// Parts returns all five components, used to drop echoed input from page
// text.
func (b Birth) Parts() []int {
	return []int{b.Year, b.Month, b.Day, b.Hour, b.Minute}
}

// StaticFetcher answers from a fixed table keyed by "YYYY-MM-DD HH:MM".
type StaticFetcher map[string][]int

// StaticKey returns the StaticFetcher key for a birth date and time.
func StaticKey(birthdate, birthtime string) string { return birthdate + " " + birthtime }

// FetchNumbers returns a copy of the stored numbers, or a NOT_FOUND error.
func (s StaticFetcher) FetchNumbers(_ context.Context, birthdate, birthtime string) ([]int, error) {
	if err := errors.ValidateBirth(birthdate, birthtime); err != nil {
		return nil, err
	}
	nums, ok := s[StaticKey(birthdate, birthtime)]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no numbers stored for %s %s", birthdate, birthtime)
	}
	return append([]int{}, nums...), nil
}
