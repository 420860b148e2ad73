package fetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/matzehuels/mydungeon/pkg/errors"
)

// DefaultTargetURL is the divination site the form lives on.
const DefaultTargetURL = "https://dungeon.humanjp.com/"

// Form selectors on the target page.
const (
	selDateFields = `fieldset[name="dateFields"]`
	selTimeFields = `fieldset[name="timeFields"]`
	selSubmit     = `button.button`
	selTable      = `table`
	selResult     = `#app section:not(#data-input)`
	selBody       = `body`
)

// RodConfig configures a RodFetcher.
type RodConfig struct {
	URL      string
	Headless bool
	// Bin is the browser executable. Empty lets rod find or download one.
	Bin string
	// Timeout bounds each navigation and element wait.
	Timeout time.Duration
	// StepDelay is paused after every select so dependent fields update.
	StepDelay time.Duration
	// SettleDelay is paused after submitting, before reading results.
	SettleDelay time.Duration
	// ProbeTimeout bounds the wait for each result container.
	ProbeTimeout time.Duration
	Timezone     string
	Locale       string
}

// DefaultRodConfig returns the settings the site is known to work with.
func DefaultRodConfig() RodConfig {
	return RodConfig{
		URL:          DefaultTargetURL,
		Headless:     true,
		Timeout:      30 * time.Second,
		StepDelay:    500 * time.Millisecond,
		SettleDelay:  3 * time.Second,
		ProbeTimeout: 5 * time.Second,
		Timezone:     "Asia/Tokyo",
		Locale:       "ja-JP",
	}
}

// RodFetcher scrapes numbers by filling the site's form in Chromium. Each
// call launches its own browser, so concurrent calls do not share state.
type RodFetcher struct {
	cfg    RodConfig
	logger *log.Logger
}

// NewRodFetcher returns a RodFetcher. Zero config fields take their
// defaults.
func NewRodFetcher(cfg RodConfig, logger *log.Logger) *RodFetcher {
	def := DefaultRodConfig()
	if cfg.URL == "" {
		cfg.URL = def.URL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.StepDelay < 0 {
		cfg.StepDelay = 0
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = def.SettleDelay
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = def.ProbeTimeout
	}
	if cfg.Timezone == "" {
		cfg.Timezone = def.Timezone
	}
	if cfg.Locale == "" {
		cfg.Locale = def.Locale
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RodFetcher{cfg: cfg, logger: logger}
}

// Source identifies the fetcher in cache keys.
func (f *RodFetcher) Source() string { return f.cfg.URL }

// FetchNumbers fills and submits the form, then extracts numbers from the
// first result container that yields any: the result table, the result
// section, and finally the whole page body with the birth components
// removed.
func (f *RodFetcher) FetchNumbers(ctx context.Context, birthdate, birthtime string) ([]int, error) {
	birth, err := ParseBirth(birthdate, birthtime)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l := launcher.New().Context(ctx).Headless(f.cfg.Headless)
	if f.cfg.Bin != "" {
		l = l.Bin(f.cfg.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "launch browser")
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "connect browser")
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "open page")
	}
	if err := (proto.EmulationSetTimezoneOverride{TimezoneID: f.cfg.Timezone}).Call(page); err != nil {
		f.logger.Warn("timezone override failed", "timezone", f.cfg.Timezone, "err", err)
	}
	if err := (proto.EmulationSetLocaleOverride{Locale: f.cfg.Locale}).Call(page); err != nil {
		f.logger.Warn("locale override failed", "locale", f.cfg.Locale, "err", err)
	}

	f.logger.Info("opening form", "url", f.cfg.URL)
	if err := page.Timeout(f.cfg.Timeout).Navigate(f.cfg.URL); err != nil {
		return nil, f.wrap(err, "navigate %s", f.cfg.URL)
	}
	if _, err := page.Timeout(f.cfg.Timeout).Element(selDateFields); err != nil {
		return nil, f.wrap(err, "wait for form")
	}

	date, clock := birth.DateFields(), birth.TimeFields()
	f.logger.Debug("selecting birth", "date", date, "time", clock)
	steps := []struct {
		selector, value string
	}{
		{selDateFields + " select:nth-of-type(1)", date[0]},
		{selDateFields + " select:nth-of-type(2)", date[1]},
		{selDateFields + " select:nth-of-type(3)", date[2]},
		{selTimeFields + " select:nth-of-type(1)", clock[0]},
		{selTimeFields + " select:nth-of-type(2)", clock[1]},
	}
	for _, s := range steps {
		if err := f.selectOption(page, s.selector, s.value); err != nil {
			return nil, err
		}
		if err := sleep(ctx, f.cfg.StepDelay); err != nil {
			return nil, f.wrap(err, "select %s", s.selector)
		}
	}

	btn, err := page.Timeout(f.cfg.Timeout).Element(selSubmit)
	if err != nil {
		return nil, f.wrap(err, "find submit button")
	}
	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, f.wrap(err, "submit form")
	}
	if err := sleep(ctx, f.cfg.SettleDelay); err != nil {
		return nil, f.wrap(err, "wait for results")
	}

	numbers := f.extract(page, birth)
	if len(numbers) == 0 {
		f.logger.Error("no numbers found on result page", "birthdate", birthdate, "birthtime", birthtime)
		return []int{}, nil
	}
	f.logger.Info("numbers extracted", "count", len(numbers))
	return numbers, nil
}

func (f *RodFetcher) selectOption(page *rod.Page, selector, value string) error {
	el, err := page.Timeout(f.cfg.Timeout).Element(selector)
	if err != nil {
		return f.wrap(err, "find %s", selector)
	}
	opt := fmt.Sprintf(`option[value="%s"]`, value)
	if err := el.Select([]string{opt}, true, rod.SelectorTypeCSSSector); err != nil {
		return f.wrap(err, "select %s in %s", value, selector)
	}
	return nil
}

// extract tries each result container in turn. Probe failures are
// expected when the site changes its markup and only move on to the next
// container.
func (f *RodFetcher) extract(page *rod.Page, birth Birth) []int {
	for _, sel := range []string{selTable, selResult} {
		text, err := f.text(page, sel, f.cfg.ProbeTimeout)
		if err != nil {
			f.logger.Warn("result container not found", "selector", sel, "err", err)
			continue
		}
		if nums := ExtractNumbers(text); len(nums) > 0 {
			f.logger.Debug("numbers found", "selector", sel)
			return nums
		}
	}

	text, err := f.text(page, selBody, f.cfg.ProbeTimeout)
	if err != nil {
		f.logger.Warn("page body unreadable", "err", err)
		return nil
	}
	return ExtractNumbers(text, birth.Parts()...)
}

func (f *RodFetcher) text(page *rod.Page, selector string, timeout time.Duration) (string, error) {
	el, err := page.Timeout(timeout).Element(selector)
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (f *RodFetcher) wrap(err error, format string, args ...any) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, format, args...)
	}
	return errors.Wrap(errors.ErrCodeFetchFailed, err, format, args...)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
