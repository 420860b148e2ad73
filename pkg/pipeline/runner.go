package pipeline

import (
	"context"
	"image"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mydungeon/pkg/catalog"
	"github.com/matzehuels/mydungeon/pkg/classify"
	"github.com/matzehuels/mydungeon/pkg/errors"
	"github.com/matzehuels/mydungeon/pkg/fetch"
	"github.com/matzehuels/mydungeon/pkg/layout"
	"github.com/matzehuels/mydungeon/pkg/observability"
	"github.com/matzehuels/mydungeon/pkg/render"
	"github.com/matzehuels/mydungeon/pkg/storage"
)

// Runner executes diagnoses. It holds no per-request state, so one Runner
// serves concurrent requests.
type Runner struct {
	Catalog    *catalog.Catalog
	Classifier *classify.Classifier
	Fetcher    fetch.Fetcher
	Renderer   *render.Renderer
	Store      storage.Store
	Layout     *layout.Engine
	Single     layout.SingleGeometry
	Compat     layout.CompatGeometry
	Logger     *log.Logger

	// Now stamps artifact names. Defaults to time.Now.
	Now func() time.Time
}

// NewRunner wires a Runner with default geometry. A nil logger uses
// log.Default().
func NewRunner(cat *catalog.Catalog, f fetch.Fetcher, r *render.Renderer, s storage.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Catalog:    cat,
		Classifier: classify.New(cat, logger),
		Fetcher:    f,
		Renderer:   r,
		Store:      s,
		Layout:     layout.New(logger),
		Single:     layout.DefaultSingle(),
		Compat:     layout.DefaultCompat(),
		Logger:     logger,
		Now:        time.Now,
	}
}

// Diagnose produces the single-person result.
func (r *Runner) Diagnose(ctx context.Context, req DiagnoseRequest) (*DiagnoseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r.Logger.Info("diagnosing", "birthdate", req.Birthdate, "birthtime", req.Birthtime)

	var stats Stats
	start := time.Now()
	numbers, err := r.fetch(ctx, "person1", req.Birthdate, req.Birthtime)
	if err != nil {
		return nil, err
	}
	stats.FetchTime = time.Since(start)
	r.Logger.Info("fetched numbers", "count", len(numbers), "duration", stats.FetchTime)

	items := r.Catalog.ItemsByNumbers(numbers)
	moves := r.Classifier.DetectMoves(numbers)
	pairs := r.Classifier.ActivationPairs(numbers)
	r.Logger.Debug("resolved", "items", len(items), "hissatsus", len(moves))

	start = time.Now()
	l := r.Layout.Single(items, moves, r.Single)
	header := render.Header{Name: req.Name, Birthdate: req.Birthdate, Birthtime: req.Birthtime}
	data, err := r.paint(ctx, "single", len(l.Blocks()), func() (image.Image, error) {
		return r.Renderer.RenderSingle(l, header)
	})
	if err != nil {
		return nil, err
	}
	stats.RenderTime = time.Since(start)

	start = time.Now()
	name, path, err := r.save(ctx, storage.PrefixSingle, data)
	if err != nil {
		return nil, err
	}
	stats.StoreTime = time.Since(start)

	return &DiagnoseResponse{
		ImageURL:        OutputRoute + name,
		ImagePath:       path,
		Name:            req.Name,
		Birthdate:       req.Birthdate,
		Birthtime:       req.Birthtime,
		Numbers:         numbers,
		HissatsuNumbers: classify.ActivatedNumbers(pairs),
		HissatsuPairs:   pairs,
		ItemCount:       len(items),
		HissatsuCount:   len(moves),
		ColorCounts:     r.Catalog.ColorCounts(items),
		Actions:         r.Catalog.Actions(),
		Items:           itemViews(items),
		Hissatsus:       moveViews(moves),
		Stats:           stats,
	}, nil
}

// Compatibility produces the two-person result. Both sequences are fetched
// concurrently; the first failure cancels the other fetch.
func (r *Runner) Compatibility(ctx context.Context, req CompatibilityRequest) (*CompatibilityResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r.Logger.Info("diagnosing compatibility",
		"person1", req.Person1Birthdate+" "+req.Person1Birthtime,
		"person2", req.Person2Birthdate+" "+req.Person2Birthtime)

	var stats Stats
	start := time.Now()
	var nums1, nums2 []int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nums1, err = r.fetch(gctx, "person1", req.Person1Birthdate, req.Person1Birthtime)
		return err
	})
	g.Go(func() error {
		var err error
		nums2, err = r.fetch(gctx, "person2", req.Person2Birthdate, req.Person2Birthtime)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.FetchTime = time.Since(start)
	r.Logger.Info("fetched numbers", "person1", len(nums1), "person2", len(nums2), "duration", stats.FetchTime)

	cats := r.Classifier.Categorize(nums1, nums2)
	color1, color2 := r.Classifier.ColorNumbers(nums1, nums2, cats)

	start = time.Now()
	l := r.Layout.Compat(cats.Rows(), r.Compat)
	header := render.CompatHeader{
		Person1: render.Header{Name: req.Person1Name, Birthdate: req.Person1Birthdate, Birthtime: req.Person1Birthtime},
		Person2: render.Header{Name: req.Person2Name, Birthdate: req.Person2Birthdate, Birthtime: req.Person2Birthtime},
	}
	data, err := r.paint(ctx, "compatibility", len(l.Blocks()), func() (image.Image, error) {
		return r.Renderer.RenderCompat(l, header)
	})
	if err != nil {
		return nil, err
	}
	stats.RenderTime = time.Since(start)

	start = time.Now()
	name, path, err := r.save(ctx, storage.PrefixCompat, data)
	if err != nil {
		return nil, err
	}
	stats.StoreTime = time.Since(start)

	union := slices.Concat(nums1, nums2)
	slices.Sort(union)
	union = slices.Compact(union)

	return &CompatibilityResponse{
		ImageURL:                OutputRoute + name,
		ImagePath:               path,
		Person1:                 r.person(req.Person1Name, req.Person1Birthdate, req.Person1Birthtime, nums1, color1),
		Person2:                 r.person(req.Person2Name, req.Person2Birthdate, req.Person2Birthtime, nums2, color2),
		JointHissatsus:          moveViews(cats.Joint),
		BothHaveHissatsus:       moveViews(cats.BothHave),
		Person1SynergyHissatsus: moveViews(cats.Person1Synergy),
		Person2SynergyHissatsus: moveViews(cats.Person2Synergy),
		ColorCounts:             r.Catalog.ColorCounts(r.Catalog.ItemsByNumbers(union)),
		Actions:                 r.Catalog.Actions(),
		Stats:                   stats,
	}, nil
}

func (r *Runner) person(name, date, clock string, numbers []int, c classify.Coloring) PersonResult {
	return PersonResult{
		Name:          name,
		Birthdate:     date,
		Birthtime:     clock,
		Numbers:       numbers,
		Coloring:      c,
		Items:         itemViews(r.Catalog.ItemsByNumbers(numbers)),
		SoloHissatsus: moveViews(r.Classifier.DetectMoves(numbers)),
	}
}

// fetch wraps the fetcher with hooks. Uncoded errors become FETCH_FAILED;
// an empty sequence is passed on, not treated as a failure.
func (r *Runner) fetch(ctx context.Context, who, date, clock string) ([]int, error) {
	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, who)
	start := time.Now()
	numbers, err := r.Fetcher.FetchNumbers(ctx, date, clock)
	hooks.OnFetchComplete(ctx, who, len(numbers), time.Since(start), err)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch numbers for %s", who)
		}
		r.Logger.Error("fetch failed", "who", who, "err", err)
		return nil, err
	}
	if numbers == nil {
		numbers = []int{}
	}
	if len(numbers) == 0 {
		r.Logger.Warn("no numbers fetched", "who", who, "birthdate", date, "birthtime", clock)
	}
	return numbers, nil
}

// paint runs draw and encodes the result as PNG, reporting the
// render hooks around both.
func (r *Runner) paint(ctx context.Context, kind string, tiles int, draw func() (image.Image, error)) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, kind, tiles)
	start := time.Now()
	var data []byte
	img, err := draw()
	if err == nil {
		data, err = render.EncodePNG(img)
	}
	hooks.OnRenderComplete(ctx, kind, len(data), time.Since(start), err)
	if err != nil {
		r.Logger.Error("render failed", "kind", kind, "err", err)
		return nil, err
	}
	r.Logger.Debug("rendered", "kind", kind, "tiles", tiles, "bytes", len(data))
	return data, nil
}

func (r *Runner) save(ctx context.Context, prefix string, data []byte) (name, path string, err error) {
	name = storage.ArtifactName(prefix, r.now())
	path, err = r.Store.Save(ctx, name, data)
	observability.Pipeline().OnStore(ctx, name, len(data), err)
	if err != nil {
		r.Logger.Error("store failed", "name", name, "err", err)
		return "", "", err
	}
	r.Logger.Info("stored result", "name", name, "path", path)
	return name, path, nil
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
