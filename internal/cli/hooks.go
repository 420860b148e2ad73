package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mydungeon/pkg/errors"
	"github.com/matzehuels/mydungeon/pkg/observability"
)

// spinnerHooks narrates pipeline stages on a spinner.
type spinnerHooks struct {
	observability.NoopPipelineHooks
	spin *Spinner
}

func (h spinnerHooks) OnFetchStart(_ context.Context, who string) {
	h.spin.Update("Fetching numbers for " + who)
}

func (h spinnerHooks) OnRenderStart(_ context.Context, kind string, tiles int) {
	h.spin.Update(fmt.Sprintf("Rendering %s image (%d tiles)", kind, tiles))
}

func (h spinnerHooks) OnRenderComplete(_ context.Context, kind string, bytes int, _ time.Duration, err error) {
	if err == nil {
		h.spin.Update(fmt.Sprintf("Saving %s image (%d KiB)", kind, bytes/1024))
	}
}

// logCacheHooks reports cache traffic at debug level.
type logCacheHooks struct {
	logger *log.Logger
}

func (h logCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// withSpinner runs fn under a spinner that follows the pipeline hooks. fn
// returns the success line to print; an empty line prints nothing, which
// keeps stdout clean for --json.
func withSpinner(ctx context.Context, message string, fn func() (string, error)) error {
	spin := newSpinnerWithContext(ctx, message)
	observability.SetPipelineHooks(spinnerHooks{spin: spin})
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})

	spin.Start()
	done, err := fn()
	switch {
	case err != nil && spin.Cancelled():
		spin.Stop()
		return context.Cause(ctx)
	case err != nil:
		spin.StopWithError(errors.UserMessage(err))
		return err
	}
	if done == "" {
		spin.Stop()
		return nil
	}
	spin.StopWithSuccess(done)
	return nil
}
