package fsd

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/fsdgo/fsd/internal/types"
	"github.com/fsdgo/fsd/model"
)

// ErrNoSources is returned when ParseAll is called without a source.
var ErrNoSources = errors.New("no definition sources provided")

// Result is the outcome of parsing one definition of a Source.
type Result struct {
	Input   NamedText
	Service *model.ServiceInfo
	Errors  []*model.Error
}

// OK reports whether the definition is valid.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// ParseAll parses every definition of src in parallel. Results are in
// the order the source lists them. An error is returned only when a
// file cannot be listed or read, or ctx is done; invalid definitions are
// reported in their Result.
func ParseAll(ctx context.Context, src Source, opts ...ParseOption) ([]Result, error) {
	if src == nil {
		return nil, ErrNoSources
	}
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := types.Logger{L: cfg.logger}

	files, err := src.ListFiles()
	if err != nil {
		return nil, err
	}
	logger.Log(slog.LevelInfo, "parallel parsing", slog.Int("files", len(files)))

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			input, err := src.Read(path)
			if err != nil {
				return err
			}
			svc, errs := TryParse(input, opts...)
			results[i] = Result{Input: input, Service: svc, Errors: errs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Log(slog.LevelInfo, "parallel parsing complete", slog.Int("files", len(files)))
	return results, nil
}
