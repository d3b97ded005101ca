// Package fsd parses service definitions into a validated model.
//
// A service definition describes an RPC-style API: methods, data
// transfer objects, enumerations and error sets. Parse and TryParse turn
// one definition text into a *model.ServiceInfo, reporting every
// semantic problem found in a single pass.
//
// Example:
//
//	svc, err := fsd.Parse(fsd.NamedText{Name: "widget.fsd", Text: text},
//	    fsd.WithLogger(slog.Default()),
//	)
package fsd

import (
	"log/slog"

	"github.com/fsdgo/fsd/internal/lower"
	"github.com/fsdgo/fsd/internal/parser"
	"github.com/fsdgo/fsd/internal/remarks"
	"github.com/fsdgo/fsd/internal/types"
	"github.com/fsdgo/fsd/model"
)

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, members).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// NamedText is a definition text and the name positions refer to it by,
// usually a file name.
type NamedText struct {
	Name string
	Text string
}

// DocumentationMode selects how long-form documentation is laid out.
type DocumentationMode = remarks.Mode

const (
	// DocumentationAuto detects the layout from the text.
	DocumentationAuto = remarks.Auto
	// DocumentationTrailing expects "# Name" sections after the grammar.
	DocumentationTrailing = remarks.Trailing
	// DocumentationInterleaved expects grammar in ```fsd fences inside
	// Markdown prose.
	DocumentationInterleaved = remarks.Interleaved
)

// ParseOption configures Parse and TryParse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	logger *slog.Logger
	mode   DocumentationMode
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) { c.logger = logger }
}

// WithDocumentationMode overrides documentation layout detection.
func WithDocumentationMode(mode DocumentationMode) ParseOption {
	return func(c *parseConfig) { c.mode = mode }
}

// Parse parses a service definition. If the definition has any problem,
// it returns a *model.ServiceDefinitionError carrying all of them.
func Parse(input NamedText, opts ...ParseOption) (*model.ServiceInfo, error) {
	svc, errs := TryParse(input, opts...)
	if len(errs) != 0 {
		return nil, model.NewServiceDefinitionError(errs)
	}
	return svc, nil
}

// TryParse parses a service definition and returns every problem found.
// The definition is valid if and only if no errors are returned.
//
// If the text is not grammatical, the service is nil and the single
// error describes what was expected where parsing stopped. Otherwise the
// service is always returned, even when it has errors.
func TryParse(input NamedText, opts ...ParseOption) (*model.ServiceInfo, []*model.Error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := types.Logger{L: cfg.logger}
	source := model.NewSourceText(input.Name, input.Text)

	doc := remarks.Extract(input.Text, cfg.mode, types.Component(cfg.logger, "remarks"))
	tree, syntaxErr := parser.New(doc.Grammar, types.Component(cfg.logger, "parser")).ParseService()
	if syntaxErr != nil {
		err := model.NewError(syntaxErr.Message(), source.Position(syntaxErr.Offset))
		err.Cause = syntaxErr
		logger.Log(slog.LevelInfo, "syntax error", slog.String("source", input.Name), slog.String("error", err.Error()))
		return nil, []*model.Error{err}
	}

	svc := lower.Lower(source, tree, doc, types.Component(cfg.logger, "lower"))
	errs := model.Errors(svc)
	logger.Log(slog.LevelInfo, "parsed service definition",
		slog.String("source", input.Name),
		slog.String("service", svc.Name()),
		slog.Int("errors", len(errs)))
	return svc, errs
}
