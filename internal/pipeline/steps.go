package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/scanbrief/scanbrief/internal/canonical"
	"github.com/scanbrief/scanbrief/internal/ingest"
	"github.com/scanbrief/scanbrief/internal/model"
	"github.com/scanbrief/scanbrief/internal/stats"
	"github.com/scanbrief/scanbrief/internal/view"
)

// LoadStep reads the export file named by the report's SourceFile and
// fills in the raw record sequence, the column capabilities, and the
// first two diagnostic counts.
//
// Design decision: Loading is a step rather than a precondition of the
// pipeline because encoding fallback and noise filtering are part of the
// run; their outcome belongs in the report like every other step's.
type LoadStep struct {
	// loader performs decoding and structural filtering.
	loader *ingest.Loader

	// extraDenylist holds site-specific titles added before the loader
	// is constructed.
	extraDenylist []string

	// logger for structured logging.
	logger *slog.Logger
}

// LoadStepOption configures a LoadStep.
type LoadStepOption func(*LoadStep)

// WithLoadLogger sets a custom logger for the load step.
// The same logger is passed through to the underlying loader.
func WithLoadLogger(logger *slog.Logger) LoadStepOption {
	return func(s *LoadStep) {
		s.logger = logger
	}
}

// WithLoadDenylist adds site-specific informational titles to the
// loader's built-in denylist.
func WithLoadDenylist(titles ...string) LoadStepOption {
	return func(s *LoadStep) {
		s.extraDenylist = append(s.extraDenylist, titles...)
	}
}

// NewLoadStep creates a new load step.
func NewLoadStep(opts ...LoadStepOption) *LoadStep {
	s := &LoadStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	loaderOpts := []ingest.Option{ingest.WithLogger(s.logger)}
	if len(s.extraDenylist) > 0 {
		loaderOpts = append(loaderOpts, ingest.WithExtraDenylist(s.extraDenylist...))
	}
	s.loader = ingest.NewLoader(loaderOpts...)

	return s
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(ctx context.Context, report *model.ScanReport) error {
	f, err := os.Open(report.SourceFile)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	result, err := s.loader.Load(f)
	if err != nil {
		return err
	}

	report.Records = result.Records
	report.Capabilities = result.Capabilities
	report.Diagnostics.TotalRecords = result.TotalRecords
	report.Diagnostics.AfterNoiseFilter = result.AfterNoiseFilter

	return nil
}

// CanonicalizeStep maps the raw record sequence to the canonical finding
// set, clearing the raw records afterwards.
type CanonicalizeStep struct {
	// canonicalizer performs field cleaning and severity filtering.
	canonicalizer *canonical.Canonicalizer
}

// NewCanonicalizeStep creates a new canonicalization step.
func NewCanonicalizeStep(opts ...canonical.Option) *CanonicalizeStep {
	return &CanonicalizeStep{
		canonicalizer: canonical.New(opts...),
	}
}

// Name returns the step name.
func (s *CanonicalizeStep) Name() string {
	return "canonicalize"
}

// Do executes the canonicalization step.
func (s *CanonicalizeStep) Do(ctx context.Context, report *model.ScanReport) error {
	result := s.canonicalizer.Canonicalize(report.Records, report.Capabilities)

	report.Findings = result.Findings
	report.Informational = result.Informational
	report.Diagnostics.Retained = result.Retained
	report.Diagnostics.Discarded = result.Discarded

	// Raw records duplicate the finding data; drop them once consumed.
	report.Records = nil

	return nil
}

// AggregateStep computes the summary statistics snapshot from the
// canonical finding set.
type AggregateStep struct{}

// NewAggregateStep creates a new aggregation step.
func NewAggregateStep() *AggregateStep {
	return &AggregateStep{}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do executes the aggregation step.
func (s *AggregateStep) Do(ctx context.Context, report *model.ScanReport) error {
	report.Stats = stats.Aggregate(report.Findings, report.Informational, report.Capabilities)
	return nil
}

// ViewStep assembles the executive summary, host summary, and detailed
// findings views onto the report.
type ViewStep struct{}

// NewViewStep creates a new view assembly step.
func NewViewStep() *ViewStep {
	return &ViewStep{}
}

// Name returns the step name.
func (s *ViewStep) Name() string {
	return "build_views"
}

// Do executes the view assembly step.
func (s *ViewStep) Do(ctx context.Context, report *model.ScanReport) error {
	if report.Stats == nil {
		return fmt.Errorf("view step requires aggregated statistics")
	}
	view.Build(report)
	return nil
}

// defaultPipelineConfig holds per-run settings that individual steps
// consume when the default pipeline is assembled.
type defaultPipelineConfig struct {
	// denylist holds site-specific informational titles dropped at load.
	denylist []string

	// descriptionLimit caps finding description length in characters.
	// Zero keeps the built-in default.
	descriptionLimit int
}

// DefaultPipelineOption configures the default pipeline's steps.
type DefaultPipelineOption func(*defaultPipelineConfig)

// WithPipelineDenylist adds site-specific informational titles to the
// load step's built-in denylist.
func WithPipelineDenylist(titles ...string) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.denylist = append(c.denylist, titles...)
	}
}

// WithPipelineDescriptionLimit caps finding descriptions at the given
// character count during canonicalization.
func WithPipelineDescriptionLimit(limit int) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.descriptionLimit = limit
	}
}

// DefaultPipeline creates a pipeline with all default steps configured.
// This is the standard pipeline for turning one export file into a
// complete report.
//
// Design decision: We provide a default pipeline because:
// 1. Most callers want the full load-to-views run
// 2. Reduces boilerplate in the CLI and the upload portal
// 3. Ensures consistent step ordering
func DefaultPipeline(logger *slog.Logger, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	var cfg defaultPipelineConfig
	for _, opt := range configOpts {
		opt(&cfg)
	}

	opts := append([]Option{WithLogger(logger)}, pipelineOpts...)
	p := New(opts...)

	loadOpts := []LoadStepOption{WithLoadLogger(logger)}
	if len(cfg.denylist) > 0 {
		loadOpts = append(loadOpts, WithLoadDenylist(cfg.denylist...))
	}

	canonicalOpts := []canonical.Option{canonical.WithLogger(logger)}
	if cfg.descriptionLimit > 0 {
		canonicalOpts = append(canonicalOpts, canonical.WithDescriptionLimit(cfg.descriptionLimit))
	}

	p.AddSteps(
		NewLoadStep(loadOpts...),
		NewCanonicalizeStep(canonicalOpts...),
		NewAggregateStep(),
		NewViewStep(),
	)

	return p
}
