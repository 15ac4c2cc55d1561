// Package engine wires the pipeline end to end: plan the schema, allocate
// join keys, generate rows, resolve names and provision the environment.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/demoforgehq/demoforge/internal/allocator"
	"github.com/demoforgehq/demoforge/internal/datagen"
	"github.com/demoforgehq/demoforge/internal/naming"
	"github.com/demoforgehq/demoforge/internal/provision"
	"github.com/demoforgehq/demoforge/internal/spec"
	"github.com/demoforgehq/demoforge/pkg/logger"
)

// DefaultRecordsPerTable is the row count applied to tables that do not
// set their own.
const DefaultRecordsPerTable = 500

// Options tunes one engine run.
type Options struct {
	Organization       string
	OverlapRatio       float64
	RecordsPerTable    int
	EnableSemanticView bool
	EnableSearchIndex  bool
	EnableAgent        bool
	LanguageCode       string

	// RunID identifies the run in resource tags and history; a fresh
	// UUID is assigned when empty.
	RunID string

	// Seed fixes the generator's randomness when non-zero.
	Seed int64
}

// RunStatus summarizes the outcome of a run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunPartial   RunStatus = "partial"
	RunFailed    RunStatus = "failed"
)

// StageFlags records which optional stages a run had enabled.
type StageFlags struct {
	SemanticView bool `json:"semantic_view"`
	SearchIndex  bool `json:"search_index"`
	Agent        bool `json:"agent"`
}

// RunRecord is the durable account of one run.
type RunRecord struct {
	RunID        string               `json:"run_id"`
	Organization string               `json:"organization"`
	Title        string               `json:"title"`
	Industry     string               `json:"industry,omitempty"`
	Names        naming.NameSet       `json:"names"`
	Enabled      StageFlags           `json:"enabled_stages"`
	OverlapRatio float64              `json:"overlap_ratio"`
	RelaxedPools []string             `json:"relaxed_pools,omitempty"`
	TableCount   int                  `json:"table_count"`
	RowCount     int                  `json:"row_count"`
	Resources    []provision.Resource `json:"resources"`
	Status       RunStatus            `json:"status"`
	StartedAt    time.Time            `json:"started_at"`
	FinishedAt   time.Time            `json:"finished_at"`
}

// HistorySink records finished runs. Recording is best effort; a sink
// failure never fails the run it records.
type HistorySink interface {
	Record(ctx context.Context, record RunRecord) error
}

// Engine executes runs against a provisioning platform.
type Engine struct {
	platform provision.Platform
	sink     HistorySink
	log      *logger.Logger
	now      func() time.Time
}

// New returns an Engine. sink may be nil when run history is not wanted.
func New(platform provision.Platform, sink HistorySink, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.New("engine")
	}
	return &Engine{platform: platform, sink: sink, log: log, now: time.Now}
}

// Run executes the full pipeline for one demo specification. Validation,
// allocation and generation failures abort before any platform call; once
// provisioning starts the run always produces a RunRecord, even when
// stages fail.
func (e *Engine) Run(ctx context.Context, demo spec.DemoSpec, opts Options) (*RunRecord, error) {
	if opts.Organization == "" {
		return nil, fmt.Errorf("organization is required")
	}
	if opts.OverlapRatio == 0 {
		opts.OverlapRatio = allocator.DefaultOverlapRatio
	}
	if opts.RecordsPerTable == 0 {
		opts.RecordsPerTable = DefaultRecordsPerTable
	}
	if opts.RunID == "" {
		opts.RunID = uuid.New().String()
	}

	started := e.now()

	schema, err := spec.Plan(demo, opts.RecordsPerTable)
	if err != nil {
		return nil, fmt.Errorf("planning schema: %w", err)
	}
	e.log.Infof("planned %d tables, %d relationships", len(schema.Tables), len(schema.Relationships))

	pools, err := allocator.Allocate(schema, opts.OverlapRatio)
	if err != nil {
		return nil, fmt.Errorf("allocating join keys: %w", err)
	}
	relaxed := relaxedPools(pools)
	for _, name := range relaxed {
		e.log.Warnf("join key pool %s relaxed: dimension too small for overlap ratio %.2f", name, opts.OverlapRatio)
	}

	gen := datagen.New(datagen.Options{Organization: opts.Organization, LanguageCode: opts.LanguageCode})
	if opts.Seed != 0 {
		gen = datagen.NewSeeded(datagen.Options{Organization: opts.Organization, LanguageCode: opts.LanguageCode}, opts.Seed)
	}
	generated, err := gen.Generate(schema, pools)
	if err != nil {
		return nil, fmt.Errorf("generating data: %w", err)
	}
	tables := orderTables(schema, generated)

	names := naming.ResolveNames(opts.Organization, started)
	e.log.Infof("provisioning schema %s", names.Schema)

	resources := provision.New(e.platform, e.log.Named("provision")).Provision(ctx, provision.Request{
		Names:              names,
		Schema:             schema,
		Tables:             tables,
		EnableSemanticView: opts.EnableSemanticView,
		EnableSearchIndex:  opts.EnableSearchIndex,
		EnableAgent:        opts.EnableAgent,
		LanguageCode:       opts.LanguageCode,
	})

	record := &RunRecord{
		RunID:        opts.RunID,
		Organization: opts.Organization,
		Title:        demo.Title,
		Industry:     demo.Industry,
		Names:        names,
		Enabled: StageFlags{
			SemanticView: opts.EnableSemanticView,
			SearchIndex:  opts.EnableSearchIndex,
			Agent:        opts.EnableAgent,
		},
		OverlapRatio: opts.OverlapRatio,
		RelaxedPools: relaxed,
		TableCount:   len(tables),
		RowCount:     totalRows(tables),
		Resources:    resources,
		Status:       statusOf(resources),
		StartedAt:    started,
		FinishedAt:   e.now(),
	}

	if e.sink != nil {
		if err := e.sink.Record(ctx, *record); err != nil {
			e.log.Warnf("recording run history: %v", err)
		}
	}

	return record, nil
}

// orderTables flattens the generated map into provisioning order:
// dimensions first, then facts, then the chunk table.
func orderTables(schema *spec.CanonicalSchema, generated map[string]datagen.GeneratedTable) []datagen.GeneratedTable {
	var out []datagen.GeneratedTable
	appendKind := func(kind spec.TableKind) {
		for _, t := range schema.Tables {
			if t.Kind != kind {
				continue
			}
			name := t.Name
			if kind == spec.KindUnstructured {
				name = datagen.ChunkTableName(t.Name)
			}
			if gt, ok := generated[name]; ok {
				out = append(out, gt)
			}
		}
	}
	appendKind(spec.KindDimension)
	appendKind(spec.KindFact)
	appendKind(spec.KindUnstructured)
	return out
}

func relaxedPools(pools map[allocator.RelKey]*allocator.JoinKeyPool) []string {
	var out []string
	for key, pool := range pools {
		if pool.Relaxed {
			out = append(out, fmt.Sprintf("%s->%s", key.FactTable, key.DimTable))
		}
	}
	sort.Strings(out)
	return out
}

func totalRows(tables []datagen.GeneratedTable) int {
	total := 0
	for _, t := range tables {
		total += len(t.Rows)
	}
	return total
}

func statusOf(resources []provision.Resource) RunStatus {
	failed := 0
	for _, r := range resources {
		switch r.Status {
		case provision.StatusFailed:
			if r.Kind == provision.ResourceSchema || r.Kind == provision.ResourceTable {
				return RunFailed
			}
			failed++
		}
	}
	if failed > 0 {
		return RunPartial
	}
	return RunSucceeded
}
