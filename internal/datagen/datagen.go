// Package datagen materializes synthetic rows for a validated demo schema,
// consuming shared key pools for foreign-key columns so fact rows always
// join to dimension rows.
package datagen

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/demoforgehq/demoforge/internal/allocator"
	"github.com/demoforgehq/demoforge/internal/spec"
)

// Unstructured tables always materialize with this fixed chunk layout.
var chunkColumns = []string{
	"CHUNK_ID", "DOCUMENT_ID", "CHUNK_TEXT", "DOCUMENT_TYPE", "SOURCE_SYSTEM", "LANGUAGE",
}

// chunksPerDocument groups consecutive chunks under one document ID.
const chunksPerDocument = 5

// GeneratedTable is one fully materialized table, immutable once handed to
// the provisioner.
type GeneratedTable struct {
	Name    string
	Kind    spec.TableKind
	Columns []string
	Rows    []map[string]interface{}
}

// GenerationError reports a column the generator cannot materialize. It is
// fatal: generation aborts before any provisioning begins.
type GenerationError struct {
	Table  string
	Column string
	Reason string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: table %s, column %s: %s", e.Table, e.Column, e.Reason)
}

// Options carries run context the generators need for plausible values.
type Options struct {
	Organization string
	LanguageCode string
}

// Generator produces synthetic rows. It is not safe for concurrent use;
// each run owns its own Generator.
type Generator struct {
	rng  *rand.Rand
	opts Options
}

// New returns a Generator seeded from the clock.
func New(opts Options) *Generator {
	return NewSeeded(opts, time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(opts Options, seed int64) *Generator {
	if opts.LanguageCode == "" {
		opts.LanguageCode = "en"
	}
	return &Generator{rng: rand.New(rand.NewSource(seed)), opts: opts}
}

// Generate materializes every table in the schema. Dimension and
// unstructured tables are generated first so their primary keys exist
// before fact tables consume them; fact tables draw foreign-key values
// uniformly from the relevant pool's shared subset.
func (g *Generator) Generate(schema *spec.CanonicalSchema, pools map[allocator.RelKey]*allocator.JoinKeyPool) (map[string]GeneratedTable, error) {
	out := make(map[string]GeneratedTable, len(schema.Tables))

	for _, t := range schema.Tables {
		if t.Kind == spec.KindFact {
			continue
		}
		gt, err := g.generateTable(t, nil)
		if err != nil {
			return nil, err
		}
		out[gt.Name] = gt
	}

	for _, t := range schema.FactTables() {
		gt, err := g.generateTable(t, pools)
		if err != nil {
			return nil, err
		}
		out[t.Name] = gt
	}

	return out, nil
}

func (g *Generator) generateTable(t spec.Table, pools map[allocator.RelKey]*allocator.JoinKeyPool) (GeneratedTable, error) {
	if t.Kind == spec.KindUnstructured {
		return g.generateChunks(t), nil
	}

	gt := GeneratedTable{Name: t.Name, Kind: t.Kind}
	for _, c := range t.Columns {
		gt.Columns = append(gt.Columns, c.Name)
	}

	gt.Rows = make([]map[string]interface{}, t.RowCount)
	for i := 0; i < t.RowCount; i++ {
		row := make(map[string]interface{}, len(t.Columns))
		for _, c := range t.Columns {
			v, err := g.value(t, c, i, pools)
			if err != nil {
				return GeneratedTable{}, err
			}
			row[c.Name] = v
		}
		gt.Rows[i] = row
	}
	return gt, nil
}

func (g *Generator) value(t spec.Table, c spec.Column, rowIdx int, pools map[allocator.RelKey]*allocator.JoinKeyPool) (interface{}, error) {
	switch c.Type {
	case spec.TypeIdentifier:
		return int64(rowIdx + 1), nil

	case spec.TypeCategorical:
		if len(c.SampleValues) > 0 {
			return c.SampleValues[g.rng.Intn(len(c.SampleValues))], nil
		}
		return fmt.Sprintf("%s_%d", c.Name, rowIdx+1), nil

	case spec.TypeNumeric:
		return g.numeric(c), nil

	case spec.TypeTemporal:
		if isDateColumn(c.Name) {
			return g.recentDate(), nil
		}
		return g.recentTimestamp(), nil

	case spec.TypeFreeText:
		return g.sentence(), nil

	case spec.TypeReference:
		if c.References == nil {
			return nil, &GenerationError{Table: t.Name, Column: c.Name, Reason: "reference column has no target"}
		}
		pool := pools[allocator.RelKey{FactTable: t.Name, DimTable: c.References.Table}]
		if pool == nil || len(pool.Shared) == 0 {
			return nil, &GenerationError{
				Table: t.Name, Column: c.Name,
				Reason: fmt.Sprintf("no key pool allocated for dimension %s", c.References.Table),
			}
		}
		return pool.Shared[g.rng.Intn(len(pool.Shared))], nil

	default:
		return nil, &GenerationError{
			Table: t.Name, Column: c.Name,
			Reason: fmt.Sprintf("no generator defined for semantic type %q", c.Type),
		}
	}
}

// numeric samples around the mean of the column's domain hints with a wide
// spread, clamped at zero when every hint is non-negative. Without hints it
// falls back to a uniform 0..1000 range.
func (g *Generator) numeric(c spec.Column) interface{} {
	samples := make([]float64, 0, len(c.SampleValues))
	allInts := true
	allNonNegative := true
	for _, s := range c.SampleValues {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			continue
		}
		if f != math.Trunc(f) {
			allInts = false
		}
		if f < 0 {
			allNonNegative = false
		}
		samples = append(samples, f)
	}

	if len(samples) == 0 {
		return math.Round(g.rng.Float64()*1000*100) / 100
	}

	mean := 0.0
	for _, f := range samples {
		mean += f
	}
	mean /= float64(len(samples))

	std := 0.0
	for _, f := range samples {
		std += (f - mean) * (f - mean)
	}
	std = math.Sqrt(std / float64(len(samples)))
	if std < math.Abs(mean)*0.30 {
		std = math.Abs(mean) * 0.40
	}

	v := g.rng.NormFloat64()*std + mean
	if allNonNegative && v < 0 {
		v = 0
	}
	if allInts {
		return int64(math.Round(v))
	}
	return math.Round(v*100) / 100
}

// recentTimestamp samples within the last seven days so time-windowed demo
// queries return rows.
func (g *Generator) recentTimestamp() time.Time {
	window := 7 * 24 * time.Hour
	offset := time.Duration(g.rng.Int63n(int64(window)))
	return time.Now().Add(-offset).Truncate(time.Second)
}

// recentDate samples a calendar date within the last year. Date-named
// columns cover a wider window than event timestamps so slowly changing
// attributes like signup dates look plausible.
func (g *Generator) recentDate() time.Time {
	day := time.Now().AddDate(0, 0, -g.rng.Intn(365))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

// isDateColumn reports whether a temporal column holds a calendar date
// rather than an event timestamp, based on its name.
func isDateColumn(name string) bool {
	return strings.HasSuffix(name, "_DATE") || name == "DATE" || strings.HasSuffix(name, "_DAY")
}

func (g *Generator) sentence() string {
	opener := sentenceOpeners[g.rng.Intn(len(sentenceOpeners))]
	words := make([]string, 4+g.rng.Intn(5))
	for i := range words {
		words[i] = businessWords[g.rng.Intn(len(businessWords))]
	}
	return fmt.Sprintf("%s %s for %s.", opener, strings.Join(words, " "), g.opts.Organization)
}

// generateChunks materializes the unstructured table with the fixed chunk
// layout consumed by the search index stage.
func (g *Generator) generateChunks(t spec.Table) GeneratedTable {
	gt := GeneratedTable{
		Name:    ChunkTableName(t.Name),
		Kind:    t.Kind,
		Columns: append([]string(nil), chunkColumns...),
	}

	gt.Rows = make([]map[string]interface{}, t.RowCount)
	for i := 0; i < t.RowCount; i++ {
		text := g.sentence() + " " + g.sentence() + " " + g.sentence()
		gt.Rows[i] = map[string]interface{}{
			"CHUNK_ID":      int64(i + 1),
			"DOCUMENT_ID":   fmt.Sprintf("DOC_%d", i/chunksPerDocument+1),
			"CHUNK_TEXT":    text,
			"DOCUMENT_TYPE": documentTypes[g.rng.Intn(len(documentTypes))],
			"SOURCE_SYSTEM": g.opts.Organization,
			"LANGUAGE":      g.opts.LanguageCode,
		}
	}
	return gt
}

// ChunkTableName appends the chunk suffix to an unstructured table name,
// without doubling it when already present.
func ChunkTableName(base string) string {
	if strings.HasSuffix(base, "_CHUNKS") {
		return base
	}
	return base + "_CHUNKS"
}
