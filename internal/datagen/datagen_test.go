package datagen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demoforgehq/demoforge/internal/allocator"
	"github.com/demoforgehq/demoforge/internal/spec"
)

func testSchema(t *testing.T) *spec.CanonicalSchema {
	t.Helper()

	demo := spec.DemoSpec{
		Title: "Generation Test",
		Tables: []spec.TableSpec{
			{
				Name:     "SALES",
				Kind:     spec.KindFact,
				RowCount: 500,
				Columns: []spec.ColumnSpec{
					{Name: "SALE_ID", Type: spec.TypeIdentifier},
					{Name: "CUSTOMER_ID", Type: spec.TypeReference, References: &spec.Reference{Table: "CUSTOMERS", Column: "CUSTOMER_ID"}},
					{Name: "CHANNEL", Type: spec.TypeCategorical, SampleValues: []string{"Web", "Store"}},
					{Name: "AMOUNT", Type: spec.TypeNumeric, SampleValues: []string{"10.50", "99.99", "250.00"}},
					{Name: "UNITS", Type: spec.TypeNumeric, SampleValues: []string{"1", "3", "12"}},
					{Name: "SOLD_AT", Type: spec.TypeTemporal},
					{Name: "NOTE", Type: spec.TypeFreeText},
				},
			},
			{
				Name:     "CUSTOMERS",
				Kind:     spec.KindDimension,
				RowCount: 100,
				Columns: []spec.ColumnSpec{
					{Name: "CUSTOMER_ID", Type: spec.TypeIdentifier},
					{Name: "SEGMENT", Type: spec.TypeCategorical, SampleValues: []string{"New", "VIP"}},
				},
			},
			{
				Name:     "REVIEWS",
				Kind:     spec.KindUnstructured,
				RowCount: 40,
			},
		},
	}

	schema, err := spec.Plan(demo, 500)
	require.NoError(t, err)
	return schema
}

func TestGenerateRowCountsAndColumns(t *testing.T) {
	schema := testSchema(t)
	pools, err := allocator.Allocate(schema, 0.70)
	require.NoError(t, err)

	gen := NewSeeded(Options{Organization: "Acme Corp"}, 42)
	tables, err := gen.Generate(schema, pools)
	require.NoError(t, err)

	sales := tables["SALES"]
	assert.Equal(t, 500, len(sales.Rows))
	assert.Equal(t, []string{"SALE_ID", "CUSTOMER_ID", "CHANNEL", "AMOUNT", "UNITS", "SOLD_AT", "NOTE"}, sales.Columns)

	customers := tables["CUSTOMERS"]
	assert.Equal(t, 100, len(customers.Rows))

	// Identifiers are a dense 1..N sequence.
	for i, row := range customers.Rows {
		assert.Equal(t, int64(i+1), row["CUSTOMER_ID"])
	}
}

func TestGenerateForeignKeysStayInSharedPool(t *testing.T) {
	schema := testSchema(t)
	pools, err := allocator.Allocate(schema, 0.70)
	require.NoError(t, err)

	pool := pools[allocator.RelKey{FactTable: "SALES", DimTable: "CUSTOMERS"}]
	require.Equal(t, 70, len(pool.Shared))

	gen := NewSeeded(Options{Organization: "Acme Corp"}, 42)
	tables, err := gen.Generate(schema, pools)
	require.NoError(t, err)

	referenced := make(map[int64]bool)
	for _, row := range tables["SALES"].Rows {
		key, ok := row["CUSTOMER_ID"].(int64)
		require.True(t, ok, "foreign key should be int64, got %T", row["CUSTOMER_ID"])
		assert.True(t, pool.Contains(key), "foreign key %d outside shared pool", key)
		referenced[key] = true
	}

	// 500 uniform draws over 70 shared keys reach nearly all of them.
	assert.GreaterOrEqual(t, len(referenced), 63)
	// Private keys stay unreferenced, keeping realized overlap at the ratio.
	for _, key := range pool.Private {
		assert.False(t, referenced[key], "private key %d was referenced", key)
	}
}

func TestGenerateValueShapes(t *testing.T) {
	schema := testSchema(t)
	pools, err := allocator.Allocate(schema, 0.70)
	require.NoError(t, err)

	gen := NewSeeded(Options{Organization: "Acme Corp"}, 7)
	tables, err := gen.Generate(schema, pools)
	require.NoError(t, err)

	for _, row := range tables["SALES"].Rows {
		channel, ok := row["CHANNEL"].(string)
		require.True(t, ok)
		assert.Contains(t, []string{"Web", "Store"}, channel)

		amount, ok := row["AMOUNT"].(float64)
		require.True(t, ok, "AMOUNT should be float64, got %T", row["AMOUNT"])
		assert.GreaterOrEqual(t, amount, 0.0)

		units, ok := row["UNITS"].(int64)
		require.True(t, ok, "UNITS should be int64, got %T", row["UNITS"])
		assert.GreaterOrEqual(t, units, int64(0))

		ts, ok := row["SOLD_AT"].(time.Time)
		require.True(t, ok)
		assert.True(t, time.Since(ts) <= 8*24*time.Hour, "timestamp %v too old", ts)

		note, ok := row["NOTE"].(string)
		require.True(t, ok)
		assert.Contains(t, note, "Acme Corp")
	}
}

func TestGenerateChunkTable(t *testing.T) {
	schema := testSchema(t)
	pools, err := allocator.Allocate(schema, 0.70)
	require.NoError(t, err)

	gen := NewSeeded(Options{Organization: "Acme Corp", LanguageCode: "en"}, 42)
	tables, err := gen.Generate(schema, pools)
	require.NoError(t, err)

	chunks, ok := tables["REVIEWS_CHUNKS"]
	require.True(t, ok, "unstructured table should be renamed with the chunk suffix")
	assert.Equal(t, []string{"CHUNK_ID", "DOCUMENT_ID", "CHUNK_TEXT", "DOCUMENT_TYPE", "SOURCE_SYSTEM", "LANGUAGE"}, chunks.Columns)
	require.Equal(t, 40, len(chunks.Rows))

	assert.Equal(t, "DOC_1", chunks.Rows[0]["DOCUMENT_ID"])
	assert.Equal(t, "DOC_1", chunks.Rows[4]["DOCUMENT_ID"])
	assert.Equal(t, "DOC_2", chunks.Rows[5]["DOCUMENT_ID"])
	assert.Equal(t, "DOC_8", chunks.Rows[39]["DOCUMENT_ID"])

	for _, row := range chunks.Rows {
		assert.Equal(t, "en", row["LANGUAGE"])
		assert.Equal(t, "Acme Corp", row["SOURCE_SYSTEM"])
		text, ok := row["CHUNK_TEXT"].(string)
		require.True(t, ok)
		assert.NotEmpty(t, strings.TrimSpace(text))
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	schema := testSchema(t)
	pools, err := allocator.Allocate(schema, 0.70)
	require.NoError(t, err)

	first, err := NewSeeded(Options{Organization: "Acme"}, 99).Generate(schema, pools)
	require.NoError(t, err)
	second, err := NewSeeded(Options{Organization: "Acme"}, 99).Generate(schema, pools)
	require.NoError(t, err)

	for _, row := range []int{0, 250, 499} {
		assert.Equal(t, first["SALES"].Rows[row]["CUSTOMER_ID"], second["SALES"].Rows[row]["CUSTOMER_ID"])
		assert.Equal(t, first["SALES"].Rows[row]["AMOUNT"], second["SALES"].Rows[row]["AMOUNT"])
	}
}

func TestGenerateFailsWithoutPool(t *testing.T) {
	schema := testSchema(t)

	gen := NewSeeded(Options{Organization: "Acme"}, 1)
	_, err := gen.Generate(schema, nil)
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "SALES", genErr.Table)
	assert.Equal(t, "CUSTOMER_ID", genErr.Column)
}

func TestGenerateDateColumns(t *testing.T) {
	demo := spec.DemoSpec{
		Title: "Dates",
		Tables: []spec.TableSpec{
			{
				Name:     "ACCOUNTS",
				Kind:     spec.KindFact,
				RowCount: 30,
				Columns: []spec.ColumnSpec{
					{Name: "ACCOUNT_ID", Type: spec.TypeIdentifier},
					{Name: "SIGNUP_DATE", Type: spec.TypeTemporal},
					{Name: "LAST_SEEN", Type: spec.TypeTemporal},
				},
			},
		},
	}
	schema, err := spec.Plan(demo, 30)
	require.NoError(t, err)

	tables, err := NewSeeded(Options{Organization: "Acme"}, 3).Generate(schema, nil)
	require.NoError(t, err)

	for _, row := range tables["ACCOUNTS"].Rows {
		signup, ok := row["SIGNUP_DATE"].(time.Time)
		require.True(t, ok)
		h, m, s := signup.Clock()
		assert.Zero(t, h+m+s, "date column should be midnight, got %v", signup)
		assert.True(t, time.Since(signup) <= 366*24*time.Hour)

		seen, ok := row["LAST_SEEN"].(time.Time)
		require.True(t, ok)
		assert.True(t, time.Since(seen) <= 8*24*time.Hour, "timestamp column samples the short window")
	}
}

func TestChunkTableName(t *testing.T) {
	assert.Equal(t, "REVIEWS_CHUNKS", ChunkTableName("REVIEWS"))
	assert.Equal(t, "REVIEWS_CHUNKS", ChunkTableName("REVIEWS_CHUNKS"))
}
