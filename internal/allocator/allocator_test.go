package allocator

import (
	"testing"

	"github.com/demoforgehq/demoforge/internal/spec"
)

func planSchema(t *testing.T, dimRows int) *spec.CanonicalSchema {
	t.Helper()

	demo := spec.DemoSpec{
		Title: "Allocation Test",
		Tables: []spec.TableSpec{
			{
				Name: "ORDERS",
				Kind: spec.KindFact,
				Columns: []spec.ColumnSpec{
					{Name: "ORDER_ID", Type: spec.TypeIdentifier},
					{Name: "CUSTOMER_ID", Type: spec.TypeReference, References: &spec.Reference{Table: "CUSTOMERS", Column: "CUSTOMER_ID"}},
				},
			},
			{
				Name:     "CUSTOMERS",
				Kind:     spec.KindDimension,
				RowCount: dimRows,
				Columns: []spec.ColumnSpec{
					{Name: "CUSTOMER_ID", Type: spec.TypeIdentifier},
				},
			},
		},
	}

	schema, err := spec.Plan(demo, 500)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	return schema
}

func TestAllocateSharedSubsetSize(t *testing.T) {
	tests := []struct {
		name       string
		dimRows    int
		ratio      float64
		wantShared int
	}{
		{name: "hundred keys at default ratio", dimRows: 100, ratio: 0.70, wantShared: 70},
		{name: "rounding up", dimRows: 25, ratio: 0.70, wantShared: 18},
		{name: "full overlap", dimRows: 50, ratio: 1.0, wantShared: 50},
		{name: "half overlap", dimRows: 200, ratio: 0.5, wantShared: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := planSchema(t, tt.dimRows)

			pools, err := Allocate(schema, tt.ratio)
			if err != nil {
				t.Fatalf("Allocate failed: %v", err)
			}

			pool := pools[RelKey{FactTable: "ORDERS", DimTable: "CUSTOMERS"}]
			if pool == nil {
				t.Fatal("expected a pool for ORDERS->CUSTOMERS")
			}
			if len(pool.Shared) != tt.wantShared {
				t.Errorf("shared size = %d, want %d", len(pool.Shared), tt.wantShared)
			}
			if pool.DimensionSize() != tt.dimRows {
				t.Errorf("dimension size = %d, want %d", pool.DimensionSize(), tt.dimRows)
			}
			if pool.Relaxed {
				t.Error("pool should not be relaxed")
			}
		})
	}
}

func TestAllocateKeysAreDenseFromOne(t *testing.T) {
	schema := planSchema(t, 40)

	pools, err := Allocate(schema, 0.70)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	pool := pools[RelKey{FactTable: "ORDERS", DimTable: "CUSTOMERS"}]
	all := append(append([]int64(nil), pool.Shared...), pool.Private...)
	for i, key := range all {
		if key != int64(i+1) {
			t.Fatalf("key at position %d = %d, want %d", i, key, i+1)
		}
	}
	if !pool.Contains(1) {
		t.Error("shared subset should contain key 1")
	}
	if pool.Contains(int64(pool.DimensionSize())) {
		t.Error("last key should be private at ratio 0.70")
	}
}

func TestAllocateRelaxesTinyDimensions(t *testing.T) {
	// 20 rows at ratio 0.05 rounds to a single shared key, below the
	// minimum worth sampling from.
	schema := planSchema(t, 20)

	pools, err := Allocate(schema, 0.05)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	pool := pools[RelKey{FactTable: "ORDERS", DimTable: "CUSTOMERS"}]
	if !pool.Relaxed {
		t.Fatal("expected pool to be relaxed")
	}
	if len(pool.Shared) != 20 {
		t.Errorf("relaxed pool shared size = %d, want full dimension 20", len(pool.Shared))
	}
	if len(pool.Private) != 0 {
		t.Errorf("relaxed pool private size = %d, want 0", len(pool.Private))
	}
}

func TestAllocateRejectsInvalidRatio(t *testing.T) {
	schema := planSchema(t, 100)

	for _, ratio := range []float64{-0.1, 1.5} {
		if _, err := Allocate(schema, ratio); err == nil {
			t.Errorf("Allocate(ratio=%v) should fail", ratio)
		}
	}
}
