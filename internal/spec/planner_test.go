package spec

import (
	"errors"
	"testing"
)

func minimalSpec() DemoSpec {
	return DemoSpec{
		Title: "Test Demo",
		Tables: []TableSpec{
			{
				Name: "orders",
				Kind: KindFact,
				Columns: []ColumnSpec{
					{Name: "order id", Type: TypeIdentifier},
					{Name: "customer-id", Type: TypeReference, References: &Reference{Table: "customers", Column: "customer_id"}},
					{Name: "amount", Type: TypeNumeric, SampleValues: []string{"10", "20"}},
				},
			},
			{
				Name: "customers",
				Kind: KindDimension,
				Columns: []ColumnSpec{
					{Name: "customer_id", Type: TypeIdentifier},
					{Name: "segment", Type: TypeCategorical, SampleValues: []string{"New", "VIP"}},
				},
			},
		},
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase", input: "orders", expected: "ORDERS"},
		{name: "spaces", input: "order id", expected: "ORDER_ID"},
		{name: "hyphens", input: "customer-id", expected: "CUSTOMER_ID"},
		{name: "mixed punctuation", input: "Acme Corp. (EU)", expected: "ACME_CORP___EU_"},
		{name: "leading whitespace", input: "  SALES", expected: "SALES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeIdentifier(tt.input); got != tt.expected {
				t.Errorf("NormalizeIdentifier(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPlanNormalizesAndResolvesReferences(t *testing.T) {
	schema, err := Plan(minimalSpec(), 100)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	orders := schema.Table("ORDERS")
	if orders == nil {
		t.Fatal("expected table ORDERS in schema")
	}
	if orders.PrimaryKey != "ORDER_ID" {
		t.Errorf("ORDERS primary key = %q, want ORDER_ID", orders.PrimaryKey)
	}
	if orders.RowCount != 100 {
		t.Errorf("ORDERS row count = %d, want 100", orders.RowCount)
	}

	if len(schema.Relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(schema.Relationships))
	}
	rel := schema.Relationships[0]
	if rel.FactTable != "ORDERS" || rel.FactColumn != "CUSTOMER_ID" || rel.DimTable != "CUSTOMERS" || rel.DimColumn != "CUSTOMER_ID" {
		t.Errorf("unexpected relationship: %+v", rel)
	}
}

func TestPlanInjectsSurrogateKey(t *testing.T) {
	demo := minimalSpec()
	demo.Tables[1].Columns = []ColumnSpec{
		{Name: "segment", Type: TypeCategorical},
	}
	demo.Tables[0].Columns[1].References.Column = ""

	schema, err := Plan(demo, 100)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	customers := schema.Table("CUSTOMERS")
	if customers.PrimaryKey != "ENTITY_ID" {
		t.Errorf("primary key = %q, want injected ENTITY_ID", customers.PrimaryKey)
	}
	if customers.Columns[0].Name != "ENTITY_ID" || customers.Columns[0].Type != TypeIdentifier {
		t.Errorf("first column = %+v, want ENTITY_ID identifier", customers.Columns[0])
	}
	// An empty reference column resolves to the dimension primary key.
	if schema.Relationships[0].DimColumn != "ENTITY_ID" {
		t.Errorf("relationship dim column = %q, want ENTITY_ID", schema.Relationships[0].DimColumn)
	}
}

func TestPlanRejectsInvalidSpecs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DemoSpec)
	}{
		{
			name:   "no tables",
			mutate: func(d *DemoSpec) { d.Tables = nil },
		},
		{
			name: "no fact table",
			mutate: func(d *DemoSpec) {
				d.Tables = d.Tables[1:]
			},
		},
		{
			name: "duplicate table name",
			mutate: func(d *DemoSpec) {
				d.Tables = append(d.Tables, d.Tables[1])
			},
		},
		{
			name: "unrecognized kind",
			mutate: func(d *DemoSpec) {
				d.Tables[1].Kind = "lookup"
			},
		},
		{
			name: "unrecognized column type",
			mutate: func(d *DemoSpec) {
				d.Tables[0].Columns[2].Type = "money"
			},
		},
		{
			name: "row count below minimum",
			mutate: func(d *DemoSpec) {
				d.Tables[0].RowCount = 5
			},
		},
		{
			name: "row count above maximum",
			mutate: func(d *DemoSpec) {
				d.Tables[0].RowCount = 50000
			},
		},
		{
			name: "reference to unknown table",
			mutate: func(d *DemoSpec) {
				d.Tables[0].Columns[1].References.Table = "missing"
			},
		},
		{
			name: "reference to non-dimension",
			mutate: func(d *DemoSpec) {
				d.Tables = append(d.Tables, TableSpec{
					Name: "other_facts",
					Kind: KindFact,
					Columns: []ColumnSpec{
						{Name: "id", Type: TypeIdentifier},
					},
				})
				d.Tables[0].Columns[1].References.Table = "other_facts"
			},
		},
		{
			name: "reference to non-primary-key column",
			mutate: func(d *DemoSpec) {
				d.Tables[0].Columns[1].References.Column = "segment"
			},
		},
		{
			name: "reference on dimension table",
			mutate: func(d *DemoSpec) {
				d.Tables[1].Columns = append(d.Tables[1].Columns, ColumnSpec{
					Name: "self_ref", Type: TypeReference,
					References: &Reference{Table: "customers", Column: "customer_id"},
				})
			},
		},
		{
			name: "two unstructured tables",
			mutate: func(d *DemoSpec) {
				d.Tables = append(d.Tables,
					TableSpec{Name: "docs_a", Kind: KindUnstructured},
					TableSpec{Name: "docs_b", Kind: KindUnstructured},
				)
			},
		},
		{
			name: "non-identifier ENTITY_ID",
			mutate: func(d *DemoSpec) {
				d.Tables[1].Columns = []ColumnSpec{
					{Name: "ENTITY_ID", Type: TypeCategorical},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			demo := minimalSpec()
			tt.mutate(&demo)

			_, err := Plan(demo, 100)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected *ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestPlanClampsDefaultRowCount(t *testing.T) {
	schema, err := Plan(minimalSpec(), 1)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if got := schema.Table("ORDERS").RowCount; got != MinRowsPerTable {
		t.Errorf("row count = %d, want clamped %d", got, MinRowsPerTable)
	}

	schema, err = Plan(minimalSpec(), 1000000)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if got := schema.Table("ORDERS").RowCount; got != MaxRowsPerTable {
		t.Errorf("row count = %d, want clamped %d", got, MaxRowsPerTable)
	}
}

func TestTemplatesPlanCleanly(t *testing.T) {
	for _, industry := range TemplateIndustries() {
		t.Run(industry, func(t *testing.T) {
			demo, err := TemplateByIndustry(industry, "Acme Corp")
			if err != nil {
				t.Fatalf("TemplateByIndustry failed: %v", err)
			}

			schema, err := Plan(demo, 200)
			if err != nil {
				t.Fatalf("template does not plan: %v", err)
			}
			if len(schema.FactTables()) != 1 {
				t.Errorf("expected 1 fact table, got %d", len(schema.FactTables()))
			}
			if len(schema.DimensionTables()) != 2 {
				t.Errorf("expected 2 dimension tables, got %d", len(schema.DimensionTables()))
			}
			if schema.UnstructuredTable() == nil {
				t.Error("expected an unstructured table")
			}
			if len(schema.Relationships) == 0 {
				t.Error("expected at least one relationship")
			}
		})
	}
}

func TestTemplateByIndustryUnknown(t *testing.T) {
	if _, err := TemplateByIndustry("aerospace", "Acme"); err == nil {
		t.Error("expected error for unknown industry")
	}
}
