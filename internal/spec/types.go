package spec

// TableKind classifies a table's role in the generated star schema.
type TableKind string

const (
	KindFact         TableKind = "fact"
	KindDimension    TableKind = "dimension"
	KindUnstructured TableKind = "unstructured"
)

// ColumnType is the semantic type of a column, driving which value
// generator materializes it.
type ColumnType string

const (
	TypeIdentifier  ColumnType = "identifier"
	TypeCategorical ColumnType = "categorical"
	TypeNumeric     ColumnType = "numeric"
	TypeTemporal    ColumnType = "temporal"
	TypeFreeText    ColumnType = "free_text"
	TypeReference   ColumnType = "reference"
)

// recognizedTypes is the closed set the planner accepts.
var recognizedTypes = map[ColumnType]bool{
	TypeIdentifier:  true,
	TypeCategorical: true,
	TypeNumeric:     true,
	TypeTemporal:    true,
	TypeFreeText:    true,
	TypeReference:   true,
}

// Reference names the dimension table/column a foreign-key column points at.
type Reference struct {
	Table  string `yaml:"table" json:"table"`
	Column string `yaml:"column" json:"column"`
}

// ColumnSpec describes a single column of a demo table.
type ColumnSpec struct {
	Name         string     `yaml:"name" json:"name"`
	Type         ColumnType `yaml:"type" json:"type"`
	Description  string     `yaml:"description,omitempty" json:"description,omitempty"`
	SampleValues []string   `yaml:"sample_values,omitempty" json:"sample_values,omitempty"`
	References   *Reference `yaml:"references,omitempty" json:"references,omitempty"`
}

// TableSpec describes one table of the demo environment.
type TableSpec struct {
	Name        string       `yaml:"name" json:"name"`
	Kind        TableKind    `yaml:"kind" json:"kind"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	RowCount    int          `yaml:"row_count,omitempty" json:"row_count,omitempty"`
	Columns     []ColumnSpec `yaml:"columns" json:"columns"`
}

// DemoSpec is the demo specification handed to the engine. It is produced
// outside the core (content oracle, template, or spec file) and treated as
// untrusted input until the planner has validated it.
type DemoSpec struct {
	Title           string      `yaml:"title" json:"title"`
	Description     string      `yaml:"description,omitempty" json:"description,omitempty"`
	Industry        string      `yaml:"industry,omitempty" json:"industry,omitempty"`
	Tables          []TableSpec `yaml:"tables" json:"tables"`
	TargetQuestions []string    `yaml:"target_questions,omitempty" json:"target_questions,omitempty"`
}

// CanonicalSchema is the validated, normalized schema model. Only the
// planner constructs it; downstream components never consume a raw DemoSpec.
type CanonicalSchema struct {
	Title           string
	Industry        string
	Tables          []Table
	Relationships   []Relationship
	TargetQuestions []string

	byName map[string]*Table
}

// Table is a validated table with normalized identifiers.
type Table struct {
	Name     string
	Kind     TableKind
	RowCount int
	Columns  []Column
	// PrimaryKey is the name of the table's identifier column.
	PrimaryKey string
}

// Column is a validated column with a resolved reference, if any.
type Column struct {
	Name         string
	Type         ColumnType
	Description  string
	SampleValues []string
	References   *Reference
}

// Relationship is one fact→dimension foreign-key edge.
type Relationship struct {
	FactTable  string
	FactColumn string
	DimTable   string
	DimColumn  string
}

// Table returns the named table, or nil.
func (s *CanonicalSchema) Table(name string) *Table {
	return s.byName[name]
}

// FactTables returns the fact tables in spec order.
func (s *CanonicalSchema) FactTables() []Table {
	return s.tablesOfKind(KindFact)
}

// DimensionTables returns the dimension tables in spec order.
func (s *CanonicalSchema) DimensionTables() []Table {
	return s.tablesOfKind(KindDimension)
}

// UnstructuredTable returns the unstructured table, or nil if the spec
// has none.
func (s *CanonicalSchema) UnstructuredTable() *Table {
	for i := range s.Tables {
		if s.Tables[i].Kind == KindUnstructured {
			return &s.Tables[i]
		}
	}
	return nil
}

func (s *CanonicalSchema) tablesOfKind(kind TableKind) []Table {
	var out []Table
	for _, t := range s.Tables {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}
