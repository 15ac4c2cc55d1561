package spec

import (
	"fmt"
	"strings"
)

// Row-count bounds enforced per table.
const (
	MinRowsPerTable = 20
	MaxRowsPerTable = 10000
)

// ValidationError reports a malformed demo specification. It names the
// offending table and column so the caller can fix the spec.
type ValidationError struct {
	Table  string
	Column string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Table != "" && e.Column != "":
		return fmt.Sprintf("invalid demo spec: table %s, column %s: %s", e.Table, e.Column, e.Reason)
	case e.Table != "":
		return fmt.Sprintf("invalid demo spec: table %s: %s", e.Table, e.Reason)
	default:
		return fmt.Sprintf("invalid demo spec: %s", e.Reason)
	}
}

// NormalizeIdentifier uppercases a name and replaces characters that are
// not legal in an unquoted identifier (spaces and hyphens included) with
// underscores.
func NormalizeIdentifier(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(name)) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Plan validates and normalizes a demo specification into a canonical
// schema model. defaultRowCount fills in tables that carry no explicit
// row count; it is clamped into [MinRowsPerTable, MaxRowsPerTable].
// Plan is side-effect-free: on any violation it returns a ValidationError
// and no partial schema.
func Plan(demo DemoSpec, defaultRowCount int) (*CanonicalSchema, error) {
	if len(demo.Tables) == 0 {
		return nil, &ValidationError{Reason: "spec declares no tables"}
	}

	if defaultRowCount < MinRowsPerTable {
		defaultRowCount = MinRowsPerTable
	}
	if defaultRowCount > MaxRowsPerTable {
		defaultRowCount = MaxRowsPerTable
	}

	schema := &CanonicalSchema{
		Title:           demo.Title,
		Industry:        demo.Industry,
		TargetQuestions: append([]string(nil), demo.TargetQuestions...),
		byName:          make(map[string]*Table),
	}

	factCount := 0
	unstructuredCount := 0

	for _, ts := range demo.Tables {
		name := NormalizeIdentifier(ts.Name)
		if name == "" {
			return nil, &ValidationError{Table: ts.Name, Reason: "table name is empty"}
		}
		if _, dup := schema.byName[name]; dup {
			return nil, &ValidationError{Table: name, Reason: "duplicate table name"}
		}

		switch ts.Kind {
		case KindFact:
			factCount++
		case KindDimension:
		case KindUnstructured:
			unstructuredCount++
			if unstructuredCount > 1 {
				return nil, &ValidationError{Table: name, Reason: "at most one unstructured table is allowed"}
			}
		default:
			return nil, &ValidationError{Table: name, Reason: fmt.Sprintf("unrecognized table kind %q", ts.Kind)}
		}

		rowCount := ts.RowCount
		if rowCount == 0 {
			rowCount = defaultRowCount
		}
		if rowCount < MinRowsPerTable || rowCount > MaxRowsPerTable {
			return nil, &ValidationError{
				Table:  name,
				Reason: fmt.Sprintf("row count %d outside [%d, %d]", rowCount, MinRowsPerTable, MaxRowsPerTable),
			}
		}

		table, err := planTable(name, ts, rowCount)
		if err != nil {
			return nil, err
		}

		schema.Tables = append(schema.Tables, *table)
		schema.byName[name] = &schema.Tables[len(schema.Tables)-1]
	}

	if factCount == 0 {
		return nil, &ValidationError{Reason: "spec declares no fact table"}
	}

	// Resolve foreign-key references now that every table is known.
	for ti := range schema.Tables {
		t := &schema.Tables[ti]
		for ci := range t.Columns {
			c := &t.Columns[ci]
			if c.Type != TypeReference {
				continue
			}
			if c.References == nil {
				return nil, &ValidationError{Table: t.Name, Column: c.Name, Reason: "reference column has no target"}
			}
			refTable := NormalizeIdentifier(c.References.Table)
			refColumn := NormalizeIdentifier(c.References.Column)
			target := schema.byName[refTable]
			if target == nil {
				return nil, &ValidationError{
					Table: t.Name, Column: c.Name,
					Reason: fmt.Sprintf("references unknown table %s", refTable),
				}
			}
			if target.Kind != KindDimension {
				return nil, &ValidationError{
					Table: t.Name, Column: c.Name,
					Reason: fmt.Sprintf("references %s which is not a dimension table", refTable),
				}
			}
			if refColumn == "" {
				refColumn = target.PrimaryKey
			}
			if refColumn != target.PrimaryKey {
				return nil, &ValidationError{
					Table: t.Name, Column: c.Name,
					Reason: fmt.Sprintf("references %s.%s which is not the dimension primary key", refTable, refColumn),
				}
			}
			if t.Kind != KindFact {
				return nil, &ValidationError{
					Table: t.Name, Column: c.Name,
					Reason: "only fact tables may carry reference columns",
				}
			}
			c.References = &Reference{Table: refTable, Column: refColumn}
			schema.Relationships = append(schema.Relationships, Relationship{
				FactTable:  t.Name,
				FactColumn: c.Name,
				DimTable:   refTable,
				DimColumn:  refColumn,
			})
		}
	}

	return schema, nil
}

func planTable(name string, ts TableSpec, rowCount int) (*Table, error) {
	table := &Table{
		Name:     name,
		Kind:     ts.Kind,
		RowCount: rowCount,
	}

	seen := make(map[string]bool)
	for _, cs := range ts.Columns {
		colName := NormalizeIdentifier(cs.Name)
		if colName == "" {
			return nil, &ValidationError{Table: name, Column: cs.Name, Reason: "column name is empty"}
		}
		if seen[colName] {
			return nil, &ValidationError{Table: name, Column: colName, Reason: "duplicate column name"}
		}
		seen[colName] = true

		if !recognizedTypes[cs.Type] {
			return nil, &ValidationError{
				Table: name, Column: colName,
				Reason: fmt.Sprintf("unrecognized semantic type %q", cs.Type),
			}
		}
		if cs.Type == TypeIdentifier && table.PrimaryKey == "" {
			table.PrimaryKey = colName
		}

		table.Columns = append(table.Columns, Column{
			Name:         colName,
			Type:         cs.Type,
			Description:  cs.Description,
			SampleValues: append([]string(nil), cs.SampleValues...),
			References:   cs.References,
		})
	}

	// Fact and dimension tables always carry an identifier primary key.
	// Specs produced by the content oracle occasionally omit it, so inject
	// one rather than reject the spec.
	if table.PrimaryKey == "" && ts.Kind != KindUnstructured {
		pk := Column{Name: "ENTITY_ID", Type: TypeIdentifier, Description: "Injected surrogate key"}
		if seen[pk.Name] {
			return nil, &ValidationError{
				Table: name, Column: pk.Name,
				Reason: "ENTITY_ID exists but is not declared as an identifier",
			}
		}
		table.Columns = append([]Column{pk}, table.Columns...)
		table.PrimaryKey = pk.Name
	}

	return table, nil
}
