package snowflake

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/demoforgehq/demoforge/internal/datagen"
	"github.com/demoforgehq/demoforge/internal/provision"
	"github.com/demoforgehq/demoforge/internal/spec"
)

// commentTag is embedded in resource comments so generated objects can be
// identified and cleaned up later.
type commentTag struct {
	Origin    string `json:"origin"`
	RunID     string `json:"run_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (c *Client) resourceComment() string {
	tag := commentTag{
		Origin:    "demoforge",
		RunID:     c.RunID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(tag)
	if err != nil {
		return "'demoforge'"
	}
	return quoteString(string(data))
}

// createSchemaSQL builds the schema DDL with an identifying comment.
func (c *Client) createSchemaSQL(name string) string {
	return fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s COMMENT = %s",
		quoteIdentifier(name), c.resourceComment())
}

// createTableSQL builds the table DDL, inferring Snowflake column types
// from the generated row values.
func (c *Client) createTableSQL(schemaName string, table datagen.GeneratedTable) string {
	defs := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdentifier(col), columnTypeFor(table.Rows, col)))
	}
	return fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s) COMMENT = %s",
		qualifiedName(schemaName, table.Name),
		strings.Join(defs, ", "),
		c.resourceComment())
}

// addPrimaryKeySQL builds the post-load primary key constraint statement.
func addPrimaryKeySQL(schemaName, tableName, primaryKey string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD PRIMARY KEY (%s)",
		qualifiedName(schemaName, tableName), quoteIdentifier(primaryKey))
}

// columnTypeFor maps the first non-nil generated value of a column to a
// Snowflake type. Generated values are int64, float64, time.Time or string;
// midnight time values are calendar dates.
func columnTypeFor(rows []map[string]interface{}, column string) string {
	for _, row := range rows {
		switch v := row[column].(type) {
		case nil:
			continue
		case int64:
			return "NUMBER(38,0)"
		case float64:
			return "FLOAT"
		case time.Time:
			if v.Equal(v.Truncate(24 * time.Hour)) {
				return "DATE"
			}
			return "TIMESTAMP_NTZ"
		default:
			return "VARCHAR(16777216)"
		}
	}
	return "VARCHAR(16777216)"
}

// createSemanticViewSQL builds the semantic view DDL exposing structured
// tables, their join relationships, and the numeric facts and descriptive
// dimensions analytics tooling can query by name.
func (c *Client) createSemanticViewSQL(schemaName string, def provision.SemanticViewDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE OR REPLACE SEMANTIC VIEW %s\n", qualifiedName(schemaName, def.Name))

	tableClauses := make([]string, 0, len(def.Tables))
	for _, t := range def.Tables {
		tableClauses = append(tableClauses, fmt.Sprintf("    %s AS %s PRIMARY KEY (%s)",
			quoteIdentifier(t.Name), qualifiedName(schemaName, t.Name), quoteIdentifier(t.PrimaryKey)))
	}
	fmt.Fprintf(&b, "  TABLES (\n%s\n  )\n", strings.Join(tableClauses, ",\n"))

	if len(def.Relationships) > 0 {
		relClauses := make([]string, 0, len(def.Relationships))
		for _, rel := range def.Relationships {
			relClauses = append(relClauses, fmt.Sprintf("    %s (%s) REFERENCES %s",
				quoteIdentifier(rel.FactTable), quoteIdentifier(rel.FactColumn), quoteIdentifier(rel.DimTable)))
		}
		fmt.Fprintf(&b, "  RELATIONSHIPS (\n%s\n  )\n", strings.Join(relClauses, ",\n"))
	}

	var facts, dims []string
	for _, t := range def.Tables {
		for _, col := range t.Columns {
			expr := fmt.Sprintf("    %s.%s AS %s",
				quoteIdentifier(t.Name), quoteIdentifier(col.Name), quoteIdentifier(col.Name))
			if col.Description != "" {
				expr += fmt.Sprintf(" COMMENT = %s", quoteString(col.Description))
			}
			switch col.Type {
			case spec.TypeNumeric:
				facts = append(facts, expr)
			case spec.TypeCategorical, spec.TypeTemporal:
				dims = append(dims, expr)
			}
		}
	}
	if len(facts) > 0 {
		fmt.Fprintf(&b, "  FACTS (\n%s\n  )\n", strings.Join(facts, ",\n"))
	}
	if len(dims) > 0 {
		fmt.Fprintf(&b, "  DIMENSIONS (\n%s\n  )\n", strings.Join(dims, ",\n"))
	}

	fmt.Fprintf(&b, "  COMMENT = %s", c.resourceComment())
	return b.String()
}

// createSearchIndexSQL builds the text search service over the chunk table.
func (c *Client) createSearchIndexSQL(schemaName string, def provision.SearchIndexDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE OR REPLACE CORTEX SEARCH SERVICE %s\n", qualifiedName(schemaName, def.Name))
	fmt.Fprintf(&b, "  ON %s\n", quoteIdentifier(def.TextColumn))
	fmt.Fprintf(&b, "  ATTRIBUTES %s, %s, %s\n",
		quoteIdentifier("DOCUMENT_TYPE"), quoteIdentifier("SOURCE_SYSTEM"), quoteIdentifier("LANGUAGE"))
	fmt.Fprintf(&b, "  WAREHOUSE = %s\n", quoteIdentifier(c.Warehouse))
	fmt.Fprintf(&b, "  TARGET_LAG = '1 hour'\n")
	fmt.Fprintf(&b, "  COMMENT = %s\n", c.resourceComment())
	fmt.Fprintf(&b, "  AS SELECT * FROM %s", qualifiedName(schemaName, def.Table))
	return b.String()
}

// agentDatabase holds the account-level home of conversational agents.
const agentDatabase = "SNOWFLAKE_INTELLIGENCE.AGENTS"

// agentSpec is the JSON specification body of a Snowflake agent.
type agentSpec struct {
	Models       agentModels  `json:"models"`
	Instructions agentInstr   `json:"instructions"`
	Tools        []agentTool  `json:"tools"`
	Resources    agentToolRes `json:"tool_resources,omitempty"`
}

type agentModels struct {
	Orchestration string `json:"orchestration"`
}

type agentInstr struct {
	Response        string          `json:"response"`
	SampleQuestions []agentQuestion `json:"sample_questions,omitempty"`
}

type agentQuestion struct {
	Question string `json:"question"`
}

type agentTool struct {
	ToolSpec agentToolSpec `json:"tool_spec"`
}

type agentToolSpec struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type agentToolRes map[string]map[string]string

// createAgentSQL builds the agent DDL. Tools are attached only for the
// resources that were actually created, so a partially provisioned run
// still yields a working agent.
func (c *Client) createAgentSQL(schemaName string, def provision.AgentDef) (string, error) {
	sp := agentSpec{
		Models: agentModels{Orchestration: "auto"},
		Instructions: agentInstr{
			Response: fmt.Sprintf("You answer questions about the %s demo environment using the attached tools.", def.DisplayName),
		},
		Resources: agentToolRes{},
	}
	for _, q := range def.SampleQuestions {
		sp.Instructions.SampleQuestions = append(sp.Instructions.SampleQuestions, agentQuestion{Question: q})
	}

	if def.SemanticView != "" {
		sp.Tools = append(sp.Tools, agentTool{ToolSpec: agentToolSpec{
			Type:        "cortex_analyst_text_to_sql",
			Name:        "structured_data",
			Description: "Answers quantitative questions over the demo tables.",
		}})
		sp.Resources["structured_data"] = map[string]string{
			"semantic_view": fmt.Sprintf("%s.%s.%s", c.Database, schemaName, def.SemanticView),
		}
	}
	if def.SearchIndex != "" {
		sp.Tools = append(sp.Tools, agentTool{ToolSpec: agentToolSpec{
			Type:        "cortex_search",
			Name:        "document_search",
			Description: "Searches the demo document chunks.",
		}})
		sp.Resources["document_search"] = map[string]string{
			"name": fmt.Sprintf("%s.%s.%s", c.Database, schemaName, def.SearchIndex),
		}
	}

	specJSON, err := json.Marshal(sp)
	if err != nil {
		return "", fmt.Errorf("error marshaling agent specification: %v", err)
	}

	profile := map[string]string{"display_name": def.DisplayName}
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("error marshaling agent profile: %v", err)
	}

	return fmt.Sprintf("CREATE OR REPLACE AGENT %s.%s\n  WITH PROFILE = %s\n  COMMENT = %s\n  FROM SPECIFICATION $$%s$$",
		agentDatabase, quoteIdentifier(def.Name),
		quoteString(string(profileJSON)),
		c.resourceComment(),
		string(specJSON)), nil
}
