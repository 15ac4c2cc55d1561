package snowflake

import (
	"context"
	"fmt"

	"github.com/demoforgehq/demoforge/internal/datagen"
	"github.com/demoforgehq/demoforge/internal/provision"
)

// CreateSchema creates the run schema.
func (c *Client) CreateSchema(ctx context.Context, name string) error {
	if _, err := c.DB.ExecContext(ctx, c.createSchemaSQL(name)); err != nil {
		return fmt.Errorf("error creating schema %s: %v", name, err)
	}
	return nil
}

// CreateTable creates a table, loads its generated rows and attaches the
// primary key constraint. The constraint is added after the load; Snowflake
// does not enforce it but analytics tooling reads it for join planning.
func (c *Client) CreateTable(ctx context.Context, schemaName string, table datagen.GeneratedTable, primaryKey string) error {
	if _, err := c.DB.ExecContext(ctx, c.createTableSQL(schemaName, table)); err != nil {
		return fmt.Errorf("error creating table %s: %v", table.Name, err)
	}

	if _, err := insertRows(ctx, c.DB, schemaName, table.Name, table.Columns, table.Rows); err != nil {
		return fmt.Errorf("error loading table %s: %v", table.Name, err)
	}

	if primaryKey != "" {
		if _, err := c.DB.ExecContext(ctx, addPrimaryKeySQL(schemaName, table.Name, primaryKey)); err != nil {
			return fmt.Errorf("error adding primary key to %s: %v", table.Name, err)
		}
	}
	return nil
}

// CreateSemanticView creates the semantic view over the structured tables.
func (c *Client) CreateSemanticView(ctx context.Context, schemaName string, def provision.SemanticViewDef) error {
	if _, err := c.DB.ExecContext(ctx, c.createSemanticViewSQL(schemaName, def)); err != nil {
		return fmt.Errorf("error creating semantic view %s: %v", def.Name, err)
	}
	return nil
}

// CreateSearchIndex creates the text search service over the chunk table.
func (c *Client) CreateSearchIndex(ctx context.Context, schemaName string, def provision.SearchIndexDef) error {
	if _, err := c.DB.ExecContext(ctx, c.createSearchIndexSQL(schemaName, def)); err != nil {
		return fmt.Errorf("error creating search service %s: %v", def.Name, err)
	}
	return nil
}

// CreateAgent creates the conversational agent in the account-level agent
// schema rather than the run schema, which is where the platform's agent
// UI discovers it.
func (c *Client) CreateAgent(ctx context.Context, schemaName string, def provision.AgentDef) error {
	stmt, err := c.createAgentSQL(schemaName, def)
	if err != nil {
		return err
	}
	if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("error creating agent %s: %v", def.Name, err)
	}
	return nil
}
