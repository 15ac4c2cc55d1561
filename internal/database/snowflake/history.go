package snowflake

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/demoforgehq/demoforge/internal/engine"
)

const (
	historySchema = "DEMOFORGE_HISTORY"
	historyTable  = "RUN_HISTORY"
)

var historyColumns = []string{
	"RUN_ID", "ORGANIZATION", "TITLE", "INDUSTRY", "SCHEMA_NAME",
	"OVERLAP_RATIO", "TABLE_COUNT", "ROW_COUNT", "STATUS",
	"ENABLED_STAGES", "RESOURCES", "STARTED_AT", "FINISHED_AT",
}

// HistorySink records finished runs in a Snowflake table so past demo
// environments can be listed and cleaned up.
type HistorySink struct {
	client *Client
}

// NewHistorySink returns a sink backed by the client's connection.
func NewHistorySink(client *Client) *HistorySink {
	return &HistorySink{client: client}
}

// Record appends one run to the history table, creating the table on
// first use.
func (s *HistorySink) Record(ctx context.Context, record engine.RunRecord) error {
	if err := s.ensureTable(ctx); err != nil {
		return err
	}

	resources, err := json.Marshal(record.Resources)
	if err != nil {
		return fmt.Errorf("error marshaling run resources: %v", err)
	}
	enabled, err := json.Marshal(record.Enabled)
	if err != nil {
		return fmt.Errorf("error marshaling enabled stages: %v", err)
	}

	row := map[string]interface{}{
		"RUN_ID":         record.RunID,
		"ORGANIZATION":   record.Organization,
		"TITLE":          record.Title,
		"INDUSTRY":       record.Industry,
		"SCHEMA_NAME":    record.Names.Schema,
		"OVERLAP_RATIO":  record.OverlapRatio,
		"TABLE_COUNT":    int64(record.TableCount),
		"ROW_COUNT":      int64(record.RowCount),
		"STATUS":         string(record.Status),
		"ENABLED_STAGES": string(enabled),
		"RESOURCES":      string(resources),
		"STARTED_AT":     record.StartedAt.UTC(),
		"FINISHED_AT":    record.FinishedAt.UTC(),
	}

	if _, err := insertRows(ctx, s.client.DB, historySchema, historyTable, historyColumns, []map[string]interface{}{row}); err != nil {
		return fmt.Errorf("error recording run history: %v", err)
	}
	return nil
}

func (s *HistorySink) ensureTable(ctx context.Context) error {
	if _, err := s.client.DB.ExecContext(ctx,
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", quoteIdentifier(historySchema))); err != nil {
		return fmt.Errorf("error creating history schema: %v", err)
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	RUN_ID VARCHAR(36),
	ORGANIZATION VARCHAR(255),
	TITLE VARCHAR(1024),
	INDUSTRY VARCHAR(255),
	SCHEMA_NAME VARCHAR(255),
	OVERLAP_RATIO FLOAT,
	TABLE_COUNT NUMBER(38,0),
	ROW_COUNT NUMBER(38,0),
	STATUS VARCHAR(32),
	ENABLED_STAGES VARCHAR(1024),
	RESOURCES VARCHAR(16777216),
	STARTED_AT TIMESTAMP_NTZ,
	FINISHED_AT TIMESTAMP_NTZ
)`, qualifiedName(historySchema, historyTable))
	if _, err := s.client.DB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("error creating history table: %v", err)
	}
	return nil
}
