package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// insertRows inserts rows into a table using a prepared statement inside a
// single transaction. Column order follows the columns slice so the statement
// can be reused for every row.
func insertRows(ctx context.Context, db *sql.DB, schemaName, tableName string, columns []string, rows []map[string]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "?"
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		qualifiedName(schemaName, tableName),
		strings.Join(quoteIdentifiers(columns), ", "),
		strings.Join(placeholders, ", "),
	))
	if err != nil {
		return 0, fmt.Errorf("error preparing statement: %v", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		values := make([]interface{}, len(columns))
		for i, col := range columns {
			values[i] = row[col]
		}

		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return 0, fmt.Errorf("error executing insert: %v", err)
		}

		// Snowflake doesn't report RowsAffected for single-row inserts,
		// so count each successful execution.
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing transaction: %v", err)
	}

	return inserted, nil
}

// quoteIdentifier quotes a Snowflake identifier, escaping embedded quotes.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteIdentifiers(names []string) []string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdentifier(name)
	}
	return quoted
}

// qualifiedName builds a schema-qualified table reference.
func qualifiedName(schemaName, tableName string) string {
	return quoteIdentifier(schemaName) + "." + quoteIdentifier(tableName)
}

// quoteString quotes a string literal for inline SQL such as comments.
func quoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
