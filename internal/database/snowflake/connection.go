// Package snowflake implements the provisioning platform boundary against
// Snowflake using the gosnowflake driver.
package snowflake

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/snowflakedb/gosnowflake"

	"github.com/demoforgehq/demoforge/internal/provision"
)

// Config holds the connection settings for one Snowflake account.
type Config struct {
	Account   string `yaml:"account"` // account identifier (e.g. "myorg-myaccount")
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Database  string `yaml:"database"`
	Warehouse string `yaml:"warehouse"`
	Role      string `yaml:"role,omitempty"`
}

// Client wraps a live Snowflake connection.
type Client struct {
	DB        *sql.DB
	Database  string
	Warehouse string

	// RunID, when set, is embedded in the comment tag of every created
	// resource so a run's objects can be found and cleaned up together.
	RunID string
}

// Connect establishes a connection to a Snowflake database.
func Connect(config Config) (*Client, error) {
	var connString strings.Builder

	// Build connection string
	fmt.Fprintf(&connString, "%s:%s@%s/%s",
		config.Username,
		config.Password,
		config.Account,
		config.Database)

	params := make([]string, 0, 2)
	if config.Warehouse != "" {
		params = append(params, "warehouse="+config.Warehouse)
	}
	if config.Role != "" {
		params = append(params, "role="+config.Role)
	}
	if len(params) > 0 {
		connString.WriteString("?" + strings.Join(params, "&"))
	}

	// Configure DSN
	cfg, err := gosnowflake.ParseDSN(connString.String())
	if err != nil {
		return nil, fmt.Errorf("error parsing Snowflake DSN: %v", err)
	}

	// Set additional connection parameters
	cfg.Authenticator = gosnowflake.AuthTypeSnowflake // Default password auth
	cfg.Application = "demoforge"

	dsn, err := gosnowflake.DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("error building Snowflake DSN: %v", err)
	}

	// Create connection
	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to Snowflake: %v", err)
	}

	// Set connection pool parameters
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &provision.UnavailableError{Operation: "connect", Err: err}
	}

	return &Client{DB: db, Database: config.Database, Warehouse: config.Warehouse}, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.DB.Close()
}
