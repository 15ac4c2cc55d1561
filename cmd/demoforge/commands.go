package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/demoforgehq/demoforge/internal/config"
	"github.com/demoforgehq/demoforge/internal/database/snowflake"
	"github.com/demoforgehq/demoforge/internal/engine"
	"github.com/demoforgehq/demoforge/internal/spec"
	"github.com/demoforgehq/demoforge/pkg/logger"
)

var (
	specFile     string
	industry     string
	organization string
	overlapRatio float64
	records      int
	languageCode string
	seed         int64
	noSemantic   bool
	noSearch     bool
	noAgent      bool
	noHistory    bool
	outputJSON   bool
)

func setupCommands() {
	provisionCmd.Flags().StringVar(&specFile, "spec", "", "Path to a demo spec YAML file")
	provisionCmd.Flags().StringVar(&industry, "industry", "", "Built-in industry template to use instead of a spec file")
	provisionCmd.Flags().StringVar(&organization, "organization", "", "Organization name driving resource naming")
	provisionCmd.Flags().Float64Var(&overlapRatio, "overlap-ratio", 0, "Fraction of dimension keys shared with fact tables (0 uses config default)")
	provisionCmd.Flags().IntVar(&records, "records", 0, "Default rows per table (0 uses config default)")
	provisionCmd.Flags().StringVar(&languageCode, "language", "", "Language code for generated documents")
	provisionCmd.Flags().Int64Var(&seed, "seed", 0, "Fixed random seed for reproducible data")
	provisionCmd.Flags().BoolVar(&noSemantic, "no-semantic-view", false, "Skip the semantic view stage")
	provisionCmd.Flags().BoolVar(&noSearch, "no-search-index", false, "Skip the search service stage")
	provisionCmd.Flags().BoolVar(&noAgent, "no-agent", false, "Skip the agent stage")
	provisionCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the history table")
	provisionCmd.Flags().BoolVar(&outputJSON, "json", false, "Print the run record as JSON")

	planCmd.Flags().StringVar(&specFile, "spec", "", "Path to a demo spec YAML file")
	planCmd.Flags().StringVar(&industry, "industry", "", "Built-in industry template to use instead of a spec file")
	planCmd.Flags().StringVar(&organization, "organization", "", "Organization name driving resource naming")
	planCmd.Flags().IntVar(&records, "records", 0, "Default rows per table (0 uses config default)")

	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(industriesCmd)
}

// loadDemoSpec resolves the demo spec from --spec or --industry.
func loadDemoSpec() (spec.DemoSpec, error) {
	if specFile != "" && industry != "" {
		return spec.DemoSpec{}, fmt.Errorf("--spec and --industry are mutually exclusive")
	}
	if specFile != "" {
		return spec.LoadDocument(specFile)
	}
	if industry != "" {
		return spec.TemplateByIndustry(industry, resolvedOrganization())
	}
	return spec.DemoSpec{}, fmt.Errorf("either --spec or --industry is required")
}

func resolvedOrganization() string {
	if organization != "" {
		return organization
	}
	return config.GetConfig().Defaults.Organization
}

func engineOptions() engine.Options {
	defaults := config.GetConfig().Defaults

	opts := engine.Options{
		Organization:       resolvedOrganization(),
		OverlapRatio:       defaults.OverlapRatio,
		RecordsPerTable:    defaults.RecordsPerTable,
		LanguageCode:       defaults.LanguageCode,
		EnableSemanticView: defaults.SemanticView && !noSemantic,
		EnableSearchIndex:  defaults.SearchIndex && !noSearch,
		EnableAgent:        defaults.Agent && !noAgent,
		Seed:               seed,
	}
	if overlapRatio != 0 {
		opts.OverlapRatio = overlapRatio
	}
	if records != 0 {
		opts.RecordsPerTable = records
	}
	if languageCode != "" {
		opts.LanguageCode = languageCode
	}
	return opts
}

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision a demo environment in Snowflake",
	RunE: func(cmd *cobra.Command, args []string) error {
		demo, err := loadDemoSpec()
		if err != nil {
			return err
		}

		cfg := config.GetConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		log := logger.New("demoforge")

		client, err := snowflake.Connect(cfg.Snowflake)
		if err != nil {
			return err
		}
		defer client.Close()

		var sink engine.HistorySink
		if cfg.Defaults.History && !noHistory {
			sink = snowflake.NewHistorySink(client)
		}

		opts := engineOptions()
		opts.RunID = uuid.New().String()
		client.RunID = opts.RunID

		record, err := engine.New(client, sink, log).Run(cmd.Context(), demo, opts)
		if err != nil {
			return err
		}

		if outputJSON {
			data, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		} else {
			printRunRecord(record)
		}

		if record.Status == engine.RunFailed {
			return fmt.Errorf("provisioning failed; see resource records above")
		}
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Validate a demo spec and show the planned schema without provisioning",
	RunE: func(cmd *cobra.Command, args []string) error {
		demo, err := loadDemoSpec()
		if err != nil {
			return err
		}

		rows := config.GetConfig().Defaults.RecordsPerTable
		if records != 0 {
			rows = records
		}

		schema, err := spec.Plan(demo, rows)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TABLE\tKIND\tROWS\tCOLUMNS\tPRIMARY KEY")
		for _, t := range schema.Tables {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", t.Name, t.Kind, t.RowCount, len(t.Columns), t.PrimaryKey)
		}
		w.Flush()

		if len(schema.Relationships) > 0 {
			fmt.Println()
			for _, rel := range schema.Relationships {
				fmt.Printf("%s.%s -> %s.%s\n", rel.FactTable, rel.FactColumn, rel.DimTable, rel.DimColumn)
			}
		}
		return nil
	},
}

var industriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "List the built-in industry templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(strings.Join(spec.TemplateIndustries(), "\n"))
		return nil
	},
}

func printRunRecord(record *engine.RunRecord) {
	fmt.Printf("Run %s: %s\n", record.RunID, record.Status)
	fmt.Printf("Schema: %s (%d tables, %d rows)\n", record.Names.Schema, record.TableCount, record.RowCount)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tSTATUS\tDETAIL")
	for _, r := range record.Resources {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Kind, r.Name, r.Status, r.Detail)
	}
	w.Flush()

	for _, pool := range record.RelaxedPools {
		fmt.Printf("note: join key pool %s was relaxed (dimension too small for the overlap ratio)\n", pool)
	}
}
