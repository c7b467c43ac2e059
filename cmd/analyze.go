package cmd

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nsxbet/ddl-analyzer/pkg/analyzer"
	"github.com/nsxbet/ddl-analyzer/pkg/logger"
	"github.com/nsxbet/ddl-analyzer/pkg/source"
)

// errIssuesFound makes the process exit non-zero under --fail-on-issues.
var errIssuesFound = errors.New("issues found")

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <sql-file>",
	Short: "Analyze CREATE TABLE statements",
	Long: `Analyze the CREATE TABLE statements of a DDL file, or of the database
behind --dsn, and print the report.

The report holds the schema model, the catalog of domains, the inferred
relations and the issues found: relations no key backs, column names
used for different domains and common columns shaped differently across
tables.`,
	Example: `  ddl-analyzer analyze glpi.sql
  ddl-analyzer analyze --profile profile.yaml -o json glpi.sql
  ddl-analyzer analyze --dsn 'user:pass@tcp(localhost:3306)/glpi' -o text`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags for analyze command
	analyzeCmd.Flags().StringP("output", "o", "yaml", "output format (yaml, json, text)")
	analyzeCmd.Flags().StringP("profile", "p", "", "path to analysis profile (YAML or JSON)")
	analyzeCmd.Flags().String("prefix", "", "table name prefix to strip (overrides the profile)")
	analyzeCmd.Flags().String("dsn", "", "read table definitions from a MySQL/MariaDB server")
	analyzeCmd.Flags().Bool("strict", false, "fail on CREATE TABLE statements the grammar does not accept")
	analyzeCmd.Flags().Bool("ignore-display-width", false, "resolve int(11) like int")
	analyzeCmd.Flags().Bool("fail-on-issues", false, "exit with non-zero code if warnings are found")

	// Bind flags to viper
	_ = viper.BindPFlag("output", analyzeCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("profile", analyzeCmd.Flags().Lookup("profile"))
	_ = viper.BindPFlag("prefix", analyzeCmd.Flags().Lookup("prefix"))
	_ = viper.BindPFlag("dsn", analyzeCmd.Flags().Lookup("dsn"))
	_ = viper.BindPFlag("strict", analyzeCmd.Flags().Lookup("strict"))
	_ = viper.BindPFlag("ignore-display-width", analyzeCmd.Flags().Lookup("ignore-display-width"))
	_ = viper.BindPFlag("fail-on-issues", analyzeCmd.Flags().Lookup("fail-on-issues"))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	slog.Debug("Starting analyze command", "args", args)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a := analyzer.New()
	if profile := viper.GetString("profile"); profile != "" {
		slog.Debug("Loading profile", "file", profile)
		if err := a.WithConfig(profile); err != nil {
			slog.Error("failed to load profile", logger.Error(err))
			return err
		}
	}

	var opts []analyzer.AnalyzeOption
	if viper.IsSet("prefix") {
		opts = append(opts, analyzer.WithTablePrefix(viper.GetString("prefix")))
	}
	if viper.GetBool("strict") {
		opts = append(opts, analyzer.WithStrict(true))
	}
	if viper.GetBool("ignore-display-width") {
		opts = append(opts, analyzer.WithIgnoreDisplayWidth(true))
	}

	src, closeSource, err := openSource(ctx, args)
	if err != nil {
		return err
	}
	defer closeSource()

	report, err := a.AnalyzeSource(ctx, src, opts...)
	if err != nil {
		return err
	}
	slog.Info(report.String())

	if err := outputReport(cmd.OutOrStdout(), report, viper.GetString("output")); err != nil {
		return err
	}

	if report.HasIssues() && viper.GetBool("fail-on-issues") {
		return errIssuesFound
	}
	return nil
}

// openSource picks the DDL source: the file argument or the --dsn server.
func openSource(ctx context.Context, args []string) (analyzer.Source, func(), error) {
	dsn := viper.GetString("dsn")
	switch {
	case dsn != "" && len(args) > 0:
		return nil, nil, errors.New("give either a SQL file or --dsn, not both")
	case dsn != "":
		db, err := source.OpenMySQL(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	case len(args) == 1:
		return &source.File{Path: args[0]}, func() {}, nil
	default:
		return nil, nil, errors.New("a SQL file or --dsn is required")
	}
}
