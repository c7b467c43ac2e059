// Package analyzer provides a high-level API for analyzing MySQL/MariaDB DDL.
//
// An analysis parses every CREATE TABLE statement of a DDL document into a
// schema model, then catalogs column shapes into domains, infers relations
// from `<table>_id` column names and detects column names used for different
// shapes.
//
// # Quick Start
//
//	a := analyzer.New()
//
//	report, err := a.Analyze(context.Background(), ddl)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(report)
//	for _, advice := range report.Advices {
//	    fmt.Printf("[%s] %s\n", advice.Status, advice.Content)
//	}
//
// # Using a Profile
//
//	a := analyzer.New()
//	if err := a.WithConfig("profile.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	report, err := a.Analyze(ctx, ddl, analyzer.WithStrict(true))
package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"

	"github.com/nsxbet/ddl-analyzer/pkg/advisor"
	"github.com/nsxbet/ddl-analyzer/pkg/catalog"
	"github.com/nsxbet/ddl-analyzer/pkg/collision"
	"github.com/nsxbet/ddl-analyzer/pkg/config"
	"github.com/nsxbet/ddl-analyzer/pkg/domain"
	"github.com/nsxbet/ddl-analyzer/pkg/mysqlparser"
	"github.com/nsxbet/ddl-analyzer/pkg/relation"
	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

// Analyzer runs analyses of DDL documents against a profile.
//
// Analyzer holds no state between runs: every call to Analyze builds its own
// domain catalog, so an Analyzer is safe for concurrent use by multiple
// goroutines as long as its configuration is not replaced meanwhile.
type Analyzer struct {
	config *config.Config
}

// Source provides a DDL document.
type Source interface {
	Read(ctx context.Context) (string, error)
}

// New creates a new Analyzer with the default profile.
//
// Use WithConfig or WithConfigObject to customize it.
func New() *Analyzer {
	return &Analyzer{config: config.DefaultConfig("default")}
}

// WithConfig loads the profile from a YAML or JSON file.
// This replaces the current configuration.
//
// Example:
//
//	a := analyzer.New()
//	if err := a.WithConfig("profile.yaml"); err != nil {
//	    return err
//	}
func (a *Analyzer) WithConfig(filename string) error {
	cfg, err := config.LoadFromFile(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to load config from %s", filename)
	}
	a.config = cfg
	return nil
}

// WithConfigObject sets the profile directly.
// This replaces the current configuration.
//
// Returns the Analyzer for method chaining.
func (a *Analyzer) WithConfigObject(cfg *config.Config) *Analyzer {
	a.config = cfg
	return a
}

// Config returns the current profile.
func (a *Analyzer) Config() *config.Config {
	return a.config
}

// AnalyzeSource reads the DDL document from src and analyzes it.
func (a *Analyzer) AnalyzeSource(ctx context.Context, src Source, opts ...AnalyzeOption) (*types.Report, error) {
	ddl, err := src.Read(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read DDL")
	}
	return a.Analyze(ctx, ddl, opts...)
}

// Analyze runs the whole pipeline over a DDL document and returns the
// report.
//
// A syntax error or a definition the model cannot represent aborts the run:
// the returned error is a *mysqlparser.SyntaxError or a
// *catalog.WalkThroughError, wrapped, and no report is returned. Findings
// such as integrity gaps are advices inside the report.
//
// The context is checked between stages.
func (a *Analyzer) Analyze(ctx context.Context, sql string, opts ...AnalyzeOption) (*types.Report, error) {
	analyzeOpts := &analyzeOptions{
		strict:             a.config.Strict,
		tablePrefix:        a.config.Prefix(),
		ignoreDisplayWidth: a.config.IgnoreDisplayWidth,
		fingerprint:        true,
	}
	for _, opt := range opts {
		opt(analyzeOpts)
	}

	collector := advisor.NewCollector()
	if err := a.config.ApplyLevels(collector); err != nil {
		return nil, err
	}

	slog.Debug("Parsing DDL", "size", len(sql), "strict", analyzeOpts.strict)
	script, err := mysqlparser.Parse(sql, mysqlparser.WithStrict(analyzeOpts.strict))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse DDL")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	finder := catalog.NewFinder(&catalog.FinderContext{
		TablePrefix:        analyzeOpts.tablePrefix,
		IgnoreDisplayWidth: analyzeOpts.ignoreDisplayWidth,
	})
	if err := finder.WalkThrough(script); err != nil {
		return nil, errors.Wrap(err, "failed to build schema")
	}
	schema := finder.Final
	for _, skipped := range schema.Skipped {
		if skipped.Rejected() {
			collector.Warn(advisor.StatementSyntaxError, skipped.String(), skipped.ReasonPosition)
			continue
		}
		pos := skipped.Position
		collector.Info(advisor.StatementSkipped, skipped.String(), &pos)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	domains := domain.NewCatalog(a.config.Templates())
	domains.Apply(schema)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	relations := relation.NewInferencer(relation.Options{
		MatchPlural:    a.config.Relations.MatchPlural,
		IndexByColumns: a.config.Relations.IndexByColumns,
	}, collector).Infer(schema)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collisions := collision.NewDetector(a.config.Common(), collector).Detect(schema)

	report := &types.Report{
		Domain:    domains.Domains(),
		Tables:    schema.Tables,
		Relations: relations.Relations,
		Issues: types.Issues{
			Relations:  relations.Gaps,
			Collisions: collisions.Collisions,
			Common:     collisions.Common,
			Skipped:    schema.Skipped,
		},
		Order:   relations.Order,
		Advices: collector.Advices(),
	}
	report.Summary = calculateSummary(report, domains.Len(), relations.GapCount())

	if analyzeOpts.fingerprint {
		fingerprint, err := Fingerprint(report)
		if err != nil {
			return nil, err
		}
		report.Fingerprint = fingerprint
	}

	slog.Debug("Analysis finished", "summary", report.String())
	return report, nil
}

// calculateSummary computes the counts of a report.
func calculateSummary(report *types.Report, domains, gaps int) types.Summary {
	summary := types.Summary{
		Tables:        len(report.Tables),
		Domains:       domains,
		Relations:     report.Relations.Count(),
		IntegrityGaps: gaps,
		Collisions:    len(report.Issues.Collisions),
		CommonDrifts:  len(report.Issues.Common),
		Skipped:       len(report.Issues.Skipped),
	}
	for _, table := range report.Tables {
		summary.Columns += len(table.Columns)
	}
	return summary
}

// Fingerprint hashes the YAML encoding of the report, fingerprint field
// excluded. Reports of identical analyses share the fingerprint.
func Fingerprint(report *types.Report) (string, error) {
	body := *report
	body.Fingerprint = ""
	data, err := yaml.Marshal(&body)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode report")
	}
	return fmt.Sprintf("%016x", xxh3.Hash(data)), nil
}
