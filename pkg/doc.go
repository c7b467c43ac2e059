// Package pkg provides static analysis of MySQL/MariaDB table definitions for Go applications.
//
// DDL Analyzer reads CREATE TABLE statements, builds a schema model out of
// them and runs three analyses over the model: domain cataloguing, relation
// inference from column names, and column name collision detection.
//
// # Package Structure
//
// The pkg directory contains several specialized packages:
//
//   - analyzer: High-level API running the whole pipeline (recommended starting point)
//   - mysqlparser: Statement splitter and CREATE TABLE parser producing a typed AST
//   - catalog: Walk through turning the AST into a schema model
//   - domain: Column shape signatures and domain templates
//   - relation: Relations implied by `<table>_id` columns, integrity gaps, load order
//   - collision: Column names used for different domains, common column drift
//   - advisor: Advice codes and the collector advices are recorded through
//   - types: Schema model, values, advices and the report
//   - config: Analysis profile loading and management
//   - source: DDL documents from files and live MySQL/MariaDB servers
//   - logger: Logging abstraction layer
//
// # Getting Started
//
// For most use cases, start with the analyzer package:
//
//	import "github.com/nsxbet/ddl-analyzer/pkg/analyzer"
//
//	func main() {
//	    a := analyzer.New()
//	    report, err := a.Analyze(context.Background(), ddl)
//	    // Process report...
//	}
//
// # Analyses
//
// Domains: columns whose shape contains all the attributes of a profile
// template are rewritten to the template name. The first matching template
// wins.
//
// Relations: a column `<t>_id` or `<t>_id_<role>` refers to table `<t>`.
// A relation whose column is not a key name of its table is an integrity gap.
//
// Collisions: a column name rewritten to more than one domain across tables.
//
// # Configuration
//
// Profiles are YAML or JSON files, or built programmatically:
//
//	a := analyzer.New()
//	if err := a.WithConfig("profile.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Analysis distinguishes between:
//   - Findings (returned as Advice in the Report)
//   - Fatal errors: *mysqlparser.SyntaxError and *catalog.WalkThroughError
//
// A fatal error aborts the run and no report is returned.
//
// # Thread Safety
//
// An Analyzer can be reused and shared: every run builds its own domain
// catalog.
package pkg
