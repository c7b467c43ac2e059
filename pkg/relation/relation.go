// Package relation infers table relations from column naming conventions.
package relation

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/nsxbet/ddl-analyzer/pkg/advisor"
	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

const (
	idSuffix = "_id"
	idInfix  = "_id_"
)

// Options tunes relation inference.
type Options struct {
	// MatchPlural also resolves `customer_id` to a table named `customers`.
	MatchPlural bool
	// IndexByColumns accepts any key whose first column is the via column as
	// backing the relation. By default only a key named after the column does.
	IndexByColumns bool
}

// Result is the outcome of relation inference.
type Result struct {
	Relations types.RelationMap
	// Gaps maps table -> via column -> types.IntegrityGapTag.
	Gaps map[string]map[string]string
	// Order lists the tables with referenced tables first.
	Order []string
}

// GapCount returns the number of relations without a backing key.
func (r *Result) GapCount() int {
	n := 0
	for _, vias := range r.Gaps {
		n += len(vias)
	}
	return n
}

// Inferencer finds relations implied by `<table>_id` and `<table>_id_<x>`
// column names.
type Inferencer struct {
	opts      Options
	collector *advisor.Collector
}

// NewInferencer returns an inferencer recording integrity gaps into
// collector.
func NewInferencer(opts Options, collector *advisor.Collector) *Inferencer {
	return &Inferencer{opts: opts, collector: collector}
}

// Infer scans every column of schema, tables and columns in name order.
// Both naming rules are checked for each column and each match records an
// edge.
func (i *Inferencer) Infer(schema *types.Schema) *Result {
	result := &Result{
		Relations: make(types.RelationMap),
		Gaps:      make(map[string]map[string]string),
	}

	for _, tableName := range schema.TableNames() {
		table := schema.Tables[tableName]
		for _, columnName := range table.ColumnNames() {
			for _, target := range i.targets(schema, columnName) {
				relation := types.Relation{Source: tableName, Target: target, Via: columnName}
				slog.Debug("Relation found", "relation", relation.String())
				result.Relations.Add(relation)

				if i.isBacked(table, columnName) {
					continue
				}
				if _, ok := result.Gaps[tableName]; !ok {
					result.Gaps[tableName] = make(map[string]string)
				}
				if _, seen := result.Gaps[tableName][columnName]; seen {
					continue
				}
				result.Gaps[tableName][columnName] = types.IntegrityGapTag
				pos := table.Columns[columnName].Position
				i.collector.Warn(
					advisor.NoIndexForReferentialIntegrity,
					fmt.Sprintf("no index for %s in table: %s: would be needed to implement referential integrity", columnName, tableName),
					&pos,
				)
			}
		}
	}

	result.Order = SortByDependencies(schema.TableNames(), result.Relations)
	return result
}

// targets returns the tables column refers to, suffix rule first.
func (i *Inferencer) targets(schema *types.Schema, column string) []string {
	var targets []string
	if strings.HasSuffix(column, idSuffix) {
		if target, ok := i.resolve(schema, strings.TrimSuffix(column, idSuffix)); ok {
			targets = append(targets, target)
		}
	}
	if idx := strings.Index(column, idInfix); idx >= 0 {
		if target, ok := i.resolve(schema, column[:idx]); ok && !contains(targets, target) {
			targets = append(targets, target)
		}
	}
	return targets
}

func (i *Inferencer) resolve(schema *types.Schema, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if schema.HasTable(name) {
		return name, true
	}
	if i.opts.MatchPlural {
		if plural := inflect.Pluralize(name); schema.HasTable(plural) {
			return plural, true
		}
	}
	return "", false
}

func (i *Inferencer) isBacked(table *types.Table, column string) bool {
	if table.HasKey(column) {
		return true
	}
	return i.opts.IndexByColumns && table.HasKeyOn(column)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
