// Package collision detects column names that stand for different shapes in
// different tables.
package collision

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nsxbet/ddl-analyzer/pkg/advisor"
	"github.com/nsxbet/ddl-analyzer/pkg/domain"
	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

// DefaultCommonColumns are the columns expected to be defined the same way
// in every table that has them.
var DefaultCommonColumns = []string{
	"id",
	"name",
	"comment",
	"date_creation",
	"date_mod",
	"is_deleted",
	"entities_id",
	"date_update",
}

// Index maps column name -> shape -> tables, tables sorted.
type Index map[string]map[string][]string

func (idx Index) add(column, shape, table string) {
	shapes, ok := idx[column]
	if !ok {
		shapes = make(map[string][]string)
		idx[column] = shapes
	}
	shapes[shape] = append(shapes[shape], table)
}

// conflicts returns the entries whose column has more than one shape.
func (idx Index) conflicts() Index {
	result := make(Index)
	for column, shapes := range idx {
		if len(shapes) < 2 {
			continue
		}
		result[column] = shapes
		for _, tables := range shapes {
			sort.Strings(tables)
		}
	}
	return result
}

// Columns returns the column names in sorted order.
func (idx Index) Columns() []string {
	result := make([]string, 0, len(idx))
	for column := range idx {
		result = append(result, column)
	}
	sort.Strings(result)
	return result
}

func (idx Index) describe(column string) string {
	shapes := make([]string, 0, len(idx[column]))
	for shape := range idx[column] {
		shapes = append(shapes, shape)
	}
	sort.Strings(shapes)

	parts := make([]string, 0, len(shapes))
	for _, shape := range shapes {
		parts = append(parts, fmt.Sprintf("%s (%s)", shape, strings.Join(idx[column][shape], ", ")))
	}
	return strings.Join(parts, "; ")
}

// Result is the outcome of collision detection.
type Result struct {
	// Collisions maps column name -> domain -> tables for names resolved to
	// more than one domain.
	Collisions Index
	// Common maps common column name -> shape -> tables for common columns
	// that are not shaped the same everywhere.
	Common Index
}

// Detector finds colliding column names.
type Detector struct {
	common    []string
	collector *advisor.Collector
}

// NewDetector returns a detector checking the given common columns and
// recording findings into collector.
func NewDetector(common []string, collector *advisor.Collector) *Detector {
	return &Detector{common: common, collector: collector}
}

// Detect scans a schema whose columns were already rewritten to domains.
// Only columns resolved to a domain take part in collisions.
func (d *Detector) Detect(schema *types.Schema) *Result {
	domains := make(Index)
	shapes := make(Index)
	common := make(map[string]bool, len(d.common))
	for _, column := range d.common {
		common[column] = true
	}

	for _, tableName := range schema.TableNames() {
		table := schema.Tables[tableName]
		for _, columnName := range table.ColumnNames() {
			column := table.Columns[columnName]
			if column.Domain != "" {
				domains.add(columnName, column.Domain, tableName)
			}
			if common[columnName] {
				shapes.add(columnName, Shape(column), tableName)
			}
		}
	}

	result := &Result{
		Collisions: domains.conflicts(),
		Common:     shapes.conflicts(),
	}
	for _, column := range result.Collisions.Columns() {
		d.collector.Warn(
			advisor.ColumnNameCollision,
			fmt.Sprintf("column %s resolves to %d domains: %s", column, len(result.Collisions[column]), result.Collisions.describe(column)),
			nil,
		)
	}
	for _, column := range result.Common.Columns() {
		d.collector.Warn(
			advisor.CommonColumnMismatch,
			fmt.Sprintf("common column %s is not defined the same way in every table: %s", column, result.Common.describe(column)),
			nil,
		)
	}
	return result
}

// Shape renders the resolved shape of a column: its domain name followed by
// the signature of the attributes the domain does not carry.
func Shape(column *types.Column) string {
	var parts []string
	if column.Domain != "" {
		parts = append(parts, column.Domain)
	}
	if rest := domain.Signature(&column.Attributes); rest != "" {
		parts = append(parts, rest)
	}
	return strings.Join(parts, "|")
}
