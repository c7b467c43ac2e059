package catalog

import (
	"log/slog"
	"strings"

	"github.com/nsxbet/ddl-analyzer/pkg/mysqlparser"
	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

// DefaultTablePrefix is the table name prefix stripped to obtain logical
// table names when no other prefix is configured.
const DefaultTablePrefix = "glpi_"

// FinderContext is the context for finder.
type FinderContext struct {
	// TablePrefix is stripped once from the start of every table name.
	TablePrefix string

	// IgnoreDisplayWidth drops the display width of integer types, so that
	// int(11) resolves like int.
	IgnoreDisplayWidth bool
}

// Copy returns the deep copy.
func (ctx *FinderContext) Copy() *FinderContext {
	return &FinderContext{
		TablePrefix:        ctx.TablePrefix,
		IgnoreDisplayWidth: ctx.IgnoreDisplayWidth,
	}
}

// LogicalName returns the table name with the configured prefix stripped.
func (ctx *FinderContext) LogicalName(table string) string {
	return TrimTablePrefix(table, ctx.TablePrefix)
}

// TrimTablePrefix strips prefix once from the start of table.
func TrimTablePrefix(table, prefix string) string {
	if prefix == "" || !strings.HasPrefix(table, prefix) {
		return table
	}
	return table[len(prefix):]
}

// Finder builds the schema model of a DDL document.
type Finder struct {
	ctx   *FinderContext
	Final *types.Schema
}

// NewFinder creates a finder with an empty schema.
func NewFinder(ctx *FinderContext) *Finder {
	return &Finder{ctx: ctx.Copy(), Final: types.NewSchema()}
}

// WalkThrough folds the parsed statements into the schema. A later CREATE
// TABLE for the same logical name replaces the earlier one.
func (f *Finder) WalkThrough(script *mysqlparser.Script) error {
	for _, stmt := range script.Statements {
		switch node := stmt.(type) {
		case *mysqlparser.CreateTableStmt:
			table, err := f.createTable(node)
			if err != nil {
				return err
			}
			if previous, exists := f.Final.Tables[table.Name]; exists {
				slog.Debug("table defined again, keeping the last definition",
					"table", table.Name,
					"previous_line", previous.Position.Line,
					"line", table.Position.Line)
			}
			f.Final.Tables[table.Name] = table
		case *mysqlparser.IgnoredStmt:
			skipped := node.Skipped()
			slog.Debug("statement skipped", "statement", skipped.Statement, "line", skipped.Position.Line, "reason", skipped.Reason)
			f.Final.Skipped = append(f.Final.Skipped, skipped)
		default:
			return NewUnexpectedNodeError(stmt)
		}
	}
	return nil
}
