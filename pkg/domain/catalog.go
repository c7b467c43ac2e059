// Package domain catalogs column shapes and rewrites columns to reference
// named templates.
package domain

import (
	"log/slog"

	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

// Catalog maps domain names to the column shape they stand for.
//
// A Catalog belongs to one analysis run. The first column registered under a
// signature fixes its entry, later registrations never change it.
type Catalog struct {
	templates []*types.DomainTemplate
	entries   map[string]*types.Attributes
}

// NewCatalog returns an empty catalog matching columns against templates in
// the given order.
func NewCatalog(templates []*types.DomainTemplate) *Catalog {
	return &Catalog{
		templates: templates,
		entries:   make(map[string]*types.Attributes),
	}
}

// Register records attrs under its signature unless the signature is already
// known. It returns the signature and whether it was new.
func (c *Catalog) Register(attrs *types.Attributes) (string, bool) {
	signature := Signature(attrs)
	if _, ok := c.entries[signature]; ok {
		return signature, false
	}
	c.entries[signature] = attrs.Clone()
	return signature, true
}

// Match returns the first template whose attributes are all carried by
// attrs, or nil.
func (c *Catalog) Match(attrs *types.Attributes) *types.DomainTemplate {
	for _, template := range c.templates {
		if template.IsEmpty() {
			continue
		}
		if attrs.Contains(&template.Attributes) {
			return template
		}
	}
	return nil
}

// Rewrite registers the shape of column and, when a template matches,
// rewrites the column to reference it. It returns the template name, or ""
// when no template matched.
func (c *Catalog) Rewrite(column *types.Column) string {
	c.Register(&column.Attributes)

	template := c.Match(&column.Attributes)
	if template == nil {
		return ""
	}
	if _, ok := c.entries[template.Name]; !ok {
		c.entries[template.Name] = template.Attributes.Clone()
	}
	column.Domain = template.Name
	column.Subtract(&template.Attributes)
	return template.Name
}

// Apply rewrites every column of the schema, tables and columns in name
// order.
func (c *Catalog) Apply(schema *types.Schema) {
	for _, tableName := range schema.TableNames() {
		table := schema.Tables[tableName]
		for _, columnName := range table.ColumnNames() {
			if name := c.Rewrite(table.Columns[columnName]); name != "" {
				slog.Debug("Column matches domain template", "table", tableName, "column", columnName, "domain", name)
			}
		}
	}
}

// Lookup returns the shape registered under name.
func (c *Catalog) Lookup(name string) (*types.Attributes, bool) {
	attrs, ok := c.entries[name]
	return attrs, ok
}

// Len returns the number of registered domains.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Domains returns a copy of the catalog entries.
func (c *Catalog) Domains() map[string]*types.Attributes {
	result := make(map[string]*types.Attributes, len(c.entries))
	for name, attrs := range c.entries {
		result[name] = attrs.Clone()
	}
	return result
}
