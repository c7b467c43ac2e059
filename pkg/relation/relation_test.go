package relation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsxbet/ddl-analyzer/pkg/advisor"
	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

type tableSpec struct {
	columns []string
	// keys maps key id -> first column.
	keys map[string]string
}

func newSchema(tables map[string]tableSpec) *types.Schema {
	schema := types.NewSchema()
	for name, spec := range tables {
		table := types.NewTable(name, name, types.Position{Line: 1, Column: 1})
		for i, column := range spec.columns {
			table.Columns[column] = &types.Column{
				Name:       column,
				Attributes: types.Attributes{Type: "int:unsigned"},
				Position:   types.Position{Line: i + 2, Column: 3},
			}
		}
		for id, column := range spec.keys {
			table.Keys[id] = &types.Key{Name: id, Parts: []types.KeyPart{{Column: column}}}
		}
		schema.Tables[name] = table
	}
	return schema
}

func TestInfer(t *testing.T) {
	tests := []struct {
		description   string
		tables        map[string]tableSpec
		opts          Options
		wantRelations types.RelationMap
		wantGaps      map[string]map[string]string
	}{
		{
			description: "suffix rule with integrity gap",
			tables: map[string]tableSpec{
				"bar": {columns: []string{"id", "foo_id"}},
				"foo": {columns: []string{"id"}},
			},
			wantRelations: types.RelationMap{"bar": {"foo": {"foo_id": {}}}},
			wantGaps:      map[string]map[string]string{"bar": {"foo_id": types.IntegrityGapTag}},
		},
		{
			description: "a key named after the column backs the relation",
			tables: map[string]tableSpec{
				"bar": {columns: []string{"foo_id"}, keys: map[string]string{"foo_id": "foo_id"}},
				"foo": {columns: []string{"id"}},
			},
			wantRelations: types.RelationMap{"bar": {"foo": {"foo_id": {}}}},
			wantGaps:      map[string]map[string]string{},
		},
		{
			description: "no table no edge",
			tables: map[string]tableSpec{
				"bar": {columns: []string{"foo_id"}},
			},
			wantRelations: types.RelationMap{},
			wantGaps:      map[string]map[string]string{},
		},
		{
			description: "infix rule",
			tables: map[string]tableSpec{
				"bar": {columns: []string{"foo_id_x"}},
				"foo": {columns: []string{"id"}},
			},
			wantRelations: types.RelationMap{"bar": {"foo": {"foo_id_x": {}}}},
			wantGaps:      map[string]map[string]string{"bar": {"foo_id_x": types.IntegrityGapTag}},
		},
		{
			description: "infix rule splits at the first occurrence",
			tables: map[string]tableSpec{
				"bar":    {columns: []string{"users_id_tech_id"}},
				"users":  {columns: []string{"id"}},
				"groups": {columns: []string{"id"}},
			},
			wantRelations: types.RelationMap{"bar": {"users": {"users_id_tech_id": {}}}},
			wantGaps:      map[string]map[string]string{"bar": {"users_id_tech_id": types.IntegrityGapTag}},
		},
		{
			description: "both rules fire on one column",
			tables: map[string]tableSpec{
				"bar":        {columns: []string{"foo_id_baz_id"}},
				"foo":        {columns: []string{"id"}},
				"foo_id_baz": {columns: []string{"id"}},
			},
			wantRelations: types.RelationMap{"bar": {
				"foo":        {"foo_id_baz_id": {}},
				"foo_id_baz": {"foo_id_baz_id": {}},
			}},
			wantGaps: map[string]map[string]string{"bar": {"foo_id_baz_id": types.IntegrityGapTag}},
		},
		{
			description: "self reference",
			tables: map[string]tableSpec{
				"entities": {columns: []string{"id", "entities_id"}, keys: map[string]string{"entities_id": "entities_id"}},
			},
			wantRelations: types.RelationMap{"entities": {"entities": {"entities_id": {}}}},
			wantGaps:      map[string]map[string]string{},
		},
		{
			description: "plural table names on request",
			tables: map[string]tableSpec{
				"orders":    {columns: []string{"customer_id"}},
				"customers": {columns: []string{"id"}},
			},
			opts:          Options{MatchPlural: true},
			wantRelations: types.RelationMap{"orders": {"customers": {"customer_id": {}}}},
			wantGaps:      map[string]map[string]string{"orders": {"customer_id": types.IntegrityGapTag}},
		},
		{
			description: "plural table names are not matched by default",
			tables: map[string]tableSpec{
				"orders":    {columns: []string{"customer_id"}},
				"customers": {columns: []string{"id"}},
			},
			wantRelations: types.RelationMap{},
			wantGaps:      map[string]map[string]string{},
		},
		{
			description: "composite key led by the column on request",
			tables: map[string]tableSpec{
				"bar": {columns: []string{"foo_id"}, keys: map[string]string{"unicity:unique": "foo_id"}},
				"foo": {columns: []string{"id"}},
			},
			opts:          Options{IndexByColumns: true},
			wantRelations: types.RelationMap{"bar": {"foo": {"foo_id": {}}}},
			wantGaps:      map[string]map[string]string{},
		},
		{
			description: "composite key led by the column does not count by default",
			tables: map[string]tableSpec{
				"bar": {columns: []string{"foo_id"}, keys: map[string]string{"unicity:unique": "foo_id"}},
				"foo": {columns: []string{"id"}},
			},
			wantRelations: types.RelationMap{"bar": {"foo": {"foo_id": {}}}},
			wantGaps:      map[string]map[string]string{"bar": {"foo_id": types.IntegrityGapTag}},
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			collector := advisor.NewCollector()
			result := NewInferencer(test.opts, collector).Infer(newSchema(test.tables))

			require.Equal(t, test.wantRelations, result.Relations)
			require.Equal(t, test.wantGaps, result.Gaps)
			require.Equal(t, result.GapCount(), collector.Len())
			for _, advice := range collector.Advices() {
				require.Equal(t, advisor.NoIndexForReferentialIntegrity.Int32(), advice.Code)
				require.Equal(t, types.Advice_WARNING, advice.Status)
				require.NotNil(t, advice.StartPosition)
			}
		})
	}
}

func TestInferGapAdviceContent(t *testing.T) {
	collector := advisor.NewCollector()
	NewInferencer(Options{}, collector).Infer(newSchema(map[string]tableSpec{
		"orders":    {columns: []string{"id", "customers_id"}},
		"customers": {columns: []string{"id"}},
	}))

	advices := collector.Advices()
	require.Len(t, advices, 1)
	require.Equal(t, "no index for customers_id in table: orders: would be needed to implement referential integrity", advices[0].Content)
	require.Equal(t, types.Position{Line: 3, Column: 3}, *advices[0].StartPosition)
}

func TestSortByDependencies(t *testing.T) {
	tests := []struct {
		description string
		tables      []string
		relations   types.RelationMap
		want        []string
	}{
		{
			description: "referenced tables first",
			tables:      []string{"orders", "customers", "items"},
			relations: types.RelationMap{
				"orders": {"customers": {"customers_id": {}}},
				"items":  {"orders": {"orders_id": {}}},
			},
			want: []string{"customers", "orders", "items"},
		},
		{
			description: "self references are ignored",
			tables:      []string{"entities", "users"},
			relations: types.RelationMap{
				"entities": {"entities": {"entities_id": {}}},
				"users":    {"entities": {"entities_id": {}}},
			},
			want: []string{"entities", "users"},
		},
		{
			description: "cycles are broken deterministically",
			tables:      []string{"b", "a", "c"},
			relations: types.RelationMap{
				"a": {"b": {"b_id": {}}},
				"b": {"a": {"a_id": {}}},
				"c": {"a": {"a_id": {}}},
			},
			want: []string{"a", "b", "c"},
		},
		{
			description: "no tables",
			want:        []string{},
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			got := SortByDependencies(test.tables, test.relations)
			if len(test.want) == 0 {
				require.Empty(t, got)
				return
			}
			require.Equal(t, test.want, got)
		})
	}
}
