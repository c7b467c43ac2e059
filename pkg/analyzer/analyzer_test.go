package analyzer

import (
	"context"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nsxbet/ddl-analyzer/pkg/advisor"
	"github.com/nsxbet/ddl-analyzer/pkg/catalog"
	"github.com/nsxbet/ddl-analyzer/pkg/config"
	"github.com/nsxbet/ddl-analyzer/pkg/mysqlparser"
	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

const ordersDDL = `CREATE TABLE t_orders (id INT UNSIGNED NOT NULL AUTO_INCREMENT, customers_id INT UNSIGNED NOT NULL, PRIMARY KEY(id));
CREATE TABLE t_customers (id INT UNSIGNED NOT NULL AUTO_INCREMENT, PRIMARY KEY(id));`

const ordersReport = `
domain:
  default_pk:
    type: int:unsigned
    "null": false
    auto_increment: true
  "t:int:unsigned|n:F":
    type: int:unsigned
    "null": false
  "t:int:unsigned|n:F|ai:T":
    type: int:unsigned
    "null": false
    auto_increment: true
tables:
  customers:
    cols:
      id: {name: id, domain: default_pk}
    keys:
      "key:primary": [id]
    checks: {}
  orders:
    cols:
      id: {name: id, domain: default_pk}
      customers_id:
        name: customers_id
        type: int:unsigned
        "null": false
    keys:
      "key:primary": [id]
    checks: {}
relations:
  orders:
    customers:
      customers_id: {}
issues:
  relations:
    orders:
      customers_id: NoIndexForReferentialIntegrity
order: [customers, orders]
summary:
  tables: 2
  columns: 3
  domains: 3
  relations: 1
  integrity_gaps: 1
  collisions: 0
  common_drifts: 0
  skipped: 0
`

func requireYAMLEqual(t *testing.T, want string, got any) {
	t.Helper()
	data, err := yaml.Marshal(got)
	require.NoError(t, err)

	var wantObj, gotObj interface{}
	require.NoError(t, yaml.Unmarshal([]byte(want), &wantObj))
	require.NoError(t, yaml.Unmarshal(data, &gotObj))
	require.Equal(t, wantObj, gotObj)
}

func TestNew(t *testing.T) {
	a := New()
	require.NotNil(t, a.Config())
	require.Equal(t, catalog.DefaultTablePrefix, a.Config().Prefix())
}

func TestAnalyzeOrders(t *testing.T) {
	report, err := New().Analyze(context.Background(), ordersDDL, WithTablePrefix("t_"), WithFingerprint(false))
	require.NoError(t, err)

	requireYAMLEqual(t, ordersReport, report)
	require.Equal(t, "Analysis: 2 tables, 3 columns, 3 domains, 1 relations (1 integrity gaps, 0 collisions, 0 skipped)", report.String())

	require.True(t, report.HasIssues())
	gaps := report.FilterByCode(advisor.NoIndexForReferentialIntegrity.Int32())
	require.Len(t, gaps, 1)
	require.Equal(t, types.Position{Line: 1, Column: 65}, *gaps[0].StartPosition)
}

func TestAnalyzeKeySuppressesIntegrityGap(t *testing.T) {
	ddl := `CREATE TABLE t_orders (id INT UNSIGNED NOT NULL AUTO_INCREMENT, customers_id INT UNSIGNED NOT NULL, PRIMARY KEY(id), KEY customers_id (customers_id));
CREATE TABLE t_customers (id INT UNSIGNED NOT NULL AUTO_INCREMENT, PRIMARY KEY(id));`

	report, err := New().Analyze(context.Background(), ddl, WithTablePrefix("t_"))
	require.NoError(t, err)
	require.Equal(t, types.RelationMap{"orders": {"customers": {"customers_id": {}}}}, report.Relations)
	require.Empty(t, report.Issues.Relations)
	require.False(t, report.HasIssues())
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	a := New()
	first, err := a.Analyze(context.Background(), ordersDDL, WithTablePrefix("t_"))
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), ordersDDL, WithTablePrefix("t_"))
	require.NoError(t, err)

	require.NotEmpty(t, first.Fingerprint)
	require.Equal(t, first.Fingerprint, second.Fingerprint)
	require.Equal(t, first.Domain, second.Domain)
	require.Equal(t, first.Tables, second.Tables)

	other, err := a.Analyze(context.Background(), ordersDDL)
	require.NoError(t, err)
	require.NotEqual(t, first.Fingerprint, other.Fingerprint)
}

func TestAnalyzeCollisions(t *testing.T) {
	ddl := `CREATE TABLE glpi_computers (
  id int unsigned NOT NULL AUTO_INCREMENT,
  name varchar(255) DEFAULT NULL,
  is_deleted tinyint NOT NULL DEFAULT '0',
  PRIMARY KEY (id)
);
CREATE TABLE glpi_racks (
  id int unsigned NOT NULL AUTO_INCREMENT,
  name varchar(255) DEFAULT NULL,
  is_deleted int unsigned NOT NULL DEFAULT '0',
  computers_id int unsigned NOT NULL DEFAULT '0',
  PRIMARY KEY (id),
  KEY computers_id (computers_id)
);`

	report, err := New().Analyze(context.Background(), ddl)
	require.NoError(t, err)

	require.Equal(t, map[string]map[string][]string{
		"is_deleted": {
			"bool_false":  {"computers"},
			"u_int_nn_d0": {"racks"},
		},
	}, report.Issues.Collisions)
	require.Equal(t, map[string]map[string][]string{
		"is_deleted": {
			"bool_false":  {"computers"},
			"u_int_nn_d0": {"racks"},
		},
	}, report.Issues.Common)
	require.Empty(t, report.Issues.Relations)
	require.Equal(t, types.RelationMap{"racks": {"computers": {"computers_id": {}}}}, report.Relations)
	require.Equal(t, []string{"computers", "racks"}, report.Order)

	require.Equal(t, 1, report.Summary.Collisions)
	require.Equal(t, 1, report.Summary.CommonDrifts)
	require.Len(t, report.FilterByStatus(types.Advice_WARNING), 2)
	require.Equal(t, "varchar255_null", report.Tables["racks"].Columns["name"].Domain)
}

func TestAnalyzeTemplateOrder(t *testing.T) {
	ddl := "CREATE TABLE t (flag tinyint NOT NULL DEFAULT '0');"
	broad := &types.DomainTemplate{Name: "tiny", Attributes: types.Attributes{Type: "tinyint"}}
	narrow := &types.DomainTemplate{Name: "tiny_nn", Attributes: types.Attributes{Type: "tinyint", Null: types.Bool(false)}}

	tests := []struct {
		templates []*types.DomainTemplate
		want      string
	}{
		{templates: []*types.DomainTemplate{broad, narrow}, want: "tiny"},
		{templates: []*types.DomainTemplate{narrow, broad}, want: "tiny_nn"},
	}

	for _, test := range tests {
		cfg := config.DefaultConfig("test")
		cfg.Domains = test.templates

		report, err := New().WithConfigObject(cfg).Analyze(context.Background(), ddl)
		require.NoError(t, err)
		require.Equal(t, test.want, report.Tables["t"].Columns["flag"].Domain)
		require.Contains(t, report.Domain, test.want)
	}
}

func TestAnalyzeSkippedStatements(t *testing.T) {
	ddl := "SET NAMES utf8mb4;\n" +
		"CREATE TABLE `glpi_a` (`id` int NOT NULL);\n" +
		"CREATE TABLE `glpi_b` LIKE `glpi_a`;\n"

	report, err := New().Analyze(context.Background(), ddl)
	require.NoError(t, err)
	require.Len(t, report.Tables, 1)
	require.Equal(t, 2, report.Summary.Skipped)
	require.Len(t, report.Issues.Skipped, 2)
	require.Equal(t, "SET NAMES utf8mb4", report.Issues.Skipped[0].Statement)
	require.Equal(t, types.Position{Line: 3, Column: 1}, report.Issues.Skipped[1].Position)
	require.NotEmpty(t, report.Issues.Skipped[1].Reason)

	require.Nil(t, report.Issues.Skipped[0].ReasonPosition)
	require.Equal(t, &types.Position{Line: 3, Column: 23}, report.Issues.Skipped[1].ReasonPosition)

	infos := report.FilterByCode(advisor.StatementSkipped.Int32())
	require.Len(t, infos, 1)
	require.Equal(t, types.Advice_INFO, infos[0].Status)

	rejected := report.FilterByCode(advisor.StatementSyntaxError.Int32())
	require.Len(t, rejected, 1)
	require.Equal(t, types.Advice_WARNING, rejected[0].Status)
	require.Equal(t, advisor.SyntaxErrorTitle, rejected[0].Title)
	require.Equal(t, &types.Position{Line: 3, Column: 23}, rejected[0].StartPosition)
	require.True(t, report.HasIssues())

	_, err = New().Analyze(context.Background(), ddl, WithStrict(true))
	require.Error(t, err)
	var syntaxErr *mysqlparser.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	require.Equal(t, 3, syntaxErr.Position.Line)
}

func TestAnalyzeStrayBlockEnds(t *testing.T) {
	tests := []struct {
		description string
		ddl         string
		wantTables  []string
		wantSkipped []string
	}{
		{
			description: "END without BEGIN",
			ddl:         "COMMIT;\nEND;\nCREATE TABLE glpi_a (id int);",
			wantTables:  []string{"a"},
			wantSkipped: []string{"COMMIT", "END"},
		},
		{
			description: "END IF after CREATE TABLE IF NOT EXISTS",
			ddl:         "CREATE TABLE IF NOT EXISTS glpi_b (id int);\nSELECT 1;\nEND IF;\nCREATE TABLE glpi_a (id int);",
			wantTables:  []string{"a", "b"},
			wantSkipped: []string{"SELECT 1", "END IF"},
		},
		{
			description: "versioned comments",
			ddl:         "/*!40101 SET NAMES utf8mb4 */;\nCREATE TABLE glpi_a (id int);",
			wantTables:  []string{"a"},
			wantSkipped: []string{"/*!40101 SET NAMES utf8mb4"},
		},
	}

	for _, test := range tests {
		report, err := New().Analyze(context.Background(), test.ddl)
		require.NoError(t, err, test.description)

		var tables []string
		for name := range report.Tables {
			tables = append(tables, name)
		}
		sort.Strings(tables)
		require.Equal(t, test.wantTables, tables, test.description)

		var skipped []string
		for _, statement := range report.Issues.Skipped {
			require.False(t, statement.Rejected(), test.description)
			skipped = append(skipped, statement.Statement)
		}
		require.Equal(t, test.wantSkipped, skipped, test.description)
	}
}

func TestAnalyzeFatalErrors(t *testing.T) {
	tests := []struct {
		description string
		ddl         string
		wantType    catalog.WalkThroughErrorType
	}{
		{
			description: "duplicate default",
			ddl:         "CREATE TABLE t (a int DEFAULT 1 DEFAULT 2);",
			wantType:    catalog.ErrorTypeDuplicateColumnModifier,
		},
		{
			description: "on update",
			ddl:         "CREATE TABLE t (a timestamp ON UPDATE CURRENT_TIMESTAMP);",
			wantType:    catalog.ErrorTypeOnUpdateNotImplemented,
		},
		{
			description: "display width",
			ddl:         "CREATE TABLE t (a int(11));",
			wantType:    catalog.ErrorTypeDataTypeMismatch,
		},
		{
			description: "spatial key",
			ddl:         "CREATE TABLE t (g geometry NOT NULL, SPATIAL KEY g (g));",
			wantType:    catalog.ErrorTypeUnknownKeyKind,
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			report, err := New().Analyze(context.Background(), test.ddl)
			require.Error(t, err)
			require.Nil(t, report)

			var walkErr *catalog.WalkThroughError
			require.True(t, errors.As(err, &walkErr))
			require.Equal(t, test.wantType, walkErr.Type)
			require.Equal(t, 1, walkErr.Position.Line)
		})
	}
}

func TestAnalyzeIgnoreDisplayWidth(t *testing.T) {
	report, err := New().Analyze(context.Background(), "CREATE TABLE t (a int(11));", WithIgnoreDisplayWidth(true))
	require.NoError(t, err)
	require.Equal(t, "int", report.Tables["t"].Columns["a"].Type)
}

func TestAnalyzeLexicalError(t *testing.T) {
	_, err := New().Analyze(context.Background(), "CREATE TABLE t (a varchar(10) DEFAULT 'open);")
	require.Error(t, err)
	var syntaxErr *mysqlparser.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
}

func TestAnalyzeContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New().Analyze(ctx, ordersDDL)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, report)
}

type stringSource string

func (s stringSource) Read(context.Context) (string, error) {
	return string(s), nil
}

type failingSource struct{}

func (failingSource) Read(context.Context) (string, error) {
	return "", errors.New("connection refused")
}

func TestAnalyzeSource(t *testing.T) {
	report, err := New().AnalyzeSource(context.Background(), stringSource(ordersDDL), WithTablePrefix("t_"))
	require.NoError(t, err)
	require.Len(t, report.Tables, 2)

	_, err = New().AnalyzeSource(context.Background(), failingSource{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read DDL: connection refused")
}

func TestWithConfig(t *testing.T) {
	a := New()
	require.Error(t, a.WithConfig("./test/missing.yaml"))
	require.NoError(t, a.WithConfig("./test/profile.yaml"))
	require.Equal(t, "t_", a.Config().Prefix())

	report, err := a.Analyze(context.Background(), ordersDDL)
	require.NoError(t, err)
	require.Contains(t, report.Tables, "orders")
	require.Equal(t, "pk", report.Tables["orders"].Columns["id"].Domain)
}
