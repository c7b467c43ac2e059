package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nsxbet/ddl-analyzer/pkg/analyzer"
	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

const ordersDDL = `CREATE TABLE glpi_customers (
  id int unsigned NOT NULL AUTO_INCREMENT,
  PRIMARY KEY (id)
);
CREATE TABLE glpi_orders (
  id int unsigned NOT NULL AUTO_INCREMENT,
  customers_id int unsigned NOT NULL DEFAULT 0,
  PRIMARY KEY (id)
);
`

func analyzeOrders(t *testing.T) *types.Report {
	report, err := analyzer.New().Analyze(context.Background(), ordersDDL)
	require.NoError(t, err)
	return report
}

func TestOutputReport(t *testing.T) {
	report := analyzeOrders(t)

	var buf bytes.Buffer
	require.NoError(t, outputReport(&buf, report, "json"))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Contains(t, decoded, "relations")
	require.Equal(t, report.Fingerprint, decoded["fingerprint"])

	buf.Reset()
	require.NoError(t, outputReport(&buf, report, "yaml"))
	decoded = nil
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, []any{"customers", "orders"}, decoded["order"])

	buf.Reset()
	require.NoError(t, outputReport(&buf, report, "text"))
	text := buf.String()
	require.Contains(t, text, "Load order:\n  1. customers\n  2. orders\n")
	require.Contains(t, text, "[WARNING] No index for referential integrity at line 7, column 3")
	require.Contains(t, text, "Analysis: 2 tables, 3 columns")
	require.Contains(t, text, "Fingerprint: "+report.Fingerprint)

	require.ErrorContains(t, outputReport(&buf, report, "xml"), "unsupported output format: xml")
}

func TestOutputTextNoIssues(t *testing.T) {
	report, err := analyzer.New().Analyze(context.Background(), "CREATE TABLE glpi_a (id int);", analyzer.WithFingerprint(false))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, outputText(&buf, report))
	require.Contains(t, buf.String(), "No issues found.")
	require.NotContains(t, buf.String(), "Fingerprint:")
}

func TestAnalyzeCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.sql")
	require.NoError(t, os.WriteFile(path, []byte(ordersDDL), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"analyze", "--output", "json", "--fail-on-issues", path})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.ErrorIs(t, err, errIssuesFound)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(&out).Decode(&decoded))
	require.Contains(t, decoded["issues"], "relations")
}
