package source

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestFileRead(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "schema.sql")
	require.NoError(t, os.WriteFile(good, []byte("CREATE TABLE glpi_a (id int);\n"), 0o644))
	bad := filepath.Join(dir, "latin1.sql")
	require.NoError(t, os.WriteFile(bad, []byte{'-', '-', ' ', 0xe9, '\n'}, 0o644))

	ddl, err := (&File{Path: good}).Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, "CREATE TABLE glpi_a (id int);\n", ddl)

	_, err = (&File{Path: bad}).Read(context.Background())
	require.ErrorContains(t, err, "not valid UTF-8")

	_, err = (&File{Path: filepath.Join(dir, "missing.sql")}).Read(context.Background())
	require.ErrorContains(t, err, "failed to read SQL file")
}

func TestMySQLRead(t *testing.T) {
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m.ExpectQuery(regexp.QuoteMeta("SHOW FULL TABLES")).
		WillReturnRows(sqlmock.NewRows([]string{"Tables_in_glpi", "Table_type"}).
			AddRow("glpi_computers", "BASE TABLE").
			AddRow("glpi_view_assets", "VIEW").
			AddRow("glpi_odd`name", "BASE TABLE"))
	m.ExpectQuery(regexp.QuoteMeta("SHOW CREATE TABLE `glpi_computers`")).
		WillReturnRows(sqlmock.NewRows([]string{"Table", "Create Table"}).
			AddRow("glpi_computers", "CREATE TABLE `glpi_computers` (\n  `id` int unsigned NOT NULL AUTO_INCREMENT,\n  PRIMARY KEY (`id`)\n) ENGINE=InnoDB"))
	m.ExpectQuery(regexp.QuoteMeta("SHOW CREATE TABLE `glpi_odd``name`")).
		WillReturnRows(sqlmock.NewRows([]string{"Table", "Create Table"}).
			AddRow("glpi_odd`name", "CREATE TABLE `glpi_odd``name` (\n  `x` int\n)"))

	ddl, err := (&MySQL{DB: db}).Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, "CREATE TABLE `glpi_computers` (\n  `id` int unsigned NOT NULL AUTO_INCREMENT,\n  PRIMARY KEY (`id`)\n) ENGINE=InnoDB;\n\n"+
		"CREATE TABLE `glpi_odd``name` (\n  `x` int\n);\n\n", ddl)
	require.NoError(t, m.ExpectationsWereMet())
}

func TestMySQLReadError(t *testing.T) {
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m.ExpectQuery(regexp.QuoteMeta("SHOW FULL TABLES")).
		WillReturnRows(sqlmock.NewRows([]string{"Tables_in_glpi", "Table_type"}).AddRow("glpi_a", "BASE TABLE"))
	m.ExpectQuery(regexp.QuoteMeta("SHOW CREATE TABLE `glpi_a`")).
		WillReturnError(context.DeadlineExceeded)

	_, err = (&MySQL{DB: db}).Read(context.Background())
	require.ErrorContains(t, err, "failed to show create table glpi_a")
	require.NoError(t, m.ExpectationsWereMet())
}

func TestOpenMySQLInvalidDSN(t *testing.T) {
	_, err := OpenMySQL(context.Background(), "user@tcp(localhost:3306)/")
	require.ErrorContains(t, err, "no database selected in DSN")

	_, err = OpenMySQL(context.Background(), "not a dsn")
	require.ErrorContains(t, err, "invalid DSN")
}

func TestQuoteIdentifier(t *testing.T) {
	require.Equal(t, "`glpi_a`", quoteIdentifier("glpi_a"))
	require.Equal(t, "`a``b`", quoteIdentifier("a`b"))
}
