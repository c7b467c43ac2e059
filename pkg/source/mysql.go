package source

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// MySQL dumps the CREATE TABLE statements of the current database of a
// MySQL or MariaDB connection.
type MySQL struct {
	DB *sql.DB
}

// OpenMySQL connects to the database named in dsn, such as
// `user:password@tcp(localhost:3306)/glpi`.
func OpenMySQL(ctx context.Context, dsn string) (*MySQL, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "invalid DSN")
	}
	if cfg.DBName == "" {
		return nil, errors.New("no database selected in DSN")
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create connector")
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to connect to %s", cfg.Addr)
	}
	slog.Debug("Connected to database", "addr", cfg.Addr, "database", cfg.DBName)
	return &MySQL{DB: db}, nil
}

// Close closes the connection.
func (m *MySQL) Close() error {
	return m.DB.Close()
}

// Read implements analyzer.Source. Tables come in the order the server lists
// them, views are left out.
func (m *MySQL) Read(ctx context.Context) (string, error) {
	tables, err := m.tables(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, table := range tables {
		ddl, err := m.createTable(ctx, table)
		if err != nil {
			return "", err
		}
		b.WriteString(ddl)
		b.WriteString(";\n\n")
	}
	slog.Debug("Dumped table definitions", "tables", len(tables), "size", b.Len())
	return b.String(), nil
}

func (m *MySQL) tables(ctx context.Context) ([]string, error) {
	rows, err := m.DB.QueryContext(ctx, "SHOW FULL TABLES")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tables")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, errors.Wrap(err, "failed to scan table")
		}
		if kind != "BASE TABLE" {
			continue
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list tables")
	}
	return tables, nil
}

func (m *MySQL) createTable(ctx context.Context, table string) (string, error) {
	var name, ddl string
	if err := m.DB.QueryRowContext(ctx, "SHOW CREATE TABLE "+quoteIdentifier(table)).Scan(&name, &ddl); err != nil {
		return "", errors.Wrapf(err, "failed to show create table %s", table)
	}
	return ddl, nil
}

func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
