package mysqlparser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

func TestSplitSQL(t *testing.T) {
	tests := []struct {
		statement string
		expected  []string
	}{
		{
			statement: "CREATE TABLE a (id int); CREATE TABLE b (id int);",
			expected: []string{
				"CREATE TABLE a (id int);",
				" CREATE TABLE b (id int);",
			},
		},
		{
			statement: "CREATE TABLE a (id int);\nSET NAMES utf8",
			expected: []string{
				"CREATE TABLE a (id int);",
				"\nSET NAMES utf8",
			},
		},
		{
			statement: `CREATE PROCEDURE my_procedure (IN id INT, OUT name VARCHAR(255))
			BEGIN
			  SELECT name INTO name FROM users WHERE id = id;
			END; CREATE TABLE t2 (id int);`,
			expected: []string{
				`CREATE PROCEDURE my_procedure (IN id INT, OUT name VARCHAR(255))
			BEGIN
			  SELECT name INTO name FROM users WHERE id = id;
			END;`,
				" CREATE TABLE t2 (id int);",
			},
		},
		{
			statement: `CREATE PROCEDURE my_procedure (IN id INT, OUT name VARCHAR(255))
			BEGIN
				SELECT IF(id = 1, 'one', 'other') INTO name FROM users;
			END; SELECT REPEAT('123', a) FROM t2;`,
			expected: []string{
				`CREATE PROCEDURE my_procedure (IN id INT, OUT name VARCHAR(255))
			BEGIN
				SELECT IF(id = 1, 'one', 'other') INTO name FROM users;
			END;`,
				" SELECT REPEAT('123', a) FROM t2;",
			},
		},
		{
			statement: "CREATE TABLE IF NOT EXISTS b (id int);\nSELECT 1;\nEND IF;\nCREATE TABLE a (id int);",
			expected: []string{
				"CREATE TABLE IF NOT EXISTS b (id int);",
				"\nSELECT 1;",
				"\nEND IF;",
				"\nCREATE TABLE a (id int);",
			},
		},
		{
			statement: "DROP TABLE IF EXISTS a; CREATE TABLE a (id int);",
			expected: []string{
				"DROP TABLE IF EXISTS a;",
				" CREATE TABLE a (id int);",
			},
		},
		{
			statement: "COMMIT;\nEND;\nCREATE TABLE a (id int);",
			expected: []string{
				"COMMIT;",
				"\nEND;",
				"\nCREATE TABLE a (id int);",
			},
		},
		{
			statement: "CREATE PROCEDURE p () BEGIN SELECT 1;\nCREATE TABLE a (id int);",
			expected: []string{
				"CREATE PROCEDURE p () BEGIN SELECT 1;",
				"\nCREATE TABLE a (id int);",
			},
		},
		{
			statement: "CREATE TABLE a (c varchar(10) DEFAULT 'x;y');",
			expected: []string{
				"CREATE TABLE a (c varchar(10) DEFAULT 'x;y');",
			},
		},
	}

	for _, test := range tests {
		list, err := SplitSQL(test.statement)
		require.NoError(t, err)
		require.Equal(t, len(test.expected), len(list))
		for i, statement := range list {
			require.Equal(t, test.expected[i], statement.Text)
		}
	}
}

func TestSplitSQLPositions(t *testing.T) {
	statement := "-- header\nCREATE TABLE a (id int);\n\n  CREATE TABLE b (id int);"
	list, err := SplitSQL(statement)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.Equal(t, types.Position{Line: 1, Column: 1}, list[0].Origin)
	require.False(t, list[0].Empty)

	require.Equal(t, types.Position{Line: 2, Column: 25}, list[1].Origin)
}

func TestSplitSQLEmptyStatements(t *testing.T) {
	list, err := SplitSQL("CREATE TABLE a (id int);\n-- trailing comment\n;")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.False(t, list[0].Empty)
	require.True(t, list[1].Empty)
}

func TestSplitSQLDelimiter(t *testing.T) {
	statement := "DELIMITER ;;\nCREATE TRIGGER tr BEFORE INSERT ON a FOR EACH ROW BEGIN SET NEW.x = 1; END;;\nDELIMITER ;\nCREATE TABLE a (id int);"
	list, err := SplitSQL(statement)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "CREATE TRIGGER tr BEFORE INSERT ON a FOR EACH ROW BEGIN SET NEW.x = 1; END;", list[0].Text)
	require.Equal(t, "CREATE TABLE a (id int);", list[1].Text)
	require.Equal(t, types.Position{Line: 4, Column: 1}, list[1].Origin)
}

func TestExtractDelimiter(t *testing.T) {
	tests := []struct {
		stmt string
		want string
		err  bool
	}{
		{stmt: "DELIMITER ;;", want: ";;"},
		{stmt: "  delimiter $$  ", want: "$$"},
		{stmt: "DELIMITER", err: true},
	}

	for _, test := range tests {
		got, err := ExtractDelimiter(test.stmt)
		if test.err {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, test.want, got)
		require.True(t, IsDelimiter(test.stmt))
	}
}
