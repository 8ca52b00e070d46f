package cli

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechXTT/entitygen/pkg/runtime"
)

func init() {
	color.NoColor = true
}

type connectCall struct {
	driver, dsn string
}

// mockConnector hands out a sqlmock database and records how it was asked for.
func mockConnector(t *testing.T, calls *[]connectCall) (Connector, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return func(_ context.Context, driver, dsn string) (*sql.DB, error) {
		*calls = append(*calls, connectCall{driver: driver, dsn: dsn})
		return db, nil
	}, mock
}

func run(t *testing.T, connect Connector, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr, connect)
	return code, stdout.String(), stderr.String()
}

func TestExecute_TooFewArguments(t *testing.T) {
	var calls []connectCall
	connect, _ := mockConnector(t, &calls)

	for _, args := range [][]string{nil, {"localhost"}, {"localhost", "shop", "root"}} {
		code, stdout, stderr := run(t, connect, args...)
		assert.Equal(t, 1, code)
		assert.Contains(t, stdout, "Usage:")
		assert.Contains(t, stdout, "<host> <dbName> <username> <password> [outputDir]")
		assert.Empty(t, stderr)
	}
	assert.Empty(t, calls, "no connection attempt without credentials")
}

func TestExecute_Version(t *testing.T) {
	code, stdout, _ := run(t, nil, "version")
	require.Equal(t, 0, code)
	require.Equal(t, "entitygen "+Version+"\n", stdout)
}

func TestExecute_GeneratesEntities(t *testing.T) {
	var calls []connectCall
	connect, mock := mockConnector(t, &calls)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT TABLE_NAME FROM information_schema.TABLES")).
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("customers"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.COLUMNS")).
		WithArgs("shop", "customers").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "COLUMN_KEY", "EXTRA"}).
			AddRow("id", "int(11)", "NO", "PRI", "auto_increment").
			AddRow("email", "varchar(255)", "YES", "UNI", ""))
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.KEY_COLUMN_USAGE")).
		WithArgs("shop", "customers", "shop").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "REFERENCED_TABLE_NAME", "REFERENCED_COLUMN_NAME"}))

	out := filepath.Join(t.TempDir(), "Entity")
	code, stdout, stderr := run(t, connect,
		"db.local", "shop", "app", "secret", out, "--port", "3307", "--namespace", `Shop\Entity`)
	require.Equal(t, 0, code, stderr)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, calls, 1)
	assert.Equal(t, runtime.DriverName, calls[0].driver)
	assert.Contains(t, calls[0].dsn, "app:secret@tcp(db.local:3307)/shop")

	got, err := os.ReadFile(filepath.Join(out, "Customers.php"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "namespace Shop\\Entity;")
	assert.Contains(t, string(got), "public function getEmail()")

	assert.Contains(t, stdout, "Tables found: 1")
	assert.Contains(t, stdout, "Entity Customers generated.")
	assert.Contains(t, stdout, "Done. 1 tables processed, 1 entities generated in "+out)
}

func TestExecute_GoTargetFromConfigFile(t *testing.T) {
	var calls []connectCall
	connect, mock := mockConnector(t, &calls)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT TABLE_NAME FROM information_schema.TABLES")).
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("order_line"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.COLUMNS")).
		WithArgs("shop", "order_line").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE", "COLUMN_KEY", "EXTRA"}).
			AddRow("id", "bigint(20)", "NO", "PRI", "auto_increment"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.KEY_COLUMN_USAGE")).
		WithArgs("shop", "order_line", "shop").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "REFERENCED_TABLE_NAME", "REFERENCED_COLUMN_NAME"}))

	dir := t.TempDir()
	out := filepath.Join(dir, "models")
	cfgFile := filepath.Join(dir, "entitygen.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("lang: go\nport: 3310\noutput_dir: "+out+"\n"), 0o644))

	code, _, stderr := run(t, connect, "localhost", "shop", "root", "", "--config", cfgFile)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, calls[0].dsn, "tcp(localhost:3310)")

	got, err := os.ReadFile(filepath.Join(out, "OrderLine.go"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "package models")
}

func TestExecute_InvalidLang(t *testing.T) {
	var calls []connectCall
	connect, _ := mockConnector(t, &calls)

	code, _, stderr := run(t, connect, "localhost", "shop", "root", "pw", "--lang", "java")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown lang "java"`)
	assert.Empty(t, calls)
}

func TestExecute_ConnectionFailure(t *testing.T) {
	connect := func(context.Context, string, string) (*sql.DB, error) {
		return nil, runtime.ErrConnection
	}
	out := filepath.Join(t.TempDir(), "Entity")

	code, _, stderr := run(t, connect, "localhost", "shop", "root", "pw", out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "connection failed")

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "nothing is written when the catalog is unreachable")
}

func TestExecute_TableFailureExitsNonZero(t *testing.T) {
	var calls []connectCall
	connect, mock := mockConnector(t, &calls)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT TABLE_NAME FROM information_schema.TABLES")).
		WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("gone"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.COLUMNS")).
		WithArgs("shop", "gone").
		WillReturnError(sql.ErrConnDone)

	code, stdout, stderr := run(t, connect, "localhost", "shop", "root", "pw", t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "FAILED table gone")
	assert.Contains(t, stderr, "1 of 1 tables failed")
}
