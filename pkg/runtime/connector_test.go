package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	mockDB, _, err := sqlmock.NewWithDSN("entitygen_connect_ok")
	require.NoError(t, err)
	defer mockDB.Close()

	db, err := Connect(context.Background(), "sqlmock", "entitygen_connect_ok")
	require.NoError(t, err)
	require.NotNil(t, db)
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Nothing listens on port 1.
	_, err := Connect(ctx, DriverName, "user:secret@tcp(127.0.0.1:1)/shop?timeout=1s")
	require.ErrorIs(t, err, ErrConnection)
}

func TestConnect_KeepsCause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Connect(ctx, DriverName, "user:secret@tcp(127.0.0.1:3306)/shop")
	require.ErrorIs(t, err, ErrConnection)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConnect_EmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), DriverName, "")
	require.ErrorIs(t, err, ErrConnection)
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), "nope", "dsn")
	require.ErrorIs(t, err, ErrConnection)
}
