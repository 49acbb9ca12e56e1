package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestUpsertEdgeIncrementExecutesUpsert(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewEdgeStoreWithPool(mock)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO edges").
		WithArgs("facebook.com", "www.messenger.com").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = store.UpsertEdgeIncrement(context.Background(), "facebook.com", "www.messenger.com")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertEdgeIncrementWrapsError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewEdgeStoreWithPool(mock)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO edges").
		WithArgs("a.com", "b.com").
		WillReturnError(errors.New("connection reset"))

	err = store.UpsertEdgeIncrement(context.Background(), "a.com", "b.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "upsert edge")
}

func TestQueryIncomingEdgesScansRows(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewEdgeStoreWithPool(mock)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT source_domain, link_count").
		WithArgs("messenger.com").
		WillReturnRows(pgxmock.NewRows([]string{"source_domain", "link_count"}).
			AddRow("facebook.com", int64(11)).
			AddRow("instagram.com", int64(2)))

	rows, err := store.QueryIncomingEdges(context.Background(), "messenger.com")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "facebook.com", rows[0].Source)
	require.Equal(t, int64(11), rows[0].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryIncomingEdgesEmptyResult(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewEdgeStoreWithPool(mock)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT source_domain, link_count").
		WithArgs("nobody.com").
		WillReturnRows(pgxmock.NewRows([]string{"source_domain", "link_count"}))

	rows, err := store.QueryIncomingEdges(context.Background(), "nobody.com")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestNewEdgeStoreWithPoolRequiresPool(t *testing.T) {
	t.Parallel()

	_, err := NewEdgeStoreWithPool(nil)
	require.Error(t, err)
}
