package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autokosten/autokosten-cli/internal/model"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgres_SaveComparison(t *testing.T) {
	st, mock := newMockPostgres(t)

	mock.ExpectExec("INSERT INTO comparisons").
		WithArgs(pgxmock.AnyArg(), "AB12CD", "prive-kopen-zakelijk", pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM comparisons WHERE id NOT IN").
		WithArgs(MaxComparisons).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	c := testComparison("AB12CD", 650)
	require.NoError(t, st.SaveComparison(context.Background(), c))
	assert.NotEmpty(t, c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListComparisons(t *testing.T) {
	st, mock := newMockPostgres(t)

	breakdown, err := json.Marshal(model.CostBreakdown{
		Totals: model.Totals{NetMonthly: 500},
	})
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"id", "plate_id", "method", "summary", "vehicle", "breakdown", "created_at"}).
		AddRow("id-1", "BB22BB", "prive-kopen-zakelijk", "OPEL CORSA (2018)", []byte(nil), breakdown, time.Now().UTC())
	mock.ExpectQuery("SELECT id, plate_id, method, summary, vehicle, breakdown, created_at").
		WillReturnRows(rows)

	list, err := st.ListComparisons(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "BB22BB", list[0].PlateID)
	assert.Nil(t, list[0].Vehicle)
	assert.InDelta(t, 500.0, list[0].Breakdown.Totals.NetMonthly, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_RemoveComparison_NotFound(t *testing.T) {
	st, mock := newMockPostgres(t)

	mock.ExpectExec("DELETE FROM comparisons WHERE id =").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := st.RemoveComparison(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrComparisonNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ClearComparisons(t *testing.T) {
	st, mock := newMockPostgres(t)

	mock.ExpectExec("DELETE FROM comparisons").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := st.ClearComparisons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Migrate(t *testing.T) {
	st, mock := newMockPostgres(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS comparisons").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, st.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
