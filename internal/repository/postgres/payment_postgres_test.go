package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

func TestPaymentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPaymentPostgres(db)
	ctx := context.Background()

	proof := "uploads/comprobantes/1-abc.png"
	key := "comprobantes/1-abc.png"
	stateID, typeID := int64(2), int64(1)
	p := &model.Payment{
		ContractID:     7,
		Period:         fixedTime,
		ExpectedAmount: decimal.RequireFromString("1200.00"),
		PaidAmount:     decimal.Zero,
		StateID:        &stateID,
		TypeID:         &typeID,
		ProofURL:       &proof,
		ProofKey:       &key,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO pagos").
			WithArgs(p.ContractID, p.Period, p.PaidAt, p.ExpectedAmount, p.PaidAmount,
				p.Method, p.StateID, p.TypeID, p.Notes, p.ProofURL, p.ProofKey, p.ReceiptURL, p.ReceiptKey).
			WillReturnRows(sqlmock.NewRows(paymentCols).AddRow(paymentValues(11, proof)...))

		out, err := repo.Create(ctx, p)

		require.NoError(t, err)
		assert.Equal(t, int64(11), out.ID)
		assert.Equal(t, proof, *out.ProofURL)
		assert.True(t, out.ExpectedAmount.Equal(decimal.NewFromInt(1200)))
		assert.Nil(t, out.PaidAt)
	})

	t.Run("missing contract", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO pagos").
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "pagos_contrato_id_fkey"})

		out, err := repo.Create(ctx, p)

		assert.ErrorIs(t, err, repository.ErrForeignKey)
		assert.Nil(t, out)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPaymentPostgres(db)
	ctx := context.Background()

	t.Run("found with relations", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM pagos p (.+) WHERE p.id = ?").
			WithArgs(int64(11)).
			WillReturnRows(paymentJoinRows().AddRow(paymentJoinRow(11, nil, true)...))

		p, err := repo.FindByID(ctx, 11)

		require.NoError(t, err)
		assert.Nil(t, p.ProofURL)
		require.NotNil(t, p.Contract)
		assert.Equal(t, "Ana", p.Contract.Tenant.FirstName)
		assert.Equal(t, "Depto 1A", p.Contract.Apartment.Name)
		require.NotNil(t, p.State)
		assert.Equal(t, "pagado", p.State.Name)
		require.NotNil(t, p.Type)
		assert.Equal(t, "alquiler", p.Type.Name)
	})

	t.Run("without state", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM pagos p").
			WithArgs(int64(12)).
			WillReturnRows(paymentJoinRows().AddRow(paymentJoinRow(12, nil, false)...))

		p, err := repo.FindByID(ctx, 12)

		require.NoError(t, err)
		assert.Nil(t, p.State)
		assert.Nil(t, p.Type)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM pagos p").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByID(ctx, 99)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, p)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPaymentPostgres(db)
	ctx := context.Background()

	t.Run("debts by state name", func(t *testing.T) {
		mock.ExpectQuery(`WHERE ep.nombre IN \(\$1, \$2\) ORDER BY p.id ASC`).
			WithArgs("pendiente", "atrasado").
			WillReturnRows(paymentJoinRows().
				AddRow(paymentJoinRow(1, nil, true)...).
				AddRow(paymentJoinRow(2, "uploads/recibos/x.png", true)...))

		items, err := repo.List(ctx, repository.PaymentFilter{StateNames: []string{"pendiente", "atrasado"}})

		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, int64(2), items[1].ID)
	})

	t.Run("by contract newest first", func(t *testing.T) {
		mock.ExpectQuery(`WHERE p.contrato_id = \$1 ORDER BY p.periodo DESC`).
			WithArgs(int64(7)).
			WillReturnRows(paymentJoinRows())

		items, err := repo.List(ctx, repository.PaymentFilter{ContractID: 7, Order: repository.OrderPeriodDesc})

		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("overdue", func(t *testing.T) {
		today := fixedTime.AddDate(0, 1, 0)
		mock.ExpectQuery(`WHERE ep.nombre IS DISTINCT FROM \$1 AND p.periodo < \$2`).
			WithArgs("pagado", today).
			WillReturnRows(paymentJoinRows().AddRow(paymentJoinRow(3, nil, false)...))

		items, err := repo.List(ctx, repository.PaymentFilter{ExcludeState: "pagado", PeriodTo: today})

		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPaymentPostgres(db)
	p := &model.Payment{ID: 11, ContractID: 7, Period: fixedTime, UpdatedAt: fixedTime}

	mock.ExpectQuery("UPDATE pagos AS p SET").
		WithArgs(int64(11), int64(7), fixedTime, p.PaidAt, p.ExpectedAmount, p.PaidAmount,
			p.Method, p.StateID, p.TypeID, p.Notes, p.ProofURL, p.ProofKey, p.ReceiptURL, p.ReceiptKey, fixedTime).
		WillReturnRows(sqlmock.NewRows(paymentCols).AddRow(paymentValues(11, "uploads/comprobantes/new.png")...))

	out, err := repo.Update(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, "uploads/comprobantes/new.png", *out.ProofURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewPaymentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM pagos WHERE id = ?").
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, 11))

	mock.ExpectExec("DELETE FROM pagos WHERE id = ?").
		WithArgs(int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, 12), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}
