package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

func TestTenantPostgres_CreateAndFind(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewTenantPostgres(db)
	ctx := context.Background()
	dni := "30111222"

	mock.ExpectQuery("INSERT INTO inquilinos").
		WithArgs("Ana", "Pérez", &dni, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(tenantCols).AddRow(tenantValues()...))

	created, err := repo.Create(ctx, &model.Tenant{FirstName: "Ana", LastName: "Pérez", DNI: &dni})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, dni, *created.DNI)
	assert.Nil(t, created.Phone)

	mock.ExpectQuery("SELECT (.+) FROM inquilinos i WHERE i.id = ?").
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.FindByID(ctx, 5)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantPostgres_DuplicateDNI(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectQuery("UPDATE inquilinos").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "inquilinos_dni_key"})

	_, err = NewTenantPostgres(db).Update(context.Background(), &model.Tenant{ID: 4, FirstName: "Ana"})

	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApartmentPostgres_ListWithOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	cols := concat(apartmentCols, []string{"u_id", "u_nombre", "u_email", "u_rol"})
	owned := append(apartmentValues(), int64(1), "Admin", "admin@example.com", "admin")
	owned[1] = int64(1)
	orphan := append(apartmentValues(), nil, nil, nil, nil)
	orphan[0] = int64(9)

	mock.ExpectQuery("SELECT (.+) FROM departamentos d LEFT JOIN usuarios u").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(owned...).AddRow(orphan...))

	items, err := NewApartmentPostgres(db).List(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Owner)
	assert.Equal(t, "admin@example.com", items[0].Owner.Email)
	assert.Nil(t, items[1].Owner)
	assert.True(t, items[1].MonthlyPrice.Equal(decimal.NewFromInt(1200)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentTypePostgres_Conflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectQuery("INSERT INTO tipos_pago").
		WithArgs("alquiler", nil).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = NewPaymentTypePostgres(db).Create(context.Background(), &model.PaymentType{Name: "alquiler"})

	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentStatePostgres_ListOrdered(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM estados_pago ORDER BY orden ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "descripcion", "color_hex", "orden"}).
			AddRow(1, "pendiente", nil, "#ffcc00", 1).
			AddRow(2, "pagado", "Pago completo", "#00aa00", 2))

	items, err := NewPaymentStatePostgres(db).List(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "pendiente", items[0].Name)
	assert.Nil(t, items[0].Description)
	assert.Equal(t, "Pago completo", *items[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM usuarios WHERE email = ?").
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "email", "password_hash", "rol", "creado_en"}).
			AddRow(1, "Admin", "admin@example.com", "$2a$10$hash", "admin", fixedTime))

	u, err := NewUserPostgres(db).FindByEmail(context.Background(), "admin@example.com")

	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)
	assert.Equal(t, "admin", u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportPostgres_SumAmounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewReportPostgres(db)
	ctx := context.Background()
	to := fixedTime.AddDate(0, 1, 0)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(p.monto_esperado\), 0\)(.+) WHERE p.periodo >= \$1 AND p.periodo < \$2`).
		WithArgs(fixedTime, to).
		WillReturnRows(sqlmock.NewRows([]string{"e", "p"}).AddRow("1200.00", "1200.00"))

	expected, paid, err := repo.SumAmounts(ctx, fixedTime, to)
	require.NoError(t, err)
	assert.Equal(t, "1200", expected.String())
	assert.True(t, paid.Equal(expected))

	mock.ExpectQuery(`FROM pagos p$`).
		WillReturnRows(sqlmock.NewRows([]string{"e", "p"}).AddRow("0", "0"))

	expected, _, err = repo.SumAmounts(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.True(t, expected.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportPostgres_Dashboard(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT \(SELECT COUNT\(\*\) FROM contratos WHERE estado = \$1\)`).
		WithArgs("activo", "pendiente", "atrasado").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d"}).AddRow(3, 2, 1, "4500.50"))

	d, err := NewReportPostgres(db).Dashboard(context.Background(), "pendiente", "atrasado")

	require.NoError(t, err)
	assert.Equal(t, int64(3), d.ActiveContracts)
	assert.Equal(t, int64(2), d.PendingPayments)
	assert.Equal(t, int64(1), d.OverduePayments)
	assert.Equal(t, "4500.5", d.TotalIncome.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
