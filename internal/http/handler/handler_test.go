package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentalapi/internal/auth"
	"rentalapi/internal/model"
	"rentalapi/internal/service"
	serviceMocks "rentalapi/internal/service/mocks"
	"rentalapi/internal/storage"
	"rentalapi/internal/upload"
)

const testCeiling = 16

func newSpooler(t *testing.T) *upload.Spooler {
	t.Helper()
	sp, err := upload.NewSpooler(afero.NewMemMapFs(), "tmp", testCeiling)
	require.NoError(t, err)
	return sp
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
}

type formFile struct {
	field, name string
	size        int
}

func multipartBody(t *testing.T, values map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range values {
		require.NoError(t, writer.WriteField(k, v))
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		part.Write(bytes.Repeat([]byte{'x'}, f.size))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeError(t *testing.T, r io.Reader) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(r).Decode(&res))
	return res
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := newTestApp()
	app.Get("/api/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp.Body).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := newTestApp()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreatePayment(t *testing.T) {
	fields := map[string]string{
		"contrato_id":    "3",
		"periodo":        "2025-09-01",
		"monto_esperado": "1200",
		"monto_pagado":   "1200.50",
		"estado_id":      "2",
		"tipo_pago_id":   "1",
	}

	t.Run("json body", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockPaymentService)
		app := newTestApp()
		app.Post("/pagos", CreatePayment(mockSvc, newSpooler(t)))

		created := &model.Payment{ID: 9, ContractID: 3, PaidAmount: decimal.RequireFromString("1200.50")}
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.PaymentInput) bool {
			return in.ContractID != nil && *in.ContractID == 3 &&
				in.PaidAmount != nil && in.PaidAmount.Equal(decimal.RequireFromString("1200.50")) &&
				in.Period != nil && in.Period.Equal(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)) &&
				in.PaidAt == nil && !in.PaidAtSet
		}), (*upload.File)(nil), (*upload.File)(nil)).Return(created, nil).Once()

		body := `{"contrato_id":3,"periodo":"2025-09-01","monto_esperado":1200,"monto_pagado":"1200.50","estado_id":2,"tipo_pago_id":1}`
		req := httptest.NewRequest(http.MethodPost, "/pagos", strings.NewReader(body))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result model.Payment
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, int64(9), result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("file at the ceiling is accepted", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockPaymentService)
		app := newTestApp()
		app.Post("/pagos", CreatePayment(mockSvc, newSpooler(t)))

		mockSvc.On("Create", mock.Anything, mock.Anything,
			mock.MatchedBy(func(f *upload.File) bool {
				return f != nil && f.Size == testCeiling && f.OriginalName == "proof.png"
			}),
			(*upload.File)(nil),
		).Return(&model.Payment{ID: 1}, nil).Once()

		body, ct := multipartBody(t, fields, formFile{field: "comprobante", name: "proof.png", size: testCeiling})
		req := httptest.NewRequest(http.MethodPost, "/pagos", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("file over the ceiling", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockPaymentService)
		app := newTestApp()
		app.Post("/pagos", CreatePayment(mockSvc, newSpooler(t)))

		body, ct := multipartBody(t, fields, formFile{field: "recibo", name: "r.png", size: testCeiling + 1})
		req := httptest.NewRequest(http.MethodPost, "/pagos", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		assert.Equal(t, "FILE_TOO_LARGE", decodeError(t, resp.Body).Error.Code)
		mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unexpected file field", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockPaymentService)
		app := newTestApp()
		app.Post("/pagos", CreatePayment(mockSvc, newSpooler(t)))

		body, ct := multipartBody(t, fields, formFile{field: "avatar", name: "a.png", size: 4})
		req := httptest.NewRequest(http.MethodPost, "/pagos", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		res := decodeError(t, resp.Body)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
		assert.Equal(t, "avatar", res.Error.Field)
	})

	t.Run("malformed amount", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockPaymentService)
		app := newTestApp()
		app.Post("/pagos", CreatePayment(mockSvc, newSpooler(t)))

		bad := map[string]string{"contrato_id": "3", "monto_pagado": "doce"}
		body, ct := multipartBody(t, bad)
		req := httptest.NewRequest(http.MethodPost, "/pagos", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "monto_pagado", decodeError(t, resp.Body).Error.Field)
	})

	t.Run("service errors", func(t *testing.T) {
		tests := []struct {
			name     string
			err      error
			wantCode int
			wantBody string
		}{
			{"validation", &service.ValidationError{Field: "estado_id", Message: "is required"}, http.StatusBadRequest, "VALIDATION_ERROR"},
			{"unknown contract", service.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
			{"internal", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockSvc := new(serviceMocks.MockPaymentService)
				app := newTestApp()
				app.Post("/pagos", CreatePayment(mockSvc, newSpooler(t)))
				mockSvc.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()

				body, ct := multipartBody(t, fields)
				req := httptest.NewRequest(http.MethodPost, "/pagos", body)
				req.Header.Set("Content-Type", ct)
				resp, _ := app.Test(req)

				assert.Equal(t, tt.wantCode, resp.StatusCode)
				res := decodeError(t, resp.Body)
				assert.Equal(t, tt.wantBody, res.Error.Code)
				assert.NotContains(t, res.Error.Message, "boom")
				mockSvc.AssertExpectations(t)
			})
		}
	})
}

func TestUpdatePayment(t *testing.T) {
	mockSvc := new(serviceMocks.MockPaymentService)
	app := newTestApp()
	app.Put("/pagos/:id", UpdatePayment(mockSvc, newSpooler(t)))

	t.Run("clears paid date", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, int64(4), mock.MatchedBy(func(in service.PaymentInput) bool {
			return in.PaidAtSet && in.PaidAt == nil && in.ContractID == nil
		}), (*upload.File)(nil), (*upload.File)(nil)).Return(&model.Payment{ID: 4}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/pagos/4", strings.NewReader(`{"fecha_pago":null}`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/pagos/abc", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, int64(77), mock.Anything, mock.Anything, mock.Anything).
			Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPut, "/pagos/77", strings.NewReader(`{"notas":"x"}`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeletePayment(t *testing.T) {
	mockSvc := new(serviceMocks.MockPaymentService)
	app := newTestApp()
	app.Delete("/pagos/:id", DeletePayment(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(5)).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/pagos/5", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body messagePayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Pago eliminado correctamente", body.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(6)).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/pagos/6", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestMonthlySummary(t *testing.T) {
	mockSvc := new(serviceMocks.MockReportService)
	app := newTestApp()
	app.Get("/resumen", MonthlySummary(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("MonthlySummary", mock.Anything, 2025, 9).Return(&model.MonthlySummary{Year: 2025, Month: 9}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/resumen?year=2025&month=9", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	tests := []struct {
		name      string
		query     string
		wantField string
	}{
		{"missing year", "?month=9", "year"},
		{"non numeric month", "?year=2025&month=sep", "month"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/resumen"+tt.query, nil)
			resp, _ := app.Test(req)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantField, decodeError(t, resp.Body).Error.Field)
		})
	}
}

func TestCatalogRoutes(t *testing.T) {
	mockSvc := new(serviceMocks.MockTenantService)
	app := newTestApp()
	registerCRUD(app.Group("/inquilinos"), mockSvc, "Inquilino eliminado correctamente")

	t.Run("create", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.TenantInput) bool {
			return in.FirstName == "Ana"
		})).Return(&model.Tenant{ID: 1, FirstName: "Ana"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/inquilinos", strings.NewReader(`{"nombre":"Ana","apellido":"Paz"}`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("conflict", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, service.ErrConflict).Once()

		req := httptest.NewRequest(http.MethodPost, "/inquilinos", strings.NewReader(`{"nombre":"Ana","apellido":"Paz"}`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/inquilinos", strings.NewReader(`{"nombre":`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, int64(2)).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/inquilinos/2", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body messagePayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Inquilino eliminado correctamente", body.Message)
	})
}

func TestLogin(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := newTestApp()
	app.Post("/login", Login(mockSvc))

	t.Run("success", func(t *testing.T) {
		in := service.LoginInput{Email: "a@b.c", Password: "secret1"}
		mockSvc.On("Login", mock.Anything, in).Return(&service.LoginResult{Token: "tok"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.c","password":"secret1"}`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body service.LoginResult
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "tok", body.Token)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidCredentials).Once()

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.c","password":"nope"}`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp.Body).Error.Code)
	})
}

type routeMocks struct {
	payments  *serviceMocks.MockPaymentService
	contracts *serviceMocks.MockContractService
	reports   *serviceMocks.MockReportService
	users     *serviceMocks.MockUserService
}

func newRoutedApp(t *testing.T, v auth.Verifier, requireAuth bool, opts ...func(*Dependencies)) (*fiber.App, routeMocks) {
	t.Helper()
	m := routeMocks{
		payments:  new(serviceMocks.MockPaymentService),
		contracts: new(serviceMocks.MockContractService),
		reports:   new(serviceMocks.MockReportService),
		users:     new(serviceMocks.MockUserService),
	}
	d := Dependencies{
		Payments:      m.payments,
		Contracts:     m.contracts,
		Reports:       m.reports,
		Tenants:       new(serviceMocks.MockTenantService),
		Apartments:    new(serviceMocks.MockApartmentService),
		PaymentStates: new(serviceMocks.MockPaymentStateService),
		PaymentTypes:  new(serviceMocks.MockPaymentTypeService),
		Users:         m.users,
		Auth:          new(serviceMocks.MockAuthService),
		Spool:         newSpooler(t),
		Verifier:      v,
		RequireAuth:   requireAuth,
	}
	for _, opt := range opts {
		opt(&d)
	}
	app := newTestApp()
	RegisterRoutes(app, d)
	return app, m
}

func TestRouting(t *testing.T) {
	app, m := newRoutedApp(t, nil, false)

	t.Run("root", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "API Alquileres - funcionando", string(b))
	})

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/healthz", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("fixed payment paths win over id", func(t *testing.T) {
		m.payments.On("ListDebts", mock.Anything).Return([]model.Payment{}, nil).Once()
		m.payments.On("ListByContract", mock.Anything, int64(3)).Return([]model.Payment{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/pagos/deudas/activas", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/api/pagos/contrato/3", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		m.payments.AssertExpectations(t)
	})

	t.Run("contract listings win over id", func(t *testing.T) {
		m.contracts.On("ListCurrent", mock.Anything).Return([]model.Contract{}, nil).Once()
		m.contracts.On("ListExpiring", mock.Anything).Return([]model.Contract{}, nil).Once()
		m.contracts.On("Summary", mock.Anything).Return(&model.ContractSummary{}, nil).Once()

		for _, path := range []string{"/api/contratos/vigentes", "/api/contratos/por-vencer", "/api/contratos/resumen"} {
			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
		m.contracts.AssertExpectations(t)
	})

	t.Run("overdue report aliases", func(t *testing.T) {
		m.reports.On("OverduePayments", mock.Anything).Return([]model.Payment{}, nil).Twice()

		for _, path := range []string{"/api/reportes/atrasados", "/api/reportes/pagos-atrasados"} {
			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
		m.reports.AssertExpectations(t)
	})

	t.Run("users without verifier", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/users", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp.Body).Error.Code)
	})
}

func TestProtectedRoutes(t *testing.T) {
	jwt, err := auth.NewJWT("test-secret", "rentalapi", time.Hour)
	require.NoError(t, err)
	token, err := jwt.Issue(auth.Principal{UserID: 1, Email: "admin@example.com", Role: "admin"})
	require.NoError(t, err)

	app, m := newRoutedApp(t, jwt, true)

	t.Run("missing token", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/pagos", nil))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		m.users.On("List", mock.Anything).Return([]model.UserSummary{{ID: 1, Email: "admin@example.com"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		m.users.AssertExpectations(t)
	})

	t.Run("changing users takes the admin role", func(t *testing.T) {
		viewer, err := jwt.Issue(auth.Principal{UserID: 2, Email: "viewer@example.com", Role: "lector"})
		require.NoError(t, err)

		for _, method := range []string{http.MethodPut, http.MethodDelete} {
			req := httptest.NewRequest(method, "/api/users/2", strings.NewReader(`{"nombre":"x"}`))
			req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
			req.Header.Set("Authorization", "Bearer "+viewer)
			resp, _ := app.Test(req)

			assert.Equal(t, http.StatusForbidden, resp.StatusCode, method)
			assert.Equal(t, "FORBIDDEN", decodeError(t, resp.Body).Error.Code)
		}
		m.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		m.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

		m.users.On("List", mock.Anything).Return([]model.UserSummary{}, nil).Once()
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Bearer "+viewer)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "reading stays open to any signed in user")

		m.users.On("Delete", mock.Anything, int64(2)).Return(nil).Once()
		req = httptest.NewRequest(http.MethodDelete, "/api/users/2", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ = app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		m.users.AssertExpectations(t)
	})

	t.Run("auth routes stay open", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{`))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestErrorHandlerLogsUnclassifiedErrors(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.New(&buf))})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondError(c, errors.New("pq: password authentication failed"))
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return respondError(c, service.ErrNotFound)
	})

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	res := decodeError(t, resp.Body)
	assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
	assert.NotContains(t, res.Error.Message, "password")
	assert.Contains(t, buf.String(), "pq: password authentication failed")
	assert.Contains(t, buf.String(), `"path":"/boom"`)

	buf.Reset()
	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, buf.String(), "classified errors are not logged")
}

func TestPaymentFile(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	tests := []struct {
		name     string
		file     string
		info     storage.ObjectInfo
		err      error
		wantCode int
		wantType string
	}{
		{"proof", service.FileProof, storage.ObjectInfo{ContentType: "image/png", Size: int64(len(png))}, nil, http.StatusOK, "image/png"},
		{"unknown size", service.FileReceipt, storage.ObjectInfo{ContentType: "image/png"}, nil, http.StatusOK, "image/png"},
		{"markup is downgraded", service.FileProof, storage.ObjectInfo{ContentType: "image/svg+xml"}, nil, http.StatusOK, fiber.MIMEOctetStream},
		{"html is downgraded", service.FileProof, storage.ObjectInfo{ContentType: "text/html; charset=utf-8"}, nil, http.StatusOK, fiber.MIMEOctetStream},
		{"no file", service.FileReceipt, storage.ObjectInfo{}, service.ErrNotFound, http.StatusNotFound, ""},
		{"bad name", "contrato", storage.ObjectInfo{}, &service.ValidationError{Field: "archivo", Message: "invalid"}, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, m := newRoutedApp(t, nil, false)
			if tt.err != nil {
				m.payments.On("OpenFile", mock.Anything, int64(5), tt.file).Return(nil, storage.ObjectInfo{}, tt.err).Once()
			} else {
				m.payments.On("OpenFile", mock.Anything, int64(5), tt.file).
					Return(io.NopCloser(bytes.NewReader(png)), tt.info, nil).Once()
			}

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/pagos/5/archivo/"+tt.file, nil))
			require.NoError(t, err)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantType, resp.Header.Get(fiber.HeaderContentType))
				assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, png, body)
			}
			m.payments.AssertExpectations(t)
		})
	}
}

func TestUploads(t *testing.T) {
	// a JPEG header followed by markup, uploaded under an .html name
	polyglot := append([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00"),
		[]byte("<html><script>alert(1)</script></html>")...)

	fs := afero.NewMemMapFs()
	local, err := storage.NewLocal(fs, "uploads", "uploads")
	require.NoError(t, err)
	files, err := storage.NewProvider(storage.ProviderLocal, local, nil)
	require.NoError(t, err)
	obj, err := files.Store(context.Background(), storage.FolderProofs, "pago.html", bytes.NewReader(polyglot), int64(len(polyglot)), "image/jpeg")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(obj.Location, ".jpg"), obj.Location)

	t.Run("serves stored files", func(t *testing.T) {
		app, _ := newRoutedApp(t, nil, false, func(d *Dependencies) {
			d.Uploads = afero.NewBasePathFs(fs, "uploads")
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+obj.Location, nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "image/"), resp.Header.Get(fiber.HeaderContentType))
		assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, polyglot, body)

		resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/uploads/comprobantes/missing.jpg", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("not mounted without a directory", func(t *testing.T) {
		app, _ := newRoutedApp(t, nil, false)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+obj.Location, nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
	})
}
