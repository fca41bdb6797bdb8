package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"rentalapi/internal/service"
)

// respond wraps a parameterless read into a handler.
func respond[T any](read func(ctx context.Context) (T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := read(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// GeneralSummary totals every payment.
//
// @Summary General totals
// @Tags reportes
// @Produce json
// @Success 200 {object} model.GeneralSummary
// @Router /api/reportes/resumen [get]
func GeneralSummary(svc service.ReportService) fiber.Handler {
	return respond(svc.GeneralSummary)
}

// PaymentsByPeriod lists the payments of one month.
//
// @Summary Payments in a month
// @Tags reportes
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {array} model.Payment
// @Failure 400 {object} errorPayload
// @Router /api/reportes/pagos [get]
func PaymentsByPeriod(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, month, err := yearMonth(c)
		if err != nil {
			return respondError(c, err)
		}
		out, err := svc.PaymentsByPeriod(c.UserContext(), year, month)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// OverduePayments lists unpaid payments whose period has passed.
//
// @Summary Overdue payments
// @Tags reportes
// @Produce json
// @Success 200 {array} model.Payment
// @Router /api/reportes/atrasados [get]
func OverduePayments(svc service.ReportService) fiber.Handler {
	return respond(svc.OverduePayments)
}

// Dashboard returns the headline counters.
//
// @Summary Dashboard counters
// @Tags reportes
// @Produce json
// @Success 200 {object} model.Dashboard
// @Router /api/reportes/dashboard [get]
func Dashboard(svc service.ReportService) fiber.Handler {
	return respond(svc.Dashboard)
}

// ActiveContracts lists contracts in the active status.
//
// @Summary Active contracts
// @Tags reportes
// @Produce json
// @Success 200 {array} model.Contract
// @Router /api/reportes/contratos-activos [get]
func ActiveContracts(svc service.ReportService) fiber.Handler {
	return respond(svc.ActiveContracts)
}
