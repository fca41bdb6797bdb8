package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"rentalapi/internal/service"
)

// paymentInput reads payment fields from a JSON or form body.
func paymentInput(c *fiber.Ctx) (service.PaymentInput, error) {
	f, err := readFields(c)
	if err != nil {
		return service.PaymentInput{}, err
	}
	var in service.PaymentInput
	var errs [8]error
	in.ContractID, errs[0] = f.int64("contrato_id")
	in.Period, errs[1] = f.date("periodo")
	in.PaidAt, errs[2] = f.date("fecha_pago")
	in.ExpectedAmount, errs[3] = f.decimal("monto_esperado")
	in.PaidAmount, errs[4] = f.decimal("monto_pagado")
	in.StateID, errs[5] = f.int64("estado_id")
	in.TypeID, errs[6] = f.int64("tipo_pago_id")
	in.Method = f.text("metodo")
	in.Notes = f.text("notas")
	in.PaidAtSet = f.has("fecha_pago")
	return in, firstErr(errs[:]...)
}

// ListPayments returns every payment with its relations.
//
// @Summary List payments
// @Tags pagos
// @Produce json
// @Success 200 {array} model.Payment
// @Router /api/pagos [get]
func ListPayments(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.List(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// GetPayment returns one payment.
//
// @Summary Get payment
// @Tags pagos
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} model.Payment
// @Failure 404 {object} errorPayload
// @Router /api/pagos/{id} [get]
func GetPayment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

// CreatePayment creates a payment from a JSON or multipart body. Multipart
// requests may carry one "comprobante" and one "recibo" image.
//
// @Summary Create payment
// @Tags pagos
// @Accept multipart/form-data
// @Produce json
// @Param comprobante formData file false "Proof of payment image"
// @Param recibo formData file false "Receipt image"
// @Success 201 {object} model.Payment
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /api/pagos [post]
func CreatePayment(svc service.PaymentService, sp FileSpooler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		proof, receipt, err := spoolFiles(c, sp)
		if err != nil {
			return respondError(c, err)
		}
		in, err := paymentInput(c)
		if err != nil {
			sp.Remove(proof, receipt)
			return respondError(c, err)
		}
		p, err := svc.Create(c.UserContext(), in, proof, receipt)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// UpdatePayment merges the sent fields into a payment. A new file replaces the
// stored one for its slot.
//
// @Summary Update payment
// @Tags pagos
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} model.Payment
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /api/pagos/{id} [put]
func UpdatePayment(svc service.PaymentService, sp FileSpooler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		proof, receipt, err := spoolFiles(c, sp)
		if err != nil {
			return respondError(c, err)
		}
		in, err := paymentInput(c)
		if err != nil {
			sp.Remove(proof, receipt)
			return respondError(c, err)
		}
		p, err := svc.Update(c.UserContext(), id, in, proof, receipt)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(p)
	}
}

// DeletePayment deletes a payment.
//
// @Summary Delete payment
// @Tags pagos
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} messagePayload
// @Failure 404 {object} errorPayload
// @Router /api/pagos/{id} [delete]
func DeletePayment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.JSON(messagePayload{Message: "Pago eliminado correctamente"})
	}
}

// PaymentFile streams a payment's proof or receipt from whichever backend
// holds it.
//
// @Summary Download payment file
// @Tags pagos
// @Produce image/png,image/jpeg,image/gif,image/webp
// @Param id path int true "Payment ID"
// @Param archivo path string true "comprobante or recibo"
// @Success 200 {file} file
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/pagos/{id}/archivo/{archivo} [get]
func PaymentFile(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		rc, info, err := svc.OpenFile(c.UserContext(), id, c.Params("archivo"))
		if err != nil {
			return respondError(c, err)
		}
		c.Set(fiber.HeaderContentType, imageType(info.ContentType))
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		if info.Size > 0 {
			return c.SendStream(rc, int(info.Size))
		}
		return c.SendStream(rc)
	}
}

// imageType passes raster image types through and downgrades anything else
// to a download.
func imageType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "image/svg") {
		return ct
	}
	return fiber.MIMEOctetStream
}

// ListPaymentsByContract returns a contract's payments, newest period first.
//
// @Summary List payments of a contract
// @Tags pagos
// @Produce json
// @Param contratoId path int true "Contract ID"
// @Success 200 {array} model.Payment
// @Router /api/pagos/contrato/{contratoId} [get]
func ListPaymentsByContract(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "contratoId")
		if err != nil {
			return respondError(c, err)
		}
		out, err := svc.ListByContract(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// ListDebts returns pending and overdue payments.
//
// @Summary List outstanding payments
// @Tags pagos
// @Produce json
// @Success 200 {array} model.Payment
// @Router /api/pagos/deudas/activas [get]
func ListDebts(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.ListDebts(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// ListGroupedPayments returns every contract with its payments, file
// locations resolved to URLs on this host.
//
// @Summary Payments grouped by contract
// @Tags pagos
// @Produce json
// @Success 200 {array} model.ContractPayments
// @Router /api/pagos/agrupados [get]
func ListGroupedPayments(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.ListGroupedByContract(c.UserContext(), baseURL(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// MonthlySummary totals one month.
//
// @Summary Monthly payment summary
// @Tags pagos
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} model.MonthlySummary
// @Failure 400 {object} errorPayload
// @Router /api/pagos/resumen/mensual [get]
func MonthlySummary(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, month, err := yearMonth(c)
		if err != nil {
			return respondError(c, err)
		}
		out, err := svc.MonthlySummary(c.UserContext(), year, month)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

func yearMonth(c *fiber.Ctx) (int, int, error) {
	year, err := queryInt(c, "year")
	if err != nil {
		return 0, 0, err
	}
	month, err := queryInt(c, "month")
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}
