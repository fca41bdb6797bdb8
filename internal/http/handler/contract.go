package handler

import (
	"github.com/gofiber/fiber/v2"

	"rentalapi/internal/model"
	"rentalapi/internal/service"
)

func contractInput(c *fiber.Ctx) (service.ContractInput, error) {
	f, err := readFields(c)
	if err != nil {
		return service.ContractInput{}, err
	}
	var in service.ContractInput
	var errs [6]error
	in.ApartmentID, errs[0] = f.int64("departamento_id")
	in.TenantID, errs[1] = f.int64("inquilino_id")
	in.StartDate, errs[2] = f.date("fecha_inicio")
	in.EndDate, errs[3] = f.date("fecha_fin")
	in.MonthlyAmount, errs[4] = f.decimal("monto_mensual")
	in.DueDay, errs[5] = f.int("dia_vencimiento")
	in.Status = f.value("estado")
	in.EndDateSet = f.has("fecha_fin")
	return in, firstErr(errs[:]...)
}

// CreateContract creates a contract. dia_vencimiento defaults to 5 and
// estado to "activo".
//
// @Summary Create contract
// @Tags contratos
// @Accept json
// @Produce json
// @Success 201 {object} model.Contract
// @Failure 400 {object} errorPayload
// @Router /api/contratos [post]
func CreateContract(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, err := contractInput(c)
		if err != nil {
			return respondError(c, err)
		}
		out, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

// UpdateContract merges the sent fields into a contract. Sending fecha_fin as
// null makes it open-ended.
//
// @Summary Update contract
// @Tags contratos
// @Accept json
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} model.Contract
// @Router /api/contratos/{id} [put]
func UpdateContract(svc service.ContractService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		in, err := contractInput(c)
		if err != nil {
			return respondError(c, err)
		}
		out, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// GetContract returns one contract with tenant and apartment.
//
// @Summary Get contract
// @Tags contratos
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} model.Contract
// @Router /api/contratos/{id} [get]
func GetContract(svc service.ContractService) fiber.Handler {
	return getByID(svc.Get)
}

// DeleteContract deletes a contract that no payment references.
//
// @Summary Delete contract
// @Tags contratos
// @Param id path int true "Contract ID"
// @Success 200 {object} messagePayload
// @Failure 409 {object} errorPayload
// @Router /api/contratos/{id} [delete]
func DeleteContract(svc service.ContractService) fiber.Handler {
	return deleteByID(svc.Delete, "Contrato eliminado correctamente")
}

// ContractSummary counts contracts by lifecycle bucket.
//
// @Summary Contract counters
// @Tags contratos
// @Produce json
// @Success 200 {object} model.ContractSummary
// @Router /api/contratos/resumen [get]
func ContractSummary(svc service.ContractService) fiber.Handler {
	return respond(svc.Summary)
}

// contractListings maps the listing routes to their service calls.
func contractListings(svc service.ContractService) map[string]fiber.Handler {
	return map[string]fiber.Handler{
		"/":           respond[[]model.Contract](svc.List),
		"/vigentes":   respond[[]model.Contract](svc.ListCurrent),
		"/vencidos":   respond[[]model.Contract](svc.ListExpired),
		"/por-vencer": respond[[]model.Contract](svc.ListExpiring),
	}
}
