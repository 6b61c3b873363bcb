package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransactionHandler maneja creación, consulta y aprobación de transacciones de stock.
type TransactionHandler struct {
	ledger   *inventory.Ledger
	approval *inventory.Approval
	query    *inventory.TransactionQuery
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(ledger *inventory.Ledger, approval *inventory.Approval, query *inventory.TransactionQuery) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, approval: approval, query: query}
}

// Create godoc
// @Summary      Registrar transacción de stock
// @Description  IN (solo ADMIN) suma stock y queda COMPLETED. OUT de ADMIN descuenta y queda APPROVED; OUT de USER queda PENDING.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "Tipo y líneas"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	actor := GetActor(c)
	if in.Type == entity.TransactionTypeIN && !actor.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo ADMIN puede registrar entradas"})
	}
	out, err := h.ledger.CreateTransaction(c.UserContext(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Historial de transacciones
// @Description  Fechas YYYY-MM-DD en la zona horaria del negocio, límites inclusivos.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        type        query  string  false  "IN | OUT"
// @Param        status      query  string  false  "PENDING | APPROVED | REJECTED | COMPLETED"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var in dto.TransactionFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if err := validateStruct(&in); err != nil {
		return validationError(c, err)
	}
	list, err := h.query.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener transacción por ID
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Aprobar o rechazar transacción pendiente
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                              true  "ID de la transacción"
// @Param        body  body  dto.UpdateTransactionStatusRequest  true  "APPROVED | REJECTED"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/status [patch]
func (h *TransactionHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateTransactionStatusRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.approval.Decide(c.UserContext(), c.Params("id"), in.Status, GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
