package http

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/jhoicas/presale-api/internal/application/dto"
	"github.com/jhoicas/presale-api/internal/application/presale"
	"github.com/jhoicas/presale-api/internal/domain/entity"
	domainpresale "github.com/jhoicas/presale-api/internal/domain/presale"
)

// PresaleHandler expone compras, retiros y consultas de la preventa.
type PresaleHandler struct {
	engine *presale.Engine
	log    zerolog.Logger
}

// NewPresaleHandler construye el handler.
func NewPresaleHandler(engine *presale.Engine, log zerolog.Logger) *PresaleHandler {
	return &PresaleHandler{engine: engine, log: log}
}

// Status godoc
// @Summary      Estado de la preventa
// @Tags         presale
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /api/presale/status [get]
func (h *PresaleHandler) Status(c *fiber.Ctx) error {
	st, err := h.engine.Status(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toStatusResponse(st))
}

// Account godoc
// @Summary      Estado de una cuenta
// @Tags         presale
// @Produce      json
// @Param        address  path  string  true  "cuenta 0x"
// @Success      200  {object}  dto.AccountResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/presale/accounts/{address} [get]
func (h *PresaleHandler) Account(c *fiber.Ctx) error {
	account, err := entity.ParseAccount(c.Params("address"))
	if err != nil {
		return badRequest(c, "INVALID_ACCOUNT", "dirección inválida")
	}
	sum, err := h.engine.Account(c.UserContext(), account)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toAccountResponse(sum))
}

// ListPurchases godoc
// @Summary      Historial de compras
// @Tags         presale
// @Produce      json
// @Param        account  query  string  false  "filtrar por beneficiario"
// @Param        limit    query  int     false  "límite (máx 100)"
// @Param        offset   query  int     false  "desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/presale/purchases [get]
func (h *PresaleHandler) ListPurchases(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de paginación inválidos")
	}
	page.DefaultPage()
	page.CapLimit(presale.MaxPurchaseLimit)

	var filter *common.Address
	if raw := c.Query("account"); raw != "" {
		a, err := entity.ParseAccount(raw)
		if err != nil {
			return badRequest(c, "INVALID_ACCOUNT", "dirección inválida")
		}
		filter = &a
	}
	list, err := h.engine.ListPurchases(c.UserContext(), filter, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toPurchaseResponse(p))
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Buy godoc
// @Summary      Registrar una compra
// @Description  Registra un pago confirmado para el beneficiario. Requiere rol operator o admin.
// @Tags         presale
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BuyRequest  true  "beneficiary y amount_wei o amount_eth"
// @Success      201  {object}  dto.PurchaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/presale/purchases [post]
func (h *PresaleHandler) Buy(c *fiber.Ctx) error {
	var in dto.BuyRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	beneficiary, err := entity.ParseAccount(in.Beneficiary)
	if err != nil {
		return badRequest(c, "INVALID_ACCOUNT", "beneficiary inválido")
	}
	var payer common.Address
	if in.Payer != "" {
		if payer, err = entity.ParseAccount(in.Payer); err != nil {
			return badRequest(c, "INVALID_ACCOUNT", "payer inválido")
		}
	}
	amount, err := parseAmount(in)
	if err != nil {
		return badRequest(c, "INVALID_AMOUNT", err.Error())
	}

	p, err := h.engine.Buy(c.UserContext(), presale.BuyInput{Payer: payer, Beneficiary: beneficiary, Amount: amount})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseResponse(p))
}

func parseAmount(in dto.BuyRequest) (*uint256.Int, error) {
	switch {
	case in.AmountWei != "":
		return domainpresale.ParseWei(in.AmountWei)
	case in.AmountETH != "":
		return domainpresale.ParseEther(in.AmountETH)
	default:
		return nil, errAmountRequired
	}
}

// Withdraw godoc
// @Summary      Entregar tokens pendientes
// @Description  Entrega todo el crédito pendiente de la cuenta una vez alcanzado lockTime.
// @Tags         presale
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WithdrawRequest  true  "account"
// @Success      201  {object}  dto.WithdrawalResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/presale/withdrawals [post]
func (h *PresaleHandler) Withdraw(c *fiber.Ctx) error {
	var in dto.WithdrawRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	account, err := entity.ParseAccount(in.Account)
	if err != nil {
		return badRequest(c, "INVALID_ACCOUNT", "account inválido")
	}
	w, err := h.engine.WithdrawTokens(c.UserContext(), account)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toWithdrawalResponse(w))
}
