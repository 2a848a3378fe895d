package http

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/presale-api/internal/application/dto"
	"github.com/jhoicas/presale-api/internal/application/whitelist"
	"github.com/jhoicas/presale-api/internal/domain/entity"
)

// WhitelistHandler administración de la whitelist.
type WhitelistHandler struct {
	uc  *whitelist.UseCase
	log zerolog.Logger
}

// NewWhitelistHandler construye el handler.
func NewWhitelistHandler(uc *whitelist.UseCase, log zerolog.Logger) *WhitelistHandler {
	return &WhitelistHandler{uc: uc, log: log}
}

type whitelistEntry struct {
	Account     string `json:"account"`
	Whitelisted bool   `json:"whitelisted"`
}

// Get godoc
// @Summary      Consultar una cuenta en la whitelist
// @Tags         whitelist
// @Produce      json
// @Param        address  path  string  true  "cuenta 0x"
// @Success      200  {object}  whitelistEntry
// @Security     BearerAuth
// @Router       /api/whitelist/{address} [get]
func (h *WhitelistHandler) Get(c *fiber.Ctx) error {
	account, err := entity.ParseAccount(c.Params("address"))
	if err != nil {
		return badRequest(c, "INVALID_ACCOUNT", "dirección inválida")
	}
	ok, err := h.uc.IsWhitelisted(c.UserContext(), account)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(whitelistEntry{Account: account.Hex(), Whitelisted: ok})
}

// List godoc
// @Summary      Listar cuentas en la whitelist
// @Tags         whitelist
// @Produce      json
// @Param        limit   query  int  false  "límite (máx 500)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/whitelist [get]
func (h *WhitelistHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de paginación inválidos")
	}
	list, err := h.uc.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	accounts := make([]string, 0, len(list))
	for _, a := range list {
		accounts = append(accounts, a.Hex())
	}
	return c.JSON(fiber.Map{"accounts": accounts})
}

// Add godoc
// @Summary      Agregar cuenta a la whitelist (idempotente)
// @Tags         whitelist
// @Produce      json
// @Param        address  path  string  true  "cuenta 0x"
// @Success      200  {object}  whitelistEntry
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/whitelist/{address} [put]
func (h *WhitelistHandler) Add(c *fiber.Ctx) error {
	return h.set(c, true)
}

// Remove godoc
// @Summary      Quitar cuenta de la whitelist
// @Description  No afecta el crédito ya comprado: la cuenta puede retirar igual tras lockTime.
// @Tags         whitelist
// @Produce      json
// @Param        address  path  string  true  "cuenta 0x"
// @Success      200  {object}  whitelistEntry
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/whitelist/{address} [delete]
func (h *WhitelistHandler) Remove(c *fiber.Ctx) error {
	return h.set(c, false)
}

func (h *WhitelistHandler) set(c *fiber.Ctx, whitelisted bool) error {
	account, err := entity.ParseAccount(c.Params("address"))
	if err != nil {
		return badRequest(c, "INVALID_ACCOUNT", "dirección inválida")
	}
	if whitelisted {
		err = h.uc.Add(c.UserContext(), GetUserID(c), account)
	} else {
		err = h.uc.Remove(c.UserContext(), GetUserID(c), account)
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(whitelistEntry{Account: account.Hex(), Whitelisted: whitelisted})
}

// AddBatch godoc
// @Summary      Agregar varias cuentas a la whitelist
// @Tags         whitelist
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WhitelistBatchRequest  true  "accounts"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/whitelist [post]
func (h *WhitelistHandler) AddBatch(c *fiber.Ctx) error {
	var in dto.WhitelistBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	accounts := make([]common.Address, 0, len(in.Accounts))
	for _, raw := range in.Accounts {
		a, err := entity.ParseAccount(raw)
		if err != nil {
			return badRequest(c, "INVALID_ACCOUNT", "dirección inválida: "+raw)
		}
		accounts = append(accounts, a)
	}
	if err := h.uc.AddBatch(c.UserContext(), GetUserID(c), accounts); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"added": len(accounts)})
}
