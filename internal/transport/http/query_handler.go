package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lgbarn/chessql-go/internal/compiler"
	"github.com/lgbarn/chessql-go/internal/query"
)

// Schema lists the relational fields a query may reference.
func (h *Handler) Schema(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"columns": compiler.Columns})
}

func (h *Handler) Query(c *fiber.Ctx) error {
	var req QueryRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	resp, err := h.deps.Executor.Execute(c.UserContext(), query.Request{
		Text: req.Query,
		Scope: compiler.Scope{
			AccountID: req.AccountID,
			Platform:  req.Platform,
			Player:    req.Player,
		},
		Limit:     req.Limit,
		Page:      req.Page,
		Offset:    req.Offset,
		CountOnly: req.CountOnly,
	})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
