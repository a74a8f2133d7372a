package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/lgbarn/chessql-go/internal/errors"
)

// errorHandler maps domain errors onto status codes. Query errors carry the
// byte offset of the offending token.
func (h *Handler) errorHandler(c *fiber.Ctx, err error) error {
	status, resp := h.classify(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Warn("request failed",
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err))
	}
	return c.Status(status).JSON(resp)
}

func (h *Handler) classify(err error) (int, ErrorResponse) {
	var (
		syntaxErr  *errors.SyntaxError
		unknownErr *errors.UnknownFieldError
		fiberErr   *fiber.Error
	)
	switch {
	case errors.As(err, &syntaxErr):
		pos := syntaxErr.Pos
		return fiber.StatusBadRequest, ErrorResponse{
			Error:    "invalid query",
			Code:     ErrQuerySyntax,
			Details:  syntaxErr.Error(),
			Position: &pos,
		}
	case errors.As(err, &unknownErr):
		pos := unknownErr.Pos
		return fiber.StatusBadRequest, ErrorResponse{
			Error:    "invalid query",
			Code:     ErrUnknownField,
			Details:  unknownErr.Error(),
			Position: &pos,
		}
	case errors.Is(err, errors.ErrGameNotFound):
		return fiber.StatusNotFound, ErrorResponse{
			Error:   "game not found",
			Code:    ErrGameNotFound,
			Details: err.Error(),
		}
	case errors.Is(err, errors.ErrQueryTimeout), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, ErrorResponse{
			Error:   "query timed out",
			Code:    ErrQueryTimeout,
			Details: err.Error(),
		}
	case errors.IsRetryable(err):
		return fiber.StatusServiceUnavailable, ErrorResponse{
			Error:   "store unavailable",
			Code:    ErrStoreUnavailable,
			Details: err.Error(),
		}
	case errors.As(err, &fiberErr):
		code := ErrInternalError
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusBadRequest:
			code = ErrInvalidRequest
		}
		return fiberErr.Code, ErrorResponse{Error: fiberErr.Message, Code: code}
	}
	return fiber.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  ErrInternalError,
	}
}
