// Package http exposes the query engine and ingestion over a JSON API.
package http

import (
	"context"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/classify"
	"github.com/lgbarn/chessql-go/internal/config"
	"github.com/lgbarn/chessql-go/internal/ingest"
	"github.com/lgbarn/chessql-go/internal/query"
	"github.com/lgbarn/chessql-go/internal/store"
)

// Games reads stored games and their derived rows. *store.Store satisfies
// it.
type Games interface {
	GetGame(ctx context.Context, id string) (*store.StoredGame, error)
	GameCaptures(ctx context.Context, gameID string) ([]classify.CaptureRecord, error)
	GamePromotions(ctx context.Context, gameID string) ([]classify.PromotionRecord, error)
	GameWarnings(ctx context.Context, gameID string) ([]store.Warning, error)
	CountGames(ctx context.Context, accountID, platform string) (int, error)
	Ping(ctx context.Context) error
}

// Deps are the services behind the API. Metrics is optional.
type Deps struct {
	Executor *query.Executor
	Ingest   *ingest.Service
	Games    Games
	Metrics  nethttp.Handler
	Logger   *zap.Logger
}

type Handler struct {
	deps Deps
	log  *zap.Logger
}

func NewHandler(deps Deps) *Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{deps: deps, log: log.Named("http")}
}

// NewApp builds the fiber application with every route registered.
func NewApp(deps Deps, cfg config.ServerConfig) *fiber.App {
	h := NewHandler(deps)

	app := fiber.New(fiber.Config{
		AppName:               "chessql",
		ErrorHandler:          h.errorHandler,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(h.requestLogger)
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	app.Get("/health", h.Health)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api/v1")
	api.Use(contentTypeValidator)

	api.Get("/schema", h.Schema)
	api.Get("/stats", h.Stats)
	api.Post("/query", h.Query)
	api.Post("/games", h.CreateGame)
	api.Get("/games/:gameId", h.GetGame)

	return app
}

// contentTypeValidator ensures POST requests carry JSON.
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get(fiber.HeaderContentType)
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(ErrorResponse{
				Error:   "unsupported media type",
				Code:    ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

func (h *Handler) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
	}
	h.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)),
	)
	return err
}

func (h *Handler) Health(c *fiber.Ctx) error {
	if h.deps.Games != nil {
		if err := h.deps.Games.Ping(c.UserContext()); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) newGame(req *GameRequest) *chess.Game {
	return &chess.Game{
		ID:              req.ID,
		AccountID:       req.AccountID,
		Platform:        req.Platform,
		PlatformID:      req.PlatformID,
		ReferencePlayer: req.ReferencePlayer,
		Moves:           req.Moves,
		InitialFEN:      req.InitialFEN,
		White:           req.White,
		Black:           req.Black,
		WhiteElo:        req.WhiteElo,
		BlackElo:        req.BlackElo,
		Result:          req.Result,
		DatePlayed:      req.DatePlayed,
		Event:           req.Event,
		Site:            req.Site,
		Round:           req.Round,
		ECO:             req.ECO,
		Opening:         req.Opening,
		TimeControl:     req.TimeControl,
		Speed:           req.Speed,
		Variant:         req.Variant,
		Termination:     req.Termination,
	}
}
