package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/8shagrid/app-scout/internal/scout"
	"github.com/8shagrid/app-scout/internal/session"
	"github.com/8shagrid/app-scout/pkg/logger"
)

type MarketHandler struct {
	engine   *scout.Engine
	sessions *session.Store
}

func NewMarketHandler(engine *scout.Engine, sessions *session.Store) *MarketHandler {
	return &MarketHandler{
		engine:   engine,
		sessions: sessions,
	}
}

func (h *MarketHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req struct {
		Keywords []string `json:"keywords"`
		Locale   string   `json:"locale"`
		Region   string   `json:"region"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(req.Keywords) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one keyword is required",
		})
	}

	analysis, err := h.engine.AnalyzeMarket(c.Context(), scout.MarketRequest{
		Keywords: req.Keywords,
		Locale:   req.Locale,
		Region:   req.Region,
	})
	if err != nil {
		// No matches is an empty-result state, not a failure.
		if errors.Is(err, scout.ErrNoResults) {
			return c.JSON(fiber.Map{
				"keywords":      analysis.Keywords,
				"table":         analysis.Table,
				"failures":      analysis.Failures,
				"summary":       analysis.Summary,
				"verdict":       nil,
				"opportunities": nil,
			})
		}
		logger.Error("Failed to analyze market",
			zap.Strings("keywords", req.Keywords),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze market",
		})
	}

	sess := h.sessions.GetOrCreate(c.Get("X-Session-ID"))
	h.sessions.Update(sess.ID, func(s *session.Session) {
		s.LastKeywords = req.Keywords
		s.MarketTable = analysis.Table
	})

	return c.JSON(fiber.Map{
		"session_id":    sess.ID,
		"keywords":      analysis.Keywords,
		"table":         analysis.Table,
		"failures":      analysis.Failures,
		"summary":       analysis.Summary,
		"verdict":       analysis.Verdict,
		"opportunities": analysis.Opportunities,
	})
}
