package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/8shagrid/app-scout/internal/playstore"
	"github.com/8shagrid/app-scout/internal/reviewintel"
	"github.com/8shagrid/app-scout/internal/scout"
	"github.com/8shagrid/app-scout/internal/session"
	"github.com/8shagrid/app-scout/pkg/logger"
)

type CompetitorHandler struct {
	engine   *scout.Engine
	sessions *session.Store
}

func NewCompetitorHandler(engine *scout.Engine, sessions *session.Store) *CompetitorHandler {
	return &CompetitorHandler{
		engine:   engine,
		sessions: sessions,
	}
}

func (h *CompetitorHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req struct {
		AppID  string `json:"app_id"`
		Locale string `json:"locale"`
		Region string `json:"region"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.AppID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "app_id is required",
		})
	}

	analysis, err := h.engine.AnalyzeCompetitor(c.Context(), scout.CompetitorRequest{
		AppID:  req.AppID,
		Locale: req.Locale,
		Region: req.Region,
	})
	if err != nil {
		if errors.Is(err, playstore.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "App not found",
			})
		}
		logger.Error("Failed to analyze competitor",
			zap.String("app_id", req.AppID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze competitor",
		})
	}

	sess := h.sessions.GetOrCreate(c.Get("X-Session-ID"))
	h.sessions.Update(sess.ID, func(s *session.Session) {
		s.CurrentAppID = req.AppID
		s.Reviews = analysis.Reviews
	})

	return c.JSON(fiber.Map{
		"session_id":            sess.ID,
		"app":                   analysis.App,
		"metrics":               analysis.Metrics,
		"verdict":               analysis.Verdict,
		"analytics":             analysis.Analytics,
		"strategy":              analysis.Strategy,
		"sensitive_permissions": analysis.SensitivePermissions,
	})
}

// HandleReviewSearch filters the reviews loaded by the last competitor
// analysis in this session.
func (h *CompetitorHandler) HandleReviewSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	sess := h.sessions.Get(c.Get("X-Session-ID"))
	if sess == nil || sess.CurrentAppID == "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Analyze a competitor first",
		})
	}

	matches := reviewintel.SearchReviews(sess.Reviews, query)
	return c.JSON(fiber.Map{
		"app_id":  sess.CurrentAppID,
		"query":   query,
		"matches": matches,
		"total":   len(matches),
	})
}
