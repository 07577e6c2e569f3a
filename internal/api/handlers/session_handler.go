package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/8shagrid/app-scout/internal/session"
)

type SessionHandler struct {
	sessions *session.Store
}

func NewSessionHandler(sessions *session.Store) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	sess := h.sessions.Get(c.Params("id"))
	if sess == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	return c.JSON(fiber.Map{
		"id":             sess.ID,
		"last_keywords":  sess.LastKeywords,
		"current_app_id": sess.CurrentAppID,
		"apps_loaded":    len(sess.MarketTable),
		"reviews_loaded": len(sess.Reviews),
		"created_at":     sess.CreatedAt,
		"updated_at":     sess.UpdatedAt,
	})
}
