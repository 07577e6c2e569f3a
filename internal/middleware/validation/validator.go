package validation

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	maxKeywords      = 10
	maxKeywordLength = 100
)

var (
	// Android application ids: dotted segments, each starting with a letter.
	appIDPattern  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)+$`)
	localePattern = regexp.MustCompile(`^[a-z]{2}(-[A-Za-z]{2,4})?$`)
	regionPattern = regexp.MustCompile(`^[a-zA-Z]{2}$`)
	xssPattern    = regexp.MustCompile(`(?i)(<script|<iframe|javascript:|onerror=|onload=|onclick=)`)
)

type Config struct {
	Logger *zap.Logger
}

// Middleware validates the analysis request bodies before they reach the
// handlers, so handlers can trust their inputs.
func Middleware(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == "POST" {
			contentType := c.Get("Content-Type")
			if contentType != "" && !strings.Contains(contentType, "application/json") {
				return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
					"error": "Unsupported content type",
				})
			}
		}

		path := c.Path()

		if strings.Contains(path, "/api/v1/market/analyze") {
			var req struct {
				Keywords []string `json:"keywords"`
				Locale   string   `json:"locale"`
				Region   string   `json:"region"`
			}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}
			if len(req.Keywords) == 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "At least one keyword is required",
				})
			}
			if len(req.Keywords) > maxKeywords {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Too many keywords",
				})
			}
			for _, kw := range req.Keywords {
				trimmed := strings.TrimSpace(kw)
				if trimmed == "" || len(trimmed) > maxKeywordLength {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": "Keywords must be non-empty and at most 100 characters",
					})
				}
				if xssPattern.MatchString(trimmed) {
					cfg.Logger.Warn("Rejected keyword content",
						zap.String("ip", c.IP()),
						zap.String("keyword", trimmed),
					)
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": "Invalid keyword content",
					})
				}
			}
			if !validLocalePair(req.Locale, req.Region) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid locale or region",
				})
			}
		}

		if strings.Contains(path, "/api/v1/competitor/analyze") {
			var req struct {
				AppID  string `json:"app_id"`
				Locale string `json:"locale"`
				Region string `json:"region"`
			}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}
			if req.AppID == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "app_id is required",
				})
			}
			if !appIDPattern.MatchString(req.AppID) {
				cfg.Logger.Warn("Rejected app id",
					zap.String("ip", c.IP()),
					zap.String("app_id", req.AppID),
				)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid app_id format",
				})
			}
			if !validLocalePair(req.Locale, req.Region) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid locale or region",
				})
			}
		}

		return c.Next()
	}
}

func validLocalePair(locale, region string) bool {
	if locale != "" && !localePattern.MatchString(locale) {
		return false
	}
	if region != "" && !regionPattern.MatchString(region) {
		return false
	}
	return true
}
