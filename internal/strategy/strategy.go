// Package strategy turns a competitor's weaknesses into a counter-move
// brief. The brief is always assembled from templates; when an LLM is
// configured it only rephrases the narrative, so the advisor degrades to
// the template on any API failure.
package strategy

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/8shagrid/app-scout/internal/metrics"
	"github.com/8shagrid/app-scout/internal/models"
	"github.com/8shagrid/app-scout/internal/scoring"
	"github.com/8shagrid/app-scout/pkg/config"
	"github.com/8shagrid/app-scout/pkg/logger"
	"github.com/8shagrid/app-scout/pkg/retry"
)

const fallbackPainPoint = "UX"

type Advisor struct {
	client      *openai.Client
	enabled     bool
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	retryConfig retry.Config
}

func NewAdvisor(cfg config.LLMConfig) *Advisor {
	a := &Advisor{
		enabled:     cfg.Enabled && cfg.APIKey != "",
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
		retryConfig: retry.Config{
			MaxAttempts:    2,
			InitialDelay:   500 * time.Millisecond,
			MaxDelay:       5 * time.Second,
			Multiplier:     2.0,
			JitterFraction: 0.1,
			Logger:         logger.GetLogger(),
		},
	}
	if a.enabled {
		a.client = openai.NewClient(cfg.APIKey)
		logger.Info("Strategy advisor initialized", zap.String("model", cfg.Model))
	}
	return a
}

// Brief derives the counter-positioning for a competitor from its review
// analytics and permission surface.
func (a *Advisor) Brief(ctx context.Context, app models.AppRecord, ra models.ReviewAnalytics) models.StrategyBrief {
	pain := ra.TopPainPoint
	if pain == "" {
		pain = fallbackPainPoint
	}

	wish := ra.TopWish

	branding := "lightweight & fast"
	if len(scoring.SensitivePermissions(app, scoring.DefaultSensitivePermissionKeywords)) > 0 {
		branding = "privacy-focused (no sensitive permissions)"
	}

	narrative := fmt.Sprintf(
		"Users of %s complain most about %s. Build an alternative that fixes %s first, "+
			"position it as %s, and lead the store listing with: %q.",
		app.Title, pain, strings.ToLower(pain), branding, wish,
	)
	if a.enabled {
		if rephrased, err := a.rephrase(ctx, narrative); err == nil {
			narrative = rephrased
		} else {
			logger.Warn("Narrative rephrase failed, using template", zap.Error(err))
		}
	}

	return models.StrategyBrief{
		PainPoint: pain,
		TopWish:   wish,
		Branding:  branding,
		Narrative: narrative,
	}
}

func (a *Advisor) rephrase(ctx context.Context, draft string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: "You are a mobile app market strategist. Rewrite the draft as a short, " +
				"confident recommendation. Keep every fact; do not invent numbers.",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: draft,
		},
	}

	result, err := retry.DoWithResult(ctx, a.retryConfig, func() (string, error) {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       a.model,
			Messages:    messages,
			Temperature: a.temperature,
			MaxTokens:   a.maxTokens,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty completion")
		}
		metrics.LLMTokensUsed.WithLabelValues(a.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(a.model, "completion").Add(float64(resp.Usage.CompletionTokens))
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	})
	if err != nil {
		return "", err
	}
	if result == "" {
		return "", fmt.Errorf("empty completion")
	}
	return result, nil
}
