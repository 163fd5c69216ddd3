package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
)

type OpenRouterOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenRouterService talks to an OpenAI-compatible chat-completions endpoint.
type OpenRouterService struct {
	client *resty.Client
	model  string
	log    *zap.Logger
}

func NewOpenRouterService(opts OpenRouterOptions, log *zap.Logger) (*OpenRouterService, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, &models.MissingInputError{Field: "OPENROUTER_API_KEY"}
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetAuthToken(opts.APIKey).
		SetHeader("Content-Type", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &OpenRouterService{
		client: client,
		model:  opts.Model,
		log:    logger.WithFields(log, zap.String(logger.FieldProvider, "openrouter"), zap.String(logger.FieldModel, opts.Model)),
	}, nil
}

func (s *OpenRouterService) Model() string {
	return s.model
}

func (s *OpenRouterService) Generate(ctx context.Context, prompt string, attachments ...string) (string, error) {
	parts := make([]map[string]string, 0, len(attachments)+1)
	parts = append(parts, map[string]string{"type": "text", "text": prompt})
	for _, attachment := range attachments {
		parts = append(parts, map[string]string{"type": "text", "text": attachment})
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"model": s.model,
			"messages": []map[string]interface{}{
				{"role": "user", "content": parts},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		s.log.Error("openrouter request failed", zap.Error(err))
		return "", &models.ServiceError{Provider: "openrouter", Err: err}
	}

	body := resp.String()
	if resp.IsError() {
		message := gjson.Get(body, "error.message").String()
		if message == "" {
			message = logger.TruncateForLog(body, logPreviewLimit)
		}
		return "", &models.ServiceError{Provider: "openrouter", Err: fmt.Errorf("status %d: %s", resp.StatusCode(), message)}
	}

	text := strings.TrimSpace(gjson.Get(body, "choices.0.message.content").String())
	if text == "" {
		return "", &models.ServiceError{Provider: "openrouter", Err: errors.New("empty response")}
	}

	s.log.Debug("openrouter response received", zap.String("response", logger.TruncateForLog(text, logPreviewLimit)))

	return text, nil
}
