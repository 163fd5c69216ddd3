package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
)

const logPreviewLimit = 200

// Generator sends one user turn to a language model. The prompt and every
// attachment become separate content parts of that turn.
type Generator interface {
	Generate(ctx context.Context, prompt string, attachments ...string) (string, error)
	Model() string
}

// Embedder turns text into a vector for the candidate index.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type GeminiOptions struct {
	APIKey      string
	Model       string
	EmbedModel  string
	Backend     string
	Project     string
	Location    string
	Temperature float32
}

type GeminiService struct {
	client      *genai.Client
	modelName   string
	embedModel  string
	temperature float32
	log         *zap.Logger
}

func NewGeminiService(ctx context.Context, opts GeminiOptions, log *zap.Logger) (*GeminiService, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}

	if strings.EqualFold(opts.Backend, "vertex") {
		clientConfig = &genai.ClientConfig{
			Project:  opts.Project,
			Location: opts.Location,
			Backend:  genai.BackendVertexAI,
		}
	} else if strings.TrimSpace(opts.APIKey) == "" {
		return nil, &models.MissingInputError{Field: "GEMINI_API_KEY"}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiService{
		client:      client,
		modelName:   opts.Model,
		embedModel:  opts.EmbedModel,
		temperature: opts.Temperature,
		log:         logger.WithFields(log, zap.String(logger.FieldProvider, "gemini"), zap.String(logger.FieldModel, opts.Model)),
	}, nil
}

func (g *GeminiService) Model() string {
	return g.modelName
}

// Generate makes a single call with no retries. Failures and empty answers are *models.ServiceError.
func (g *GeminiService) Generate(ctx context.Context, prompt string, attachments ...string) (string, error) {
	parts := make([]*genai.Part, 0, len(attachments)+1)
	parts = append(parts, genai.NewPartFromText(prompt))
	for _, attachment := range attachments {
		parts = append(parts, genai.NewPartFromText(attachment))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	g.log.Debug("sending gemini request", zap.String("prompt", logger.TruncateForLog(prompt, logPreviewLimit)), zap.Int("parts", len(parts)))

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		g.log.Error("gemini request failed", zap.Error(err))
		return "", &models.ServiceError{Provider: "gemini", Err: err}
	}

	if resp == nil {
		return "", &models.ServiceError{Provider: "gemini", Err: errors.New("nil response")}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &models.ServiceError{Provider: "gemini", Err: errors.New("empty response")}
	}

	g.log.Debug("gemini response received", zap.String("response", logger.TruncateForLog(text, logPreviewLimit)))

	return text, nil
}

// Embed returns the embedding of text, truncated to the model's input limit.
func (g *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, &models.ServiceError{Provider: "gemini", Err: fmt.Errorf("failed to generate embedding: %w", err)}
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, &models.ServiceError{Provider: "gemini", Err: errors.New("empty embedding result")}
	}

	return result.Embeddings[0].Values, nil
}
