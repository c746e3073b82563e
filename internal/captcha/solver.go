package captcha

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/iec-api/internal/config"
	"github.com/nexconsult/iec-api/internal/models"
)

const solverPrompt = "Extract and return only the text from this captcha image. Return only the 4+ alphanumeric characters, nothing else."

// Solver turns a captured captcha region into its text.
type Solver interface {
	Solve(ctx context.Context, region *Region) (string, error)
}

// VisionSolver reads captcha text with a vision-capable chat model.
type VisionSolver struct {
	client *openai.Client
	model  string
	logger *logrus.Logger
}

// NewVisionSolver creates a solver from the injected credentials.
func NewVisionSolver(cfg config.SolverConfig, logger *logrus.Logger) *VisionSolver {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &VisionSolver{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger,
	}
}

// Solve sends the region to the vision model and returns the trimmed
// text it read. A nil region short-circuits to ("", nil) without a
// network call. Vision output is non-deterministic; callers must not
// assume two calls on the same image agree.
func (s *VisionSolver) Solve(ctx context.Context, region *Region) (string, error) {
	if region == nil {
		return "", nil
	}

	dataURL := fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(region.PNG))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: solverPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
		MaxTokens: 10,
	})
	if err != nil {
		s.logger.WithError(err).Warn("Captcha solver request failed")
		return "", models.NewSolverFailureError(err)
	}

	if len(resp.Choices) == 0 {
		return "", models.NewSolverFailureError(fmt.Errorf("empty response from vision model"))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
