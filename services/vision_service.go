package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Vivek-Rav/yawye/utils"
)

// VisionModel is the external vision-language service that turns a photo
// (plus optional text context) into the raw response text. It is untrusted
// and non-deterministic; callers must run its output through
// ParseModelResponse before believing anything it says.
type VisionModel interface {
	AnalyzeImage(ctx context.Context, img *utils.ImagePayload, prompt string) (string, error)
}

type GeminiService struct {
	client *genai.Client
	model  string
}

func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY not set", ErrMisconfigured)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiService{client: client, model: model}, nil
}

// AnalyzeImage sends one image + prompt pair to Gemini and returns the
// concatenated text of the first candidate. A failed call is terminal for
// the request; nothing is retried.
func (s *GeminiService) AnalyzeImage(ctx context.Context, img *utils.ImagePayload, prompt string) (string, error) {
	model := s.client.GenerativeModel(s.model)
	resp, err := model.GenerateContent(ctx,
		genai.ImageData(strings.TrimPrefix(img.MIMEType, "image/"), img.Data),
		genai.Text(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty candidate", ErrMalformedResponse)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}
