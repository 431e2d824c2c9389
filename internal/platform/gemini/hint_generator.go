package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
)

const promptText = `You are a memory aid assistant. Generate a short, creative, and memorable cue to help memorize the capital of a given country.

Country: {{.SubjectName}}
Capital: {{.CorrectValue}}

Respond with JSON of the form {"cue": "<one or two sentences>"}.`

var promptTemplate = template.Must(template.New("memory-cue").Parse(promptText))

// Config holds the Gemini settings of the hint generator.
type Config struct {
	APIKey string
	Model  string
}

// contentGenerator is the subset of *genai.Models the generator uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// HintGenerator asks Gemini for mnemonic cues.
type HintGenerator struct {
	models contentGenerator
	model  string
	logger *zap.Logger
}

// NewHintGenerator creates a Gemini client for the configured model.
func NewHintGenerator(ctx context.Context, cfg Config, logger *zap.Logger) (*HintGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return newHintGenerator(client.Models, cfg.Model, logger), nil
}

func newHintGenerator(models contentGenerator, model string, logger *zap.Logger) *HintGenerator {
	return &HintGenerator{
		models: models,
		model:  model,
		logger: logger,
	}
}

// GenerateCue returns a cue for the pair. An empty cue from the model is
// returned as is; malformed or blocked responses are errors.
func (g *HintGenerator) GenerateCue(ctx context.Context, req entities.HintRequest) (entities.Hint, error) {
	var prompt bytes.Buffer
	if err := promptTemplate.Execute(&prompt, req); err != nil {
		return entities.Hint{}, fmt.Errorf("execute prompt template: %w", err)
	}

	g.logger.Debug("requesting memory cue",
		zap.String("model", g.model),
		zap.String("subject", req.SubjectName),
	)

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt.String()), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"cue": {Type: genai.TypeString},
			},
			Required: []string{"cue"},
		},
	})
	if err != nil {
		return entities.Hint{}, fmt.Errorf("gemini generate content: %w", err)
	}

	return parseResponse(resp)
}

func parseResponse(resp *genai.GenerateContentResponse) (entities.Hint, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return entities.Hint{}, fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return entities.Hint{}, ErrContentBlocked
	}
	if candidate.Content == nil {
		return entities.Hint{}, fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	var hint entities.Hint
	if err := json.Unmarshal([]byte(text.String()), &hint); err != nil {
		return entities.Hint{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	hint.Cue = strings.TrimSpace(hint.Cue)

	return hint, nil
}
