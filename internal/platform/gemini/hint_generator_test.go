package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/aliskhannn/geoquiz-bot/internal/domain/entities"
)

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

var france = entities.HintRequest{SubjectName: "France", CorrectValue: "Paris"}

func TestHintGenerator_GenerateCue(t *testing.T) {
	models := &fakeModels{resp: textResponse(`{"cue": "  Pair-is: a pair of lovers in France.  "}`)}
	g := newHintGenerator(models, "gemini-2.0-flash", zap.NewNop())

	hint, err := g.GenerateCue(context.Background(), france)
	require.NoError(t, err)
	assert.Equal(t, "Pair-is: a pair of lovers in France.", hint.Cue)

	assert.Equal(t, "gemini-2.0-flash", models.model)
	assert.Contains(t, models.prompt, "Country: France")
	assert.Contains(t, models.prompt, "Capital: Paris")
	assert.Equal(t, "application/json", models.config.ResponseMIMEType)
}

func TestHintGenerator_EmptyCue(t *testing.T) {
	g := newHintGenerator(&fakeModels{resp: textResponse(`{"cue": ""}`)}, "m", zap.NewNop())

	hint, err := g.GenerateCue(context.Background(), france)
	require.NoError(t, err)
	assert.Empty(t, hint.Cue)
}

func TestHintGenerator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		models  *fakeModels
		wantErr error
	}{
		{
			name:    "api error",
			models:  &fakeModels{err: errors.New("quota exceeded")},
			wantErr: nil,
		},
		{
			name:    "no candidates",
			models:  &fakeModels{resp: &genai.GenerateContentResponse{}},
			wantErr: ErrInvalidResponse,
		},
		{
			name: "blocked",
			models: &fakeModels{resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			}},
			wantErr: ErrContentBlocked,
		},
		{
			name:    "not json",
			models:  &fakeModels{resp: textResponse("Paris, the city of love")},
			wantErr: ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newHintGenerator(tt.models, "m", zap.NewNop())

			_, err := g.GenerateCue(context.Background(), france)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewHintGenerator_InvalidConfig(t *testing.T) {
	_, err := NewHintGenerator(context.Background(), Config{Model: "m"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewHintGenerator(context.Background(), Config{APIKey: "key"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
