package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// MaxQuestionsPerRequest caps how many drafts a single call asks the model for.
const MaxQuestionsPerRequest = 10

type llmQuestionGenerator struct {
	model llms.Model
}

// NewLLMQuestionGenerator wraps a langchaingo model (ollama in production).
func NewLLMQuestionGenerator(model llms.Model) domain.QuestionGenerator {
	return &llmQuestionGenerator{model: model}
}

const generationPrompt = `You are an exam author. Write %d multiple choice questions about "%s" at %s difficulty.
Respond with ONLY a JSON array in the following format:
[
  {
    "question": "question text",
    "answers": [
      {"text": "option", "correct": true},
      {"text": "option", "correct": false}
    ]
  }
]

Rules:
1. Every question has between 2 and 5 answers
2. Exactly one answer per question is correct
3. Questions must not repeat each other
4. Keep every answer under 20 words`

type llmQuestion struct {
	Question string `json:"question"`
	Answers  []struct {
		Text    string `json:"text"`
		Correct bool   `json:"correct"`
	} `json:"answers"`
}

func (g *llmQuestionGenerator) GenerateQuestions(ctx context.Context, topic string, difficulty domain.Difficulty, count int) ([]domain.GeneratedQuestion, error) {
	l := logger.Get()
	if count <= 0 {
		return nil, nil
	}
	if count > MaxQuestionsPerRequest {
		count = MaxQuestionsPerRequest
	}

	prompt := fmt.Sprintf(generationPrompt, count, strings.TrimSpace(topic), difficulty)
	l.Info("Generating questions with LLM", zap.String("topic", topic), zap.String("difficulty", string(difficulty)), zap.Int("count", count))

	raw, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(0.7))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Error(err))
		} else {
			l.Error("Failed to get response from LLM", zap.Error(err))
		}
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}
	l.Debug("Raw LLM response received", zap.String("raw_response", raw))

	jsonStr, err := extractJSONArray(raw)
	if err != nil {
		l.Error("Could not find a JSON array in LLM response", zap.String("raw_response", raw))
		return nil, domain.NewLLMServiceError(err)
	}

	var parsed []llmQuestion
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		l.Error("Failed to unmarshal LLM response", zap.Error(err), zap.String("json", jsonStr))
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to unmarshal JSON from LLM: %w", err))
	}

	out := make([]domain.GeneratedQuestion, 0, len(parsed))
	for _, p := range parsed {
		q := domain.GeneratedQuestion{
			Text:       strings.TrimSpace(p.Question),
			Difficulty: difficulty,
		}
		for _, a := range p.Answers {
			q.Answers = append(q.Answers, domain.Answer{Text: strings.TrimSpace(a.Text), IsCorrect: a.Correct})
		}
		if q.Text == "" || len(q.Answers) < 2 {
			l.Warn("Skipping incomplete generated question", zap.Any("question", p))
			continue
		}
		out = append(out, q)
		if len(out) == count {
			break
		}
	}
	return out, nil
}

// extractJSONArray strips <think> blocks some local models emit and returns the outermost JSON array.
func extractJSONArray(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd > thinkStart {
			cleaned = strings.TrimSpace(cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):])
		}
	}
	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON array found in LLM response")
	}
	return cleaned[start : end+1], nil
}
