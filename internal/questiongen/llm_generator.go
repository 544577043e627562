package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/subodh556/AI-Teacher-sub000/internal/llm"
	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

// LLMGenerator implements Generator with an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      *zap.Logger
}

// New returns a generator. A nil logger discards output.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *LLMGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{provider: provider, config: cfg, log: log}
}

type generatedOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type generatedStep struct {
	ID            string `json:"id"`
	Prompt        string `json:"prompt"`
	CorrectAnswer string `json:"correct_answer"`
	Hint          string `json:"hint"`
}

// generatedQuestion is the model's output before conversion.
type generatedQuestion struct {
	Kind           question.Kind       `json:"kind"`
	Prompt         string              `json:"prompt"`
	Explanation    string              `json:"explanation"`
	Difficulty     int                 `json:"difficulty"`
	Options        []generatedOption   `json:"options"`
	CorrectAnswers []string            `json:"correct_answers"`
	MultiSelect    bool                `json:"multi_select"`
	Language       string              `json:"language"`
	StarterCode    string              `json:"starter_code"`
	TestCases      []question.TestCase `json:"test_cases"`
	Steps          []generatedStep     `json:"steps"`
}

// doc maps the output onto the bank's record shape.
func (g generatedQuestion) doc(id, area string) question.QuestionDoc {
	d := question.QuestionDoc{
		ID:              id,
		Kind:            g.Kind,
		Prompt:          g.Prompt,
		Explanation:     g.Explanation,
		Difficulty:      g.Difficulty,
		KnowledgeAreaID: area,
	}
	switch g.Kind {
	case question.KindChoice:
		for _, o := range g.Options {
			d.Options = append(d.Options, question.Option{ID: o.ID, Text: o.Text})
		}
		if g.MultiSelect {
			d.CorrectAnswer = question.Many(g.CorrectAnswers...)
		} else if len(g.CorrectAnswers) > 0 {
			d.CorrectAnswer = question.Single(g.CorrectAnswers[0])
		}
	case question.KindShortText:
		if len(g.CorrectAnswers) > 0 {
			d.CorrectAnswer = question.Single(g.CorrectAnswers[0])
			d.AcceptableAnswers = g.CorrectAnswers[1:]
		}
	case question.KindCode:
		d.Language = g.Language
		d.StarterCode = g.StarterCode
		d.TestCases = g.TestCases
	case question.KindMultiStep:
		for _, s := range g.Steps {
			d.Steps = append(d.Steps, question.StepDoc(s))
		}
	}
	return d
}

// Generate asks for a question and validates it, regenerating while a
// retryable validator rejects the output and attempts remain.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*question.Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	var lastErr error
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		q, err := g.generateOnce(ctx, input)
		if err == nil {
			return q, nil
		}
		lastErr = err

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			return nil, err
		}
		g.log.Info("generated question rejected",
			zap.String("validator", verr.Validator),
			zap.String("reason", verr.Message),
			zap.Int("attempt", attempt))
	}
	return nil, lastErr
}

func (g *LLMGenerator) generateOnce(ctx context.Context, input GenerateInput) (*question.Question, error) {
	req := llm.UserPrompt(systemPrompt, buildUserMessage(input, g.config), QuestionSchema, g.config.MaxTokens)
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out generatedQuestion
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	q, err := out.doc("gen-"+uuid.NewString(), input.KnowledgeAreaID).ToQuestion()
	if err != nil {
		return nil, &ValidationError{Validator: "shape", Message: err.Error(), Retryable: true}
	}
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, input); verr != nil {
			return nil, verr
		}
	}
	return q, nil
}
