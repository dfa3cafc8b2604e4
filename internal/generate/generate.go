// Package generate produces cover letter drafts and interview prep questions
// for a tracked application by calling the generative-text service. The
// engine treats the output as opaque text; nothing here touches funnel state.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jonathan/application-tracker/internal/llm"
	"github.com/jonathan/application-tracker/internal/prompts"
	"github.com/jonathan/application-tracker/internal/schemas"
)

// DefaultQuestionCount is how many interview questions are requested when the
// caller does not specify a count.
const DefaultQuestionCount = 8

// maxPostingExcerpt bounds how much posting text goes into a prompt.
const maxPostingExcerpt = 6000

// Inputs holds the application context a generation prompt is built from.
type Inputs struct {
	JobTitle    string
	Company     string
	PostingText string
	Notes       string
}

// InterviewQuestion is one generated prep question.
type InterviewQuestion struct {
	Question string `json:"question"`
	Topic    string `json:"topic"`
}

// Generator builds prompts and invokes the generative-text client.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a Generator over a generative-text client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// CoverLetter drafts a cover letter for the application.
func (g *Generator) CoverLetter(ctx context.Context, in Inputs) (string, error) {
	tmpl, err := prompts.Get("generation.json", "cover_letter")
	if err != nil {
		return "", err
	}

	prompt := prompts.Format(tmpl, map[string]string{
		"JobTitle":    in.JobTitle,
		"Company":     in.Company,
		"PostingText": excerpt(in.PostingText),
		"Notes":       in.Notes,
	})

	letter, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("cover letter generation failed: %w", err)
	}
	return letter, nil
}

// InterviewQuestions generates count likely interview questions for the
// application. The model's JSON is validated against the embedded schema
// before being returned.
func (g *Generator) InterviewQuestions(ctx context.Context, in Inputs, count int) ([]InterviewQuestion, error) {
	if count <= 0 {
		count = DefaultQuestionCount
	}

	tmpl, err := prompts.Get("generation.json", "interview_questions")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(tmpl, map[string]string{
		"JobTitle":    in.JobTitle,
		"Company":     in.Company,
		"PostingText": excerpt(in.PostingText),
		"Count":       strconv.Itoa(count),
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	if err := schemas.Validate(schemas.InterviewQuestionsSchema, []byte(raw)); err != nil {
		return nil, fmt.Errorf("generated questions failed validation: %w", err)
	}

	var parsed struct {
		Questions []InterviewQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse generated questions: %w", err)
	}
	return parsed.Questions, nil
}

func excerpt(text string) string {
	if len(text) > maxPostingExcerpt {
		return text[:maxPostingExcerpt]
	}
	return text
}
