package ingestion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/application-tracker/internal/llm"
	"github.com/jonathan/application-tracker/internal/prompts"
)

// maxExtractionInput bounds how much posting text is sent for extraction.
const maxExtractionInput = 8000

// PostingFields are the structured fields extracted from a posting.
type PostingFields struct {
	RoleTitle string `json:"role_title"`
	Company   string `json:"company"`
}

// ExtractFields asks the generative-text service to pull the role title and
// company out of cleaned posting text.
func ExtractFields(ctx context.Context, client llm.Client, text string) (PostingFields, error) {
	if len(text) > maxExtractionInput {
		text = text[:maxExtractionInput]
	}

	tmpl, err := prompts.Get("ingestion.json", "posting_fields")
	if err != nil {
		return PostingFields{}, err
	}
	prompt := prompts.Format(tmpl, map[string]string{"PostingText": text})

	raw, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return PostingFields{}, fmt.Errorf("field extraction failed: %w", err)
	}
	raw = llm.CleanJSONBlock(raw)

	var fields PostingFields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return PostingFields{}, fmt.Errorf("failed to parse extracted fields: %w (content: %s)", err, raw)
	}
	return fields, nil
}
