package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jonathan/application-tracker/internal/llm"
)

type fakeClient struct {
	content     string
	jsonContent string
	err         error

	lastPrompt string
	lastTier   llm.ModelTier
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.lastPrompt = prompt
	f.lastTier = tier
	return f.content, f.err
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.lastPrompt = prompt
	f.lastTier = tier
	return f.jsonContent, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestCoverLetter(t *testing.T) {
	client := &fakeClient{content: "Dear hiring team,"}
	gen := NewGenerator(client)

	letter, err := gen.CoverLetter(context.Background(), Inputs{
		JobTitle:    "Platform Engineer",
		Company:     "Acme",
		PostingText: "We build widgets.",
		Notes:       "Referred by Sam.",
	})
	if err != nil {
		t.Fatalf("CoverLetter: %v", err)
	}
	if letter != "Dear hiring team," {
		t.Errorf("letter = %q", letter)
	}
	if client.lastTier != llm.TierStandard {
		t.Errorf("tier = %q, want standard", client.lastTier)
	}
	for _, want := range []string{"Platform Engineer", "Acme", "We build widgets.", "Referred by Sam."} {
		if !strings.Contains(client.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(client.lastPrompt, "{{.") {
		t.Errorf("prompt has unsubstituted placeholders: %s", client.lastPrompt)
	}
}

func TestCoverLetterClientError(t *testing.T) {
	gen := NewGenerator(&fakeClient{err: errors.New("quota exceeded")})
	if _, err := gen.CoverLetter(context.Background(), Inputs{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestInterviewQuestions(t *testing.T) {
	client := &fakeClient{jsonContent: `{"questions":[
		{"question":"Describe a production incident you led.","topic":"operations"},
		{"question":"How do you size a connection pool?","topic":"databases"}
	]}`}
	gen := NewGenerator(client)

	qs, err := gen.InterviewQuestions(context.Background(), Inputs{JobTitle: "SRE", Company: "Globex"}, 2)
	if err != nil {
		t.Fatalf("InterviewQuestions: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}
	if qs[1].Topic != "databases" {
		t.Errorf("topic = %q", qs[1].Topic)
	}
	if client.lastTier != llm.TierLite {
		t.Errorf("tier = %q, want lite", client.lastTier)
	}
	if !strings.Contains(client.lastPrompt, "2") {
		t.Errorf("prompt missing count: %s", client.lastPrompt)
	}
}

func TestInterviewQuestionsDefaultCount(t *testing.T) {
	client := &fakeClient{jsonContent: `{"questions":[{"question":"Why this role?","topic":"motivation"}]}`}
	gen := NewGenerator(client)

	if _, err := gen.InterviewQuestions(context.Background(), Inputs{}, 0); err != nil {
		t.Fatalf("InterviewQuestions: %v", err)
	}
	if !strings.Contains(client.lastPrompt, "8") {
		t.Errorf("prompt should carry the default count: %s", client.lastPrompt)
	}
}

func TestInterviewQuestionsRejectsInvalidShape(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"empty array", `{"questions":[]}`},
		{"missing topic", `{"questions":[{"question":"Why us?"}]}`},
		{"wrong root", `[{"question":"Why us?","topic":"fit"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := NewGenerator(&fakeClient{jsonContent: tc.json})
			if _, err := gen.InterviewQuestions(context.Background(), Inputs{}, 3); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
