package prompt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/swiftly-ai/assistant-api/internal/model"
	"github.com/swiftly-ai/assistant-api/internal/prompt"
)

func TestBuildSystemPromptRealTimeFacts(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	p := prompt.BuildSystemPrompt(nil, now)

	if !strings.Contains(p, "Current Date: 2024-03-15") {
		t.Fatal("prompt missing current date")
	}
	if !strings.Contains(p, "Current Time: 14:30") {
		t.Fatal("prompt missing 24-hour time")
	}
	if !strings.Contains(p, "Day of Week: Friday") {
		t.Fatal("prompt missing weekday name")
	}
}

func TestBuildSystemPromptPolicyBlocks(t *testing.T) {
	p := prompt.BuildSystemPrompt(nil, time.Now())

	for _, want := range []string{
		"CORE PRINCIPLES:",
		"COMMUNICATION STYLE:",
		"TASK HANDLING:",
		"plain text only",
		"OPTIONAL and SECONDARY",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildSystemPromptUserContextCaps(t *testing.T) {
	ctx := &model.UserContext{
		Tasks:     []string{"t1", "t2", "t3", "t4", "t5"},
		Reminders: []string{"r1", "r2", "r3"},
	}
	p := prompt.BuildSystemPrompt(ctx, time.Now())

	if !strings.Contains(p, "t1, t2, t3.") {
		t.Fatal("expected first 3 tasks verbatim")
	}
	if strings.Contains(p, "t4") {
		t.Fatal("expected task cap of 3")
	}
	if !strings.Contains(p, "r1, r2.") {
		t.Fatal("expected first 2 reminders verbatim")
	}
	if strings.Contains(p, "r3") {
		t.Fatal("expected reminder cap of 2")
	}
}

func TestBuildSystemPromptNoUserContext(t *testing.T) {
	p := prompt.BuildSystemPrompt(&model.UserContext{}, time.Now())

	if strings.Contains(p, "USER CONTEXT:") {
		t.Fatal("expected no user context block for empty context")
	}
}

func TestBuildTaskIntentPrompt(t *testing.T) {
	p := prompt.BuildTaskIntentPrompt("remind me to water the plants")

	for _, want := range []string{
		"remind me to water the plants",
		"hasTaskIntent",
		"taskName",
		"dueDate",
		"priority",
		"needsClarity",
		`"remind me"`,
		"Return only the JSON",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("intent prompt missing %q", want)
		}
	}
}
