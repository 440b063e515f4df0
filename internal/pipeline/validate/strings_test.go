package validate

import (
	"context"
	"strings"
	"testing"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

func TestRejectStringRegexScenario(t *testing.T) {
	t.Parallel()

	v, err := NewRejectStringRegex("regex", "a*b",
		WithMessage("the lazy fox jumped over the %s"))
	if err != nil {
		t.Fatalf("NewRejectStringRegex: %v", err)
	}

	item := pipeline.NewItem("doc", nil)
	action, err := v.Validate(context.Background(), "aaaab", item, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Done {
		t.Errorf("action = %v, want Done", action)
	}

	errs := pipeline.ErrorsOf(item)
	if len(errs) != 1 {
		t.Fatalf("got %d error statuses, want 1", len(errs))
	}
	if !strings.Contains(errs[0].Message, "the lazy fox") {
		t.Errorf("message %q does not contain the template text", errs[0].Message)
	}
	if !strings.Contains(errs[0].Message, "aaaab") {
		t.Errorf("message %q does not contain the rejected value", errs[0].Message)
	}
}

func TestRejectStringRegexRequiresFullMatch(t *testing.T) {
	t.Parallel()

	v, err := NewRejectStringRegex("regex", "a*b")
	if err != nil {
		t.Fatalf("NewRejectStringRegex: %v", err)
	}

	// Contains a match but is not fully matched, so it passes.
	item := pipeline.NewItem("doc", nil)
	action, err := v.Validate(context.Background(), "xaaaabx", item, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Continue {
		t.Errorf("action = %v, want Continue", action)
	}
	if len(pipeline.ErrorsOf(item)) != 0 {
		t.Error("partial match was rejected")
	}
}

func TestNewRejectStringRegexBadExpression(t *testing.T) {
	t.Parallel()

	if _, err := NewRejectStringRegex("regex", "("); err == nil {
		t.Error("invalid expression accepted")
	}
}

func TestAcceptStringRegex(t *testing.T) {
	t.Parallel()

	v, err := NewAcceptStringRegex("accept", `https?://.*`)
	if err != nil {
		t.Fatalf("NewAcceptStringRegex: %v", err)
	}

	item := pipeline.NewItem("doc", nil)

	action, err := v.Validate(context.Background(), "https://example.org", item, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Done {
		t.Errorf("matching value: action = %v, want Done", action)
	}

	action, err = v.Validate(context.Background(), "urn:mace:example", item, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Continue {
		t.Errorf("non-matching value: action = %v, want Continue", action)
	}
	if item.Metadata().Len() != 0 {
		t.Error("AcceptStringRegex annotated the item")
	}
}

func TestRejectStringEmpty(t *testing.T) {
	t.Parallel()

	v, err := NewRejectStringEmpty("non-empty")
	if err != nil {
		t.Fatalf("NewRejectStringEmpty: %v", err)
	}

	tests := []struct {
		value string
		want  Action
	}{
		{"", Done},
		{"   ", Done},
		{"\t\n", Done},
		{"x", Continue},
	}
	for _, tt := range tests {
		item := pipeline.NewItem("doc", nil)
		action, err := v.Validate(context.Background(), tt.value, item, "stage")
		if err != nil {
			t.Fatalf("Validate(%q): %v", tt.value, err)
		}
		if action != tt.want {
			t.Errorf("Validate(%q) = %v, want %v", tt.value, action, tt.want)
		}
	}
}
