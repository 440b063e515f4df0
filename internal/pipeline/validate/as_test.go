package validate

import (
	"context"
	"testing"

	"github.com/jsamuelsen11/metadata-aggregator/internal/pipeline"
)

func TestAsDomainNameConversionRequired(t *testing.T) {
	t.Parallel()

	nested := newCounting[string](t, "nested", Continue)
	v, err := NewAsDomainName("domain", []Validator[string]{nested})
	if err != nil {
		t.Fatalf("NewAsDomainName: %v", err)
	}

	item := pipeline.NewItem("doc", nil)
	action, err := v.Validate(context.Background(), "example**.org", item, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Done {
		t.Errorf("action = %v, want Done", action)
	}
	if got := len(pipeline.ErrorsOf(item)); got != 1 {
		t.Errorf("got %d error statuses, want 1", got)
	}
	if nested.calls != 0 {
		t.Errorf("nested validator ran %d times, want 0", nested.calls)
	}
}

func TestAsDomainNameConversionOptional(t *testing.T) {
	t.Parallel()

	nested := newCounting[string](t, "nested", Continue)
	v, err := NewAsDomainName("domain", []Validator[string]{nested}, WithOptionalConversion())
	if err != nil {
		t.Fatalf("NewAsDomainName: %v", err)
	}

	item := pipeline.NewItem("doc", nil)
	action, err := v.Validate(context.Background(), "example**.org", item, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Continue {
		t.Errorf("action = %v, want Continue", action)
	}
	if got := len(pipeline.ErrorsOf(item)); got != 0 {
		t.Errorf("got %d error statuses, want 0", got)
	}
	if nested.calls != 0 {
		t.Errorf("nested validator ran %d times, want 0", nested.calls)
	}
}

func TestAsDomainNameConvertsForNested(t *testing.T) {
	t.Parallel()

	var seen string
	captured, err := NewBase("capture")
	if err != nil {
		t.Fatalf("NewBase: %v", err)
	}
	capture := validatorFunc[string]{Base: captured, fn: func(v string) Action {
		seen = v
		return Continue
	}}

	v, err := NewAsDomainName("domain", []Validator[string]{capture})
	if err != nil {
		t.Fatalf("NewAsDomainName: %v", err)
	}

	item := pipeline.NewItem("doc", nil)
	action, err := v.Validate(context.Background(), "Example.ORG", item, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Continue {
		t.Errorf("action = %v, want Continue", action)
	}
	if seen != "example.org" {
		t.Errorf("nested validator saw %q, want the converted form example.org", seen)
	}
}

type validatorFunc[V any] struct {
	Base
	fn func(V) Action
}

func (v validatorFunc[V]) Validate(_ context.Context, value V, _ pipeline.Annotated, _ string) (Action, error) {
	return v.fn(value), nil
}

func TestAsURL(t *testing.T) {
	t.Parallel()

	v, err := NewAsURL("url", nil)
	if err != nil {
		t.Fatalf("NewAsURL: %v", err)
	}

	item := pipeline.NewItem("doc", nil)
	action, err := v.Validate(context.Background(), "not a url at all://", item, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Done {
		t.Errorf("malformed url: action = %v, want Done", action)
	}
	if len(pipeline.ErrorsOf(item)) != 1 {
		t.Error("malformed url not rejected")
	}

	ok := pipeline.NewItem("doc", nil)
	action, err = v.Validate(context.Background(), "https://md.example.org/feed.xml", ok, "stage")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if action != Continue {
		t.Errorf("valid url: action = %v, want Continue", action)
	}
	if len(pipeline.ErrorsOf(ok)) != 0 {
		t.Error("valid url rejected")
	}
}
