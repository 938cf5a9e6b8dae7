package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

// mockProcessor is a test processor that appends a suffix to the text.
type mockProcessor struct {
	name   string
	suffix string
	err    error
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ *domain.ExtractedContent, text string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return text + m.suffix, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockProcessor{name: "test"})

	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
}

func TestPipeline_Process_NilContent(t *testing.T) {
	p := NewPipeline()

	if err := p.Process(context.Background(), nil); err == nil {
		t.Error("expected error for nil content")
	}
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	p := NewPipeline()
	content := &domain.ExtractedContent{Text: "test content"}

	if err := p.Process(context.Background(), content); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.Text != "test content" {
		t.Errorf("expected unchanged text, got %q", content.Text)
	}
}

func TestPipeline_Process_Order(t *testing.T) {
	p := NewPipeline(
		&mockProcessor{name: "first", suffix: "-1"},
		&mockProcessor{name: "second", suffix: "-2"},
	)
	content := &domain.ExtractedContent{Text: "text"}

	if err := p.Process(context.Background(), content); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.Text != "text-1-2" {
		t.Errorf("expected %q, got %q", "text-1-2", content.Text)
	}
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	expectedErr := errors.New("processor failed")

	p := NewPipeline(&mockProcessor{
		name: "failing",
		err:  expectedErr,
	})
	content := &domain.ExtractedContent{Text: "keep"}

	err := p.Process(context.Background(), content)
	if err == nil {
		t.Fatal("expected error from failing processor")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected wrapped error, got: %v", err)
	}
	if content.Text != "keep" {
		t.Errorf("expected text untouched on error, got %q", content.Text)
	}
}

func TestPipeline_Process_Cancelled(t *testing.T) {
	p := NewPipeline(&mockProcessor{name: "test"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Process(ctx, &domain.ExtractedContent{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPipeline_Names(t *testing.T) {
	p := NewPipeline(&mockProcessor{name: "a"}, &mockProcessor{name: "b"})

	names := p.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("expected [a b], got %v", names)
	}
}
