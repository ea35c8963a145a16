package messages

import (
	"fmt"
	"sync"
	"testing"

	"github.com/voiceguard/voiceguard/detection"
)

func TestRenderExplanationAIGenerated(t *testing.T) {
	m, err := NewMessageProvider()
	if err != nil {
		t.Fatalf("NewMessageProvider() error: %v", err)
	}

	got, err := m.RenderExplanation(&detection.Result{
		Label:      detection.LabelAIGenerated,
		Indicators: []string{"a", "b", "c", "d"},
	})
	if err != nil {
		t.Fatalf("RenderExplanation() error: %v", err)
	}
	if got != "a | b | c" {
		t.Errorf("RenderExplanation() = %q, want top three indicators joined", got)
	}
}

func TestRenderExplanationAIGeneratedNoIndicators(t *testing.T) {
	m, err := NewMessageProvider()
	if err != nil {
		t.Fatalf("NewMessageProvider() error: %v", err)
	}

	got, err := m.RenderExplanation(&detection.Result{Label: detection.LabelAIGenerated})
	if err != nil {
		t.Fatalf("RenderExplanation() error: %v", err)
	}
	if got != "Multiple synthetic audio patterns detected" {
		t.Errorf("RenderExplanation() = %q", got)
	}
}

func TestRenderExplanationHumanSpoken(t *testing.T) {
	m, err := NewMessageProvider()
	if err != nil {
		t.Fatalf("NewMessageProvider() error: %v", err)
	}

	got, err := m.RenderExplanation(&detection.Result{
		Label:  detection.LabelHumanSpoken,
		Traits: []string{"dynamic intonation", "natural pitch variation"},
	})
	if err != nil {
		t.Fatalf("RenderExplanation() error: %v", err)
	}
	want := "Natural speech characteristics: dynamic intonation, natural pitch variation"
	if got != want {
		t.Errorf("RenderExplanation() = %q, want %q", got, want)
	}
}

func TestRenderExplanationHumanSpokenNoTraits(t *testing.T) {
	m, err := NewMessageProvider()
	if err != nil {
		t.Fatalf("NewMessageProvider() error: %v", err)
	}

	got, err := m.RenderExplanation(&detection.Result{Label: detection.LabelHumanSpoken})
	if err != nil {
		t.Fatalf("RenderExplanation() error: %v", err)
	}
	if got != "Natural pitch variation and prosody detected" {
		t.Errorf("RenderExplanation() = %q", got)
	}
}

func TestRenderExplanationConcurrent(t *testing.T) {
	m, err := NewMessageProvider()
	if err != nil {
		t.Fatalf("NewMessageProvider() error: %v", err)
	}

	// Overlapping renders must not bleed bindings into each other: every
	// goroutine's explanation has to be built from its own indicator.
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()

			want := fmt.Sprintf("indicator-%d", g)
			for i := 0; i < 20; i++ {
				got, err := m.RenderExplanation(&detection.Result{
					Label:      detection.LabelAIGenerated,
					Indicators: []string{want},
				})
				if err != nil {
					t.Errorf("RenderExplanation() error: %v", err)
					return
				}
				if got != want {
					t.Errorf("RenderExplanation() = %q, want %q", got, want)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestExecuteMessageUnknownKey(t *testing.T) {
	m, err := NewMessageProvider()
	if err != nil {
		t.Fatalf("NewMessageProvider() error: %v", err)
	}

	if _, err := m.ExecuteMessage("no_such_message", map[string]any{}); err == nil {
		t.Errorf("ExecuteMessage() with unknown key: expected error")
	}
}
