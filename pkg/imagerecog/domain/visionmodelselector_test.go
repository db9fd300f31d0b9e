package domain

import (
	"errors"
	"testing"
)

type stubVisionModel struct {
	name string
}

func (s *stubVisionModel) Name() string {
	return s.name
}

func (s *stubVisionModel) Infer(prompt, base64Image string) (string, error) {
	return "", nil
}

func TestSelectByName(t *testing.T) {
	selector := NewVisionModelSelector([]VisionModel{
		&stubVisionModel{name: "grok"},
		&stubVisionModel{name: "qwen"},
	}, "grok")
	visionModel, err := selector.Select("qwen")
	if err != nil {
		t.Fatal(err)
	}
	if visionModel.Name() != "qwen" {
		t.Errorf("expected qwen, got %s", visionModel.Name())
	}
}

func TestSelectEmptyNameUsesDefault(t *testing.T) {
	selector := NewVisionModelSelector([]VisionModel{
		&stubVisionModel{name: "grok"},
		&stubVisionModel{name: "qwen"},
	}, "qwen")
	visionModel, err := selector.Select("")
	if err != nil {
		t.Fatal(err)
	}
	if visionModel.Name() != "qwen" {
		t.Errorf("expected the default provider, got %s", visionModel.Name())
	}
}

func TestSelectMissingDefaultFallsBackToFirst(t *testing.T) {
	selector := NewVisionModelSelector([]VisionModel{&stubVisionModel{name: "llava"}}, "grok")
	visionModel, err := selector.Select("")
	if err != nil {
		t.Fatal(err)
	}
	if visionModel.Name() != "llava" {
		t.Errorf("expected the first registered model, got %s", visionModel.Name())
	}
}

func TestSelectUnknownNameFails(t *testing.T) {
	selector := NewVisionModelSelector([]VisionModel{&stubVisionModel{name: "grok"}}, "grok")
	if _, err := selector.Select("gemini"); err == nil {
		t.Error("expected an error for an unknown provider name")
	}
}

func TestSelectWithoutModelsFails(t *testing.T) {
	selector := NewVisionModelSelector(nil, "grok")
	if _, err := selector.Select(""); !errors.Is(err, ErrNoVisionModels) {
		t.Errorf("expected ErrNoVisionModels, got %v", err)
	}
}

func TestNamesPreservesRegistrationOrder(t *testing.T) {
	selector := NewVisionModelSelector([]VisionModel{
		&stubVisionModel{name: "grok"},
		&stubVisionModel{name: "qwen"},
		&stubVisionModel{name: "llava"},
	}, "grok")
	names := selector.Names()
	expected := []string{"grok", "qwen", "llava"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d names, got %d", len(expected), len(names))
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("name %d: expected %s, got %s", i, expected[i], names[i])
		}
	}
}
