package domain

import (
	"errors"
	"fmt"
)

var ErrNoVisionModels = errors.New("no vision models are available")

// VisionModelSelector makes sure the right vision model is chosen for a given request.
type VisionModelSelector struct {
	visionModels []VisionModel
	defaultName  string
}

func NewVisionModelSelector(visionModels []VisionModel, defaultName string) *VisionModelSelector {
	return &VisionModelSelector{
		visionModels: visionModels,
		defaultName:  defaultName,
	}
}

// Select returns the model with the given provider name. An empty name selects the configured
// default provider, falling back to the first registered model.
func (s *VisionModelSelector) Select(name string) (VisionModel, error) {
	if len(s.visionModels) == 0 {
		return nil, ErrNoVisionModels
	}
	if name == "" {
		name = s.defaultName
	}
	for _, visionModel := range s.visionModels {
		if visionModel.Name() == name {
			return visionModel, nil
		}
	}
	if name == s.defaultName {
		return s.visionModels[0], nil
	}
	return nil, fmt.Errorf("unknown vision model provider \"%s\"", name)
}

// Names lists the provider names of all registered models, in registration order.
func (s *VisionModelSelector) Names() []string {
	names := make([]string, 0, len(s.visionModels))
	for _, visionModel := range s.visionModels {
		names = append(names, visionModel.Name())
	}
	return names
}
