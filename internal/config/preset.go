package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ytget/magic-animator/internal/model"
)

// PresetSchemaV1 identifies the preset file format
const PresetSchemaV1 = "magic-animator.preset.v1"

// Preset is a shareable set of instruction templates
type Preset struct {
	Schema                  string `yaml:"schema"`
	Name                    string `yaml:"name,omitempty"`
	OrchestratorInstruction string `yaml:"orchestrator_instruction"`
	FrameInstruction        string `yaml:"frame_instruction"`
	FrameCount              int    `yaml:"frame_count,omitempty"`
	FPS                     int    `yaml:"fps,omitempty"`
}

// ParsePreset decodes and validates a YAML preset
func ParsePreset(input []byte) (Preset, error) {
	var preset Preset
	if err := yaml.Unmarshal(input, &preset); err != nil {
		return Preset{}, fmt.Errorf("decode preset: %w", err)
	}
	if err := preset.Validate(); err != nil {
		return Preset{}, err
	}
	return preset, nil
}

// Validate checks the schema, both instructions and the optional numbers
func (p Preset) Validate() error {
	if strings.TrimSpace(p.Schema) != PresetSchemaV1 {
		return fmt.Errorf("preset.schema must be %q", PresetSchemaV1)
	}
	if strings.TrimSpace(p.OrchestratorInstruction) == "" {
		return errors.New("preset.orchestrator_instruction must be non-empty")
	}
	if strings.TrimSpace(p.FrameInstruction) == "" {
		return errors.New("preset.frame_instruction must be non-empty")
	}
	if !strings.Contains(p.FrameInstruction, model.PlaceholderPrompt) {
		return fmt.Errorf("preset.frame_instruction must contain %s", model.PlaceholderPrompt)
	}
	if p.FrameCount != 0 && (p.FrameCount < MinFrameCount || p.FrameCount > MaxFrameCount) {
		return fmt.Errorf("preset.frame_count must be between %d and %d", MinFrameCount, MaxFrameCount)
	}
	if p.FPS != 0 && (p.FPS < MinFPS || p.FPS > MaxFPS) {
		return fmt.Errorf("preset.fps must be between %d and %d", MinFPS, MaxFPS)
	}
	return nil
}

// Marshal encodes the preset as YAML
func (p Preset) Marshal() ([]byte, error) {
	if p.Schema == "" {
		p.Schema = PresetSchemaV1
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return yaml.Marshal(p)
}

// CurrentPreset captures the stored templates, frame count and fps
func (s *Settings) CurrentPreset(name string) Preset {
	return Preset{
		Schema:                  PresetSchemaV1,
		Name:                    name,
		OrchestratorInstruction: s.GetOrchestratorInstruction(),
		FrameInstruction:        s.GetFrameInstruction(),
		FrameCount:              s.GetFrameCount(),
		FPS:                     s.GetFPS(),
	}
}

// ApplyPreset stores a validated preset
func (s *Settings) ApplyPreset(p Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.SetOrchestratorInstruction(p.OrchestratorInstruction)
	s.SetFrameInstruction(p.FrameInstruction)
	if p.FrameCount != 0 {
		s.SetFrameCount(p.FrameCount)
	}
	if p.FPS != 0 {
		s.SetFPS(p.FPS)
	}
	return nil
}
