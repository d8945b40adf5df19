package config

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

// PromptPair holds a system and user prompt template.
type PromptPair struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// MealPlanPrompts holds meal-plan generation prompt templates.
type MealPlanPrompts struct {
	Generate PromptPair `yaml:"generate"`
	// Shape is appended to the system prompt for providers that only
	// support a generic JSON-object response mode and must be told the
	// exact JSON shape to produce.
	Shape string `yaml:"shape"`
}

// AnalysisPrompts holds food and document analysis prompt templates.
type AnalysisPrompts struct {
	Food     PromptPair `yaml:"food"`
	Document PromptPair `yaml:"document"`
}

// Prompts is the top-level prompt configuration loaded from YAML.
type Prompts struct {
	MealPlan MealPlanPrompts `yaml:"meal_plan"`
	Analysis AnalysisPrompts `yaml:"analysis"`
	Insights PromptPair      `yaml:"insights"`
}

// LoadPrompts reads and parses a YAML prompt configuration file.
func LoadPrompts(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var prompts Prompts
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompts YAML: %w", err)
	}

	return &prompts, nil
}

// RenderPrompt executes Go template interpolation on a prompt string.
// The data map provides values for template placeholders like {{.Goal}}
// and {{.ExcludedMeal}}.
func RenderPrompt(tmpl string, data map[string]interface{}) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}
