package orchestrator

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
	"wizard-cli/internal/interfaces"
	"wizard-cli/internal/template"
	"wizard-cli/internal/wizard"
)

// RenderFunc adapts a function to the Renderer interface
type RenderFunc func(answers map[string]wizard.Answers, sections []string) (string, error)

func (f RenderFunc) Render(answers map[string]wizard.Answers, sections []string) (string, error) {
	return f(answers, sections)
}

// NewRenderer returns the renderer for an output format
func NewRenderer(format, templatePath string) (interfaces.Renderer, error) {
	switch format {
	case "yaml", "":
		return RenderFunc(renderYAML), nil
	case "json":
		return RenderFunc(renderJSON), nil
	case "toml":
		return RenderFunc(renderTOML), nil
	case "template":
		if templatePath == "" {
			return nil, fmt.Errorf("template format requires a template path")
		}
		return template.NewProcessor(templatePath), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// renderYAML keeps sections in declaration order; keys inside a section are sorted.
func renderYAML(answers map[string]wizard.Answers, sections []string) (string, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range sections {
		var value yaml.Node
		if err := value.Encode(map[string]any(answers[name])); err != nil {
			return "", fmt.Errorf("failed to encode section %s: %w", name, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&value,
		)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return "", fmt.Errorf("failed to encode answers to YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderJSON(answers map[string]wizard.Answers, sections []string) (string, error) {
	data, err := json.MarshalIndent(selected(answers, sections, false), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode answers to JSON: %w", err)
	}
	return string(data), nil
}

// renderTOML writes one table per section. TOML has no null, so unset
// answers are left out.
func renderTOML(answers map[string]wizard.Answers, sections []string) (string, error) {
	data, err := toml.Marshal(selected(answers, sections, true))
	if err != nil {
		return "", fmt.Errorf("failed to encode answers to TOML: %w", err)
	}
	return string(data), nil
}

func selected(answers map[string]wizard.Answers, sections []string, dropNil bool) map[string]map[string]any {
	out := make(map[string]map[string]any, len(sections))
	for _, name := range sections {
		section := make(map[string]any, len(answers[name]))
		for k, v := range answers[name] {
			if v == nil && dropNil {
				continue
			}
			section[k] = v
		}
		out[name] = section
	}
	return out
}
