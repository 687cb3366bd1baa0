package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"wizard-cli/internal/interfaces"
	"wizard-cli/internal/wizard"
)

// Processor renders collected answers through a user supplied text/template.
// It implements both TemplateProcessor and Renderer.
type Processor struct {
	templatePath string
	now          func() time.Time
}

// NewProcessor creates a processor for the template at templatePath
func NewProcessor(templatePath string) *Processor {
	return &Processor{
		templatePath: templatePath,
		now:          time.Now,
	}
}

// LoadTemplate loads and parses a template file with the helper functions registered
func (p *Processor) LoadTemplate(path string) (*template.Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", path, err)
	}

	tmpl := template.New(filepath.Base(path)).Funcs(funcMap())

	tmpl, err = tmpl.Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}

	return tmpl, nil
}

// Execute executes a template with the provided data
func (p *Processor) Execute(tmpl *template.Template, data interfaces.TemplateData) (string, error) {
	var buf strings.Builder

	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// Render loads the configured template and executes it over the answers
func (p *Processor) Render(answers map[string]wizard.Answers, sections []string) (string, error) {
	if p.templatePath == "" {
		return "", fmt.Errorf("no template path configured")
	}

	tmpl, err := p.LoadTemplate(p.templatePath)
	if err != nil {
		return "", err
	}

	return p.Execute(tmpl, NewTemplateData(answers, sections, p.now()))
}

// NewTemplateData builds the data passed to answer templates
func NewTemplateData(answers map[string]wizard.Answers, sections []string, now time.Time) interfaces.TemplateData {
	data := interfaces.TemplateData{
		Answers:  make(map[string]map[string]any, len(answers)),
		Sections: sections,
		Now:      now,
		Env:      environ(),
	}
	for name, a := range answers {
		data.Answers[name] = a
	}
	return data
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}
	return env
}

// funcMap merges sprig with the wizard specific helpers
func funcMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()

	custom := template.FuncMap{
		"truncate": truncateFunc,
		"mdFence":  mdFenceFunc,
		"dedent":   dedentFunc,
		"csv":      csvFunc,
	}
	for name, fn := range custom {
		funcs[name] = fn
	}

	return funcs
}

// truncateFunc truncates a string to length characters, ending in "..."
func truncateFunc(length int, text string) string {
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}

	if length <= 3 {
		return string(runes[:max(length, 0)])
	}

	return string(runes[:length-3]) + "..."
}

// mdFenceFunc wraps content in markdown fenced code blocks with optional language
func mdFenceFunc(language, content string) string {
	if language == "" {
		return fmt.Sprintf("```\n%s\n```", content)
	}
	return fmt.Sprintf("```%s\n%s\n```", language, content)
}

// csvFunc splits a comma separated answer such as "10.0.0.1, 10.0.0.2"
// into trimmed, non-empty items.
func csvFunc(value any) []string {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// dedentFunc removes common leading whitespace from all lines
func dedentFunc(text string) string {
	lines := strings.Split(text, "\n")

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}

	if minIndent <= 0 {
		return text
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = line[minIndent:]
	}

	return strings.Join(lines, "\n")
}
