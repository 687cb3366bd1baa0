package interfaces

import (
	"text/template"
	"time"
)

// TemplateData contains all variables available to answer templates
type TemplateData struct {
	Answers  map[string]map[string]any `json:"answers"`
	Sections []string                  `json:"sections"`
	Now      time.Time                 `json:"now"`
	Env      map[string]string         `json:"env"`
}

// TemplateProcessor handles template loading and execution
type TemplateProcessor interface {
	// LoadTemplate loads a template from the specified path
	LoadTemplate(path string) (*template.Template, error)

	// Execute executes a template with the provided data
	Execute(tmpl *template.Template, data TemplateData) (string, error)
}
