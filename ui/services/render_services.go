package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
)

// RenderService executes page and fragment templates into buffers so a
// failed render never leaves a half-written response.
type RenderService struct {
	templates *template.Template
}

func NewRenderService(templates *template.Template) *RenderService {
	return &RenderService{
		templates: templates,
	}
}

// Render executes the named template.
func (s *RenderService) Render(name string, data interface{}) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[Render] Template error for %s: %v (data type %T)", name, err, data)
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return &buf, nil
}

// Has reports whether a template with that name was parsed.
func (s *RenderService) Has(name string) bool {
	return s.templates.Lookup(name) != nil
}
