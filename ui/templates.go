package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"linedash/app"
	"linedash/domain/dataset"
)

//go:embed templates static
var embeddedFiles embed.FS

// Template names as parsed from the embedded templates directory.
const (
	tmplIndex = "index.html"
	tmplGrid  = "fragments/grid.html"
)

type tableData struct {
	Columns []string
	Records [][]string
}

var funcMap = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"label": func(column string) string {
		if l, ok := app.FilterLabels[column]; ok {
			return l
		}
		return column
	},
	"selectSize": func(options []string) int {
		switch n := len(options); {
		case n < 2:
			return 2
		case n > 8:
			return 8
		default:
			return n
		}
	},
	"tableOf": func(t *dataset.Table) tableData {
		if t == nil {
			return tableData{}
		}
		return tableData{Columns: t.Columns, Records: t.Records()}
	},
	"sectionData": func(sec app.Section, fingerprint string) map[string]interface{} {
		return map[string]interface{}{"Section": sec, "Fingerprint": fingerprint}
	},
}

// parseTemplates parses every .html file under templates/, naming each by its
// path relative to that directory.
func parseTemplates() (*template.Template, error) {
	templatesFS, err := fs.Sub(embeddedFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	root := template.New("").Funcs(funcMap)
	var files []string
	err = fs.WalkDir(templatesFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".html") {
			return err
		}
		content, err := fs.ReadFile(templatesFS, path)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", path, err)
		}
		if _, err := root.New(path).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", path, err)
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[TemplateInit] Parsed %d template files: %v", len(files), files)
	return root, nil
}

// renderTemplate renders into a buffer first so template errors become a
// clean 500 instead of a truncated page.
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	buf, err := s.render.Render(templateName, data)
	if err != nil {
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(200)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		log.Printf("Error writing template response: %v", err)
	}
}
