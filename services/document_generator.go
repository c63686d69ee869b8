package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"lexdesk_app_go/models"
)

// Generation error kinds
const (
	ErrKindPDFGeneration  = "pdf-generation-failed"
	ErrKindDOCXGeneration = "docx-generation-failed"
	ErrKindEmptyDocument  = "empty-document"
)

// GenerationError describes a document generation failure with a stable kind
type GenerationError struct {
	Kind    string
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// GeneratedFile is the result of rendering a template
type GeneratedFile struct {
	Content  string // substituted text, before rendering
	Data     []byte // rendered binary
	Filename string
	MimeType string
}

// RenderTemplate substitutes {{name}} placeholders in the template content.
// Every occurrence of each declared variable is replaced by the supplied value
// (empty string when the value is missing). Tokens whose name is not declared
// in variables are left verbatim.
func RenderTemplate(content string, variables []string, values map[string]string) string {
	result := content
	for _, name := range variables {
		result = strings.ReplaceAll(result, "{{"+name+"}}", values[name])
	}
	return result
}

var filenameAllowed = regexp.MustCompile(`[^A-Za-z0-9 ]+`)
var filenameSpaces = regexp.MustCompile(` +`)

// MaxFilenameTitleLength bounds the sanitized title segment of a filename
const MaxFilenameTitleLength = 50

// SanitizeFilenameTitle strips non-alphanumeric characters from a title,
// collapses spaces to underscores, and truncates to 50 characters
func SanitizeFilenameTitle(title string) string {
	cleaned := filenameAllowed.ReplaceAllString(title, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = filenameSpaces.ReplaceAllString(cleaned, "_")
	if len(cleaned) > MaxFilenameTitleLength {
		cleaned = cleaned[:MaxFilenameTitleLength]
	}
	return cleaned
}

// BuildFilename derives the generated file's name from its title:
// sanitized title, current date, output extension
func BuildFilename(title, extension string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilenameTitle(title), now.Format("2006-01-02"), extension)
}

// Generate renders a document template with the supplied variable values.
// The renderer is injected so tests can substitute a fake.
func Generate(tpl *models.DocumentTemplate, values map[string]string, title string, renderer Renderer) (*GeneratedFile, error) {
	variables, err := tpl.VariableNames()
	if err != nil {
		return nil, fmt.Errorf("failed to decode template variables: %w", err)
	}

	content := RenderTemplate(tpl.Content, variables, values)

	data, err := renderer.Render(title, content)
	if err != nil {
		kind := ErrKindPDFGeneration
		if tpl.OutputType == models.OutputTypeDOCX {
			kind = ErrKindDOCXGeneration
		}
		return nil, &GenerationError{Kind: kind, Message: "rendering failed", Err: err}
	}

	if len(data) == 0 {
		return nil, &GenerationError{Kind: ErrKindEmptyDocument, Message: "rendered document is empty"}
	}

	return &GeneratedFile{
		Content:  content,
		Data:     data,
		Filename: BuildFilename(title, renderer.Extension(), time.Now()),
		MimeType: renderer.MimeType(),
	}, nil
}
