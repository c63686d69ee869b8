package services

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"lexdesk_app_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/fumiama/go-docx"
)

// Renderer turns a document title and plain-text body into a binary file.
// Implementations exist for PDF and DOCX; tests substitute a fake.
type Renderer interface {
	Render(title, content string) ([]byte, error)
	MimeType() string
	Extension() string
}

// RendererFor selects a renderer by template output type
func RendererFor(outputType string) (Renderer, error) {
	switch outputType {
	case models.OutputTypePDF:
		return &PDFRenderer{}, nil
	case models.OutputTypeDOCX:
		return &DOCXRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output type: %s", outputType)
	}
}

// pdfSettleDelay is how long the page gets to lay out injected content
// before printing
const pdfSettleDelay = 100 * time.Millisecond

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

// PDFRenderer renders documents to PDF using headless Chrome
type PDFRenderer struct{}

func (r *PDFRenderer) MimeType() string  { return "application/pdf" }
func (r *PDFRenderer) Extension() string { return "pdf" }

// Render lays out the title and body into a letter-size PDF
func (r *PDFRenderer) Render(title, content string) ([]byte, error) {
	return generatePDF(wrapHTMLForPDF(title, content))
}

// wrapHTMLForPDF wraps title and body text with legal document styles.
// Body lines become paragraphs; blank lines are preserved as spacing.
func wrapHTMLForPDF(title, content string) string {
	var body strings.Builder
	if title != "" {
		body.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			body.WriteString("<p>&nbsp;</p>\n")
			continue
		}
		body.WriteString("<p>" + html.EscapeString(line) + "</p>\n")
	}

	return `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        @page {
            margin: 1in;
        }
        body {
            font-family: "Times New Roman", Times, serif;
            font-size: 12pt;
            line-height: 1.5;
            color: #000;
            text-align: justify;
        }
        h1 {
            font-size: 16pt;
            font-weight: bold;
            text-align: center;
            margin-bottom: 24pt;
        }
        p {
            margin-bottom: 12pt;
        }
    </style>
</head>
<body>
` + body.String() + `
</body>
</html>`
}

// generatePDF renders HTML content to PDF using headless Chrome
func generatePDF(htmlContent string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Check for custom Chrome path (for headless-shell in Docker)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// Letter size with 1 inch margins
	const paperWidth, paperHeight = 8.5, 11.0
	const margin = 1.0

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// Wait for content to render
		chromedp.Sleep(pdfSettleDelay),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

// DOCXRenderer renders documents to DOCX: a heading paragraph plus one
// paragraph per source line, blank lines preserved
type DOCXRenderer struct{}

func (r *DOCXRenderer) MimeType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (r *DOCXRenderer) Extension() string { return "docx" }

func (r *DOCXRenderer) Render(title, content string) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	if title != "" {
		heading := w.AddParagraph()
		heading.AddText(title).Size("32").Bold()
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		para := w.AddParagraph()
		if line != "" {
			para.AddText(line).Size("24")
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate DOCX: %w", err)
	}

	return buf.Bytes(), nil
}
