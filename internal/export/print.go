// Package export renders a saved storybook into a self-contained,
// print-ready HTML document: one landscape sheet for the cover and one
// per two-page spread, sized for A4 and driven through the browser's
// print-to-PDF path.
package export

import (
	"bytes"
	"fmt"
	"html/template"

	"storybook-server/internal/models"
)

// printPage carries the image as template.URL: страницы содержат только
// сгенерированные нами data-URL, их можно доверять шаблону как есть.
type printPage struct {
	Text     string
	ImageURL template.URL
}

type sheet struct {
	Left  *printPage
	Right *printPage
}

type printDocument struct {
	Title  string
	Cover  printPage
	Sheets []sheet
}

func toPrintPage(p models.Page) printPage {
	return printPage{Text: p.Text, ImageURL: template.URL(p.ImageURL)}
}

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  @page { size: A4 landscape; margin: 0; }
  body { margin: 0; font-family: Georgia, serif; }
  .sheet { width: 297mm; height: 210mm; page-break-after: always; display: flex; overflow: hidden; }
  .cover { align-items: center; justify-content: center; background: #1a1a2e; }
  .cover img { max-width: 60%; max-height: 90%; object-fit: contain; }
  .page { width: 50%; height: 100%; display: flex; flex-direction: column; padding: 12mm; box-sizing: border-box; }
  .page img { width: 100%; flex: 1; object-fit: contain; min-height: 0; }
  .page p { font-size: 14pt; line-height: 1.5; margin-top: 8mm; }
  .page.empty { background: #fafafa; }
</style>
</head>
<body>
<div class="sheet cover">
{{- if .Cover.ImageURL}}
  <img src="{{.Cover.ImageURL}}" alt="{{.Title}}">
{{- end}}
</div>
{{- range .Sheets}}
<div class="sheet">
  {{- if .Left}}
  <div class="page">
    {{- if .Left.ImageURL}}<img src="{{.Left.ImageURL}}" alt="">{{end}}
    <p>{{.Left.Text}}</p>
  </div>
  {{- else}}
  <div class="page empty"></div>
  {{- end}}
  {{- if .Right}}
  <div class="page">
    {{- if .Right.ImageURL}}<img src="{{.Right.ImageURL}}" alt="">{{end}}
    <p>{{.Right.Text}}</p>
  </div>
  {{- else}}
  <div class="page empty"></div>
  {{- end}}
</div>
{{- end}}
</body>
</html>
`))

// PrintHTML renders content as a printable HTML document. The first page
// is treated as the cover; the remaining pages are paired into spreads.
func PrintHTML(content *models.SavedContent) ([]byte, error) {
	if content.Type != models.ContentTypeStorybook {
		return nil, fmt.Errorf("%w: only storybooks can be exported", models.ErrInvalidInput)
	}
	if len(content.Pages) == 0 {
		return nil, fmt.Errorf("%w: storybook has no pages", models.ErrInvalidInput)
	}

	doc := printDocument{
		Title: content.Title,
		Cover: toPrintPage(content.Pages[0]),
	}
	inner := content.Pages[1:]
	for i := 0; i < len(inner); i += 2 {
		left := toPrintPage(inner[i])
		s := sheet{Left: &left}
		if i+1 < len(inner) {
			right := toPrintPage(inner[i+1])
			s.Right = &right
		}
		doc.Sheets = append(doc.Sheets, s)
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("failed to render print document: %w", err)
	}
	return buf.Bytes(), nil
}
