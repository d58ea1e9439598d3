package pdf

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromeRenderer imprime el Layout como HTML con Chrome headless (Page.printToPDF).
// Requiere Chrome o Chromium instalado en el servidor.
type ChromeRenderer struct {
	execPath string
	timeout  time.Duration
}

// NewChromeRenderer crea el renderer; execPath vacío usa el Chrome del PATH
func NewChromeRenderer(execPath string) *ChromeRenderer {
	return &ChromeRenderer{execPath: execPath, timeout: 30 * time.Second}
}

// Name identifica el renderer en logs
func (r *ChromeRenderer) Name() string {
	return "chrome"
}

var htmlTemplate = template.Must(template.New("solicitud").Parse(`<!DOCTYPE html>
<html lang="es"><head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #282828; font-size: 10pt; }
  h1 { color: #003366; text-align: center; font-size: 20pt; margin: 0; }
  .sub { text-align: center; color: #505050; font-size: 12pt; margin: 4pt 0 8pt; }
  hr { border: 0; border-top: 1pt solid #003366; margin-bottom: 14pt; }
  h2 { color: #003366; font-size: 13pt; margin: 10pt 0 4pt; }
  td.l { font-weight: bold; width: 170pt; vertical-align: top; }
  footer { margin-top: 24pt; text-align: center; color: #787878; font-size: 8pt; font-style: italic; }
</style></head>
<body>
<h1>{{.Title}}</h1>
<div class="sub">{{.Subtitle}}</div>
<hr>
{{range .Sections}}<h2>{{.Title}}</h2>
<table>{{range .Lines}}<tr><td class="l">{{.Label}}:</td><td>{{.Value}}</td></tr>{{end}}</table>
{{end}}
<footer>{{.Footer}}</footer>
</body></html>`))

// Render escribe el PDF impreso por Chrome en w
func (r *ChromeRenderer) Render(ctx context.Context, l Layout, w io.Writer) error {
	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, l); err != nil {
		return fmt.Errorf("chrome: template: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	// El render no se corta si el request se cancela: solo aplica su propio timeout
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()
	allocCtx, allocCancel := chromedp.NewExecAllocator(runCtx, opts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var out []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("data:text/html;charset=utf-8,"+url.PathEscape(html.String())),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithMarginTop(pageMargin / 72).
				WithMarginBottom(pageMargin / 72).
				WithMarginLeft(pageMargin / 72).
				WithMarginRight(pageMargin / 72).
				Do(ctx)
			out = buf
			return err
		}),
	)
	if err != nil {
		return fmt.Errorf("chrome: printToPDF: %w", err)
	}
	_, err = w.Write(out)
	return err
}
