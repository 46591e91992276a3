package ops

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/runlog/internal/runlog"
)

var reportPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<p><small>Generated {{.Generated}}</small></p>
{{.Body}}
</body>
</html>
`))

type reportPageData struct {
	Title     string
	Generated string
	Body      template.HTML
}

// renderReportHTML converts the markdown report to a standalone HTML page.
// Raw HTML inside the markdown is not passed through.
func renderReportHTML(md, repo string, now time.Time) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var page bytes.Buffer
	err := reportPage.Execute(&page, reportPageData{
		Title:     fmt.Sprintf("Weekly Health – %s", repo),
		Generated: now.In(runlog.JST).Format(runlog.ReportStampLayout),
		Body:      template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render report page: %w", err)
	}
	return page.Bytes(), nil
}
