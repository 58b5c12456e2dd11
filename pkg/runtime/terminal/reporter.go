package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
)

const textTemplate = `
{{.Title}} ({{.Period.Duration}} days)
Period: {{.Period.Start.Format "2006-01-02"}} to {{.Period.End.Format "2006-01-02"}}
Total Amount: {{if .Currency}}{{.Currency}} {{end}}{{.TotalAmount.StringFixed 2}}
{{range .Sections}}
=== {{.Title}} ===
{{range $key, $value := .Summary}}{{$key}}: {{$value}}
{{end}}{{range .Details}}- {{.Name}}: {{.Value}}{{if .Unit}} {{.Unit}}{{end}}{{if .Description}}
  {{.Description}}{{end}}
{{end}}{{end}}{{if .Warnings}}
=== Warnings ===
{{range .Warnings}}! {{.Metric}}: {{.Message}}
{{end}}{{end}}`

var reportTemplate = template.Must(template.New("report").Parse(textTemplate))

// Reporter outputs reports to the console in a formatted text form
type Reporter struct {
	writer io.Writer
}

// NewTextReporter creates a new console reporter
func NewTextReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(report *domain.Report) error {
	if err := reportTemplate.Execute(c.writer, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
