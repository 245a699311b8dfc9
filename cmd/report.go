// Package cmd contains code shared by the command line tools.
package cmd

import (
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/vsariola/ddsynth/render"
	"github.com/vsariola/ddsynth/spectrum"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report is the data printed by PrintReport.
type Report struct {
	Name         string
	Samples      int
	Seconds      float64
	Spectrum     spectrum.Frame
	Level        *render.Level
	Verification *spectrum.Verification
}

const reportTemplate = `{{ .Name }}: {{ num .Samples }} samples, {{ .Seconds | printf "%.3f" }} s
{{- with .Level }}
  level: peak {{ .Peak | printf "%.1f" }} dBFS, rms {{ .RMS | printf "%.1f" }} dBFS
{{- end }}
{{- range $i, $p := .Spectrum.Peaks }}
  peak {{ add1 $i }}: {{ $p.Frequency | printf "%8.1f" }} Hz  magnitude {{ $p.Magnitude | printf "%.2f" }}
{{- else }}
  no peaks
{{- end }}
{{- with .Verification }}
  expected {{ .Expected | printf "%.1f" }} Hz, detected {{ .Detected | printf "%.1f" }} Hz, error {{ mulf .Error 100 | printf "%.2f" }}% ({{ if .Accurate }}ok{{ else }}FAIL{{ end }}, tolerance {{ mulf .Tolerance 100 | printf "%.1f" }}%)
{{- end }}
`

var printer = message.NewPrinter(language.English)

var report = template.Must(template.New("report").
	Funcs(sprig.TxtFuncMap()).
	Funcs(template.FuncMap{
		"num":  func(n int) string { return printer.Sprintf("%d", n) },
		"mulf": func(a, b float64) float64 { return a * b },
	}).
	Parse(reportTemplate))

// PrintReport writes a human readable summary of an analysis to w.
func PrintReport(w io.Writer, r Report) error {
	if err := report.Execute(w, r); err != nil {
		return fmt.Errorf("could not print report: %w", err)
	}
	return nil
}
