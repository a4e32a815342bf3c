package text

import (
	_ "embed" // use go embed to import template
	"fmt"
	"io"
	"text/template"

	"github.com/gookit/color"

	"github.com/securego/revmark"
	"github.com/securego/revmark/marker"
)

var (
	errorTheme   = color.New(color.FgLightWhite, color.BgRed)
	warningTheme = color.New(color.FgBlack, color.BgYellow)
	defaultTheme = color.New(color.FgWhite, color.BgBlack)

	//go:embed template.txt
	templateContent string
)

// WriteReport write a (colorized) report in text format
func WriteReport(w io.Writer, data *revmark.ReportInfo, enableColor bool) error {
	t, e := template.
		New("revmark").
		Funcs(plainTextFuncMap(enableColor)).
		Parse(templateContent)
	if e != nil {
		return e
	}

	return t.Execute(w, data)
}

func plainTextFuncMap(enableColor bool) template.FuncMap {
	if enableColor {
		return template.FuncMap{
			"highlight": highlight,
			"danger":    color.Danger.Render,
			"notice":    color.Notice.Render,
			"success":   color.Success.Render,
			"lines":     lines,
		}
	}

	// by default those functions return the given content untouched
	return template.FuncMap{
		"highlight": func(t string, s marker.Severity) string {
			return t
		},
		"danger":  fmt.Sprint,
		"notice":  fmt.Sprint,
		"success": fmt.Sprint,
		"lines":   lines,
	}
}

// highlight returns content t colored based on the marker severity
func highlight(t string, s marker.Severity) string {
	switch s {
	case marker.Error:
		return errorTheme.Sprint(t)
	case marker.Warning:
		return warningTheme.Sprint(t)
	default:
		return defaultTheme.Sprint(t)
	}
}

// lines renders the line span of a marker, "12" or "12-14"
func lines(m *marker.Record) string {
	if m.EndLine > m.Line {
		return fmt.Sprintf("%d-%d", m.Line, m.EndLine)
	}
	return fmt.Sprintf("%d", m.Line)
}
