package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kailas-cloud/xfind"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	docStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 0, 2)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	okStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("32"))
	errStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderPage(w io.Writer, q string, p *xfind.Page[xfind.Document]) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d results for %s", p.Total(), q)))

	if p.IsEmpty() {
		fmt.Fprintln(w, metaStyle.Render("No documents on this page"))
	}
	for _, doc := range p.Items() {
		renderDocument(w, doc)
	}

	if facets := xfind.PageFacets(p); len(facets) > 0 {
		fmt.Fprintln(w, headerStyle.Render("Facets"))
		for _, f := range facets {
			fmt.Fprintln(w, renderFacet(f))
		}
	}

	fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("page %d of %d (%d per page)",
		p.CurrentPage(), max(p.LastPage(), 1), p.PerPage())))
}

func renderDocument(w io.Writer, doc xfind.Document) {
	fields := doc.ToMap()
	var b strings.Builder
	b.WriteString(headerStyle.Render(doc.ID()))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&b, "\n%s %v", keyStyle.Render(k+":"), fields[k])
	}
	fmt.Fprintln(w, docStyle.Render(b.String()))
}

func renderFacet(f xfind.Facet) string {
	parts := make([]string, 0, len(f.Values))
	for _, v := range f.Values {
		parts = append(parts, fmt.Sprintf("%s (%d)", v.Value, v.Count))
	}
	line := keyStyle.Render(f.Label+":") + " " + strings.Join(parts, ", ")
	if f.Default != nil {
		line += " " + metaStyle.Render("default "+*f.Default)
	}
	return line
}

func renderHealth(w io.Writer, r xfind.HealthReport) {
	style := okStyle
	if r.Status != xfind.Healthy {
		style = errStyle
	}
	fmt.Fprintln(w, style.Render(string(r.Status)))
	for _, name := range slices.Sorted(maps.Keys(r.Checks)) {
		fmt.Fprintf(w, "  %s %s\n", keyStyle.Render(name+":"), r.Checks[name])
	}
}
