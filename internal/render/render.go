package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"newsbrief/internal/brief"
)

// DefaultDateLayout is the presentation format for brief dates.
const DefaultDateLayout = "January 2, 2006"

const ruleWidth = 80

var htmlTemplate = template.Must(template.New("brief").Funcs(template.FuncMap{
	"upper": strings.ToUpper,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, Helvetica, sans-serif; color: #222; max-width: 680px; margin: 0 auto; padding: 16px; }
  h1 { border-bottom: 2px solid #222; padding-bottom: 8px; }
  h2 { color: #444; margin-top: 28px; }
  .date { color: #666; }
  li { margin-bottom: 14px; }
  a { color: #1a5276; }
  p { margin: 4px 0 0 0; }
</style>
</head>
<body>
<h1>Daily News Brief</h1>
<p class="date">{{.Date}}</p>
{{- range .Sections}}
{{- if .Articles}}
<h2>{{upper .Topic}}</h2>
<ol>
{{- range .Articles}}
<li><a href="{{.URL}}">{{.Title}}</a><p>{{.Summary}}</p></li>
{{- end}}
</ol>
{{- end}}
{{- end}}
</body>
</html>
`))

// Text renders the plain-text brief body used for the saved file and the
// plain email part. Every section appears, empty ones included, so the
// same Brief always renders to the same bytes.
func Text(b brief.Brief, dateLayout string) string {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Daily News Brief - %s\n", b.GeneratedAt.Format(dateLayout)))
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")

	for _, section := range b.Sections {
		sb.WriteString(fmt.Sprintf("\n%s\n", strings.ToUpper(section.Topic)))
		sb.WriteString(strings.Repeat("-", ruleWidth) + "\n\n")
		for i, article := range section.Articles {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, article.Title))
			sb.WriteString(fmt.Sprintf("   %s\n", article.Summary))
			sb.WriteString(fmt.Sprintf("   %s\n\n", article.URL))
		}
	}
	return sb.String()
}

// Console writes the interactive printout to w. Sections without
// articles are skipped here, unlike in Text.
func Console(w io.Writer, b brief.Brief, dateLayout string) {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintln(w, "DAILY NEWS BRIEF")
	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, "Date: %s\n", b.GeneratedAt.Format(dateLayout))

	for _, section := range b.Sections {
		if len(section.Articles) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", rule)
		fmt.Fprintf(w, "%s\n", strings.ToUpper(section.Topic))
		fmt.Fprintf(w, "%s\n\n", rule)
		for i, article := range section.Articles {
			fmt.Fprintf(w, "%d. %s\n", i+1, article.Title)
			fmt.Fprintf(w, "   %s\n", article.Summary)
			fmt.Fprintf(w, "   %s\n\n", article.URL)
		}
	}
	fmt.Fprintf(w, "%s\n", rule)
}

// HTML renders the email HTML body. Sections without articles are
// omitted; template escaping guards against markup in titles or
// summaries.
func HTML(b brief.Brief, dateLayout string) (string, error) {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	data := struct {
		Date     string
		Sections []brief.Section
	}{
		Date:     b.GeneratedAt.Format(dateLayout),
		Sections: b.Sections,
	}
	var sb strings.Builder
	if err := htmlTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render html brief: %w", err)
	}
	return sb.String(), nil
}
