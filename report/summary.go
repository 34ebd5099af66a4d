// Package report writes what a run leaves for people to read: a Markdown and
// HTML summary of the run and an xlsx workbook of the combined tables.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/scorpio-su/2023-IMDB/pipeline"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

// File names of the run summary.
const (
	SummaryMarkdown = "run_summary.md"
	SummaryHTML     = "run_summary.html"
)

// Markdown renders the run summary.
func Markdown(r *pipeline.Report) string {
	var sb strings.Builder
	sb.WriteString("# Regression pipeline run\n\n")
	fmt.Fprintf(&sb, "- Run ID: `%s`\n", r.RunID)
	fmt.Fprintf(&sb, "- Started: %s\n", r.Started.Format(time.RFC3339))
	if !r.Finished.IsZero() {
		fmt.Fprintf(&sb, "- Finished: %s (%s)\n", r.Finished.Format(time.RFC3339), r.Duration().Round(time.Millisecond))
	}
	if len(r.Stages) > 0 {
		fmt.Fprintf(&sb, "- Stages: %s\n", strings.Join(r.Stages, ", "))
	}
	fmt.Fprintf(&sb, "- Units of work: %d\n", r.Units)
	fmt.Fprintf(&sb, "- Files written: %d\n", len(r.Written))
	fmt.Fprintf(&sb, "- Skipped units: %d\n", len(r.Skipped))
	fmt.Fprintf(&sb, "- Exit code: %d\n", r.ExitCode())

	if len(r.Skipped) == 0 {
		return sb.String()
	}

	sb.WriteString("\n## Skipped by kind\n\n")
	sb.WriteString("| Kind | Count |\n|---|---|\n")
	counts := r.SkippedByKind()
	for _, k := range r.Kinds() {
		fmt.Fprintf(&sb, "| %s | %d |\n", k, counts[k])
	}

	sb.WriteString("\n## Skipped units\n\n")
	sb.WriteString("| Stage | Folder | Dataset | Target | Kind | Path | Reason |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	for _, s := range r.Skipped {
		fmt.Fprintf(&sb, "| %s | %d | %s | %s | %s | %s | %s |\n",
			s.Stage, s.Folder, cell(s.Dataset), cell(s.Target), s.Kind, cell(s.Path), cell(s.Reason))
	}
	return sb.String()
}

// cell keeps a value inside one table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// HTML converts the Markdown summary into a standalone page.
func HTML(r *pipeline.Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Regression pipeline run " + r.RunID,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(Markdown(r)), p, renderer)
}

// WriteSummary writes run_summary.md and run_summary.html into dir.
func WriteSummary(dir string, r *pipeline.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create directory %s", dir)
	}
	mdPath := filepath.Join(dir, SummaryMarkdown)
	if err := os.WriteFile(mdPath, []byte(Markdown(r)), 0o644); err != nil {
		return nil, errors.Wrapf(err, "write %s", mdPath)
	}
	htmlPath := filepath.Join(dir, SummaryHTML)
	if err := os.WriteFile(htmlPath, HTML(r), 0o644); err != nil {
		return []string{mdPath}, errors.Wrapf(err, "write %s", htmlPath)
	}
	return []string{mdPath, htmlPath}, nil
}
