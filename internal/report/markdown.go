package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/csprecommend/internal/model"
	"github.com/nao1215/csprecommend/internal/policy"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter writes a Markdown document per analysis.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(a *model.Analysis) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, a)
	if a.ErrorMessage == "" {
		w.writePolicy(md, a)
		w.writeViolations(md, a)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, a *model.Analysis) {
	md.H1("CSP Recommendation")
	md.PlainText("")

	rows := [][]string{
		{"Target", "`" + a.Target + "`"},
	}
	if a.DocumentURL != "" && a.DocumentURL != a.Target {
		rows = append(rows, []string{"Document", "`" + a.DocumentURL + "`"})
	}
	if a.SelfHost != "" {
		rows = append(rows, []string{"Self host", "`" + a.SelfHost + "`"})
	}
	rows = append(rows,
		[]string{"Analysed", a.DateAnalyzed.Format("2006-01-02 15:04:05 MST")},
		[]string{"Skipped stylesheets", strconv.Itoa(a.SkippedStylesheets)},
		[]string{"Status", statusText(a)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func statusText(a *model.Analysis) string {
	if a.ErrorMessage != "" {
		return "❌ Error - " + a.ErrorMessage
	}
	return "✅ Complete"
}

func (w *MarkdownWriter) writePolicy(md *markdown.Markdown, a *model.Analysis) {
	md.H2("Policy")
	md.PlainText("")

	directives := policy.All(a.Sources)
	rows := make([][]string, 0, len(directives))
	for _, d := range directives {
		rows = append(rows, []string{"`" + d.Name + "`", "`" + strings.Join(d.Sources, " ") + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Directive", "Sources"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(directives) > 1 {
		w.writePieChart(md, directives[1:])
	}

	header := policy.Header(a.Sources)
	md.H3("Header")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightText, "Content-Security-Policy: "+header)
	md.PlainText("")

	md.H3("Meta tag")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightHTML, policy.MetaTag(header))
	md.PlainText("")
}

// writePieChart charts how many sources each directive allows.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, directives []policy.Directive) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Sources per directive"),
		piechart.WithShowData(true),
	)
	for _, d := range directives {
		chart.LabelAndIntValue(d.Name, uint64(len(d.Sources)))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeViolations(md *markdown.Markdown, a *model.Analysis) {
	md.H2(strings.TrimSuffix(policy.ViolationHeading(len(a.Violations)), ":"))
	md.PlainText("")

	if len(a.Violations) == 0 {
		md.Tip("No inline scripts or event handlers found. The policy can be deployed as is.")
		md.PlainText("")
		return
	}

	md.Cautionf(
		"%d inline violation(s) will be blocked by this policy. Move them into external scripts before deploying it.",
		len(a.Violations),
	)
	md.PlainText("")

	items := make([]string, len(a.Violations))
	for i, v := range a.Violations {
		items[i] = "`" + strings.ReplaceAll(v.Description, "`", "'") + "`"
	}
	md.OrderedList(items...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by csprecommend*")
}
