// Package report renders summarization results for humans and machines: a
// styled console view for the CLI, a stable JSON envelope for scripting, and
// an HTML fragment for the web UI.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"summary-lab/internal/domain/entity"
	"summary-lab/internal/monitoring"
	"summary-lab/internal/usecase/summarize"
	"summary-lab/internal/utils/text"
)

// previewChars bounds the original-text preview panel.
const previewChars = 200

// Reporter renders pipeline outcomes in one output format.
type Reporter interface {
	Result(result *entity.SummaryResult)
	Error(err error)
	Analytics(a monitoring.Analytics, insights []string)
}

// Console styles shared across render functions.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(76)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))
)

// ConsoleReporter renders results and errors as styled terminal output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to out.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Result renders the original text preview, the summary panel, and the
// metrics block.
func (r *ConsoleReporter) Result(result *entity.SummaryResult) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headerStyle.Render("Original Text"))
	fmt.Fprintln(r.out, panelStyle.Render(text.Preview(result.Original.Content, previewChars)))

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headerStyle.Render("✨ Summary"))
	fmt.Fprintln(r.out, panelStyle.Render(result.Summary))

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headerStyle.Render("📊 Metrics"))
	r.metric("Original", fmt.Sprintf("%s characters", humanize.Comma(int64(result.Metrics.OriginalChars))))
	r.metric("Summary", fmt.Sprintf("%s characters", humanize.Comma(int64(result.Metrics.SummaryChars))))
	r.metric("Compression", fmt.Sprintf("%.1f%%", result.Metrics.CompressionRatio))
	r.metric("Saved", fmt.Sprintf("%s characters", humanize.Comma(int64(result.Metrics.CharactersSaved))))
	if result.Original.Truncated {
		r.metric("Truncated", "yes, leading portion kept")
	}
	r.metric("Model", result.Model)
	if result.Usage.InputTokens > 0 || result.Usage.OutputTokens > 0 {
		r.metric("Tokens", fmt.Sprintf("%s in / %s out",
			humanize.Comma(result.Usage.InputTokens), humanize.Comma(result.Usage.OutputTokens)))
	}
	if result.Duration > 0 {
		r.metric("Time", result.Duration.Round(10*time.Millisecond).String())
	}
}

// Error renders the failure and its remediation hint.
func (r *ConsoleReporter) Error(err error) {
	fmt.Fprintln(r.out, errorStyle.Render("Error: ")+err.Error())
	for _, line := range strings.Split(summarize.Remediation(err), "\n") {
		fmt.Fprintln(r.out, hintStyle.Render("  "+line))
	}
}

// Analytics renders the aggregate usage dashboard.
func (r *ConsoleReporter) Analytics(a monitoring.Analytics, insights []string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headerStyle.Render("📊 Usage Analytics"))

	if a.TotalRequests == 0 {
		fmt.Fprintln(r.out, "  No requests recorded yet.")
		return
	}

	r.metric("Requests", fmt.Sprintf("%s (%.1f%% success)",
		humanize.Comma(int64(a.TotalRequests)), a.SuccessRate()))
	r.metric("Tokens", fmt.Sprintf("%s in / %s out",
		humanize.Comma(a.TotalInputTokens), humanize.Comma(a.TotalOutputTokens)))
	r.metric("Est. cost", fmt.Sprintf("$%.4f", a.TotalCostUSD))
	r.metric("Avg time", fmt.Sprintf("%s ms", humanize.Comma(a.AverageDurationMS)))

	if len(a.RequestsByModel) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, headerStyle.Render("By Model"))
		for _, model := range sortedKeys(a.RequestsByModel) {
			r.metric(model, humanize.Comma(int64(a.RequestsByModel[model])))
		}
	}

	if len(a.ErrorsByKind) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, headerStyle.Render("Errors"))
		for _, kind := range sortedKeys(a.ErrorsByKind) {
			r.metric(kind, humanize.Comma(int64(a.ErrorsByKind[kind])))
		}
		// 最頻出のエラーには対処のヒントを添える
		if kind, _ := a.TopError(); kind != "" {
			for _, line := range strings.Split(summarize.RemediationFor(kind), "\n") {
				fmt.Fprintln(r.out, hintStyle.Render("  "+line))
			}
		}
	}

	if len(insights) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, headerStyle.Render("Insights"))
		for _, insight := range insights {
			fmt.Fprintln(r.out, "  • "+insight)
		}
	}
}

func (r *ConsoleReporter) metric(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-13s", label+":")), value)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
