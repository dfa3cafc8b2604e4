// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/application-tracker/internal/analytics"
	"github.com/jonathan/application-tracker/internal/insights"
	"github.com/jonathan/application-tracker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxGroupsToShow is the default number of breakdown rows to display
	maxGroupsToShow = 5
)

// funnelOrder fixes the display order of funnel stages.
var funnelOrder = []types.Status{
	types.StatusPlanned,
	types.StatusApplied,
	types.StatusInterview,
	types.StatusOffer,
	types.StatusRejected,
}

// Printer handles formatted output for CLI commands.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSummary outputs a human-readable view of the funnel summary.
func (p *Printer) PrintSummary(summary *analytics.Summary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Applications:   %d\n", summary.TotalApplications))
	sb.WriteString(fmt.Sprintf("Response rate:  %d%%\n", summary.ResponseRate))
	sb.WriteString(fmt.Sprintf("Success rate:   %d%%\n", summary.SuccessRate))
	if summary.AvgResponseDays > 0 {
		sb.WriteString(fmt.Sprintf("Avg response:   %d days\n", summary.AvgResponseDays))
	}
	sb.WriteString("\n")

	sb.WriteString("Funnel:\n")
	for _, status := range funnelOrder {
		if count := summary.FunnelCounts[status]; count > 0 {
			sb.WriteString(fmt.Sprintf("  %-10s %d\n", status, count))
		}
	}

	if len(summary.CompanyBreakdown) > 0 {
		sb.WriteString("\nBy company:\n")
		p.writeGroups(&sb, summary.CompanyBreakdown)
	}
	if len(summary.TitleBreakdown) > 0 {
		sb.WriteString("\nBy title:\n")
		p.writeGroups(&sb, summary.TitleBreakdown)
	}

	if len(summary.MethodComparison) > 0 {
		sb.WriteString("\nBy method:\n")
		for _, m := range summary.MethodComparison {
			sb.WriteString(fmt.Sprintf("  %-12s %d apps, %d%% success\n", m.Method, m.Total, m.SuccessRate))
		}
	}

	p.printBox("FUNNEL SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) writeGroups(sb *strings.Builder, groups []analytics.GroupStat) {
	count := min(len(groups), maxGroupsToShow)
	for i := 0; i < count; i++ {
		g := groups[i]
		sb.WriteString(fmt.Sprintf("  • %s: %d apps, %d%% success, %d%% response\n",
			g.Name, g.Total, g.SuccessRate, g.ResponseRate))
	}
	if len(groups) > maxGroupsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(groups)-maxGroupsToShow))
	}
}

// PrintTimeSeries outputs monthly application volume as a simple bar chart.
func (p *Printer) PrintTimeSeries(buckets []analytics.TimeBucket) {
	if len(buckets) == 0 {
		return
	}

	maxCount := 0
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	var sb strings.Builder
	for i, b := range buckets {
		bar := ""
		if maxCount > 0 {
			bar = strings.Repeat("█", b.Count*30/maxCount)
		}
		sb.WriteString(fmt.Sprintf("%-9s %-30s %d", b.Label, bar, b.Count))
		if i < len(buckets)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("APPLICATIONS PER MONTH", sb.String())
}

// PrintInsights outputs generated insights, one bullet per rule that fired.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintInsights(items []insights.Insight) {
	if len(items) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO INSIGHTS YET — ADD MORE APPLICATIONS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for i, insight := range items {
		sb.WriteString(fmt.Sprintf("• %s\n", insight.Message))
		if i < len(items)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("INSIGHTS", strings.TrimSuffix(sb.String(), "\n"))
}
