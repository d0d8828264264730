// internal/pipeline/summary.go
package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/mwiater/trocadilho/internal/util"
)

// Summary counts what happened to the items of one run.
type Summary struct {
	Mode             string
	RunID            string
	Total            int
	AlreadyProcessed int
	DuplicateInput   int
	ToProcess        int
	Stored           int
	ParseErrors      int
	Fallbacks        int
	TransportSkipped int
	Correct          int
}

func (s *Summary) record(status itemStatus, correct bool) {
	switch status {
	case statusStored:
		s.Stored++
	case statusParseError:
		s.Stored++
		s.ParseErrors++
	case statusTransportSkipped:
		s.TransportSkipped++
	case statusDuplicate:
		s.AlreadyProcessed++
	}
	if correct {
		s.Correct++
	}
}

var summaryStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 1)

// Render formats the summary as a boxed table.
func (s Summary) Render() string {
	lines := []string{
		fmt.Sprintf("run %s (%s)", s.RunID, s.Mode),
		fmt.Sprintf("%-20s %d", "total", s.Total),
		fmt.Sprintf("%-20s %d", "already processed", s.AlreadyProcessed),
	}
	if s.DuplicateInput > 0 {
		lines = append(lines, fmt.Sprintf("%-20s %d", "duplicate input", s.DuplicateInput))
	}
	lines = append(lines,
		fmt.Sprintf("%-20s %d", "to process", s.ToProcess),
		fmt.Sprintf("%-20s %d", "stored", s.Stored),
		fmt.Sprintf("%-20s %d", "parse errors", s.ParseErrors),
		fmt.Sprintf("%-20s %d", "transport skipped", s.TransportSkipped),
	)
	if s.Mode == "pairs" {
		lines = append(lines,
			fmt.Sprintf("%-20s %d", "fallbacks", s.Fallbacks),
			fmt.Sprintf("%-20s %d", "correct", s.Correct),
		)
	}
	return summaryStyle.Render(strings.Join(lines, "\n"))
}

var (
	storedResult    = color.New(color.FgGreen).SprintFunc()
	parseErrResult  = color.New(color.FgYellow).SprintFunc()
	skippedResult   = color.New(color.FgRed).SprintFunc()
	duplicateResult = color.New(color.FgCyan).SprintFunc()
)

// maxIDRunes bounds the item column; rows without an id are keyed by their text.
const maxIDRunes = 40

type progressPrinter struct {
	out io.Writer
	bar progress.Model
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{
		out: out,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

func (p *progressPrinter) item(done, total int, id string, status itemStatus) {
	var label string
	switch status {
	case statusStored:
		label = storedResult("stored")
	case statusParseError:
		label = parseErrResult("parse error")
	case statusTransportSkipped:
		label = skippedResult("skipped")
	case statusDuplicate:
		label = duplicateResult("duplicate")
	}
	percent := float64(done) / float64(total)
	fmt.Fprintf(p.out, "[%d/%d] %s %s - %s\n", done, total, p.bar.ViewAs(percent), util.OneLine(id, maxIDRunes), label)
}
