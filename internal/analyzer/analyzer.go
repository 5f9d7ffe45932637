// Package analyzer summarizes historical timings logs: who asked
// questions, how long they waited, how long they were helped, and the
// mean wait durations split by whether the student was served.
package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/paulsc/officehours/internal/roster"
	"github.com/paulsc/officehours/internal/timelog"
)

// NameSummary aggregates one student's visits.
type NameSummary struct {
	Name        roster.Name
	Questions   int
	HelpedTotal time.Duration
}

// Report is the full analysis of one timings log.
type Report struct {
	// Names is sorted by question count descending, then lowercased
	// name ascending.
	Names []NameSummary
	// Rows are the student visits in log (chronological) order.
	Rows []timelog.Row

	NumQuestions int
	NumServed    int
	NumGaveUp    int

	MeanWaitOverall time.Duration
	MeanWaitServed  time.Duration
	MeanWaitGaveUp  time.Duration
}

// Analyze aggregates the given rows. Rows whose name carries an
// assistant marker are excluded; they are room coverage, not questions.
func Analyze(rows []timelog.Row) Report {
	var report Report
	totals := make(map[roster.Name]*NameSummary)

	var waitsServed, waitsGaveUp []time.Duration
	for _, row := range rows {
		if row.Name.IsAssistant() {
			continue
		}
		report.Rows = append(report.Rows, row)

		summary, ok := totals[row.Name]
		if !ok {
			summary = &NameSummary{Name: row.Name}
			totals[row.Name] = summary
		}
		summary.Questions++
		summary.HelpedTotal += row.QuestionDuration()

		if row.WasServed() {
			waitsServed = append(waitsServed, row.WaitDuration())
		} else {
			waitsGaveUp = append(waitsGaveUp, row.WaitDuration())
		}
	}

	for _, summary := range totals {
		report.Names = append(report.Names, *summary)
	}
	sort.Slice(report.Names, func(i, j int) bool {
		a, b := report.Names[i], report.Names[j]
		if a.Questions != b.Questions {
			return a.Questions > b.Questions
		}
		return strings.ToLower(a.Name.String()) < strings.ToLower(b.Name.String())
	})

	report.NumQuestions = len(report.Rows)
	report.NumServed = len(waitsServed)
	report.NumGaveUp = len(waitsGaveUp)
	report.MeanWaitServed = meanDuration(waitsServed)
	report.MeanWaitGaveUp = meanDuration(waitsGaveUp)
	report.MeanWaitOverall = meanDuration(append(append([]time.Duration{}, waitsServed...), waitsGaveUp...))
	return report
}

// meanDuration returns the arithmetic mean, or zero for an empty slice.
func meanDuration(durs []time.Duration) time.Duration {
	if len(durs) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range durs {
		total += d
	}
	return total / time.Duration(len(durs))
}

// FormatDuration renders a duration as seconds or minutes and seconds,
// right-aligned into a fixed column.
func FormatDuration(d time.Duration) string {
	sec := int(d.Seconds())
	min, sec := sec/60, sec%60
	var s string
	if min == 0 {
		s = fmt.Sprintf("%d s", sec)
	} else {
		s = fmt.Sprintf("%d min %02d s", min, sec)
	}
	return fmt.Sprintf("%11s", s)
}
