package analyzer

import (
	"fmt"
	"io"

	"github.com/paulsc/officehours/internal/timelog"
)

// RowDetail renders one visit as a human-readable line.
func RowDetail(row timelog.Row) string {
	if !row.WasServed() {
		return fmt.Sprintf("%-30s gave up after %s", row.Name.String(), FormatDuration(row.WaitDuration()))
	}
	return fmt.Sprintf("%-30s waited %s  and was helped  %s by %s",
		row.Name.String(),
		FormatDuration(row.WaitDuration()),
		FormatDuration(row.QuestionDuration()),
		row.Assignment.Assistant.String())
}

// Render writes the full textual report.
func (r Report) Render(w io.Writer) {
	fmt.Fprintf(w, "%d people asked questions:\n", len(r.Names))
	for _, summary := range r.Names {
		fmt.Fprintf(w, "  %2d  (%s)  %s\n", summary.Questions, FormatDuration(summary.HelpedTotal), summary.Name.String())
	}
	fmt.Fprintln(w, "--")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Details chronologically for %d questions:\n", r.NumQuestions)
	for _, row := range r.Rows {
		fmt.Fprintf(w, "  %s\n", RowDetail(row))
	}

	fmt.Fprintln(w, "--")
	fmt.Fprintln(w, "Mean wait durations:")
	fmt.Fprintf(w, "  Overall:  %s  (N = %d)\n", FormatDuration(r.MeanWaitOverall), r.NumQuestions)
	if r.NumQuestions > 0 {
		fmt.Fprintf(w, "    Served: %s  (N = %d, %d%%)\n",
			FormatDuration(r.MeanWaitServed), r.NumServed, 100*r.NumServed/r.NumQuestions)
		fmt.Fprintf(w, "    Gaveup: %s  (N = %d, %d%%)\n",
			FormatDuration(r.MeanWaitGaveUp), r.NumGaveUp, 100*r.NumGaveUp/r.NumQuestions)
	}
	fmt.Fprintln(w, "--")
}
