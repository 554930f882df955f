package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/stemsi/exstem-candidate/internal/model"
)

var statusColor = map[model.Status]*color.Color{
	model.StatusNotVisited:     color.New(color.FgWhite),
	model.StatusNotAnswered:    color.New(color.FgRed),
	model.StatusAnswered:       color.New(color.FgGreen),
	model.StatusReview:         color.New(color.FgMagenta),
	model.StatusAnsweredReview: color.New(color.FgCyan),
}

var (
	headerColor   = color.New(color.FgCyan, color.Bold)
	timerColor    = color.New(color.FgYellow, color.Bold)
	selectedColor = color.New(color.FgGreen, color.Bold)
)

func render(w io.Writer, st model.SessionState) {
	q := st.Current
	if q == nil {
		return
	}

	fmt.Fprintln(w)
	timerColor.Fprintf(w, "[%s]", st.RemainingDisplay)
	headerColor.Fprintf(w, "  Question %d of %d\n", q.Number, len(st.Statuses))

	if q.Comprehension != "" {
		if st.ShowComprehension {
			fmt.Fprintf(w, "\n%s\n", q.Comprehension)
		} else {
			fmt.Fprintln(w, "(comprehension available, press c)")
		}
	}
	if q.Image != "" {
		fmt.Fprintf(w, "Image: %s\n", q.Image)
	}

	fmt.Fprintf(w, "\n%s\n\n", q.Text)
	for _, opt := range q.Options {
		if opt.Selected {
			selectedColor.Fprintf(w, " > %s. %s\n", opt.Letter, opt.Text)
			continue
		}
		fmt.Fprintf(w, "   %s. %s\n", opt.Letter, opt.Text)
	}

	fmt.Fprintln(w)
	renderSheet(w, st)
}

// renderSheet prints the question palette, current position bracketed.
func renderSheet(w io.Writer, st model.SessionState) {
	for i, s := range st.Statuses {
		label := " " + strconv.Itoa(i+1) + " "
		if i == st.CurrentPosition {
			label = "[" + strconv.Itoa(i+1) + "]"
		}
		statusColor[s].Fprint(w, label)
	}
	fmt.Fprintln(w)

	var legend []string
	for _, s := range []model.Status{model.StatusAnswered, model.StatusNotAnswered, model.StatusReview, model.StatusAnsweredReview, model.StatusNotVisited} {
		legend = append(legend, statusColor[s].Sprint(strings.ReplaceAll(string(s), "_", " ")))
	}
	fmt.Fprintln(w, strings.Join(legend, "  "))
}

func renderConfirm(w io.Writer, st model.SessionState) {
	s := st.Stats
	fmt.Fprintln(w)
	timerColor.Fprintf(w, "Time left %s\n", st.RemainingDisplay)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Answered", "Marked", "Not Answered", "Not Visited", "Total"})
	table.Append([]string{
		strconv.Itoa(s.Answered),
		strconv.Itoa(s.Marked),
		strconv.Itoa(s.NotAnswered),
		strconv.Itoa(s.NotVisited),
		strconv.Itoa(s.Total),
	})
	table.Render()
}

func renderResult(w io.Writer, r model.ExamResult) {
	headerColor.Fprintln(w, "\n=== Result ===")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Score", "Correct", "Wrong", "Not Attended", "Questions"})
	table.Append([]string{
		fmt.Sprintf("%g / %d", r.Score, r.TotalMarks),
		strconv.Itoa(r.Correct),
		strconv.Itoa(r.Wrong),
		strconv.Itoa(r.NotAttended),
		strconv.Itoa(r.TotalQuestions),
	})
	table.Render()

	if r.ResultURL != "" {
		fmt.Fprintf(w, "Details: %s\n", r.ResultURL)
	}
}
