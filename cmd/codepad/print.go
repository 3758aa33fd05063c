package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"gitlab.com/codepad.net/internal/domain"
)

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

func printResult(w io.Writer, result domain.ExecutionResult) {
	switch result.Kind {
	case domain.ResultStdout:
		fmt.Fprint(w, result.Text)
		if !strings.HasSuffix(result.Text, "\n") {
			fmt.Fprintln(w)
		}
	case domain.ResultStderr:
		fmt.Fprintln(w, failColor.Sprint("runtime error"))
		fmt.Fprintln(w, result.Text)
	case domain.ResultCompileError:
		fmt.Fprintln(w, failColor.Sprint("compile error"))
		fmt.Fprintln(w, result.Text)
	case domain.ResultTransportFailure:
		fmt.Fprintf(w, "%s %s\n", failColor.Sprint("transport error:"), result.Text)
	default:
		fmt.Fprintln(w, warnColor.Sprint(result.Text))
	}
}

func printVerdict(w io.Writer, v domain.Verdict) {
	if v.Passed() {
		fmt.Fprintf(w, "%s case %d\n", passColor.Sprint("PASS"), v.CaseIndex)
		return
	}
	fmt.Fprintf(w, "%s case %d: %s\n", failColor.Sprint("FAIL"), v.CaseIndex, v.Reason)
}

func printSummary(w io.Writer, state *domain.RunState) {
	summary := state.Summary()
	line := fmt.Sprintf("%d/%d passed", summary.Passed, summary.Total)

	switch {
	case state.Status == domain.RunStatusCancelled:
		fmt.Fprintln(w, warnColor.Sprintf("%s (%s)", line, strings.ToLower(string(state.Status))))
	case summary.Failed > 0:
		fmt.Fprintln(w, failColor.Sprint(line))
	default:
		fmt.Fprintln(w, passColor.Sprint(line))
	}
}

func printHistory(w io.Writer, snippets []*domain.HistorySnippet) {
	if len(snippets) == 0 {
		fmt.Fprintln(w, dimColor.Sprint("no history yet"))
		return
	}
	for _, s := range snippets {
		fmt.Fprintf(w, "%s %s\n", dimColor.Sprint(s.CreatedAt.Format("2006-01-02 15:04:05")), s.Language)
		fmt.Fprintln(w, s.Code)
		fmt.Fprintln(w)
	}
}
