package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/ylchen07/jflow/internal/prompt"
	"github.com/ylchen07/jflow/internal/workflow"
)

// Report writes one line per completed action and one per failure. It returns the
// number of failures written.
func Report(w io.Writer, results []workflow.Result, err error) int {
	for _, r := range results {
		line := fmt.Sprintf("%s %s", RenderPassIcon(), r.Message)
		if r.URL != "" && r.Action != workflow.ActionBrowse {
			line += " " + RenderMuted(r.URL)
		}
		fmt.Fprintln(w, line)
	}

	if err == nil {
		return 0
	}

	failures := workflow.Failures(err)
	if len(failures) == 0 {
		failures = []*workflow.ActionError{{Err: err}}
	}

	n := 0
	for _, f := range failures {
		if errors.Is(f.Err, prompt.ErrAborted) {
			fmt.Fprintf(w, "%s %s\n", RenderSkipIcon(), RenderMuted(label(f.Action)+"cancelled."))
			continue
		}
		fmt.Fprintf(w, "%s %s%s\n", RenderFailIcon(), RenderAccent(label(f.Action)), workflow.Message(f.Err))
		n++
	}
	return n
}

func label(a workflow.Action) string {
	if a == "" {
		return ""
	}
	return string(a) + ": "
}
