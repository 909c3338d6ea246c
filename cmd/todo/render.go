package todo

import (
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"io"
	"text/tabwriter"
)

// Render prints the queued and the completed records as two tables
func Render(w io.Writer, list common.TodoList) {
	if len(list.Queued) == 0 && len(list.Completed) == 0 {
		_, _ = fmt.Fprintln(w, "There are no TODOs")
		return
	}

	if len(list.Queued) == 0 {
		_, _ = fmt.Fprintln(w, "All TODOs are completed")
	} else {
		renderTable(w, "QUEUED", list.Queued)
	}

	if len(list.Completed) == 0 {
		_, _ = fmt.Fprintln(w, "No TODOs completed yet")
	} else {
		renderTable(w, "COMPLETED", list.Completed)
	}
}

func renderTable(w io.Writer, title string, records []common.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "QUANTITY\t %s\t\n", title)
	for _, r := range records {
		_, _ = fmt.Fprintf(tw, "%s\t %s\t\n", r.Quantity, r.Name)
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintln(w)
}
