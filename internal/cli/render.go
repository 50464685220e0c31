package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"notes-client/internal/view"
)

var (
	headerColor   = color.New(color.FgCyan, color.Bold)
	selectedColor = color.New(color.FgYellow, color.Bold)
	thoughtColor  = color.New(color.FgHiBlack)
	errorColor    = color.New(color.FgRed)
	hintColor     = color.New(color.FgYellow)
)

func renderList(w io.Writer, v *view.ConversationList) {
	headerColor.Fprintln(w, "== Conversations ==")
	convs := v.Conversations()
	if len(convs) == 0 {
		fmt.Fprintln(w, "  (no conversations)")
	}
	for _, c := range convs {
		fmt.Fprintf(w, "  [%d] %s (%s)\n", c.ID, c.Title, c.StartDate)
	}
	renderErr(w, v.Err())
}

func renderDetail(w io.Writer, v *view.ConversationDetail) {
	conv := v.Conversation()
	headerColor.Fprintf(w, "== %s (#%d, started %s) ==\n", conv.Title, conv.ID, conv.StartDate)

	msgs := v.Messages()
	if len(msgs) == 0 {
		fmt.Fprintln(w, "  (no messages)")
	}
	selected := v.SelectedMessage()
	for i, m := range msgs {
		if selected != nil && selected.ID == m.ID {
			selectedColor.Fprintf(w, "> %d. %s  %s\n", i+1, m.DatetimeSent, m.Text)
			for _, t := range v.Thoughts() {
				thoughtColor.Fprintf(w, "       ~ %s  %s\n", t.DatetimeSent, t.Text)
			}
			continue
		}
		fmt.Fprintf(w, "  %d. %s  %s\n", i+1, m.DatetimeSent, m.Text)
	}
	renderErr(w, v.Err())
}

func renderErr(w io.Writer, err error) {
	if err != nil {
		errorColor.Fprintf(w, "error: %v\n", err)
	}
}

func renderHelp(w io.Writer) {
	hintColor.Fprintln(w, "home:         refresh | new <title> | search <text> | open <id>")
	hintColor.Fprintln(w, "conversation: refresh | say <text> | select <n> | think <text> | search <text> | back")
	hintColor.Fprintln(w, "anywhere:     go <path> | help | quit")
}
