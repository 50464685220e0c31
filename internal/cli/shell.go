package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"notes-client/internal/app"
	"notes-client/internal/view"
)

var errQuit = errors.New("quit")

// Shell is a line-oriented front end over the router: it renders the current
// view, reads one command, and dispatches it to the view.
type Shell struct {
	router *app.Router
	in     *bufio.Reader
	out    io.Writer
	logger *zap.Logger
}

// NewShell reads commands from in and renders to out.
func NewShell(router *app.Router, in io.Reader, out io.Writer, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		router: router,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger.Named("shell"),
	}
}

// Run navigates to startPath and processes commands until quit or end of input.
func (s *Shell) Run(ctx context.Context, startPath string) error {
	if err := s.router.Navigate(ctx, startPath); err != nil {
		s.logger.Warn("initial navigation failed", zap.Error(err))
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.render()
		fmt.Fprint(s.out, "> ")

		line, err := s.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read input: %w", err)
		}
		eof := errors.Is(err, io.EOF)
		line = strings.TrimSpace(line)
		if line == "" {
			if eof {
				fmt.Fprintln(s.out)
				return nil
			}
			continue
		}

		if cmdErr := s.exec(ctx, line); cmdErr != nil {
			if errors.Is(cmdErr, errQuit) {
				return nil
			}
			hintColor.Fprintf(s.out, "%v\n", cmdErr)
		}
		if eof {
			s.render()
			return nil
		}
	}
}

func (s *Shell) render() {
	current, _ := s.router.Current()
	switch v := current.(type) {
	case *view.ConversationList:
		renderList(s.out, v)
	case *view.ConversationDetail:
		renderDetail(s.out, v)
	}
}

// exec runs one command. Request failures are already recorded by the view and
// rendered with it, so only usage errors are returned.
func (s *Shell) exec(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return errQuit
	case "help", "?":
		renderHelp(s.out)
		return nil
	case "go":
		_ = s.router.Navigate(ctx, arg)
		return nil
	}

	current, _ := s.router.Current()
	switch v := current.(type) {
	case *view.ConversationList:
		return s.execList(ctx, v, strings.ToLower(cmd), arg)
	case *view.ConversationDetail:
		return s.execDetail(ctx, v, strings.ToLower(cmd), arg)
	}
	return fmt.Errorf("no view")
}

func (s *Shell) execList(ctx context.Context, v *view.ConversationList, cmd, arg string) error {
	switch cmd {
	case "refresh", "ls":
		_ = v.FetchConversations(ctx)
	case "new":
		if arg == "" {
			return fmt.Errorf("usage: new <title>")
		}
		_ = v.CreateConversation(ctx, arg)
	case "search":
		_ = v.SearchConversations(ctx, arg)
	case "open":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("usage: open <id>")
		}
		_ = s.router.Navigate(ctx, view.ConversationPath(id))
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func (s *Shell) execDetail(ctx context.Context, v *view.ConversationDetail, cmd, arg string) error {
	switch cmd {
	case "refresh":
		_ = v.RefreshConversation(ctx)
	case "say":
		if arg == "" {
			return fmt.Errorf("usage: say <text>")
		}
		v.SetNewMessage(arg)
		_ = v.CreateMessage(ctx)
	case "select":
		msgs := v.Messages()
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(msgs) {
			return fmt.Errorf("usage: select <1-%d>", len(msgs))
		}
		_ = v.ToggleSelected(ctx, msgs[n-1])
	case "think":
		if err := v.CreateThought(ctx, arg); errors.Is(err, view.ErrNoSelection) {
			return fmt.Errorf("select a message first")
		}
	case "search":
		_ = v.SearchMessages(ctx, arg)
	case "back", "home":
		_ = s.router.Navigate(ctx, app.HomePath)
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}
