package modshelf

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/modshelf/pkg/core"
	"github.com/arthur-debert/modshelf/pkg/display"
	"github.com/arthur-debert/modshelf/pkg/errors"
)

// sessionPrompt tracks the undo history so the prompt can show a "*"
// while there is something to undo. The history callback runs with the
// manager locked, so it only marks the text stale.
type sessionPrompt struct {
	m     *core.Manager
	stale bool
	text  string
}

func newSessionPrompt(m *core.Manager) *sessionPrompt {
	p := &sessionPrompt{m: m, stale: true}
	m.OnHistoryChange(func() { p.stale = true })
	return p
}

func (p *sessionPrompt) String() string {
	if p.stale {
		p.text = "modshelf> "
		if p.m.UndoState().CanUndo {
			p.text = "modshelf*> "
		}
		p.stale = false
	}
	return p.text
}

func newSessionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "session",
		Aliases: []string{"shell"},
		Short:   MsgSessionShort,
		Long:    MsgSessionLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.setup()
			if err != nil {
				return err
			}
			return runSession(a, m)
		},
	}
}

// runSession executes one command per input line until quit or end of
// input. Errors are printed and the session goes on.
func runSession(a *app, m *core.Manager) error {
	interactive := isTerminal(a.in)
	prompt := newSessionPrompt(m)
	scanner := bufio.NewScanner(a.in)

	for {
		if interactive {
			_, _ = fmt.Fprint(a.out, prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		args, err := splitArgs(line)
		if err != nil {
			_ = a.printer.Error(err)
			continue
		}
		done, err := runLine(a, m, args)
		if err != nil {
			log.Debug().Err(err).Str("line", line).Msg("session command failed")
			_ = a.printer.Error(err)
		}
		if done {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, errors.ErrIOFailure, "failed to read session input")
	}
	return nil
}

// runLine handles the history commands itself and hands everything else to
// a fresh command tree bound to the same app.
func runLine(a *app, m *core.Manager, args []string) (bool, error) {
	switch args[0] {
	case "quit", "exit":
		return true, nil
	case "undo":
		text := m.UndoState().UndoText
		if err := m.Undo(); err != nil {
			return false, err
		}
		return false, a.printer.Message("Info", fmt.Sprintf(MsgUndone, strings.TrimPrefix(text, "Undo ")))
	case "redo":
		text := m.UndoState().RedoText
		if err := m.Redo(); err != nil {
			return false, err
		}
		return false, a.printer.Message("Info", fmt.Sprintf(MsgRedone, strings.TrimPrefix(text, "Redo ")))
	case "history":
		return false, a.printer.Print(display.NewHistoryView(m.History()))
	case "clear":
		m.ClearHistory()
		return false, a.printer.Message("Info", MsgHistoryCleared)
	}

	root := &cobra.Command{
		Use:               "modshelf",
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	addCommands(root, a)
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.out)
	return false, root.Execute()
}

// splitArgs splits a line on whitespace. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inToken bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}

	if quote != 0 || escaped {
		return nil, errors.Newf(errors.ErrInvalidInput, "unterminated quote or escape in %q", line)
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}
