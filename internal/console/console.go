// Package console drives a match.Service from line-oriented text commands.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hailam/chessmatch/internal/board"
	"github.com/hailam/chessmatch/internal/game"
	"github.com/hailam/chessmatch/internal/match"
)

// errQuit stops the command loop.
var errQuit = errors.New("quit")

// Console reads commands from in and writes replies to out.
type Console struct {
	svc *match.Service
	in  io.Reader
	out io.Writer
}

// New creates a console over svc.
func New(svc *match.Service, in io.Reader, out io.Writer) *Console {
	return &Console{svc: svc, in: in, out: out}
}

// Run processes commands until quit, end of input, or ctx is done. A
// canceled ctx stops Run even while it waits for the next line.
func (c *Console) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, readErr := c.readLines(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.Fields(line)
			err := c.dispatch(ctx, parts[0], parts[1:])
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
		}
	}
}

// readLines scans c.in on its own goroutine. The scanner error is delivered
// on the second channel before lines is closed.
func (c *Console) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr
}

func (c *Console) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "new":
		return c.handleNew(ctx, args)
	case "move":
		return c.handleMove(ctx, args)
	case "resign":
		return c.handleAction(ctx, cmd, args, c.svc.Resign)
	case "offer":
		return c.handleAction(ctx, cmd, args, c.svc.OfferDraw)
	case "accept":
		return c.handleAction(ctx, cmd, args, c.svc.AcceptDraw)
	case "show":
		return c.handleShow(ctx, args)
	case "fen":
		return c.handleFEN(ctx, args)
	case "list":
		return c.handleList(ctx)
	case "help":
		c.handleHelp()
		return nil
	case "quit":
		return errQuit
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

// handleNew creates a game.
// Formats:
//   - new <white> <black>
//   - new <id> <white> <black>
func (c *Console) handleNew(ctx context.Context, args []string) error {
	var id string
	switch len(args) {
	case 2:
	case 3:
		id, args = args[0], args[1:]
	default:
		return errors.New("usage: new [id] <white> <black>")
	}

	id, st, err := c.svc.Create(ctx, id, game.PlayerID(args[0]), game.PlayerID(args[1]))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "game %s: %s (white) vs %s (black)\n", id, st.White, st.Black)
	return nil
}

func (c *Console) handleMove(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: move <id> <player> <uci>")
	}
	st, err := c.svc.SubmitUCI(ctx, args[0], game.PlayerID(args[1]), args[2])
	if err != nil {
		return err
	}
	c.printResult(args[0], st)
	return nil
}

type actionFunc func(ctx context.Context, id string, caller game.PlayerID) (*game.State, error)

func (c *Console) handleAction(ctx context.Context, cmd string, args []string, fn actionFunc) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s <id> <player>", cmd)
	}
	st, err := fn(ctx, args[0], game.PlayerID(args[1]))
	if err != nil {
		return err
	}
	c.printResult(args[0], st)
	return nil
}

func (c *Console) handleShow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: show <id>")
	}
	st, err := c.svc.Get(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "game %s: %s (white) vs %s (black)\n", args[0], st.White, st.Black)
	fmt.Fprint(c.out, st.Position.String())
	fmt.Fprintf(c.out, "Moves: %d\n", st.MoveCount)
	for _, color := range []board.Color{board.White, board.Black} {
		if st.DrawOffered(color) {
			fmt.Fprintf(c.out, "Draw offered by %s\n", color)
		}
	}
	fmt.Fprintf(c.out, "Status: %s\n", st.Summary())
	return nil
}

func (c *Console) handleFEN(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: fen <id>")
	}
	st, err := c.svc.Get(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, st.Position.ToFEN())
	return nil
}

func (c *Console) handleList(ctx context.Context) error {
	entries, err := c.svc.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "no games")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(c.out, "%s  %s vs %s  %s\n", e.ID, e.State.White, e.State.Black, e.State.Summary())
	}
	return nil
}

func (c *Console) handleHelp() {
	fmt.Fprintln(c.out, "commands:")
	fmt.Fprintln(c.out, "  new [id] <white> <black>")
	fmt.Fprintln(c.out, "  move <id> <player> <uci>")
	fmt.Fprintln(c.out, "  resign <id> <player>")
	fmt.Fprintln(c.out, "  offer <id> <player>")
	fmt.Fprintln(c.out, "  accept <id> <player>")
	fmt.Fprintln(c.out, "  show <id>")
	fmt.Fprintln(c.out, "  fen <id>")
	fmt.Fprintln(c.out, "  list")
	fmt.Fprintln(c.out, "  quit")
}

func (c *Console) printResult(id string, st *game.State) {
	fmt.Fprintf(c.out, "ok %s: %s\n", id, st.Summary())
}
