// Package repl is the interactive terminal front end of one dashboard.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/moonandjupiter/consign-tracker/internal/app"
	"github.com/moonandjupiter/consign-tracker/internal/core"
)

var errExit = errors.New("exit")

// session is the REPL state besides the dashboard: the last suggestion batch,
// so "select 3" can refer to a numbered suggestion.
type session struct {
	ctx    context.Context
	d      *app.Dashboard
	reader *bufio.Reader
	out    io.Writer

	shown []core.Suggestion
}

// Run loads the records and reads commands from reader until exit or EOF.
// A failed initial load is reported but does not end the loop; "reload" retries.
func Run(ctx context.Context, d *app.Dashboard, reader *bufio.Reader, out io.Writer) error {
	s := &session{ctx: ctx, d: d, reader: reader, out: out}

	fmt.Fprintln(out, "Consignment Tracker")
	fmt.Fprintln(out, "Search sales reports by SR ID, C.O. number or invoice number. Type help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	vm, err := d.Load(ctx)
	PrintView(out, vm)
	if err == nil {
		fmt.Fprintf(out, "%d records loaded.\n", vm.Loaded)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, "\n> ")
		line, readErr := reader.ReadString('\n')
		input := strings.TrimSpace(line)
		if input != "" {
			if err := s.dispatch(input); err != nil {
				if errors.Is(err, errExit) {
					fmt.Fprintln(out, "Goodbye!")
					return nil
				}
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return readErr
		}
	}
}

// dispatch runs one command line. A leading slash is accepted and ignored.
func (s *session) dispatch(input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]

	switch cmd {
	case "search", "s":
		if len(args) == 0 {
			fmt.Fprintln(s.out, "Usage: search <term>")
			return nil
		}
		return s.show(s.d.Search(strings.Join(args, " ")))

	case "clear":
		PrintView(s.out, s.d.Clear())

	case "sort":
		if len(args) != 1 {
			fmt.Fprintf(s.out, "Usage: sort <column>  (%s)\n", columnList())
			return nil
		}
		return s.show(s.d.Sort(strings.ToLower(args[0])))

	case "page", "p":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "Usage: page <n>")
			return nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(s.out, "Invalid page number: %s\n", args[0])
			return nil
		}
		PrintView(s.out, s.d.GoToPage(n))

	case "next", "n":
		PrintView(s.out, s.d.NextPage())

	case "prev":
		PrintView(s.out, s.d.PrevPage())

	case "suggest":
		if len(args) == 0 {
			fmt.Fprintln(s.out, "Usage: suggest <term>")
			return nil
		}
		page, err := s.d.Suggest(strings.Join(args, " "))
		if err != nil {
			return err
		}
		s.shown = page.Items
		PrintSuggestions(s.out, page)

	case "more":
		page, ok, err := s.d.MoreSuggestions()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out, "  No more suggestions.")
			return nil
		}
		s.shown = append(s.shown, page.Items...)
		PrintSuggestions(s.out, page)

	case "select":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "Usage: select <n|co-number>")
			return nil
		}
		return s.show(s.d.SelectSuggestion(s.suggestionValue(args[0])))

	case "details", "d":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "Usage: details <co-number> <sr-id>")
			return nil
		}
		det, err := s.d.Details(args[0], args[1])
		if err != nil {
			return err
		}
		PrintDetails(s.out, det)

	case "confirm":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "Usage: confirm <co-number> <sr-id>")
			return nil
		}
		return handleConfirm(s.reader, s.out, s.d, args[0], args[1])

	case "reload":
		vm, err := s.d.Load(s.ctx)
		PrintView(s.out, vm)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%d records loaded.\n", vm.Loaded)

	case "help", "h":
		printHelp(s.out)

	case "exit", "quit", "e", "q":
		return errExit

	default:
		fmt.Fprintf(s.out, "Unknown command: %s  (type help for all commands)\n", cmd)
	}
	return nil
}

func (s *session) show(vm app.ViewModel, err error) error {
	if err != nil {
		return err
	}
	PrintView(s.out, vm)
	return nil
}

// suggestionValue resolves a suggestion number from the shown batches; any
// other argument is taken as an order number.
func (s *session) suggestionValue(arg string) string {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(s.shown) {
		return s.shown[n-1].Value
	}
	return arg
}
