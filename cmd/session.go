// =============================================================================
// Billing Ledger - Session Command
// =============================================================================
//
// This file defines the 'session' command, which runs a sequence of actions
// against a single loaded ledger and saves it once at the end. It is the way
// to create clients and bills in a csv ledger, which only stores rows for
// products.
//
// COMMAND USAGE:
//   billing session [script]       Read actions from a file or stdin
//
// SCRIPT FORMAT (one action per line, "#" starts a comment):
//   client add Acme
//   bill add Acme "2024-01-01 10:00:00"
//   product add Acme "2024-01-01 10:00:00" Widget 9.99
//   show
//   export Acme "2024-01-01 10:00:00"
//   quit
//
// A failed action is reported with its line number and skipped. The ledger
// is still saved at the end, and the command then exits with an error.
//
// =============================================================================

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/billing-ledger/internal/ledger"
)

var sessionCmd = &cobra.Command{
	Use:   "session [script]",
	Short: "Run several actions against one loaded ledger",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSession,
}

// =============================================================================
// ACTIONS
// =============================================================================

// sessionAction is one verb accepted in a session script.
type sessionAction struct {
	usage   string
	minArgs int
	maxArgs int
	run     func(store *ledger.Store, out io.Writer, args []string) error
}

var sessionActions = map[string]sessionAction{
	"client add": {
		usage: "client add <name>", minArgs: 1, maxArgs: 1,
		run: func(store *ledger.Store, out io.Writer, args []string) error {
			c, err := addClient(store, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, c.Name())
			return nil
		},
	},
	"client list": {
		usage: "client list",
		run: func(store *ledger.Store, out io.Writer, args []string) error {
			for _, c := range store.Clients() {
				fmt.Fprintln(out, c.Name())
			}
			return nil
		},
	},
	"bill add": {
		usage: "bill add <client> [timestamp]", minArgs: 1, maxArgs: 2,
		run: func(store *ledger.Store, out io.Writer, args []string) error {
			stamp := ""
			if len(args) == 2 {
				stamp = args[1]
			}
			b, err := addBill(store, args[0], stamp)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, b)
			return nil
		},
	},
	"bill list": {
		usage: "bill list <client>", minArgs: 1, maxArgs: 1,
		run: func(store *ledger.Store, out io.Writer, args []string) error {
			client, err := store.Client(args[0])
			if err != nil {
				return err
			}
			for _, b := range client.Bills() {
				fmt.Fprintln(out, b)
			}
			return nil
		},
	},
	"product add": {
		usage: "product add <client> <timestamp> <name> <price>", minArgs: 4, maxArgs: 4,
		run: func(store *ledger.Store, out io.Writer, args []string) error {
			p, err := addProduct(store, args[0], args[1], args[2], args[3])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, p)
			return nil
		},
	},
	"show": {
		usage: "show",
		run: func(store *ledger.Store, out io.Writer, args []string) error {
			writeTree(out, store)
			return nil
		},
	},
	"export": {
		usage: "export <client> <timestamp> [output]", minArgs: 2, maxArgs: 3,
		run: func(store *ledger.Store, out io.Writer, args []string) error {
			output := ""
			if len(args) == 3 {
				output = args[2]
			}
			written, err := exportBill(store, args[0], args[1], output)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, written)
			return nil
		},
	},
}

// =============================================================================
// SCRIPT EXECUTION
// =============================================================================

func runSession(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	var failures int
	err := withLedger(cmd, true, func(store *ledger.Store) error {
		var err error
		failures, err = runScript(in, cmd.OutOrStdout(), cmd.ErrOrStderr(), store)
		return err
	})
	if err != nil {
		return err
	}
	if failures > 0 {
		return fmt.Errorf("%d session action(s) failed", failures)
	}
	return nil
}

// runScript executes each line of r against store. It returns the number of
// failed actions; the error is reserved for reading r.
func runScript(r io.Reader, out, errOut io.Writer, store *ledger.Store) (int, error) {
	failures := 0
	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields, err := splitFields(line)
		if err == nil {
			if fields[0] == "quit" || fields[0] == "exit" {
				break
			}
			err = runAction(store, out, fields)
		}
		if err != nil {
			failures++
			fmt.Fprintf(errOut, "Error: line %d: %v\n", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return failures, fmt.Errorf("failed to read session input: %w", err)
	}
	return failures, nil
}

func runAction(store *ledger.Store, out io.Writer, fields []string) error {
	var (
		action sessionAction
		args   []string
		ok     bool
	)
	if len(fields) > 1 {
		action, ok = sessionActions[fields[0]+" "+fields[1]]
		args = fields[2:]
	}
	if !ok {
		action, ok = sessionActions[fields[0]]
		args = fields[1:]
	}
	if !ok {
		return fmt.Errorf("unknown action %q", strings.Join(fields, " "))
	}

	if len(args) < action.minArgs || len(args) > action.maxArgs {
		return fmt.Errorf("usage: %s", action.usage)
	}
	return action.run(store, out, args)
}

// splitFields splits a script line on whitespace. Double quotes group words
// into one field and may produce an empty field.
func splitFields(line string) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
		inField bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inField = true
		case unicode.IsSpace(r) && !quoted:
			if inField {
				fields = append(fields, current.String())
				current.Reset()
				inField = false
			}
		default:
			current.WriteRune(r)
			inField = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inField {
		fields = append(fields, current.String())
	}
	return fields, nil
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
