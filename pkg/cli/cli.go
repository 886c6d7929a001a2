// Package cli implements the typelattice command line: parse two type
// expressions and report their meet, join, overlap or narrowing result.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/v-danh/typelattice/internal/config"
	"github.com/v-danh/typelattice/internal/lattice"
	"github.com/v-danh/typelattice/internal/types"
)

const usage = `Usage: typelattice [options] <command> <type> <type>

Commands:
  meet      greatest lower bound of the two types
  join      least upper bound of the two types
  overlap   whether some value could have both types
  narrow    restrict the first type by the second as evidence

Options:
  --config <path>        read settings from a YAML file
  --no-strict-optional   treat None as compatible with everything
  --ignore-promotions    disable implicit numeric promotions
  --verbose              print the session id and settings to stderr

Types are written in the usual surface syntax, e.g.:
  typelattice meet 'Union[int, str]' 'int'
  typelattice overlap 'Tuple[int, ...]' 'Tuple[int, int]'
  typelattice narrow 'Optional[str]' 'str'
`

// Run executes the command line and returns the process exit code. Output
// goes to stdout, diagnostics to stderr.
func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr, isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

func run(args []string, stdout, stderr io.Writer, color bool) int {
	ses := config.Default()
	verbose := false

	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--no-strict-optional":
			ses.StrictOptional = false
		case "--ignore-promotions":
			ses.IgnorePromotions = true
		case "--verbose":
			verbose = true
		case "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(stderr, "--config needs a path")
				return 2
			}
			loaded, err := config.Load(args[i+1])
			if err != nil {
				fmt.Fprintln(stderr, err)
				return 2
			}
			ses = loaded
			i++
		case "-help", "--help", "help":
			fmt.Fprint(stdout, usage)
			return 0
		default:
			rest = append(rest, args[i])
		}
	}

	if len(rest) != 3 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	command := rest[0]

	if verbose {
		fmt.Fprintf(stderr, "session %s strict_optional=%v ignore_promotions=%v\n",
			ses.ID, ses.StrictOptional, ses.IgnorePromotions)
	}

	builtins := types.NewBuiltins()
	left, err := ParseType(rest[1], builtins)
	if err != nil {
		fmt.Fprintf(stderr, "bad type %q: %v\n", rest[1], err)
		return 2
	}
	right, err := ParseType(rest[2], builtins)
	if err != nil {
		fmt.Fprintf(stderr, "bad type %q: %v\n", rest[2], err)
		return 2
	}

	switch command {
	case "meet":
		printType(stdout, lattice.Meet(ses, left, right), color)
	case "join":
		printType(stdout, lattice.Join(ses, left, right), color)
	case "narrow":
		printType(stdout, lattice.Narrow(ses, left, right), color)
	case "overlap":
		ok := lattice.Overlaps(ses, left, right, ses.IgnorePromotions, false)
		printBool(stdout, ok, color)
		if !ok {
			return 1
		}
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", command, usage)
		return 2
	}
	return 0
}

const (
	colorCyan  = "\033[36m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

func printType(w io.Writer, t types.Type, color bool) {
	if color {
		fmt.Fprintf(w, "%s%s%s\n", colorCyan, t, colorReset)
		return
	}
	fmt.Fprintln(w, t)
}

func printBool(w io.Writer, ok bool, color bool) {
	text, tint := "no overlap", colorRed
	if ok {
		text, tint = "overlap", colorGreen
	}
	if color {
		fmt.Fprintf(w, "%s%s%s\n", tint, text, colorReset)
		return
	}
	fmt.Fprintln(w, text)
}
