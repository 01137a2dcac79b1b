package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/spf13/pflag"

	"github.com/gerunddev/roampages/internal/parser"
	"github.com/gerunddev/roampages/internal/styles"
)

// Output modes of the parse command
const (
	dumpTree   = "tree"
	dumpPlain  = "plain"
	dumpMarkup = "markup"
)

// Parse prints how block text is parsed. Text comes from the arguments or,
// when there are none, from stdin.
func Parse(args []string) {
	var (
		plain  bool
		markup bool
	)

	flags := pflag.NewFlagSet("parse", pflag.ExitOnError)
	flags.BoolVarP(&plain, "plain", "p", false, "Print the plain text of the block")
	flags.BoolVarP(&markup, "markup", "m", false, "Print the block re-serialized as Roam markup")
	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: roampages parse [flags] [text...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no text is given, it is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}
	_ = flags.Parse(args)

	text := strings.Join(flags.Args(), " ")
	if flags.NArg() == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Println(styles.ErrorStyle.Render("✗ Error reading stdin: " + err.Error()))
			os.Exit(1)
		}
		text = strings.TrimSuffix(string(data), "\n")
	}

	mode := dumpTree
	switch {
	case plain:
		mode = dumpPlain
	case markup:
		mode = dumpMarkup
	}

	pp.ColoringEnabled = isTerminal(os.Stdout)
	if err := dump(os.Stdout, text, mode); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}
}

// dump parses text and writes it to w in the given mode
func dump(w io.Writer, text, mode string) error {
	if err := parser.Validate(text); err != nil {
		return err
	}
	exprs := parser.Parse(text)

	switch mode {
	case dumpPlain:
		_, err := fmt.Fprintln(w, parser.PlainText(exprs))
		return err
	case dumpMarkup:
		_, err := fmt.Fprintln(w, parser.Markup(exprs))
		return err
	default:
		_, err := fmt.Fprint(w, pp.Sprintln(exprs))
		return err
	}
}
