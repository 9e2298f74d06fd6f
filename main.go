package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	// version is overridden at build time with -ldflags "-X main.version=...".
	version = "dev"
	// stdin is the stream interactive prompts read from.
	stdin io.Reader = os.Stdin
	// exit terminates after --help and --version.
	exit = os.Exit
)

// main is the entry point for the application.
// It delegates execution to run() and exits with a fatal error if execution fails.
func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run initializes the configuration parser, parses the arguments, sets up
// logging and executes the selected subcommand.
// It serves as the testable entry point for the application.
//
// args: The command line arguments (excluding the executable name).
// stdout: The writer to use for regular output and logging.
func run(args []string, stdout io.Writer) error {
	var cfg Config

	parser, err := kong.New(&cfg,
		kong.Name("import-helper"),
		kong.Description("Add and merge JavaScript and TypeScript import statements, resolving path aliases."),
		kong.Vars{"version": version},
		kong.Writers(stdout, io.Discard),
		kong.Exit(exit),
	)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	log.SetOutput(stdout)
	log.SetFlags(0)
	if cfg.NoColor {
		color.NoColor = true
	}
	cfg.Out = stdout
	cfg.In = stdin
	if !cfg.Interactive {
		cfg.Interactive = isTerminal(stdin)
	}

	return ctx.Run(&cfg.Globals)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// promptChooser asks the user to pick a candidate by number.
type promptChooser struct {
	in  io.Reader
	out io.Writer
	r   *bufio.Reader
}

// Choose implements importer.Chooser. An empty or unreadable answer cancels.
func (p *promptChooser) Choose(candidates []string) (int, error) {
	if p.r == nil {
		p.r = bufio.NewReader(p.in)
	}
	for i, c := range candidates {
		fmt.Fprintf(p.out, "  [%d] %s\n", i, c)
	}
	fmt.Fprint(p.out, "Select: ")

	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return -1, nil
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return -1, fmt.Errorf("invalid selection %q", line)
	}
	return n, nil
}
