package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Plan    PlanCmd    `cmd:"" help:"Plan the classes of a schema description and write the model image."`
	Diff    DiffCmd    `cmd:"" help:"Compare two model images."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// Env carries the output streams to commands.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
}

type VersionCmd struct{}

func (c *VersionCmd) Run(e *Env) error {
	fmt.Fprintln(e.Stdout, Version())
	return nil
}

// exitError ends the run with a status code and no further message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// run parses args and runs the selected command. It returns the process
// exit status: 0 on success, 1 on failure or drift, 2 on usage errors.
func run(args []string, stdout, stderr io.Writer) int {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("schemaplan"),
		kong.Description("Plan generated classes from a schema description and check them for drift."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		fmt.Fprintf(stderr, "schemaplan: %v\n", err)
		return 2
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "schemaplan: %v\n", err)
		return 2
	}
	if err := ctx.Run(&Env{Stdout: stdout, Stderr: stderr}); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintf(stderr, "schemaplan: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
