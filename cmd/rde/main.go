package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/automaxprocs/maxprocs"

	"git.home.luguber.info/inful/rde/cmd/rde/commands"
	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("rde"),
		kong.Description("Static documentation site generator for RDE frameworks and starter kits."),
		kong.UsageOnError(),
	)

	// maxprocs.Set only fails on an invalid GOMAXPROCS; runtime defaults apply then.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		slog.Debug(fmt.Sprintf(format, args...))
	}))

	err := parser.Run(&commands.Global{Logger: slog.Default(), Stdout: os.Stdout}, cli)
	foundationerrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
