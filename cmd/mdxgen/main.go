package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdxgen/cmd/mdxgen/commands"
	ferrors "git.home.luguber.info/inful/mdxgen/internal/foundation/errors"
	"git.home.luguber.info/inful/mdxgen/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("mdxgen"),
		kong.Description("Generate MDX documentation pages from Jupyter notebooks and Python packages."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Logger: slog.Default()}, &cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
