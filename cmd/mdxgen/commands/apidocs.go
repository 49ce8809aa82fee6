package commands

import (
	"fmt"

	"git.home.luguber.info/inful/mdxgen/internal/batch"
	"git.home.luguber.info/inful/mdxgen/internal/config"
)

// APIDocsCmd implements the 'apidocs' command.
type APIDocsCmd struct {
	SourceDir     string   `name:"source-dir" help:"Override apidocs.source_dir"`
	OutputDir     string   `name:"output-dir" short:"o" help:"Override apidocs.output_dir"`
	Packages      []string `name:"package" short:"p" help:"Package to document (repeatable); replaces apidocs.packages"`
	NoVerifyLinks bool     `name:"no-verify-links" help:"Skip checking the links of generated index pages"`
}

func (a *APIDocsCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	a.apply(cfg)

	ctx, cancel := runContext()
	defer cancel()

	sink := newMetricsSink(root, cfg)
	defer sink.Flush(ctx)

	report, err := batch.RunAPIDocs(ctx, batch.APIDocsJob{
		SourceDir:   cfg.APIDocs.SourceDir,
		OutputDir:   cfg.APIDocs.OutputDir,
		Packages:    cfg.APIDocs.Packages,
		Extension:   cfg.Output.Extension,
		VerifyLinks: cfg.APIDocs.VerifyLinks,
		Render:      renderOptions(cfg),
		Metrics:     sink.Recorder(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("API documentation generated in %s (%d pages)\n", cfg.APIDocs.OutputDir, len(report.Generated))
	return nil
}

func (a *APIDocsCmd) apply(cfg *config.Config) {
	if a.SourceDir != "" {
		cfg.APIDocs.SourceDir = a.SourceDir
	}
	if a.OutputDir != "" {
		cfg.APIDocs.OutputDir = a.OutputDir
	}
	if len(a.Packages) > 0 {
		cfg.APIDocs.Packages = a.Packages
	}
	if a.NoVerifyLinks {
		cfg.APIDocs.VerifyLinks = false
	}
}
