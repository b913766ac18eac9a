package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"

	"github.com/seitarof/gen-mapper/internal/cli"
	"github.com/seitarof/gen-mapper/internal/generator"
	"github.com/seitarof/gen-mapper/internal/logging"
	"github.com/seitarof/gen-mapper/internal/matcher"
	"github.com/seitarof/gen-mapper/internal/parser"
	"github.com/seitarof/gen-mapper/internal/resolver"
)

var version = "dev"

func main() {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "gen-mapper:", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		os.Exit(2)
	}
	if cfg.ShowVersion {
		fmt.Println(version)
		return
	}

	log := logging.New(cfg.Verbose)
	defer func() { _ = log.Sync() }()

	var p parser.Parser = parser.New(cfg.Annotation)
	if len(cfg.Manifests) > 0 {
		p = parser.NewManifest(cfg.OutDir)
	}

	fm := matcher.NewFieldMatcher(resolver.New(resolver.DefaultRules()...))
	var w generator.FileWriter = generator.NewFileWriter()
	if cfg.DryRun {
		w = generator.NewStreamWriter(os.Stdout)
	}
	g := generator.New(generator.NewSynthesizer(fm), generator.NewGoimportsFormatter(), w, cfg.Annotation)

	runner := cli.NewRunner(p, matcher.NewStructMatcher(), g, log)
	if err := runner.Run(cfg); err != nil {
		log.Errorw("generation failed", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
}
