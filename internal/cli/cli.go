package cli

import (
	"go/token"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"

	"github.com/seitarof/gen-mapper/internal/parser"
)

const defaultConcurrency = 4

// ParseArgs parses command line arguments into Config.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	var manifestsRaw string

	fs := pflag.NewFlagSet("gen-mapper", pflag.ContinueOnError)
	fs.StringVarP(&manifestsRaw, "manifest", "m", "", "comma-separated YAML descriptor manifests to read instead of packages")
	fs.StringVarP(&cfg.Annotation, "annotation", "a", parser.DefaultAnnotation, "annotation name; selects the directive, output package and file suffix")
	fs.StringVar(&cfg.OutDir, "out-dir", ".", "base directory for manifest records without a dir")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "print generated files to stdout instead of writing them")
	fs.IntVarP(&cfg.Concurrency, "concurrency", "j", defaultConcurrency, "number of records generated in parallel")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "enable info and debug logging")
	fs.BoolVar(&cfg.Dump, "dump", false, "dump matched record descriptors at debug level")
	fs.BoolVarP(&cfg.ShowVersion, "version", "v", false, "show version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.ShowVersion {
		return cfg, nil
	}

	cfg.Patterns = fs.Args()
	cfg.Manifests = splitCommaList(manifestsRaw)
	if len(cfg.Manifests) > 0 && len(cfg.Patterns) > 0 {
		return nil, errors.New("package patterns and --manifest are mutually exclusive")
	}
	if len(cfg.Manifests) == 0 && len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{"./..."}
	}

	cfg.Annotation = strings.TrimSpace(cfg.Annotation)
	if !token.IsIdentifier(cfg.Annotation) || !token.IsExported(cfg.Annotation) {
		return nil, errors.WithHint(
			errors.Newf("--annotation %q is not an exported Go identifier", cfg.Annotation),
			"it names the generated files, e.g. Mapper produces <Record>Mapper.go",
		)
	}
	if cfg.Concurrency < 1 {
		return nil, errors.Newf("--concurrency must be positive, got %d", cfg.Concurrency)
	}
	if cfg.Dump {
		cfg.Verbose = true
	}
	return cfg, nil
}

func splitCommaList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
