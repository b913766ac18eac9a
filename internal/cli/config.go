package cli

// Config stores CLI options for a single generation run.
type Config struct {
	// Patterns are the go/packages patterns scanned for annotated records.
	Patterns []string

	// Manifests replace package loading with YAML descriptor snapshots.
	Manifests []string

	Annotation  string
	OutDir      string
	DryRun      bool
	Concurrency int
	Verbose     bool
	Dump        bool
	ShowVersion bool
}

// Inputs returns what the parser should read: manifests when given,
// package patterns otherwise.
func (c *Config) Inputs() []string {
	if len(c.Manifests) > 0 {
		return c.Manifests
	}
	return c.Patterns
}
