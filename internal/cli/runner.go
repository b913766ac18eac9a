package cli

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seitarof/gen-mapper/internal/generator"
	"github.com/seitarof/gen-mapper/internal/logging"
	"github.com/seitarof/gen-mapper/internal/matcher"
	"github.com/seitarof/gen-mapper/internal/parser"
)

// Runner orchestrates parser/matcher/generator layers.
type Runner interface {
	Run(cfg *Config) error
}

type runnerImpl struct {
	parser      parser.Parser
	structMatch matcher.StructMatcher
	generator   generator.Generator
	log         *zap.SugaredLogger
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	MaxDepth:                6,
}

// NewRunner creates a default runner implementation.
func NewRunner(
	p parser.Parser,
	sm matcher.StructMatcher,
	g generator.Generator,
	log *zap.SugaredLogger,
) Runner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &runnerImpl{
		parser:      p,
		structMatch: sm,
		generator:   g,
		log:         log,
	}
}

// Run executes a single generation pass. A failing record is logged and
// skipped; the pass fails once every other record has been processed.
func (r *runnerImpl) Run(cfg *Config) error {
	u, err := r.parser.Parse(cfg.Inputs()...)
	if err != nil {
		return errors.Wrap(err, "parse")
	}

	var failures []error
	for _, problem := range u.Problems {
		r.logFailure("skipping declaration", problem)
		failures = append(failures, problem)
	}

	pairs, errs := r.structMatch.MatchStructs(u)
	for _, err := range errs {
		r.logFailure("skipping record", err)
		failures = append(failures, err)
	}
	if len(pairs) == 0 && len(failures) == 0 {
		r.log.Infow("no annotated records found", logging.FieldPatterns, cfg.Inputs())
		return nil
	}
	if cfg.Dump {
		r.log.Debugf("matched records:\n%s", dumper.Sdump(pairs))
	}

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(max(cfg.Concurrency, 1))
	for _, pair := range pairs {
		// Records are independent: a failure is collected, never returned,
		// so it cannot cancel the rest of the batch.
		eg.Go(func() error {
			file, err := r.generator.Generate(pair)
			if err != nil {
				r.logFailure("skipping record", err, logging.FieldRecord, pair.Src.QualifiedName())
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return nil
			}
			for _, w := range file.Warnings {
				r.log.Warnw(w.Message,
					logging.FieldRecord, w.Record,
					logging.FieldField, w.Field,
					logging.FieldTarget, pair.Dst.QualifiedName(),
				)
			}
			r.log.Infow("generated",
				logging.FieldRecord, pair.Src.QualifiedName(),
				logging.FieldFile, file.Placement.Path(),
				logging.FieldCount, len(file.Functions),
			)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	if len(failures) == 0 {
		return nil
	}
	var combined error
	for _, err := range failures {
		combined = errors.CombineErrors(combined, err)
	}
	return errors.Wrapf(combined, "%d declaration(s) could not be processed", len(failures))
}

func (r *runnerImpl) logFailure(msg string, err error, keysAndValues ...any) {
	keysAndValues = append(keysAndValues, zap.Error(err))
	if hint := errors.FlattenHints(err); hint != "" {
		keysAndValues = append(keysAndValues, "hint", hint)
	}
	r.log.Errorw(msg, keysAndValues...)
}
