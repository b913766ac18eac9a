package cli

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/seitarof/gen-mapper/internal/generator"
	"github.com/seitarof/gen-mapper/internal/matcher"
	"github.com/seitarof/gen-mapper/internal/parser"
	"github.com/seitarof/gen-mapper/internal/resolver"
)

type passthroughFormatter struct{}

func (passthroughFormatter) Format(_ string, src []byte) ([]byte, error) { return src, nil }

type memoryWriter struct {
	mu    sync.Mutex
	files map[string]string
}

func (w *memoryWriter) Write(filename string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[filepath.Base(filename)] = string(data)
	return nil
}

func newPipeline(p parser.Parser, f generator.Formatter, w generator.FileWriter) Runner {
	fm := matcher.NewFieldMatcher(resolver.New(resolver.DefaultRules()...))
	g := generator.New(generator.NewSynthesizer(fm), f, w, parser.DefaultAnnotation)
	return NewRunner(p, matcher.NewStructMatcher(), g, nil)
}

func TestRunner_Run_GeneratesBidirectionalMappers(t *testing.T) {
	w := &memoryWriter{files: map[string]string{}}
	runner := newPipeline(parser.New(parser.DefaultAnnotation), generator.NewGoimportsFormatter(), w)

	err := runner.Run(&Config{
		Patterns:    []string{"github.com/seitarof/gen-mapper/testdata/parserbasic"},
		Concurrency: 2,
	})
	require.Error(t, err, "Color, Orphan and Dangling cannot be processed")
	assert.Contains(t, err.Error(), "3 declaration(s)")

	require.Contains(t, w.files, "UserMapper.go")
	require.Contains(t, w.files, "SnapshotMapper.go")

	user := w.files["UserMapper.go"]
	assert.True(t, strings.HasPrefix(user, "// Code generated by gen-mapper. DO NOT EDIT."))
	assert.Contains(t, user, "package mapper")
	assert.Contains(t, user, "func UserToUserRow(src parserbasic.User, extra int, self *parsernested.UserRow) parsernested.UserRow {")
	assert.Contains(t, user, "func UserRowToUser(src parsernested.UserRow, profile parserbasic.Profile, ptr *parserbasic.Profile, scores map[string]int) parserbasic.User {")
	assert.Contains(t, user, "src.FullName,")
	assert.NotContains(t, user, "Note:")

	snapshot := w.files["SnapshotMapper.go"]
	assert.Contains(t, snapshot, "func SnapshotToProfile(src parserbasic.Snapshot) parserbasic.Profile {")
	assert.Contains(t, snapshot, "func ProfileToSnapshot(src parserbasic.Profile) parserbasic.Snapshot {")
}

func TestRunner_Run_Manifest(t *testing.T) {
	w := &memoryWriter{files: map[string]string{}}
	runner := newPipeline(parser.NewManifest("gen"), passthroughFormatter{}, w)

	err := runner.Run(&Config{
		Manifests:   []string{filepath.Join("..", "..", "testdata", "manifest", "records.yaml")},
		Concurrency: 1,
	})
	require.NoError(t, err)

	entity := w.files["MockEntityMapper.go"]
	assert.Contains(t, entity, "func MockEntityToTestModel(src model.MockEntity, extra int) app.TestModel {")
	assert.Contains(t, entity, "\t\tName: src.Name222,\n")
	assert.Contains(t, entity, "\t\tIndex222: src.Index,\n")
	assert.Contains(t, entity, "\t\tExtra: extra,\n")
	assert.Contains(t, entity, "func TestModelToMockEntity(src app.TestModel) model.MockEntity {")

	kennel := w.files["KennelMapper.go"]
	assert.Contains(t, kennel, "//nolint:forcetypeassert\npackage mapper")
	assert.Contains(t, kennel, "func KennelToShelter[T zoo.Animal](src app.Kennel) app.Shelter[T] {")
	assert.Contains(t, kennel, "\t\tPet: any(zoo.Animal(src.Pet)).(T),\n")
	assert.Contains(t, kennel, "func ShelterToKennel(src app.Shelter[zoo.Animal], pet zoo.Dog) app.Kennel {")
	assert.NotContains(t, kennel, "Tags")
}

func TestRunner_Run_GeneratedCodeTypeChecks(t *testing.T) {
	basic := &memoryWriter{files: map[string]string{}}
	err := newPipeline(parser.New(""), generator.NewGoimportsFormatter(), basic).Run(&Config{
		Patterns:    []string{"github.com/seitarof/gen-mapper/testdata/parserbasic"},
		Concurrency: 2,
	})
	require.Error(t, err, "Color, Orphan and Dangling cannot be processed")

	embed := &memoryWriter{files: map[string]string{}}
	err = newPipeline(parser.New(""), generator.NewGoimportsFormatter(), embed).Run(&Config{
		Patterns:    []string{"github.com/seitarof/gen-mapper/testdata/parserembed"},
		Concurrency: 2,
	})
	require.NoError(t, err)

	kennel := embed.files["KennelMapper.go"]
	assert.Contains(t, kennel, "func KennelToShelter[T parserembed.Animal](src parserembed.Kennel, label string) parserembed.Shelter[T] {")
	assert.Contains(t, kennel, "any(parserembed.Animal(src.Pet)).(T)")

	cage := embed.files["CageMapper.go"]
	assert.Contains(t, cage, "func CageToFoster[T parserembed.Animal](src parserembed.Cage) parserembed.Foster[T] {")
	assert.Contains(t, cage, "any(&src.Pet).(*T)")
	assert.Contains(t, cage, "func FosterToCage(src parserembed.Foster[parserembed.Animal], pet parserembed.Dog) parserembed.Cage {")

	typeCheck(t, map[string]map[string]string{
		"basic": basic.files,
		"embed": embed.files,
	})
}

// typeCheck writes each set of generated files into its own package under
// testdata and fails on any load or type error.
func typeCheck(t *testing.T, sets map[string]map[string]string) {
	t.Helper()

	root, err := os.MkdirTemp(filepath.Join("..", "..", "testdata"), "typecheck")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(root) })
	root, err = filepath.Abs(root)
	require.NoError(t, err)

	patterns := make([]string, 0, len(sets))
	for sub, files := range sets {
		require.NotEmpty(t, files, sub)
		dir := filepath.Join(root, sub)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		for name, content := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
		}
		patterns = append(patterns, "./"+sub)
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Dir:  root,
	}, patterns...)
	require.NoError(t, err)
	require.Len(t, pkgs, len(sets))
	for _, pkg := range pkgs {
		assert.Equal(t, "mapper", pkg.Name)
		for _, e := range pkg.Errors {
			t.Errorf("%s: %v", pkg.PkgPath, e)
		}
	}
}
