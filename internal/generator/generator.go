package generator

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/imports"

	"github.com/seitarof/gen-mapper/internal/matcher"
)

//go:embed templates/*.go.tmpl
var templateFS embed.FS

// Generator renders the mapping file of one record pair.
type Generator interface {
	Generate(pair matcher.StructPair) (*File, error)
}

// Formatter formats generated Go code and organizes imports.
type Formatter interface {
	Format(filename string, src []byte) ([]byte, error)
}

// FileWriter writes generated code.
type FileWriter interface {
	Write(filename string, data []byte) error
}

// File is one generated mapping file.
type File struct {
	Placement Placement
	Functions []*Function
	Warnings  []matcher.Warning
	Content   []byte
}

type generatorImpl struct {
	synth      *Synthesizer
	formatter  Formatter
	writer     FileWriter
	annotation string
	tmpl       *template.Template
}

type goimportsFormatter struct{}

type fileWriter struct{}

type streamWriter struct {
	mu  sync.Mutex
	out io.Writer
}

type templateData struct {
	Package string
	Generic bool
	Imports string
	Body    string
}

// New creates a code generator. Files are placed in the sub-package named
// after annotation.
func New(s *Synthesizer, f Formatter, w FileWriter, annotation string) Generator {
	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.go.tmpl"))
	return &generatorImpl{
		synth:      s,
		formatter:  f,
		writer:     w,
		annotation: annotation,
		tmpl:       tmpl,
	}
}

// NewGoimportsFormatter creates a formatter backed by goimports.
func NewGoimportsFormatter() Formatter {
	return &goimportsFormatter{}
}

// NewFileWriter creates a writer that creates missing directories.
func NewFileWriter() FileWriter {
	return &fileWriter{}
}

// NewStreamWriter creates a writer that prints every file to out, preceded
// by its path. It is safe for concurrent use.
func NewStreamWriter(out io.Writer) FileWriter {
	return &streamWriter{out: out}
}

// Generate synthesizes both directions of pair into the file owned by the
// annotated record. Nothing is written if either direction fails.
func (g *generatorImpl) Generate(pair matcher.StructPair) (*File, error) {
	if pair.Src == nil || pair.Dst == nil {
		return nil, errors.New("incomplete record pair")
	}

	set := NewImportSet()
	file := &File{Placement: PlacementFor(pair.Src, g.annotation)}

	forward, err := g.synth.Synthesize(pair.Src, pair.Dst, set)
	if err != nil {
		return nil, errors.Wrapf(err, "map %s to %s", pair.Src.QualifiedName(), pair.Dst.QualifiedName())
	}
	file.Functions = append(file.Functions, forward)

	if pair.Src.QualifiedName() != pair.Dst.QualifiedName() {
		reverse, err := g.synth.Synthesize(pair.Dst, pair.Src, set)
		if err != nil {
			return nil, errors.Wrapf(err, "map %s to %s", pair.Dst.QualifiedName(), pair.Src.QualifiedName())
		}
		file.Functions = append(file.Functions, reverse)
	}

	texts := make([]string, 0, len(file.Functions))
	for _, fn := range file.Functions {
		texts = append(texts, fn.Text)
		file.Warnings = append(file.Warnings, fn.Result.Warnings...)
	}

	data := templateData{
		Package: file.Placement.PackageName,
		Generic: set.HasTypeParameters(),
		Imports: set.Format(),
		Body:    strings.TrimSuffix(strings.Join(texts, "\n"), "\n"),
	}
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "mapper.go.tmpl", data); err != nil {
		return nil, errors.Wrap(err, "template")
	}

	path := file.Placement.Path()
	formatted, err := g.formatter.Format(path, buf.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "format %s", path)
	}
	file.Content = formatted
	if err := g.writer.Write(path, formatted); err != nil {
		return nil, errors.Wrapf(err, "write %s", path)
	}
	return file, nil
}

func (f *goimportsFormatter) Format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}

func (w *fileWriter) Write(filename string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

func (w *streamWriter) Write(filename string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.out, "// file: %s\n", filename); err != nil {
		return err
	}
	_, err := w.out.Write(data)
	return err
}
