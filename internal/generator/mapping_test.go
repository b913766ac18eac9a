package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/gen-mapper/internal/matcher"
	"github.com/seitarof/gen-mapper/internal/parser"
	"github.com/seitarof/gen-mapper/internal/resolver"
)

func newSynthesizer() *Synthesizer {
	return NewSynthesizer(matcher.NewFieldMatcher(resolver.New(resolver.DefaultRules()...)))
}

// mockEntity and testModel differ in field names; tags align them.
func mockEntity() *parser.RecordDescriptor {
	return &parser.RecordDescriptor{
		Package:     "example.com/app/model",
		PackageName: "model",
		Name:        "MockEntity",
		Dir:         "/src/app/model",
		Target:      "example.com/app.TestModel",
		Fields: []parser.FieldDescriptor{
			{Name: "ID", Type: builtin("int")},
			{Name: "Name222", Type: builtin("string"), Alias: "Name"},
			{Name: "Index", Type: builtin("int"), Alias: "Index222"},
		},
	}
}

func testModel(extra ...parser.FieldDescriptor) *parser.RecordDescriptor {
	return &parser.RecordDescriptor{
		Package:     "example.com/app",
		PackageName: "app",
		Name:        "TestModel",
		Dir:         "/src/app",
		Fields: append([]parser.FieldDescriptor{
			{Name: "ID", Type: builtin("int")},
			{Name: "Name", Type: builtin("string")},
			{Name: "Index222", Type: builtin("int")},
		}, extra...),
	}
}

func TestSynthesize_AliasedFields(t *testing.T) {
	set := NewImportSet()
	fn, err := newSynthesizer().Synthesize(mockEntity(), testModel(), set)
	require.NoError(t, err)

	assert.Equal(t, "MockEntityToTestModel", fn.Name)
	assert.Empty(t, fn.Result.Warnings)
	want := "// MockEntityToTestModel maps model.MockEntity onto app.TestModel.\n" +
		"func MockEntityToTestModel(src model.MockEntity) app.TestModel {\n" +
		"\treturn app.TestModel{\n" +
		"\t\tID: src.ID,\n" +
		"\t\tName: src.Name222,\n" +
		"\t\tIndex222: src.Index,\n" +
		"\t}\n" +
		"}\n"
	assert.Equal(t, want, fn.Text)

	reverse, err := newSynthesizer().Synthesize(testModel(), mockEntity(), set)
	require.NoError(t, err)
	assert.Equal(t, "TestModelToMockEntity", reverse.Name)
	assert.Contains(t, reverse.Text, "func TestModelToMockEntity(src app.TestModel) model.MockEntity {\n")
	assert.Contains(t, reverse.Text, "\t\tName222: src.Name,\n")
	assert.Contains(t, reverse.Text, "\t\tIndex: src.Index222,\n")
}

func TestSynthesize_MissingFieldBecomesParameter(t *testing.T) {
	target := testModel(parser.FieldDescriptor{Name: "Extra", Type: builtin("int")})

	fn, err := newSynthesizer().Synthesize(mockEntity(), target, NewImportSet())
	require.NoError(t, err)

	assert.Contains(t, fn.Text, "func MockEntityToTestModel(src model.MockEntity, extra int) app.TestModel {\n")
	assert.Contains(t, fn.Text, "\t\tExtra: extra,\n")
}

func TestSynthesize_DefaultedFieldIsOmitted(t *testing.T) {
	target := testModel(parser.FieldDescriptor{Name: "Extra", Type: builtin("int"), HasDefault: true})

	fn, err := newSynthesizer().Synthesize(mockEntity(), target, NewImportSet())
	require.NoError(t, err)

	assert.Contains(t, fn.Text, "(src model.MockEntity) app.TestModel")
	assert.NotContains(t, fn.Text, "Extra")
}

func TestSynthesize_ParameterNames(t *testing.T) {
	target := &parser.RecordDescriptor{
		Package:     "example.com/app",
		PackageName: "app",
		Name:        "Request",
		Fields: []parser.FieldDescriptor{
			{Name: "URLPath", Type: builtin("string")},
			{Name: "Type", Type: builtin("string")},
			{Name: "Src", Type: builtin("string")},
			{Name: "ID", Type: builtin("int")},
		},
	}
	source := &parser.RecordDescriptor{Package: "example.com/app", PackageName: "app", Name: "Empty"}

	fn, err := newSynthesizer().Synthesize(source, target, NewImportSet())
	require.NoError(t, err)

	assert.Contains(t, fn.Text, "(src app.Empty, urlPath string, typeValue string, src2 string, id int) app.Request {\n")
	assert.Contains(t, fn.Text, "\t\tType: typeValue,\n")
	assert.Contains(t, fn.Text, "\t\tSrc: src2,\n")
	require.Len(t, fn.Result.Warnings, 1, "no field of the source maps onto the target")
}

func TestSynthesize_NullableTargetTakesAddress(t *testing.T) {
	source := &parser.RecordDescriptor{Package: "example.com/app", PackageName: "app", Name: "Row",
		Fields: []parser.FieldDescriptor{{Name: "Note", Type: builtin("string")}}}
	target := &parser.RecordDescriptor{Package: "example.com/app", PackageName: "app", Name: "View",
		Fields: []parser.FieldDescriptor{{Name: "Note", Type: builtin("string").WithNullable(true)}}}

	fn, err := newSynthesizer().Synthesize(source, target, NewImportSet())
	require.NoError(t, err)
	assert.Contains(t, fn.Text, "\t\tNote: &src.Note,\n")
}

func TestSynthesize_UnresolvedMissingTypeFails(t *testing.T) {
	target := testModel(parser.FieldDescriptor{Name: "Broken", Type: parser.TypeDescriptor{Kind: parser.KindInvalid, Name: "invalid type"}})

	_, err := newSynthesizer().Synthesize(mockEntity(), target, NewImportSet())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedType)
}

func TestSynthesize_UnresolvedDefaultedTypeIsNotFatal(t *testing.T) {
	broken := parser.TypeDescriptor{Kind: parser.KindNamed, Package: "example.com/app", Name: "Box", Arguments: []parser.TypeArgument{{}}}
	source := &parser.RecordDescriptor{Package: "example.com/app", PackageName: "app", Name: "A",
		Fields: []parser.FieldDescriptor{{Name: "Box", Type: broken}}}
	target := &parser.RecordDescriptor{Package: "example.com/app", PackageName: "app", Name: "B",
		Fields: []parser.FieldDescriptor{{Name: "Box", Type: broken, HasDefault: true}}}

	_, err := newSynthesizer().Synthesize(source, target, NewImportSet())
	assert.NoError(t, err)
}

// zoo: Dog embeds Mammal, which implements Animal.
func dog() parser.TypeDescriptor {
	animal := named("example.com/zoo", "zoo", "Animal")
	mammal := named("example.com/zoo", "zoo", "Mammal")
	mammal.Supertypes = []parser.TypeDescriptor{animal}
	d := named("example.com/zoo", "zoo", "Dog")
	d.Supertypes = []parser.TypeDescriptor{mammal}
	return d
}

func shelter() *parser.RecordDescriptor {
	animal := named("example.com/zoo", "zoo", "Animal")
	return &parser.RecordDescriptor{
		Package:        "example.com/app",
		PackageName:    "app",
		Name:           "Shelter",
		TypeParameters: []parser.TypeParameterDescriptor{{Name: "T", Bound: &animal}},
		Fields: []parser.FieldDescriptor{
			{Name: "Pet", Type: typeParam("T")},
			{Name: "Label", Type: builtin("string")},
		},
	}
}

func kennel() *parser.RecordDescriptor {
	return &parser.RecordDescriptor{
		Package:     "example.com/app",
		PackageName: "app",
		Name:        "Kennel",
		Fields:      []parser.FieldDescriptor{{Name: "Pet", Type: dog()}},
	}
}

func TestSynthesize_GenericBoundCoercion(t *testing.T) {
	set := NewImportSet()
	fn, err := newSynthesizer().Synthesize(kennel(), shelter(), set)
	require.NoError(t, err)

	assert.Contains(t, fn.Text, "func KennelToShelter[T zoo.Animal](src app.Kennel, label string) app.Shelter[T] {\n")
	assert.Contains(t, fn.Text, "\treturn app.Shelter[T]{\n")
	assert.Contains(t, fn.Text, "\t\tPet: any(zoo.Animal(src.Pet)).(T),\n")
	assert.Equal(t, "import (\n\t\"example.com/app\"\n\t\"example.com/zoo\"\n)\n\n", set.Format())
	assert.True(t, set.HasTypeParameters())
}

func TestSynthesize_UnboundedParameterIsAny(t *testing.T) {
	target := shelter()
	target.Fields = target.Fields[:1]
	target.TypeParameters[0].Bound = nil

	source := kennel()
	source.Fields = []parser.FieldDescriptor{{Name: "Pet", Type: builtin("string")}}

	fn, err := newSynthesizer().Synthesize(source, target, NewImportSet())
	require.NoError(t, err)
	assert.Contains(t, fn.Text, "func KennelToShelter[T any](src app.Kennel) app.Shelter[T] {\n")
	assert.Contains(t, fn.Text, "\t\tPet: any(src.Pet).(T),\n")
}

func TestSynthesize_BoundKeptWithoutMissingFields(t *testing.T) {
	target := shelter()
	target.Fields = target.Fields[:1]

	fn, err := newSynthesizer().Synthesize(kennel(), target, NewImportSet())
	require.NoError(t, err)
	assert.Contains(t, fn.Text, "func KennelToShelter[T zoo.Animal](src app.Kennel) app.Shelter[T] {\n")
	assert.Contains(t, fn.Text, "\t\tPet: any(zoo.Animal(src.Pet)).(T),\n")
}

func TestSynthesize_PointerSlotAssertsAddress(t *testing.T) {
	target := shelter()
	target.Name = "Foster"
	target.Fields = []parser.FieldDescriptor{{Name: "Pet", Type: typeParam("T").WithNullable(true)}}

	fn, err := newSynthesizer().Synthesize(kennel(), target, NewImportSet())
	require.NoError(t, err)
	assert.Contains(t, fn.Text, "func KennelToFoster[T zoo.Animal](src app.Kennel) app.Foster[T] {\n")
	assert.Contains(t, fn.Text, "\t\tPet: any(&src.Pet).(*T),\n")
	assert.NotContains(t, fn.Text, "(*zoo.Animal)")
}

func TestSynthesize_GenericSourceUsesFirstBound(t *testing.T) {
	fn, err := newSynthesizer().Synthesize(shelter(), kennel(), NewImportSet())
	require.NoError(t, err)

	assert.Contains(t, fn.Text, "func ShelterToKennel(src app.Shelter[zoo.Animal], pet zoo.Dog) app.Kennel {\n")
	assert.NotEmpty(t, fn.Result.Warnings)
}

func TestLowerCamel(t *testing.T) {
	tests := map[string]string{
		"Extra":   "extra",
		"ID":      "id",
		"URLPath": "urlPath",
		"UserID":  "userID",
		"x":       "x",
	}
	for in, want := range tests {
		assert.Equal(t, want, lowerCamel(in), in)
	}
}
