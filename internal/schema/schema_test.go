package schema_test

import (
	"io"
	"reflect"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/strictmock/strictmock/internal/schema"
)

type store interface {
	Fetch(id int) (string, error)
	Put(key string, values ...int)
	Close()
}

type widget struct {
	Name  string
	Score int

	hidden bool //nolint:unused // exists to prove unexported fields are skipped
}

func (w *widget) Resize(factor float64) {}

func (w widget) Describe() string { return w.Name }

// TestIntrospect_Interface_Methods verifies interface method discovery picks
// up names, parameter types, results, and variadic flags.
func TestIntrospect_Interface_Methods(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	sch, err := schema.Introspect(reflect.TypeFor[store](), schema.Config{})

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sch.TypeName).To(Equal("store"))
	g.Expect(sch.Methods).To(HaveLen(3))

	fetch := sch.Methods["Fetch"]
	g.Expect(fetch.Params).To(HaveLen(1))
	g.Expect(fetch.Params[0].Type).To(Equal(reflect.TypeFor[int]()))
	g.Expect(fetch.Results).To(HaveLen(2))
	g.Expect(fetch.Variadic).To(BeFalse())

	put := sch.Methods["Put"]
	g.Expect(put.Variadic).To(BeTrue())
	// The variadic parameter is recorded as its element type.
	g.Expect(put.Params[1].Type).To(Equal(reflect.TypeFor[int]()))

	g.Expect(sch.Methods["Close"].Params).To(BeEmpty())
	g.Expect(sch.Methods["Close"].Results).To(BeEmpty())
}

// TestIntrospect_Struct_FieldsAndMethods verifies struct discovery sees
// exported fields and the full pointer method set, but not unexported members.
func TestIntrospect_Struct_FieldsAndMethods(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	sch, err := schema.Introspect(reflect.TypeFor[widget](), schema.Config{})

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sch.Fields).To(HaveKey("Name"))
	g.Expect(sch.Fields).To(HaveKey("Score"))
	g.Expect(sch.Fields).NotTo(HaveKey("hidden"))
	g.Expect(sch.Fields["Name"].Type).To(Equal(reflect.TypeFor[string]()))
	g.Expect(sch.Fields["Name"].Source).To(Equal(schema.SourceDeclared))

	// Value-receiver and pointer-receiver methods both appear.
	g.Expect(sch.Methods).To(HaveKey("Resize"))
	g.Expect(sch.Methods).To(HaveKey("Describe"))
}

// TestIntrospect_PointerToStruct matches the bare-struct result.
func TestIntrospect_PointerToStruct(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	sch, err := schema.Introspect(reflect.TypeFor[*widget](), schema.Config{})

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sch.TypeName).To(Equal("widget"))
	g.Expect(sch.Fields).To(HaveKey("Name"))
	g.Expect(sch.Methods).To(HaveKey("Resize"))
}

// TestIntrospect_ExtraFields verifies synthetic fields are injected untyped.
func TestIntrospect_ExtraFields(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	sch, err := schema.Introspect(reflect.TypeFor[store](), schema.Config{
		ExtraFields: []string{"Health"},
	})

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sch.Fields).To(HaveKey("Health"))
	g.Expect(sch.Fields["Health"].Type).To(BeNil())
	g.Expect(sch.Fields["Health"].Source).To(Equal(schema.SourceExtra))
}

// TestIntrospect_ReadOnlyFields verifies the read-only marker, including the
// error for unknown names.
func TestIntrospect_ReadOnlyFields(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	sch, err := schema.Introspect(reflect.TypeFor[widget](), schema.Config{
		ReadOnlyFields: []string{"Score"},
	})

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sch.Fields["Score"].ReadOnly).To(BeTrue())
	g.Expect(sch.Fields["Name"].ReadOnly).To(BeFalse())

	_, err = schema.Introspect(reflect.TypeFor[widget](), schema.Config{
		ReadOnlyFields: []string{"Nope"},
	})
	g.Expect(err).To(MatchError(ContainSubstring("no such field")))
}

// TestIntrospect_UnsupportedKinds rejects targets that are neither interfaces
// nor structs.
func TestIntrospect_UnsupportedKinds(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	for _, target := range []reflect.Type{
		reflect.TypeFor[int](),
		reflect.TypeFor[[]string](),
		reflect.TypeFor[func()](),
	} {
		_, err := schema.Introspect(target, schema.Config{})
		g.Expect(err).To(MatchError(ContainSubstring("cannot mock")), "kind %v", target.Kind())
	}

	_, err := schema.Introspect(nil, schema.Config{})
	g.Expect(err).To(HaveOccurred())
}

// TestFuncSignature verifies the patch adapter's signature extraction.
func TestFuncSignature(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	sig := schema.FuncSignature(reflect.TypeFor[func(io.Reader, ...string) (int, error)]())

	g.Expect(sig.Params).To(HaveLen(2))
	g.Expect(sig.Params[0].Type).To(Equal(reflect.TypeFor[io.Reader]()))
	g.Expect(sig.Params[1].Type).To(Equal(reflect.TypeFor[string]()))
	g.Expect(sig.Variadic).To(BeTrue())
	g.Expect(sig.Results).To(HaveLen(2))
}
