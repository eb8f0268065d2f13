// Package schema discovers the mockable members of a target type.
//
// The interception engine consumes the result as a read-only map from member
// name to signature descriptor; it never inspects target types itself.
package schema

import (
	"fmt"
	"reflect"
)

// Source indicates how a field was discovered.
type Source int

const (
	// SourceDeclared marks a field found on the target type itself.
	SourceDeclared Source = iota
	// SourceExtra marks a synthetic field supplied by the caller.
	SourceExtra
)

// Param is one parameter of a member signature.
type Param struct {
	Name string
	Type reflect.Type // nil when the type is unknown (extra fields)
}

// Signature is the immutable shape of a member: parameters, results, and
// whether the final parameter is variadic.
type Signature struct {
	Params   []Param
	Results  []reflect.Type
	Variadic bool
}

// Field describes a mockable field member.
type Field struct {
	Name     string
	Type     reflect.Type // nil for extra fields
	ReadOnly bool
	Source   Source
}

// Schema holds the discovered members of a target type.
type Schema struct {
	TypeName string
	Methods  map[string]Signature
	Fields   map[string]Field
}

// Config tunes discovery.
type Config struct {
	// ExtraFields declares synthetic fields that discovery cannot see.
	ExtraFields []string
	// ReadOnlyFields marks fields (declared or extra) as getter-only.
	ReadOnlyFields []string
}

// Introspect discovers the methods and fields of target. Supported targets are
// interfaces, structs, and pointers to structs.
func Introspect(target reflect.Type, cfg Config) (*Schema, error) {
	if target == nil {
		return nil, fmt.Errorf("cannot introspect a nil type")
	}

	sch := &Schema{
		TypeName: typeName(target),
		Methods:  map[string]Signature{},
		Fields:   map[string]Field{},
	}

	switch {
	case target.Kind() == reflect.Interface:
		addMethods(sch, target, false)
	case target.Kind() == reflect.Struct:
		addMethods(sch, reflect.PointerTo(target), true)
		addFields(sch, target)
	case target.Kind() == reflect.Pointer && target.Elem().Kind() == reflect.Struct:
		addMethods(sch, target, true)
		addFields(sch, target.Elem())
	default:
		return nil, fmt.Errorf("cannot mock %v: need an interface, struct, or pointer to struct", target)
	}

	for _, name := range cfg.ExtraFields {
		sch.Fields[name] = Field{Name: name, Source: SourceExtra}
	}

	for _, name := range cfg.ReadOnlyFields {
		field, ok := sch.Fields[name]
		if !ok {
			return nil, fmt.Errorf("cannot mark %s.%s read-only: no such field", sch.TypeName, name)
		}

		field.ReadOnly = true
		sch.Fields[name] = field
	}

	return sch, nil
}

// FuncSignature builds a Signature from a function type. Used by the patch
// adapter to validate calls against a patched function's real shape.
func FuncSignature(funcType reflect.Type) Signature {
	return methodSignature(funcType, false)
}

// addFields records the exported fields of a struct type, including promoted
// fields from embedded structs.
func addFields(sch *Schema, structType reflect.Type) {
	for _, field := range reflect.VisibleFields(structType) {
		if field.Anonymous || !field.IsExported() {
			continue
		}

		sch.Fields[field.Name] = Field{
			Name:   field.Name,
			Type:   field.Type,
			Source: SourceDeclared,
		}
	}
}

// addMethods records the exported methods of a type. hasReceiver is true for
// concrete types, whose method func types carry the receiver as parameter 0.
func addMethods(sch *Schema, methodSet reflect.Type, hasReceiver bool) {
	for i := range methodSet.NumMethod() {
		method := methodSet.Method(i)
		if !method.IsExported() {
			continue
		}

		sch.Methods[method.Name] = methodSignature(method.Type, hasReceiver)
	}
}

func methodSignature(funcType reflect.Type, hasReceiver bool) Signature {
	start := 0
	if hasReceiver {
		start = 1
	}

	sig := Signature{Variadic: funcType.IsVariadic()}

	for i := start; i < funcType.NumIn(); i++ {
		paramType := funcType.In(i)

		// Variadic funcs report the final parameter as a slice; the per-call
		// matching works on the element type.
		if sig.Variadic && i == funcType.NumIn()-1 {
			paramType = paramType.Elem()
		}

		sig.Params = append(sig.Params, Param{
			Name: fmt.Sprintf("arg%d", i-start),
			Type: paramType,
		})
	}

	for i := range funcType.NumOut() {
		sig.Results = append(sig.Results, funcType.Out(i))
	}

	return sig
}

func typeName(target reflect.Type) string {
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}

	if name := target.Name(); name != "" {
		return name
	}

	return target.String()
}
