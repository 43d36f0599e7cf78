// Package typed provides type-safe access to entity collections. It
// replaces derive-style code generation with runtime reflection: a
// descriptor is derived once per Go type from `automerge` struct tags and
// registered with the manager's registry, and the generic Repository
// converts between structs and the engine's dynamic records.
//
// Tag syntax:
//
//	type Contact struct {
//		ID    schema.Key `automerge:"id,key"`
//		Name  string     `automerge:"name"`
//		Age   *int       `automerge:"age"`   // pointer fields are optional
//		Home  Address    `automerge:"home"`  // struct fields are nested entities
//		Skip  string     `automerge:"-"`
//	}
//
// Untagged exported fields map to the snake_case of their name.
package typed

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/bowtieworks/automerge-orm/pkg/schema"
)

// TagName is the struct tag consulted when deriving descriptors.
const TagName = "automerge"

// Option configures descriptor derivation.
type Option func(*deriveOptions)

type deriveOptions struct {
	collection string
}

// WithCollection overrides the collection name, which defaults to the
// snake_case of the type name.
func WithCollection(name string) Option {
	return func(o *deriveOptions) {
		o.collection = name
	}
}

// typeInfo binds a derived descriptor to the struct fields it came from.
type typeInfo struct {
	desc    schema.Descriptor
	nested  []*typeInfo
	idIndex int // struct field index of the identity; -1 for embedded-only
	fields  []boundField
}

type boundField struct {
	index  int
	field  schema.Field
	nested *typeInfo
}

var (
	keyType  = reflect.TypeOf(schema.Key{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// Derive builds the descriptor for T from its struct tags.
// Nested struct fields derive embedded-only descriptors of their own.
func Derive[T any](opts ...Option) (schema.Descriptor, error) {
	info, err := deriveType(reflect.TypeFor[T](), true, opts...)
	if err != nil {
		return schema.Descriptor{}, err
	}
	return info.desc, nil
}

func deriveType(t reflect.Type, root bool, opts ...Option) (*typeInfo, error) {
	o := &deriveOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot derive a descriptor for %s: not a struct", t)
	}

	info := &typeInfo{
		desc: schema.Descriptor{
			TypeID: t.String(),
		},
		idIndex: -1,
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, isKey, skip := parseTag(sf)
		if skip {
			continue
		}

		if isKey {
			if !root {
				return nil, fmt.Errorf("nested entity type %s must not declare a key field", t)
			}
			if info.idIndex != -1 {
				return nil, fmt.Errorf("type %s declares more than one key field", t)
			}
			codec, err := codecFor(sf.Type)
			if err != nil {
				return nil, fmt.Errorf("key field %s.%s: %w", t, sf.Name, err)
			}
			info.idIndex = i
			info.desc.Identity = name
			info.desc.Codec = codec
			continue
		}

		bf, err := deriveField(sf, i, name)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t, sf.Name, err)
		}
		info.desc.Fields = append(info.desc.Fields, bf.field)
		info.fields = append(info.fields, bf)
		if bf.nested != nil {
			info.nested = append(info.nested, bf.nested)
		}
	}

	if root {
		if info.idIndex == -1 {
			return nil, fmt.Errorf("type %s declares no key field (tag a field with %q)", t, "automerge:\"...,key\"")
		}
		info.desc.Collection = o.collection
		if info.desc.Collection == "" {
			info.desc.Collection = snakeCase(t.Name())
		}
	}
	return info, nil
}

func deriveField(sf reflect.StructField, index int, name string) (boundField, error) {
	ft := sf.Type
	optional := false
	if ft.Kind() == reflect.Pointer {
		optional = true
		ft = ft.Elem()
	}

	f := schema.Field{Key: name, Optional: optional}

	switch {
	case ft.Kind() == reflect.String:
		f.Kind = schema.FieldString
	case ft.Kind() >= reflect.Int && ft.Kind() <= reflect.Uint64:
		f.Kind = schema.FieldInt
	case ft.Kind() == reflect.Float32 || ft.Kind() == reflect.Float64:
		f.Kind = schema.FieldFloat
	case ft.Kind() == reflect.Bool:
		f.Kind = schema.FieldBool
	case ft.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.Uint8:
		f.Kind = schema.FieldBytes
	case ft.Kind() == reflect.Struct:
		nested, err := deriveType(ft, false)
		if err != nil {
			return boundField{}, err
		}
		// A struct with nothing to bind (time.Time and friends) would
		// round trip to its zero value without an error.
		if len(nested.desc.Fields) == 0 {
			return boundField{}, fmt.Errorf("struct type %s has no derivable fields", ft)
		}
		f.Kind = schema.FieldEntity
		f.TypeID = nested.desc.TypeID
		return boundField{index: index, field: f, nested: nested}, nil
	default:
		return boundField{}, fmt.Errorf("unsupported field type %s", sf.Type)
	}
	return boundField{index: index, field: f}, nil
}

func parseTag(sf reflect.StructField) (name string, isKey, skip bool) {
	tag := sf.Tag.Get(TagName)
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = snakeCase(sf.Name)
	}
	for _, opt := range parts[1:] {
		if opt == "key" {
			isKey = true
		}
	}
	return name, isKey, false
}

func codecFor(t reflect.Type) (schema.IdentityCodec, error) {
	switch {
	case t == keyType, t == uuidType:
		return schema.UUIDCodec{}, nil
	case t.Kind() == reflect.String:
		return schema.StringCodec{}, nil
	}
	return nil, fmt.Errorf("unsupported identity type %s", t)
}

// snakeCase converts CamelCase identifiers the way the registry expects
// collection and field names ("OrderLine" -> "order_line").
func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && !unicode.IsUpper(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// registerAll registers the type's descriptor and every nested descriptor.
func registerAll(reg *schema.Registry, info *typeInfo) error {
	for _, n := range info.nested {
		if err := registerAll(reg, n); err != nil {
			return err
		}
	}
	return reg.Register(info.desc)
}
