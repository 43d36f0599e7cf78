// Package schema holds the static type information the mapping engine
// consumes: entity descriptors, the process-wide registry, identity codecs
// and path resolution. Descriptors are plain data; they can be built by
// hand, derived by reflection (see pkg/typed) or emitted by a generator.
package schema

import (
	"errors"
	"fmt"
	"reflect"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldKind classifies a declared entity field.
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldInt
	FieldFloat
	FieldBool
	FieldBytes
	// FieldEntity marks a nested entity embedded by value. The field's
	// TypeID names the nested descriptor.
	FieldEntity
)

func (k FieldKind) String() string {
	switch k {
	case FieldString:
		return "string"
	case FieldInt:
		return "int"
	case FieldFloat:
		return "float"
	case FieldBool:
		return "bool"
	case FieldBytes:
		return "bytes"
	case FieldEntity:
		return "entity"
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// Field describes one declared data field of an entity.
type Field struct {
	// Key is the map key under which the field's node lives.
	Key string
	// Kind is the field's value kind.
	Kind FieldKind
	// Optional fields hydrate to nil when absent and are deleted from the
	// document when reconciled as nil.
	Optional bool
	// TypeID names the nested entity type. Set only for FieldEntity.
	TypeID string
}

// Descriptor is the static schema of one entity type.
//
// Collection-rooted types carry a Collection name, an Identity field name
// and a Codec. Embedded-only types (used exclusively as nested fields)
// leave all three empty. The identity field is never listed in Fields: it
// is derived from the map key under which the entity node lives.
type Descriptor struct {
	// TypeID uniquely identifies the entity type in the registry.
	TypeID string
	// Collection is the root map key under which instances live.
	Collection string
	// Identity is the name of the identity field on the in-memory instance.
	Identity string
	// Codec renders identity values as map keys and back.
	Codec IdentityCodec
	// Fields lists the declared data fields, in registration order.
	Fields []Field
}

// Field looks up a declared field by its document key.
func (d Descriptor) Field(key string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks the descriptor for structural problems.
func (d Descriptor) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.TypeID, validation.Required),
		validation.Field(&d.Identity, validation.By(d.checkIdentity)),
		validation.Field(&d.Fields, validation.By(d.checkFields)),
	)
}

func (d Descriptor) checkIdentity(any) error {
	if d.Collection == "" {
		if d.Identity != "" || d.Codec != nil {
			return errors.New("embedded-only types must not declare an identity")
		}
		return nil
	}
	if d.Identity == "" {
		return errors.New("collection types require an identity field name")
	}
	if d.Codec == nil {
		return errors.New("collection types require an identity codec")
	}
	return nil
}

func (d Descriptor) checkFields(any) error {
	seen := make(map[string]struct{}, len(d.Fields))
	for _, f := range d.Fields {
		if f.Key == "" {
			return errors.New("field key must not be empty")
		}
		if f.Key == d.Identity {
			return fmt.Errorf("field %q shadows the identity field", f.Key)
		}
		if _, dup := seen[f.Key]; dup {
			return fmt.Errorf("duplicate field key %q", f.Key)
		}
		seen[f.Key] = struct{}{}
		if f.Kind == FieldEntity && f.TypeID == "" {
			return fmt.Errorf("nested field %q must name an entity type", f.Key)
		}
		if f.Kind != FieldEntity && f.TypeID != "" {
			return fmt.Errorf("scalar field %q must not name an entity type", f.Key)
		}
	}
	return nil
}

// Equal reports whether two descriptors declare the same shape.
// Codecs compare by type; registration is idempotent for equal shapes.
func (d Descriptor) Equal(o Descriptor) bool {
	if d.TypeID != o.TypeID || d.Collection != o.Collection || d.Identity != o.Identity {
		return false
	}
	if reflect.TypeOf(d.Codec) != reflect.TypeOf(o.Codec) {
		return false
	}
	if len(d.Fields) != len(o.Fields) {
		return false
	}
	for i := range d.Fields {
		if d.Fields[i] != o.Fields[i] {
			return false
		}
	}
	return true
}
