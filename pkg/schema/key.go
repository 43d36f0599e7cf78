package schema

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bowtieworks/automerge-orm/pkg/core"
)

// Key identifies an entity within a collection. Keys are backed by UUIDs,
// matching the map keys under which entity nodes live in the document.
type Key struct {
	id uuid.UUID
}

// NewKey generates a fresh random key.
func NewKey() Key {
	return Key{id: uuid.New()}
}

// KeyFrom wraps an existing UUID.
func KeyFrom(id uuid.UUID) Key {
	return Key{id: id}
}

// ParseKey parses the string form of a key.
func ParseKey(s string) (Key, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q is not a valid key: %v", core.ErrInvalidIdentity, s, err)
	}
	return Key{id: id}, nil
}

// UUID returns the underlying UUID.
func (k Key) UUID() uuid.UUID {
	return k.id
}

// IsZero reports whether the key is the zero key.
func (k Key) IsZero() bool {
	return k.id == uuid.Nil
}

func (k Key) String() string {
	return k.id.String()
}

// IdentityCodec converts identity values to and from their map-key form.
// The registration call supplies one codec per entity type, decoupling the
// engine from the concrete identity type.
type IdentityCodec interface {
	// Encode renders an identity value as a document map key.
	// Fails with ErrInvalidIdentity when the value cannot serve as a key.
	Encode(v any) (string, error)

	// Decode parses a document map key back into an identity value.
	Decode(s string) (any, error)
}

// UUIDCodec maps Key and uuid.UUID identities to their canonical string
// form. Decode returns a Key.
type UUIDCodec struct{}

func (UUIDCodec) Encode(v any) (string, error) {
	switch t := v.(type) {
	case Key:
		if t.IsZero() {
			return "", fmt.Errorf("%w: zero key", core.ErrInvalidIdentity)
		}
		return t.String(), nil
	case uuid.UUID:
		if t == uuid.Nil {
			return "", fmt.Errorf("%w: zero uuid", core.ErrInvalidIdentity)
		}
		return t.String(), nil
	case string:
		k, err := ParseKey(t)
		if err != nil {
			return "", err
		}
		return k.String(), nil
	}
	return "", fmt.Errorf("%w: cannot encode %T as a uuid key", core.ErrInvalidIdentity, v)
}

func (UUIDCodec) Decode(s string) (any, error) {
	k, err := ParseKey(s)
	if err != nil {
		return nil, err
	}
	return k, nil
}

// StringCodec uses identity values verbatim as map keys.
type StringCodec struct{}

func (StringCodec) Encode(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	if s == "" {
		return "", fmt.Errorf("%w: empty string", core.ErrInvalidIdentity)
	}
	return s, nil
}

func (StringCodec) Decode(s string) (any, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", core.ErrInvalidIdentity)
	}
	return s, nil
}
