package storage

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	"github.com/pixil98/go-errors"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9-]*$`)

// ValidatingSpec is implemented by every asset payload loaded from disk.
type ValidatingSpec interface {
	Validate() error
}

// Identifier is the stable key of a loaded asset.
type Identifier string

func (id Identifier) String() string {
	return string(id)
}

// Asset is the on-disk envelope of a single definition.
type Asset[T ValidatingSpec] struct {
	Version    uint       `json:"version"`
	Identifier Identifier `json:"id"`
	Spec       T          `json:"spec"`
}

func (a *Asset[T]) Id() Identifier {
	return a.Identifier
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.Identifier == "" {
		el.Add(fmt.Errorf("id must be set"))
	}

	if !identifierPattern.MatchString(a.Identifier.String()) {
		el.Add(fmt.Errorf("id must be alphanumeric"))
	}

	if reflect.ValueOf(a.Spec).IsNil() {
		el.Add(fmt.Errorf("spec must be set"))
	} else {
		el.Add(a.Spec.Validate())
	}

	return el.Err()
}

// SmartIdentifier is a foreign key to another asset. It marshals as the bare
// key and is resolved against a Storer after everything has loaded.
type SmartIdentifier[T ValidatingSpec] struct {
	key Identifier
	val T
}

func NewSmartIdentifier[T ValidatingSpec](key Identifier) SmartIdentifier[T] {
	return SmartIdentifier[T]{key: key}
}

func NewResolvedSmartIdentifier[T ValidatingSpec](key Identifier, val T) SmartIdentifier[T] {
	return SmartIdentifier[T]{key: key, val: val}
}

func (id *SmartIdentifier[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &id.key)
}

func (id SmartIdentifier[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.key)
}

func (id SmartIdentifier[T]) Validate() error {
	if id.key == "" {
		return fmt.Errorf("%s identifier is required", typeName[T]())
	}
	return nil
}

// Resolve looks the key up in st. It fails if the key is unknown.
func (id *SmartIdentifier[T]) Resolve(st Storer[T]) error {
	id.val = st.Get(id.key)
	if reflect.ValueOf(id.val).IsNil() {
		return fmt.Errorf("%s %q not found", typeName[T](), id.key)
	}
	return nil
}

// IsResolved reports whether Resolve has succeeded.
func (id SmartIdentifier[T]) IsResolved() bool {
	return !reflect.ValueOf(id.val).IsNil()
}

func (id SmartIdentifier[T]) Key() Identifier {
	return id.key
}

func (id SmartIdentifier[T]) Get() T {
	return id.val
}

func typeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
