package catalog

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-loadout/internal/storage"
)

// Tag identifies a unique modifier or effect. At most one equipped item may
// provide a given non-empty tag at a time. The empty tag always applies.
type Tag string

const EmptyTag Tag = ""

func (t Tag) IsEmpty() bool {
	return t == EmptyTag
}

// ModifierOp is how a modifier combines with an attribute.
type ModifierOp int

const (
	ModifierOpAdd ModifierOp = iota
	ModifierOpMultiply
)

func (op ModifierOp) String() string {
	switch op {
	case ModifierOpAdd:
		return "add"
	case ModifierOpMultiply:
		return "multiply"
	default:
		return fmt.Sprintf("ModifierOp(%d)", int(op))
	}
}

func (op *ModifierOp) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "add", "":
		*op = ModifierOpAdd
	case "multiply":
		*op = ModifierOpMultiply
	default:
		return fmt.Errorf("unknown modifier op: %s", text)
	}
	return nil
}

func (op ModifierOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// UniqueModifier changes one attribute while the item is equipped.
type UniqueModifier struct {
	Unique    Tag        `json:"unique,omitempty"`
	Attribute string     `json:"attribute"`
	Op        ModifierOp `json:"op"`
	Magnitude Magnitude  `json:"magnitude"`
}

// UniqueEffect grants a named effect while the item is equipped.
type UniqueEffect struct {
	Unique Tag    `json:"unique,omitempty"`
	Effect string `json:"effect"`
}

// Item is an immutable purchasable definition. Instances equipped into an
// inventory all share one Item.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Price excludes the price of RequiredItems.
	Price Magnitude `json:"price"`

	// RequiredItems are the components this item is built from, by key.
	RequiredItems []storage.Identifier `json:"required_items,omitempty"`

	AttributeModifiers []UniqueModifier `json:"attribute_modifiers,omitempty"`
	Effects            []UniqueEffect   `json:"effects,omitempty"`

	// Ability is the activatable ability granted to the holder, if any.
	Ability string `json:"ability,omitempty"`

	key storage.Identifier
}

// Key is the stable identifier the item was loaded under.
func (i *Item) Key() storage.Identifier {
	return i.key
}

// Cost is the item's own price, not including its components.
func (i *Item) Cost() float64 {
	return i.Price.Value()
}

func (i *Item) String() string {
	if i == nil {
		return "<nil>"
	}
	return string(i.key)
}

// Validate satisfies storage.ValidatingSpec
func (i *Item) Validate() error {
	el := errors.NewErrorList()

	if i.Name == "" {
		el.Add(fmt.Errorf("item name is required"))
	}
	if i.Price.Curve == nil && i.Price.Flat < 0 {
		el.Add(fmt.Errorf("item price must not be negative"))
	}
	for n, req := range i.RequiredItems {
		if req == "" {
			el.Add(fmt.Errorf("required item %d: key is required", n))
		}
	}
	for n, mod := range i.AttributeModifiers {
		if mod.Attribute == "" {
			el.Add(fmt.Errorf("attribute modifier %d: attribute is required", n))
		}
	}
	for n, eff := range i.Effects {
		if eff.Effect == "" {
			el.Add(fmt.Errorf("effect %d: effect is required", n))
		}
	}

	return el.Err()
}

func (i *Item) resolve(curves storage.Storer[*Curve]) error {
	el := errors.NewErrorList()

	el.Add(i.Price.resolve(curves))
	for n := range i.AttributeModifiers {
		if err := i.AttributeModifiers[n].Magnitude.resolve(curves); err != nil {
			el.Add(fmt.Errorf("attribute modifier %d: %w", n, err))
		}
	}

	return el.Err()
}
