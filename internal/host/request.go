package host

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pixil98/go-loadout/internal/storage"
)

type Kind string

const (
	KindBuy  Kind = "buy"
	KindSell Kind = "sell"
	KindUse  Kind = "use"
)

// Request asks the host to run one transaction for a participant.
// Participant ids become event subject tokens, so subject wildcards and
// separators are not allowed in them.
type Request struct {
	RequestId   string             `json:"request_id" validate:"required,max=64"`
	Participant string             `json:"participant" validate:"required,max=64,printascii,excludesall=.*> "`
	Kind        Kind               `json:"kind" validate:"required,oneof=buy sell use"`
	Item        storage.Identifier `json:"item,omitempty" validate:"required_if=Kind buy,max=128"`
	Slot        int                `json:"slot" validate:"min=0"`
}

// Response reports whether a request was accepted. Reason is diagnostic
// only.
type Response struct {
	RequestId string `json:"request_id"`
	Accepted  bool   `json:"accepted"`
	Reason    string `json:"reason,omitempty"`
}

func accepted(req Request) Response {
	return Response{RequestId: req.RequestId, Accepted: true}
}

func rejected(req Request, err error) Response {
	return Response{RequestId: req.RequestId, Reason: err.Error()}
}

// validationError flattens validator output into one line.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid request: %w", err)
	}

	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required", "required_if":
			parts = append(parts, field+" is required")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of %s", field, e.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "printascii", "excludesall":
			parts = append(parts, field+" contains invalid characters")
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(parts, ", "))
}
