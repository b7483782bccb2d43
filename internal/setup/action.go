package setup

import "fmt"

// ActionKind names a setup-screen command.
type ActionKind string

const (
	ActSelectOperation ActionKind = "selectOperation"
	ActSelectRange     ActionKind = "selectRange"
	ActSelectType      ActionKind = "selectType"
)

// Action is one setup command; Value carries the operation, "min-max" range or type.
type Action struct {
	Kind  ActionKind `json:"action"`
	Value string     `json:"value"`
}

// Apply dispatches a named action onto the builder.
// Values outside the closed sets are rejected without touching the selections.
func (b *Builder) Apply(a Action) error {
	switch a.Kind {
	case ActSelectOperation:
		op := Operation(a.Value)
		if !op.Valid() {
			return fmt.Errorf("%w: unknown operation %q", ErrInvalidConfig, a.Value)
		}
		b.SelectOperation(op)
	case ActSelectRange:
		r, err := ParseRange(a.Value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		b.SelectRange(r)
	case ActSelectType:
		t := QuestionType(a.Value)
		if !t.Valid() {
			return fmt.Errorf("%w: unknown question type %q", ErrInvalidConfig, a.Value)
		}
		b.SelectType(t)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidConfig, a.Kind)
	}
	return nil
}
