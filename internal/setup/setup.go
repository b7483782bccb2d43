// internal/setup/setup.go
//
// Configuration model behind the mission setup screen.
// Responsibilities:
//   - Builder: mutable selections (operation toggles, single-valued range and mode).
//   - Launch readiness and the preview texts the screen renders.
//   - Config: the immutable snapshot handed to exactly one game session.
//   - Encode/Decode of the hand-off blob.

package setup

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig wraps every reason a decoded hand-off blob is rejected.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is a finalized, launchable configuration.
// Values are copied on the way in and out so a Config never aliases a Builder.
type Config struct {
	Operations []Operation  `json:"operations"`
	Range      Range        `json:"range"`
	Type       QuestionType `json:"type"`
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	ops := make([]Operation, len(c.Operations))
	copy(ops, c.Operations)
	return Config{Operations: ops, Range: c.Range, Type: c.Type}
}

// Validate checks the invariants the question generator relies on.
func (c Config) Validate() error {
	if len(c.Operations) == 0 {
		return fmt.Errorf("%w: no operations selected", ErrInvalidConfig)
	}
	seen := make(map[Operation]bool, len(c.Operations))
	for _, op := range c.Operations {
		if !op.Valid() {
			return fmt.Errorf("%w: unknown operation %q", ErrInvalidConfig, op)
		}
		if seen[op] {
			return fmt.Errorf("%w: duplicate operation %q", ErrInvalidConfig, op)
		}
		seen[op] = true
	}
	if c.Range.Min > c.Range.Max {
		return fmt.Errorf("%w: range %s", ErrInvalidConfig, c.Range)
	}
	if !c.Range.bounded() {
		return fmt.Errorf("%w: range %s exceeds ±%d", ErrInvalidConfig, c.Range, MaxMagnitude)
	}
	if seen[Division] && !c.Range.hasNonZero() {
		return fmt.Errorf("%w: division needs a non-zero divisor in %s", ErrInvalidConfig, c.Range)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: unknown question type %q", ErrInvalidConfig, c.Type)
	}
	return nil
}

// MissionText renders the one-line mission banner shown above the game,
// e.g. "ADDITION, DIVISION | Range: 1-10 | Mode: RANDOM MIX".
func (c Config) MissionText() string {
	names := make([]string, len(c.Operations))
	for i, op := range c.Operations {
		names[i] = op.Title()
	}
	return fmt.Sprintf("%s | Range: %s | Mode: %s",
		strings.ToUpper(strings.Join(names, ", ")), c.Range, strings.ToUpper(c.Type.Title()))
}

// Encode serializes the config into the hand-off blob.
func (c Config) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// Decode parses and validates a hand-off blob.
func Decode(blob []byte) (Config, error) {
	var c Config
	if err := json.Unmarshal(blob, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Builder accumulates the player's selections on the setup screen.
// The zero value is an empty, non-launchable selection.
type Builder struct {
	ops   []Operation // selection order is kept for display
	rng   *Range
	qtype QuestionType
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// SelectOperation toggles op in the selected set.
func (b *Builder) SelectOperation(op Operation) {
	for i, cur := range b.ops {
		if cur == op {
			b.ops = append(b.ops[:i], b.ops[i+1:]...)
			return
		}
	}
	b.ops = append(b.ops, op)
}

// SelectRange replaces the selected range.
func (b *Builder) SelectRange(r Range) {
	b.rng = &r
}

// SelectType replaces the selected question type.
func (b *Builder) SelectType(t QuestionType) {
	b.qtype = t
}

// IsLaunchable reports whether operations, range and type are all chosen.
func (b *Builder) IsLaunchable() bool {
	return len(b.ops) > 0 && b.rng != nil && b.qtype != ""
}

// Finalize returns an immutable snapshot of the selections.
// ok is false while the builder is not launchable.
func (b *Builder) Finalize() (cfg Config, ok bool) {
	if !b.IsLaunchable() {
		return Config{}, false
	}
	return Config{Operations: b.ops, Range: *b.rng, Type: b.qtype}.Clone(), true
}

// Preview holds the texts of the setup screen's preview card.
type Preview struct {
	Operations string `json:"operations"`
	Range      string `json:"range"`
	Mode       string `json:"mode"`
	Ready      bool   `json:"ready"`
}

// Preview describes the current selections, with prompts for missing ones.
func (b *Builder) Preview() Preview {
	p := Preview{
		Operations: "Select operations",
		Range:      "Select range",
		Mode:       "Select mode",
		Ready:      b.IsLaunchable(),
	}
	if len(b.ops) > 0 {
		names := make([]string, len(b.ops))
		for i, op := range b.ops {
			names[i] = op.Title()
		}
		p.Operations = strings.Join(names, ", ")
	}
	if b.rng != nil {
		p.Range = b.rng.String()
	}
	if b.qtype != "" {
		p.Mode = b.qtype.Title()
	}
	return p
}
