// Package palette turns extraction results into rendered cards and keeps the
// realised swatch list that exports are built from.
package palette

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jmylchreest/brandstream/internal/colour"
	"github.com/jmylchreest/brandstream/internal/extraction"
)

// ErrNoTarget is returned when a copy target does not resolve to a value.
var ErrNoTarget = errors.New("no copy target")

// Field identifies a copyable value row on a card.
type Field int

const (
	FieldHex Field = iota
	FieldRGB
	FieldCMYK
)

// Fields lists the value rows in display order.
var Fields = [...]Field{FieldHex, FieldRGB, FieldCMYK}

// Label returns the row label shown on the card.
func (f Field) Label() string {
	switch f {
	case FieldHex:
		return "HEX"
	case FieldRGB:
		return "RGB"
	case FieldCMYK:
		return "CMYK"
	default:
		return "?"
	}
}

// Card is the rendered form of one ColorResult.
type Card struct {
	Name       string
	Swatch     colour.RGB
	Foreground colour.RGB
	Percentage string
	Values     [len(Fields)]string
}

// Value returns the text of row f.
func (c Card) Value(f Field) string {
	if f < 0 || int(f) >= len(c.Values) {
		return ""
	}
	return c.Values[f]
}

// Swatches is the ordered list of swatch colours as displayed.
type Swatches []colour.RGB

// NewCard renders one result. The swatch colour comes from the result's
// component triple; the percentage overlay uses the contrast foreground.
func NewCard(c extraction.ColorResult) Card {
	swatch := c.Value()
	return Card{
		Name:       c.ColorName,
		Swatch:     swatch,
		Foreground: colour.Foreground(swatch),
		Percentage: strconv.FormatFloat(c.Percentage, 'f', -1, 64) + "%",
		Values:     [len(Fields)]string{c.Hex, c.RGB, c.CMYK},
	}
}

// Render builds the cards for p in order and returns them with the swatch
// list they display.
func Render(p extraction.Palette) ([]Card, Swatches) {
	cards := make([]Card, len(p))
	swatches := make(Swatches, len(p))
	for i, c := range p {
		cards[i] = NewCard(c)
		swatches[i] = cards[i].Swatch
	}
	return cards, swatches
}

// Target addresses one copyable row.
type Target struct {
	Card  int
	Field Field
}

// String returns a stable key for the target.
func (t Target) String() string {
	return fmt.Sprintf("%d/%s", t.Card, t.Field.Label())
}

// Container holds the currently displayed cards. Copy targets are resolved
// against whatever cards are present when the event arrives, so replacing
// the cards wholesale never leaves a stale binding behind.
type Container struct {
	cards    []Card
	swatches Swatches
	copied   map[Target]uint64
	token    uint64
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{copied: make(map[Target]uint64)}
}

// Replace swaps in cards for p and returns the realised swatch list.
func (c *Container) Replace(p extraction.Palette) Swatches {
	c.cards, c.swatches = Render(p)
	c.copied = make(map[Target]uint64)
	return c.Swatches()
}

// Clear removes all cards.
func (c *Container) Clear() {
	c.cards = nil
	c.swatches = nil
	c.copied = make(map[Target]uint64)
}

// Len returns the number of cards.
func (c *Container) Len() int {
	return len(c.cards)
}

// Cards returns the displayed cards in order.
func (c *Container) Cards() []Card {
	return append([]Card(nil), c.cards...)
}

// Swatches returns a copy of the displayed swatch colours in order.
func (c *Container) Swatches() Swatches {
	return append(Swatches(nil), c.swatches...)
}

// Resolve returns the value addressed by t.
func (c *Container) Resolve(t Target) (string, error) {
	if t.Card < 0 || t.Card >= len(c.cards) {
		return "", fmt.Errorf("%w: card %d of %d", ErrNoTarget, t.Card, len(c.cards))
	}
	v := c.cards[t.Card].Value(t.Field)
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrNoTarget, t)
	}
	return v, nil
}

// MarkCopied shows the "copied" state on t and returns the token that
// ClearCopied needs to revert it.
func (c *Container) MarkCopied(t Target) uint64 {
	c.token++
	c.copied[t] = c.token
	return c.token
}

// ClearCopied reverts t unless it was copied again after token was issued.
func (c *Container) ClearCopied(t Target, token uint64) bool {
	if c.copied[t] != token {
		return false
	}
	delete(c.copied, t)
	return true
}

// Copied reports whether t shows its "copied" state.
func (c *Container) Copied(t Target) bool {
	_, ok := c.copied[t]
	return ok
}
