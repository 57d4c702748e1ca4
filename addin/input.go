package addin

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidInput is wrapped by errors from setting malformed input values.
var ErrInvalidInput = errors.New("invalid input")

// unitScale converts a length unit to centimetres.
var unitScale = map[string]float64{
	"mm": 0.1,
	"cm": 1,
	"m":  100,
	"in": 2.54,
	"ft": 30.48,
}

// ParseLength parses expressions such as "2 m", "18mm" or "1.5" into
// centimetres. A bare number is read in defaultUnit.
func ParseLength(expr, defaultUnit string) (float64, error) {
	s := strings.TrimSpace(expr)
	unit := defaultUnit
	i := strings.LastIndexFunc(s, func(r rune) bool { return (r >= '0' && r <= '9') || r == '.' })
	if i >= 0 && i < len(s)-1 {
		unit = strings.TrimSpace(s[i+1:])
		s = strings.TrimSpace(s[:i+1])
	}
	scale, ok := unitScale[unit]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, unit)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q is not a length", ErrInvalidInput, expr)
	}
	return v * scale, nil
}

// FormatLength formats a length in centimetres using unit.
func FormatLength(cm float64, unit string) string {
	scale, ok := unitScale[unit]
	if !ok {
		scale, unit = 1, "cm"
	}
	return strconv.FormatFloat(cm/scale, 'g', -1, 64) + " " + unit
}

// Input is a command dialog control.
type Input interface {
	InputID() string
	InputLabel() string
}

// ValueInput is a length field. Value is always in centimetres; Unit only
// affects parsing and display.
type ValueInput struct {
	ID    string
	Label string
	Unit  string
	Value float64
}

func (v *ValueInput) InputID() string    { return v.ID }
func (v *ValueInput) InputLabel() string { return v.Label }

// Expression returns the value formatted in the input unit.
func (v *ValueInput) Expression() string { return FormatLength(v.Value, v.Unit) }

// SetExpression parses expr and stores the result. The value is left
// unchanged on error.
func (v *ValueInput) SetExpression(expr string) error {
	cm, err := ParseLength(expr, v.Unit)
	if err != nil {
		return fmt.Errorf("%s: %w", v.ID, err)
	}
	v.Value = cm
	return nil
}

// IntegerSpinner is an integer field limited to [Min, Max].
type IntegerSpinner struct {
	ID    string
	Label string
	Min   int
	Max   int
	Step  int
	Value int
}

func (s *IntegerSpinner) InputID() string    { return s.ID }
func (s *IntegerSpinner) InputLabel() string { return s.Label }

// Set stores v clamped to the spinner range.
func (s *IntegerSpinner) Set(v int) { s.Value = max(s.Min, min(s.Max, v)) }

// Increment moves the value n steps up. Negative n moves it down.
func (s *IntegerSpinner) Increment(n int) { s.Set(s.Value + n*s.Step) }

// DropDown is a single selection list.
type DropDown struct {
	ID    string
	Label string
	Items []string

	selected int
}

func (d *DropDown) InputID() string    { return d.ID }
func (d *DropDown) InputLabel() string { return d.Label }

// Selected returns the selected item.
func (d *DropDown) Selected() (string, bool) {
	if d.selected < 0 || d.selected >= len(d.Items) {
		return "", false
	}
	return d.Items[d.selected], true
}

// Select selects the item with the given name.
func (d *DropDown) Select(name string) error {
	for i, it := range d.Items {
		if it == name {
			d.selected = i
			return nil
		}
	}
	return fmt.Errorf("%w: %s has no item %q", ErrInvalidInput, d.ID, name)
}

// SelectIndex selects the i'th item.
func (d *DropDown) SelectIndex(i int) error {
	if i < 0 || i >= len(d.Items) {
		return fmt.Errorf("%w: %s index %d out of range", ErrInvalidInput, d.ID, i)
	}
	d.selected = i
	return nil
}

// Inputs holds the controls of a command in creation order.
type Inputs struct {
	items []Input
}

func (in *Inputs) add(v Input) error {
	if _, ok := in.ItemByID(v.InputID()); ok {
		return fmt.Errorf("%w: input %q", ErrDuplicateID, v.InputID())
	}
	in.items = append(in.items, v)
	return nil
}

// AddValueInput adds a length input with an initial value in centimetres.
func (in *Inputs) AddValueInput(id, label, unit string, cm float64) (*ValueInput, error) {
	if _, ok := unitScale[unit]; !ok {
		return nil, fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, unit)
	}
	v := &ValueInput{ID: id, Label: label, Unit: unit, Value: cm}
	if err := in.add(v); err != nil {
		return nil, err
	}
	return v, nil
}

// AddIntegerSpinner adds a spinner. initial is clamped to [lo, hi].
func (in *Inputs) AddIntegerSpinner(id, label string, lo, hi, step, initial int) (*IntegerSpinner, error) {
	if lo > hi || step <= 0 {
		return nil, fmt.Errorf("%w: spinner %s range [%d,%d] step %d", ErrInvalidInput, id, lo, hi, step)
	}
	s := &IntegerSpinner{ID: id, Label: label, Min: lo, Max: hi, Step: step}
	s.Set(initial)
	if err := in.add(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AddDropDown adds a list with no selection.
func (in *Inputs) AddDropDown(id, label string, items ...string) (*DropDown, error) {
	d := &DropDown{ID: id, Label: label, Items: items, selected: -1}
	if err := in.add(d); err != nil {
		return nil, err
	}
	return d, nil
}

// ItemByID returns the input with the given ID.
func (in *Inputs) ItemByID(id string) (Input, bool) {
	for _, it := range in.items {
		if it.InputID() == id {
			return it, true
		}
	}
	return nil, false
}

// All returns the inputs in creation order.
func (in *Inputs) All() []Input { return append([]Input(nil), in.items...) }

// Count returns the number of inputs.
func (in *Inputs) Count() int { return len(in.items) }

// ValueInput returns the length input with the given ID.
func (in *Inputs) ValueInput(id string) (*ValueInput, bool) {
	it, _ := in.ItemByID(id)
	v, ok := it.(*ValueInput)
	return v, ok
}

// IntegerSpinner returns the spinner with the given ID.
func (in *Inputs) IntegerSpinner(id string) (*IntegerSpinner, bool) {
	it, _ := in.ItemByID(id)
	s, ok := it.(*IntegerSpinner)
	return s, ok
}

// DropDown returns the drop down with the given ID.
func (in *Inputs) DropDown(id string) (*DropDown, bool) {
	it, _ := in.ItemByID(id)
	d, ok := it.(*DropDown)
	return d, ok
}
