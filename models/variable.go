package models

import (
	"arduplot/utils"

	"golang.org/x/exp/constraints"
)

// Reader reads the current value of a live variable.
type Reader interface {
	Value() float64
}

// Number is any Go numeric type a variable can be bound to.
type Number interface {
	constraints.Integer | constraints.Float
}

// NumberRef observes a numeric variable through a pointer.
type NumberRef[T Number] struct {
	ref *T
}

func NewNumberRef[T Number](ref *T) NumberRef[T] {
	return NumberRef[T]{ref}
}

func (n NumberRef[T]) Value() float64 {
	return float64(*n.ref)
}

// BoolRef observes a bool variable, reading true as 1 and false as 0.
type BoolRef struct {
	ref *bool
}

func NewBoolRef(ref *bool) BoolRef {
	return BoolRef{ref}
}

func (b BoolRef) Value() float64 {
	return utils.BoolToFloat(*b.ref)
}

// ReaderFunc adapts a plain function to a Reader.
type ReaderFunc func() float64

func (f ReaderFunc) Value() float64 {
	return f()
}

type Variable struct {
	// label is the name shown next to the variable's series.
	label string
	// colour is passed to the listener as is; empty means the listener picks one.
	colour string
	// reader gives access to the observed variable. The variable isn't owned and must outlive this binding.
	reader Reader
}

// NewVariable binds label to reader. An optional colour can be given, otherwise it's left empty.
func NewVariable(label string, reader Reader, colour ...string) *Variable {
	v := &Variable{
		label,
		"",
		reader,
	}
	if len(colour) > 0 {
		v.colour = colour[0]
	}
	return v
}

func (v *Variable) Label() string {
	return v.label
}

func (v *Variable) Colour() string {
	return v.colour
}

func (v *Variable) SetColour(colour string) {
	v.colour = colour
}

// Value reads the observed variable right now.
func (v *Variable) Value() float64 {
	return v.reader.Value()
}
