package option

import (
	"errors"
	"fmt"
)

// ErrCannotMatchUnsetValue is returned when unwrapping an unset option strictly.
var ErrCannotMatchUnsetValue = errors.New("cannot match unset value")

// Value is an optional value of type T. The zero value is unset.
type Value[T any] struct {
	val T
	set bool
}

// Some creates an optional value with an initial value of x.
func Some[T any](x T) Value[T] {
	return Value[T]{val: x, set: true}
}

// None creates an optional value without a value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// IsNone returns true if o is unset.
func (o Value[T]) IsNone() bool {
	return !o.set
}

// IsSome returns true if o carries a value.
func (o Value[T]) IsSome() bool {
	return o.set
}

// Unwrap returns the value of o, or the zero value of T if o is unset.
func (o Value[T]) Unwrap() T {
	return o.val
}

// Get returns the value and whether it is set.
func (o Value[T]) Get() (T, bool) {
	return o.val, o.set
}

// Must returns the value of o or an error if o is unset.
func (o Value[T]) Must() (T, error) {
	if !o.set {
		return o.val, ErrCannotMatchUnsetValue
	}
	return o.val, nil
}

// Or returns the value of o, or dflt if o is unset.
func (o Value[T]) Or(dflt T) T {
	if o.set {
		return o.val
	}
	return dflt
}

// Join returns later if it is set, o otherwise.
func (o Value[T]) Join(later Value[T]) Value[T] {
	if later.set {
		return later
	}
	return o
}

// Match calls some with the value of o if it is set, none otherwise.
// Either function may be nil.
func (o Value[T]) Match(some func(T), none func()) {
	if o.set {
		if some != nil {
			some(o.val)
		}
		return
	}
	if none != nil {
		none()
	}
}

func (o Value[T]) String() string {
	if !o.set {
		return "None"
	}
	return fmt.Sprintf("%v", o.val)
}
