package blackboard

import "github.com/dukex/betula/pkg/model"

// Input is a typed read handle a node holds for one of its declared Input
// ports. It is rebound by the tree engine whenever the port's connection
// changes; a Get before any connection exists returns KindNotFound.
type Input[T Value] struct {
	get func() (T, bool)
}

func NewInput[T Value](get func() (T, bool)) Input[T] { return Input[T]{get: get} }

func (in Input[T]) Get() (T, error) {
	var zero T
	if in.get == nil {
		return zero, model.NewError(model.KindNotFound, "Input.Get", "port not connected")
	}

	v, ok := in.get()
	if !ok {
		return zero, model.NewError(model.KindNotFound, "Input.Get", "value not set")
	}

	return v, nil
}

// Output is a typed write handle a node holds for one of its declared
// Output ports.
type Output[T Value] struct {
	set func(T) error
}

func NewOutput[T Value](set func(T) error) Output[T] { return Output[T]{set: set} }

func (out Output[T]) Set(v T) error {
	if out.set == nil {
		return model.NewError(model.KindNotFound, "Output.Set", "port not connected")
	}

	return out.set(v)
}

// BindInput wires an Input[T] against a Blackboard key.
func BindInput[T Value](b *Blackboard, key string) Input[T] {
	return NewInput[T](func() (T, bool) {
		var zero T

		v, ok := b.Read(key)
		if !ok {
			return zero, false
		}

		tv, ok := v.(T)
		if !ok {
			return zero, false
		}

		return tv, true
	})
}

// BindOutput wires an Output[T] against a Blackboard key.
func BindOutput[T Value](b *Blackboard, key string) Output[T] {
	return NewOutput[T](func(v T) error {
		return b.Write(key, v)
	})
}
