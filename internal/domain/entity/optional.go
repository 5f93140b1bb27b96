package entity

import (
	"bytes"
	"encoding/json"
)

// Optional valor de tres estados para payloads parciales:
// ausente (Set=false), null explícito (Set y Null) o con valor.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some construye un Optional presente con valor.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null construye un Optional presente con null explícito.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// HasValue indica presencia con valor no nulo.
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

// Ptr devuelve nil para null/ausente o un puntero al valor.
func (o Optional[T]) Ptr() *T {
	if !o.HasValue() {
		return nil
	}
	v := o.Value
	return &v
}

// UnmarshalJSON solo se invoca cuando la clave está presente en el objeto.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON serializa null cuando no hay valor.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.HasValue() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// IsZero permite omitir campos ausentes con la etiqueta `omitzero`.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}
