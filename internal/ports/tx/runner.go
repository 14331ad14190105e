package tx

import "context"

// Runner ejecuta fn dentro de una transacción. Si fn devuelve error, todo se revierte.
// Los repos toman la transacción activa desde el ctx que recibe fn.
type Runner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RunnerFunc adapta una función a Runner.
type RunnerFunc func(ctx context.Context, fn func(ctx context.Context) error) error

func (f RunnerFunc) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

// NoTx ejecuta fn sin transacción (tests de servicios con repos fake).
var NoTx Runner = RunnerFunc(func(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
})
