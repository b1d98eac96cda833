package interfaces

import (
	"context"
	"time"
)

// Clock abstracts time lookups so derived statuses (upcoming/ongoing/completed)
// stay testable. Production code uses SystemClock.
type Clock interface {
	Now() time.Time
}

// SystemClock satisfies Clock with the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Confirmer is the external collaborator consulted before destructive
// operations. Implementations typically prompt the operator; tests stub it.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer contract.
type ConfirmerFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}
