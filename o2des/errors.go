package o2des

import "errors"

// Error kinds raised at the kernel's API boundary. They are never retried or
// swallowed internally; the caller decides what to do with them.
var (
	// ErrBadScheduleArg is returned when Schedule is asked to enqueue a nil action.
	ErrBadScheduleArg = errors.New("o2des: bad schedule argument")

	// ErrClockOutOfOrder is returned when an HourCounter observation's clock
	// time is earlier than the counter's last observed time.
	ErrClockOutOfOrder = errors.New("o2des: clock out of order")

	// ErrClockMismatch is returned when an explicit clock time passed to an
	// HourCounter method differs from its owning Sandbox's clock.
	ErrClockMismatch = errors.New("o2des: clock time does not match sandbox")

	// ErrMissingPredicate is returned by Warmup when called with no
	// predicate selected. Run treats that case as a single step instead.
	ErrMissingPredicate = errors.New("o2des: missing run predicate")

	// ErrInvalidPredicate is returned by Run/Warmup when more than one
	// predicate field is populated.
	ErrInvalidPredicate = errors.New("o2des: invalid run predicate")
)

// There is no ErrArityMismatch: Action[T] fixes its callables' payload shape
// at compile time via the type parameter, so the runtime arity check the
// original kernel performed by hand is enforced by the Go compiler instead.
