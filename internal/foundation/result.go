// Package foundation provides small generic building blocks shared by the pipeline.
package foundation

// Result is the outcome of converting one file: a value of type T or an
// error of type E. The batch orchestrator folds Results into its report
// instead of returning early, so one bad input never stops a run.
type Result[T any, E error] struct {
	value T
	err   E
	ok    bool
}

// Ok wraps a successful value.
func Ok[T any, E error](value T) Result[T, E] {
	return Result[T, E]{value: value, ok: true}
}

// Err wraps a failure.
func Err[T any, E error](err E) Result[T, E] {
	return Result[T, E]{err: err}
}

func (r Result[T, E]) IsOk() bool { return r.ok }

// Match calls onOk or onErr depending on the outcome.
func (r Result[T, E]) Match(onOk func(T), onErr func(E)) {
	if r.ok {
		onOk(r.value)
		return
	}
	onErr(r.err)
}

// ToTuple returns the conventional (value, error) pair. Exactly one side is
// non-zero.
func (r Result[T, E]) ToTuple() (T, E) {
	var zeroVal T
	var zeroErr E
	if r.ok {
		return r.value, zeroErr
	}
	return zeroVal, r.err
}
