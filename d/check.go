// Package d provides the assertion helpers used throughout dtree to
// enforce the invariants of the compression tree and its hash sets.
//
// d.Chk panics unconditionally on a violated invariant (table full,
// bad alignment, a zero key handed to a hash set); nothing
// recovers from it, because the store's Non-goals rule out partial
// rollback. d.Exp panics in a form that Try can recover, and is used
// at the public façade boundary so a caller-facing error can be
// returned instead of the whole process going down.
package d

import (
	"fmt"

	"github.com/stretchr/testify/assert"
)

var (
	// Chk raises a bare panic that nothing in this package recovers from.
	Chk = assert.New(&panicker{recoverable: false})
	// Exp raises the same assertions as Chk, but tagged so Try can
	// recover the panic into a returned error.
	Exp = assert.New(&panicker{recoverable: true})
)

// panicker adapts testify's assertion failures into a Go panic, tagging
// whether the resulting panic is one Try knows how to catch.
type panicker struct {
	recoverable bool
}

func (p *panicker) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.recoverable {
		panic(dtreeError{msg})
	}
	panic(msg)
}

type dtreeError struct {
	msg string
}

func (e dtreeError) Error() string {
	return e.msg
}

// Try runs f and converts any panic raised through Exp into an error.
// Panics raised through Chk, or any other panic value, propagate unchanged.
func Try(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if de, ok := r.(dtreeError); ok {
				err = de
				return
			}
			panic(r)
		}
	}()
	f()
	return nil
}

// PanicIfError panics through Chk if err is non-nil.
func PanicIfError(err error) {
	if err != nil {
		Chk.NoError(err)
	}
}

// PanicIfTrue panics through Chk if the condition holds.
func PanicIfTrue(cond bool, msgAndArgs ...interface{}) {
	if cond {
		Chk.Fail(fmt.Sprint(msgAndArgs...))
	}
}

// PanicIfFalse panics through Chk unless the condition holds.
func PanicIfFalse(cond bool, msgAndArgs ...interface{}) {
	if !cond {
		Chk.Fail(fmt.Sprint(msgAndArgs...))
	}
}
