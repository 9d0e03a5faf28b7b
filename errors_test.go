package tpool

import (
	"errors"
	"strings"

	"github.com/stretchr/testify/require"
)

// errorCheck asserts something about an error returned by the code under test.
type errorCheck func(t require.TestingT, err error)

type tHelper interface{ Helper() }

func NoError(t require.TestingT, err error) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	require.NoError(t, err)
}

// ErrorIs checks that err matches every one of targets.
func ErrorIs(targets ...error) errorCheck {
	return func(t require.TestingT, err error) {
		if h, ok := t.(tHelper); ok {
			h.Helper()
		}

		if err == nil {
			t.Errorf("expected an error matching %v, got nil", targets)
			return
		}

		for _, target := range targets {
			if !errors.Is(err, target) {
				t.Errorf("error %q (%T) does not match %q (%T)", err, err, target, target)
			}
		}
	}
}

// ErrorStringContains checks that the message of err contains s.
func ErrorStringContains(s string) errorCheck {
	return func(t require.TestingT, err error) {
		if h, ok := t.(tHelper); ok {
			h.Helper()
		}

		if err == nil {
			t.Errorf("expected an error containing %q, got nil", s)
			return
		}

		if !strings.Contains(err.Error(), s) {
			t.Errorf("error %q does not contain %q", err, s)
		}
	}
}

// PanicsWithErrorIs runs fn and checks that it panics with an error value
// matching every one of targets.
func PanicsWithErrorIs(targets ...error) func(require.TestingT, func()) {
	return func(t require.TestingT, fn func()) {
		if h, ok := t.(tHelper); ok {
			h.Helper()
		}

		var recovered any
		func() {
			defer func() { recovered = recover() }()
			fn()
		}()

		if recovered == nil {
			t.Errorf("expected a panic, none occurred")
			return
		}

		err, ok := recovered.(error)
		if !ok {
			t.Errorf("panic value is not an error: %T(%v)", recovered, recovered)
			return
		}

		ErrorIs(targets...)(t, err)
	}
}
