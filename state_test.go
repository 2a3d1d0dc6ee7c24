package tokengate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_RequestState(t *testing.T) {
	t.Run("forward then complete", func(t *testing.T) {
		state := &requestState{}
		assert.NotPanics(t, func() {
			state.forward()
			state.complete()
		})
	})

	t.Run("reject is terminal", func(t *testing.T) {
		state := &requestState{}
		state.reject()

		assert.PanicsWithValue(t, "tokengate: request driven after completion", func() {
			state.forward()
		})
	})

	t.Run("complete is terminal", func(t *testing.T) {
		state := &requestState{}
		state.forward()
		state.complete()

		assert.PanicsWithValue(t, "tokengate: request driven after completion", func() {
			state.reject()
		})
	})

	t.Run("cannot complete without forwarding", func(t *testing.T) {
		state := &requestState{}

		assert.PanicsWithValue(t, "tokengate: invalid transition validating -> completed", func() {
			state.complete()
		})
	})

	t.Run("cannot forward twice", func(t *testing.T) {
		state := &requestState{}
		state.forward()

		assert.PanicsWithValue(t, "tokengate: invalid transition forwarding -> forwarding", func() {
			state.forward()
		})
	})
}
