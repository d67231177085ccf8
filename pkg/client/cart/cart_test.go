package cart

import (
	"testing"

	"github.com/Leopold1975/emoji_best/pkg/client"
	"github.com/stretchr/testify/assert"
)

func emoji(id int64) client.Emoji {
	return client.Emoji{ID: id, Name: "emoji"}
}

func TestAddPrependsAndBuildsLink(t *testing.T) {
	state := Initial()

	state = Reduce(state, Action{Type: Add, Emoji: emoji(1)})
	state = Reduce(state, Action{Type: Add, Emoji: emoji(2)})

	assert.Equal(t, []int64{2, 1}, state.IDs())
	assert.Equal(t, "/api/v1/download?emojis%5B%5D=2&emojis%5B%5D=1", state.DownloadLink)
}

func TestDeleteRemovesByID(t *testing.T) {
	state := Initial()
	for _, id := range []int64{1, 2, 3} {
		state = Reduce(state, Action{Type: Add, Emoji: emoji(id)})
	}

	state = Reduce(state, Action{Type: Delete, Emoji: emoji(2)})

	assert.Equal(t, []int64{3, 1}, state.IDs())
	assert.Equal(t, "/api/v1/download?emojis%5B%5D=3&emojis%5B%5D=1", state.DownloadLink)

	state = Reduce(state, Action{Type: Delete, Emoji: emoji(42)})
	assert.Equal(t, []int64{3, 1}, state.IDs())
}

func TestDownloadClearsListKeepsLink(t *testing.T) {
	state := Reduce(Initial(), Action{Type: Add, Emoji: emoji(7)})

	state = Reduce(state, Action{Type: Download}) //nolint:exhaustruct

	assert.Empty(t, state.List)
	assert.Equal(t, "/api/v1/download?emojis%5B%5D=7", state.DownloadLink)
}

func TestUnknownActionReturnsState(t *testing.T) {
	state := Reduce(Initial(), Action{Type: Add, Emoji: emoji(7)})

	assert.Equal(t, state, Reduce(state, Action{Type: ActionType(99)})) //nolint:exhaustruct
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := Reduce(Initial(), Action{Type: Add, Emoji: emoji(1)})
	before = Reduce(before, Action{Type: Add, Emoji: emoji(2)})

	_ = Reduce(before, Action{Type: Delete, Emoji: emoji(2)})
	_ = Reduce(before, Action{Type: Add, Emoji: emoji(3)})

	assert.Equal(t, []int64{2, 1}, before.IDs())
}

func TestDownloadLinkEmpty(t *testing.T) {
	assert.Equal(t, "/api/v1/download?", DownloadLink(nil))
}
