package myself

import (
	"testing"

	"github.com/Leopold1975/emoji_best/pkg/client"
	"github.com/stretchr/testify/assert"
)

func TestSignInFlow(t *testing.T) {
	state := Initial()
	assert.Equal(t, StatusSignOut, state.Status)
	assert.False(t, state.SignedIn())

	state = Reduce(state, Action{Type: SignIn}) //nolint:exhaustruct
	assert.Equal(t, StatusLoading, state.Status)
	assert.Nil(t, state.User)

	user := &client.User{ID: 1, Name: "me"}

	state = Reduce(state, Action{Type: SuccessSignIn, User: user, AccessToken: "tok"})
	assert.Equal(t, StatusSignIn, state.Status)
	assert.Equal(t, user, state.User)
	assert.Equal(t, "tok", state.AccessToken)
	assert.True(t, state.SignedIn())

	state = Reduce(state, Action{Type: SignOut}) //nolint:exhaustruct
	assert.Equal(t, Initial(), state)
}

func TestUnknownAction(t *testing.T) {
	state := Reduce(Initial(), Action{Type: SignIn}) //nolint:exhaustruct

	assert.Equal(t, state, Reduce(state, Action{Type: ActionType(42)})) //nolint:exhaustruct
}
