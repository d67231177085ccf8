// Package myself tracks the signed-in session of the client.
package myself

import "github.com/Leopold1975/emoji_best/pkg/client"

type Status string

const (
	StatusSignOut Status = "SIGNOUT"
	StatusLoading Status = "LOADING"
	StatusSignIn  Status = "SIGNIN"
)

type ActionType int

const (
	SignIn ActionType = iota + 1
	SuccessSignIn
	SignOut
)

type Action struct {
	Type        ActionType
	User        *client.User
	AccessToken string
}

type State struct {
	Status      Status
	User        *client.User
	AccessToken string
}

func Initial() State {
	return State{Status: StatusSignOut}
}

func Reduce(state State, action Action) State {
	switch action.Type {
	case SignIn:
		state.Status = StatusLoading

		return state
	case SuccessSignIn:
		return State{Status: StatusSignIn, User: action.User, AccessToken: action.AccessToken}
	case SignOut:
		return Initial()
	default:
		return state
	}
}

func (s State) SignedIn() bool {
	return s.Status == StatusSignIn && s.AccessToken != ""
}
