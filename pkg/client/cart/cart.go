// Package cart holds the download cart: the emojis a visitor picked for one batch download.
package cart

import (
	"net/url"
	"strconv"

	"github.com/Leopold1975/emoji_best/pkg/client"
)

const downloadPath = "/api/v1/download"

type ActionType int

const (
	Add ActionType = iota + 1
	Delete
	Download
)

type Action struct {
	Type  ActionType
	Emoji client.Emoji
}

type State struct {
	List         []client.Emoji
	DownloadLink string
}

func Initial() State {
	return State{List: []client.Emoji{}, DownloadLink: ""}
}

// Reduce returns the state after action. The given state is not modified.
func Reduce(state State, action Action) State {
	switch action.Type {
	case Add:
		list := make([]client.Emoji, 0, len(state.List)+1)
		list = append(list, action.Emoji)
		list = append(list, state.List...)

		return State{List: list, DownloadLink: DownloadLink(list)}
	case Delete:
		list := make([]client.Emoji, 0, len(state.List))

		for _, e := range state.List {
			if e.ID != action.Emoji.ID {
				list = append(list, e)
			}
		}

		return State{List: list, DownloadLink: DownloadLink(list)}
	case Download:
		return State{List: []client.Emoji{}, DownloadLink: state.DownloadLink}
	default:
		return state
	}
}

// DownloadLink is the archive URL for emojis, in list order,
// e.g. "/api/v1/download?emojis%5B%5D=3&emojis%5B%5D=1".
func DownloadLink(emojis []client.Emoji) string {
	params := url.Values{}

	for _, e := range emojis {
		params.Add("emojis[]", strconv.FormatInt(e.ID, 10))
	}

	return downloadPath + "?" + params.Encode()
}

// IDs returns the ids of the emojis in the cart in list order.
func (s State) IDs() []int64 {
	ids := make([]int64, 0, len(s.List))
	for _, e := range s.List {
		ids = append(ids, e.ID)
	}

	return ids
}
