package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Leopold1975/emoji_best/pkg/client"
	"github.com/Leopold1975/emoji_best/pkg/client/cart"
	"github.com/spf13/cobra"
)

func newDownloadCommand() *cobra.Command {
	var (
		baseURL string
		out     string
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "download ID...",
		Short: "Download emojis as one zip archive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(baseURL)
			if err != nil {
				return fmt.Errorf("create client error: %w", err)
			}

			state := cart.Initial()

			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid emoji id %q: %w", arg, err)
				}

				e, err := c.GetEmoji(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("get emoji %d error: %w", id, err)
				}

				state = cart.Reduce(state, cart.Action{Type: cart.Add, Emoji: e.Emoji})
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create output file error: %w", err)
			}
			defer f.Close()

			n, err := c.Download(cmd.Context(), state.DownloadLink, f)
			if err != nil {
				return fmt.Errorf("download error: %w", err)
			}

			state = cart.Reduce(state, cart.Action{Type: cart.Download}) //nolint:exhaustruct

			cmd.Printf("saved %d bytes to %s (%s)\n", n, out, state.DownloadLink)

			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "base URL of the emoji API")
	cmd.Flags().StringVarP(&out, "out", "o", "emojis.zip", "output file")

	return cmd
}
