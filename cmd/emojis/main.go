package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Leopold1975/emoji_best/internal/emojis/cli"
)

func main() {
	interruptSignals := []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

	ctx, cancel := signal.NotifyContext(context.Background(), interruptSignals...)
	defer cancel()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		log.Println(err)
		cancel()
		os.Exit(1)
	}
}
