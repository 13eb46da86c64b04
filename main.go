package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/camden-git/galleryprep/commands"
	"github.com/camden-git/galleryprep/gallery"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, gallery.ErrAborted) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
