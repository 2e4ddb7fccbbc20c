package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
)

// watchProgress prints progress events until the returned stop function is
// called. stop waits for the printer to finish.
func watchProgress(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)
	updates, err := container.ProgressService.Subscribe(ctx)
	if err != nil {
		cancel()
		return func() {}
	}

	done := make(chan struct{})
	dim := color.New(color.Faint)
	go func() {
		defer close(done)
		for evt := range updates {
			data := evt.Payload()
			dim.Printf("\r%v: %v/%v   ", data["kind"], data["done"], data["total"])
		}
	}()

	return func() {
		cancel()
		<-done
		fmt.Print("\r")
	}
}
