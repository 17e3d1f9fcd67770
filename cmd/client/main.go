// Package main starts the session client core.
//
// This process owns the persisted cache, the realtime channel and the
// synchronization loop that keeps one participant's view convergent with
// the authority-owned session.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	clientcmd "github.com/louisbranch/gametable/internal/cmd/client"
)

func main() {
	cfg, err := clientcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[CLIENT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := clientcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to run client: %v", err)
	}
}
