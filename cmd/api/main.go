package main

import (
	"context"
	"log"

	"github.com/Sauravdeep01/ResumeAnalyser/internal/bootstrap"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/config"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}

	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
