package main

import (
	"context"
	"log"
	"os"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/app/bootstrap"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/default.yaml"
	}

	ctx := context.Background()
	runtime, err := bootstrap.NewRuntime(ctx, configPath)
	if err != nil {
		log.Fatalf("bootstrap runtime: %v", err)
	}
	if err := runtime.Run(ctx); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
