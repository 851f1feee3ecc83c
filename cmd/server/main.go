package main

import (
	"context"
	"log"

	"pinfield/server/internal/app"
	"pinfield/server/internal/observability"
)

func main() {
	cfg := app.Config{
		Observability: observability.FromEnv(),
	}
	if err := app.Run(context.Background(), cfg); err != nil {
		log.Fatalf("%v", err)
	}
}
