package main

import (
	"log"

	"github.com/MyelinBots/statbot-go/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("statbot: %v", err)
	}
}
