package main

import (
	"fmt"
	"os"

	"github.com/pageza/foodgram/backend/internal/commands"
	"github.com/pageza/foodgram/backend/internal/logging"
)

func main() {
	logging.Init(logging.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console"})

	if err := commands.NewRootCommand(commands.DefaultOpener).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
