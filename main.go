package main

import (
	"fmt"
	"os"
	"path/filepath"

	"ledgerkit/statement-csv/cmd/category"
	"ledgerkit/statement-csv/cmd/exportcmd"
	"ledgerkit/statement-csv/cmd/importcmd"
	"ledgerkit/statement-csv/cmd/root"

	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables before any configuration is read.
	loadEnvSilently()

	root.Init()

	root.Cmd.AddCommand(importcmd.Cmd)
	root.Cmd.AddCommand(category.Cmd)
	root.Cmd.AddCommand(exportcmd.Cmd)
}

// loadEnvSilently loads a .env file without logging anything; nothing is
// configured to log yet.
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
