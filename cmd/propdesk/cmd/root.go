package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "propdesk",
	Short: "An in-memory prop-trading evaluation simulator",
	Long: `Propdesk is a self-contained prop-trading evaluation simulator written in Go.

It provides:
  - Simulated leveraged positions against a challenge account
  - A bounded random-walk price process per instrument
  - Stop-loss / take-profit / trailing-stop risk evaluation
  - Margin, fee, and realized/unrealized P&L accounting
  - SQLite or CSV trade journaling and Prometheus metrics`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env next to the binary can hold defaults; ignore if absent.
	_ = godotenv.Load()
}
