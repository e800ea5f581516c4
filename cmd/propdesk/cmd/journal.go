package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/propdesk/propdesk/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded closes from a SQLite journal",
	Long: `Query and display close records from a SQLite journal database.

Subcommands:
  summary - Aggregate wins/losses, net P&L, and close reasons
  trades  - List every recorded close for an account

Examples:
  propdesk journal summary -d propdesk.sqlite -a CHALLENGE-001
  propdesk journal trades -d propdesk.sqlite -a CHALLENGE-001`,
}

var journalSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Aggregate close statistics for an account",
	RunE:  runJournalSummary,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List recorded closes for an account",
	RunE:  runJournalTrades,
}

var (
	journalDBPath  string
	journalAccount string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalSummaryCmd)
	journalCmd.AddCommand(journalTradesCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./propdesk.sqlite", "path to SQLite journal DB")
	journalCmd.PersistentFlags().StringVarP(&journalAccount, "account", "a", "", "account id (required)")
	journalCmd.MarkPersistentFlagRequired("account")
}

func runJournalSummary(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	s, err := j.Summarize(journalAccount)
	if err != nil {
		return err
	}

	fmt.Printf("Account %s:\n", journalAccount)
	fmt.Printf("  Closes: %d (wins %d, losses %d)\n", s.Trades, s.Wins, s.Losses)
	fmt.Printf("  Net P&L: $%.2f\n", s.NetPL)
	fmt.Printf("  Fees: $%.2f\n", s.Fees)
	for reason, n := range s.ByReason {
		fmt.Printf("  %s: %d\n", reason, n)
	}
	return nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	trades, err := j.ListTradesByAccount(journalAccount)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		fmt.Println("No closes recorded.")
		return nil
	}

	for _, t := range trades {
		fmt.Printf("%s  %-8s %-5s qty %-10g %.2f -> %.2f  pl %.2f  fees %.2f  (%s)\n",
			t.CloseTime.Format("2006-01-02 15:04:05"),
			t.Symbol, t.Direction, t.Quantity, t.EntryPrice, t.ExitPrice,
			t.RealizedPL, t.Fees, t.Reason)
	}
	return nil
}
