package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/propdesk/propdesk/sim"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted trading session",
	Long: `Run a short scripted session against a fresh in-memory ledger.

Shows the basic workflow of:
  1. Seeding a challenge account
  2. Opening a leveraged market position
  3. Walking prices and evaluating stops
  4. Partially closing, then fully closing the position
  5. Reading the account snapshot and activity log`,
	RunE: runDemo,
}

var demoBalance float64

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().Float64VarP(&demoBalance, "balance", "b", 100_000, "starting account balance")
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	engine := sim.NewEngine(sim.NewPriceBook(0), nil, nil)
	if err := engine.CreateAccount("DEMO", demoBalance); err != nil {
		return err
	}

	fmt.Printf("Seeded account DEMO with $%.2f\n\n", demoBalance)

	res, err := engine.PlaceOrder(ctx, sim.OrderRequest{
		AccountID: "DEMO",
		Symbol:    "BTC_USD",
		Direction: sim.Long,
		Type:      sim.OrderMarket,
		Quantity:  0.5,
		Leverage:  10,
	})
	if err != nil {
		return fmt.Errorf("open position: %w", err)
	}
	p := res.Position

	fmt.Printf("Opened %s %s:\n", p.Direction, p.Symbol)
	fmt.Printf("  Entry: %.2f\n", p.EntryPrice)
	fmt.Printf("  Margin: $%.2f (x%g)\n", p.IsolatedMargin, p.Leverage)
	fmt.Printf("  Liquidation: %.2f\n", p.LiquidationPrice)
	fmt.Printf("  Entry fee: $%.2f\n\n", p.TradeFees)

	for i := 0; i < 10; i++ {
		engine.AdvancePrices()
		time.Sleep(10 * time.Millisecond)
	}
	engine.EvaluateRisk()

	snap, _ := engine.ComputeSnapshot("DEMO")
	fmt.Printf("After 10 price ticks:\n")
	fmt.Printf("  Net worth: $%.2f\n", snap.NetWorth)
	fmt.Printf("  Unrealized P&L: $%.2f\n", snap.UnrealizedPnl)
	fmt.Printf("  Margin used: $%.2f, available: $%.2f\n\n", snap.MarginUsed, snap.AvailableMargin)

	if _, err := engine.PartialClose(ctx, p.ID, 0.2); err != nil {
		return fmt.Errorf("partial close: %w", err)
	}
	fmt.Printf("Partially closed 0.2 of %s\n", p.Symbol)

	closed, err := engine.ClosePosition(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}
	fmt.Printf("Closed remainder @ %.2f (P&L $%.2f, fees $%.2f)\n\n",
		closed.ExitPrice, closed.RealizedPnl, closed.TotalFees)

	snap, _ = engine.ComputeSnapshot("DEMO")
	fmt.Printf("Final:\n")
	fmt.Printf("  Net worth: $%.2f\n", snap.NetWorth)
	fmt.Printf("  Realized P&L: $%.2f\n", snap.RealizedPnl)
	fmt.Printf("  Fees paid: $%.2f\n\n", snap.TotalFeesPaid)

	fmt.Println("Activity:")
	for _, a := range engine.GetActivity("DEMO") {
		if a.Pnl != nil {
			fmt.Printf("  [%s] %s - %s (P&L %.2f)\n", a.Type, a.Title, a.Sub, *a.Pnl)
		} else {
			fmt.Printf("  [%s] %s - %s\n", a.Type, a.Title, a.Sub)
		}
	}

	return nil
}
