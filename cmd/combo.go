package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/tablebook/internal/domain/reservation"
)

func newComboCmd() *cobra.Command {
	var (
		name     string
		email    string
		phone    string
		party    int
		at       string
		tableIDs []int64
	)

	c := &cobra.Command{
		Use:   "combo",
		Short: "Book one party across several tables as a linked unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			when, err := parseWhen(at)
			if err != nil {
				return err
			}

			result, err := a.engine.Combos().CreateCombo(ctx, reservation.ComboBookingRequest{
				CustomerName:  name,
				CustomerEmail: email,
				CustomerPhone: phone,
				PartySize:     party,
				RequestedTime: when,
				TableIDs:      tableIDs,
			})
			if err != nil {
				return err
			}
			if !result.OK {
				fmt.Fprintf(os.Stdout, "combo booking failed: %s\n", result.Reason)
				return nil
			}

			fmt.Fprintf(os.Stdout, "created %d linked reservations\n", len(result.Reservations))
			for _, res := range result.Reservations {
				fmt.Fprintf(os.Stdout, "  reservation %s  table=%d  seats=%d\n", res.ID, *res.TableID, res.PartySize)
			}
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "customer name")
	c.Flags().StringVar(&email, "email", "", "customer email")
	c.Flags().StringVar(&phone, "phone", "", "customer phone")
	c.Flags().IntVar(&party, "party", 0, "party size")
	c.Flags().StringVar(&at, "at", "", "requested time (RFC3339 or '2006-01-02 15:04')")
	c.Flags().Int64SliceVar(&tableIDs, "tables", nil, "table ids to combine")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("party")
	_ = c.MarkFlagRequired("at")
	_ = c.MarkFlagRequired("tables")
	return c
}
