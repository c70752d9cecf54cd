package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/tablebook/internal/domain/reservation"
)

func newBookCmd() *cobra.Command {
	var (
		name    string
		email   string
		phone   string
		party   int
		at      string
		section string
		hold    bool
	)

	c := &cobra.Command{
		Use:   "book",
		Short: "Book a table for a party at a given time",
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

			result, err := a.engine.Book(ctx, reservation.BookingRequest{
				CustomerName:      name,
				CustomerEmail:     email,
				CustomerPhone:     phone,
				PartySize:         party,
				RequestedTime:     when,
				SectionPreference: section,
				HoldAsPending:     hold,
			})
			if err != nil {
				return err
			}

			printBookingResult(result)
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "customer name")
	c.Flags().StringVar(&email, "email", "", "customer email")
	c.Flags().StringVar(&phone, "phone", "", "customer phone")
	c.Flags().IntVar(&party, "party", 0, "party size")
	c.Flags().StringVar(&at, "at", "", "requested time (RFC3339 or '2006-01-02 15:04')")
	c.Flags().StringVar(&section, "section", "", "preferred section (empty or 'Any' for no preference)")
	c.Flags().BoolVar(&hold, "hold", false, "persist a pending hold when only alternatives are available")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("party")
	_ = c.MarkFlagRequired("at")
	return c
}

func printBookingResult(result reservation.BookingResult) {
	fmt.Fprintln(os.Stdout, result.Message)
	for _, res := range result.Reservations {
		table := "-"
		if res.TableID != nil {
			table = fmt.Sprintf("%d", *res.TableID)
		}
		fmt.Fprintf(os.Stdout, "  reservation %s  table=%s  seats=%d  at=%s  status=%s\n",
			res.ID, table, res.PartySize, res.RequestedTime.Format("2006-01-02 15:04"), res.Status)
	}
	for i, alt := range result.Alternatives {
		kind := "larger table"
		if alt.ExactMatch {
			kind = "exact fit"
		}
		if alt.Combined {
			kind = "combined pair"
		}
		labels := ""
		for j, t := range alt.Tables {
			if j > 0 {
				labels += "+"
			}
			labels += t.Label
		}
		fmt.Fprintf(os.Stdout, "  alternative %d: %s in %s (%s, seats %d)\n",
			i+1, labels, alt.SectionName, kind, alt.TotalCapacity)
	}
}
