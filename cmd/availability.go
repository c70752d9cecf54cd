package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/tablebook/internal/domain/reservation"
)

func newAvailabilityCmd() *cobra.Command {
	var (
		section string
		at      string
	)

	c := &cobra.Command{
		Use:   "availability",
		Short: "Show table occupancy around a time, per section or for the whole floor",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			q := reservation.AvailabilityQuery{Section: section}
			if at != "" {
				when, err := parseWhen(at)
				if err != nil {
					return err
				}
				q.AtTime = when
			}

			snap, err := a.avail.Snapshot(ctx, q)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "at %s: %d tables, %d booked, %d available\n",
				snap.AtTime.Format("2006-01-02 15:04"), snap.TotalTables, snap.BookedCount, snap.AvailableCount)
			for _, ta := range snap.PerTable {
				state := "free"
				if ta.Booked {
					state = "booked"
				}
				fmt.Fprintf(os.Stdout, "  %-12s %-12s seats=%d  %s\n", ta.Table.Label, ta.Section, ta.Table.Capacity, state)
			}
			return nil
		},
	}

	c.Flags().StringVar(&section, "section", "", "restrict to one section")
	c.Flags().StringVar(&at, "at", "", "time to check (default: now)")
	return c
}

func newUpcomingCmd() *cobra.Command {
	var hours int

	c := &cobra.Command{
		Use:   "upcoming",
		Short: "List confirmed reservations in the next N hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.avail.Upcoming(ctx, time.Duration(hours)*time.Hour)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(os.Stdout, "no upcoming reservations")
				return nil
			}
			for _, res := range list {
				table := "-"
				if res.TableID != nil {
					table = fmt.Sprintf("%d", *res.TableID)
				}
				fmt.Fprintf(os.Stdout, "%s  %-20s party=%d  table=%s  %s\n",
					res.RequestedTime.Format("2006-01-02 15:04"), res.CustomerName, res.PartySize, table, res.Status)
			}
			return nil
		},
	}

	c.Flags().IntVar(&hours, "hours", 24, "look-ahead window in hours")
	return c
}
