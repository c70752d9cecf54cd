package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newCancelCmd() *cobra.Command {
	var id string

	c := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a reservation (cancelling a combo leg releases all linked tables)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			resID, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("reservation id: %w", err)
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			ok, err := a.engine.Lifecycle().Cancel(ctx, resID)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(os.Stdout, "reservation not found or already cancelled")
				return nil
			}
			fmt.Fprintln(os.Stdout, "reservation cancelled")
			return nil
		},
	}

	c.Flags().StringVar(&id, "id", "", "reservation id")
	_ = c.MarkFlagRequired("id")
	return c
}

func newRescheduleCmd() *cobra.Command {
	var (
		id string
		to string
	)

	c := &cobra.Command{
		Use:   "reschedule",
		Short: "Move a confirmed reservation to a new time on its current table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			resID, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("reservation id: %w", err)
			}
			when, err := parseWhen(to)
			if err != nil {
				return err
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			ok, reason, err := a.engine.Lifecycle().Reschedule(ctx, resID, when)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(os.Stdout, "reschedule failed: %s\n", reason)
				return nil
			}
			fmt.Fprintln(os.Stdout, "reservation rescheduled")
			return nil
		},
	}

	c.Flags().StringVar(&id, "id", "", "reservation id")
	c.Flags().StringVar(&to, "to", "", "new time (RFC3339 or '2006-01-02 15:04')")
	_ = c.MarkFlagRequired("id")
	_ = c.MarkFlagRequired("to")
	return c
}
