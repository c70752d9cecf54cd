package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tablebook",
		Short: "Table allocation engine: books parties onto prioritized sections without double-booking",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newSetupCmd())
	root.AddCommand(newBookCmd())
	root.AddCommand(newComboCmd())
	root.AddCommand(newCancelCmd())
	root.AddCommand(newRescheduleCmd())
	root.AddCommand(newAvailabilityCmd())
	root.AddCommand(newUpcomingCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
