package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var short bool

	c := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Println(Version)
				return
			}
			fmt.Printf("tablebook version %s\n", Version)
			fmt.Printf("  commit: %s\n", CommitSHA)
			fmt.Printf("  built:  %s\n", BuildDate)
			fmt.Printf("  go:     %s\n", runtime.Version())
		},
	}
	c.Flags().BoolVar(&short, "short", false, "print only the version number")
	return c
}
