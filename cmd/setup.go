package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/tablebook/internal/domain/reservation"
	"github.com/example/tablebook/internal/postgres"
	"github.com/example/tablebook/internal/store"
)

func newSetupCmd() *cobra.Command {
	var seed bool

	c := &cobra.Command{
		Use:   "setup",
		Short: "Run database migrations and optionally seed the default floor plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := postgres.Migrate(ctx, a.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(os.Stdout, "migrations applied")

			if !seed {
				return nil
			}
			created, err := seedFloorPlan(ctx, a.store)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "seeded %d tables\n", created)
			return nil
		},
	}

	c.Flags().BoolVar(&seed, "seed", false, "create the default sections and tables if missing")
	return c
}

type seedSection struct {
	section    reservation.Section
	capacities []int
}

// defaultFloorPlan mirrors a small venue: two scenic combinable sections,
// an indoor room, and a private section large enough for oversized parties.
func defaultFloorPlan() []seedSection {
	return []seedSection{
		{reservation.Section{Name: "Lake View", Priority: 1, CanCombineTables: true, Active: true}, []int{2, 2, 4, 6}},
		{reservation.Section{Name: "Garden View", Priority: 2, CanCombineTables: true, Active: true}, []int{2, 4, 4, 6}},
		{reservation.Section{Name: "Indoors", Priority: 3, CanCombineTables: false, Active: true}, []int{2, 4, 6, 8}},
		{reservation.Section{Name: "Private", Priority: 4, CanCombineTables: false, Active: true}, []int{12, 20}},
	}
}

func seedFloorPlan(ctx context.Context, st store.Store) (int, error) {
	created := 0
	for _, plan := range defaultFloorPlan() {
		sec, err := st.Sections().GetByName(ctx, plan.section.Name)
		if errors.Is(err, store.ErrNotFound) {
			sec, err = st.Sections().Create(ctx, plan.section)
		}
		if err != nil {
			return created, err
		}

		existing, err := st.Tables().ListBySection(ctx, sec.ID)
		if err != nil {
			return created, err
		}
		if len(existing) > 0 {
			continue
		}
		for i, capacity := range plan.capacities {
			_, err := st.Tables().Create(ctx, reservation.Table{
				Label:     fmt.Sprintf("%s %d", sec.Name, i+1),
				Capacity:  capacity,
				SectionID: sec.ID,
				Active:    true,
			})
			if err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
