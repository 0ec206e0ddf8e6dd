package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/honeyshop-backend/internal/seed"
)

func newSeedCmd() *cobra.Command {
	var file string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo categories, products, customers, reviews and orders",
		Long: `Load demo data through the regular services. Without --file the
built-in catalog is used. Records that already exist are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.Load(file)
			if err != nil {
				return err
			}
			if dryRun {
				reviews, orders := 0, 0
				for _, c := range f.Customers {
					reviews += len(c.Reviews)
					orders += len(c.Orders)
				}
				cmd.Printf("seed file ok: %d categories, %d products, %d customers, %d reviews, %d orders\n",
					len(f.Categories), len(f.Products), len(f.Customers), reviews, orders)
				return nil
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Migrate(cmd.Context()); err != nil {
				return err
			}
			s := seed.NewSeeder(a.Log, seed.Services{
				Auth:    a.Services.Auth,
				Catalog: a.Services.Catalog,
				Address: a.Services.Address,
				Cart:    a.Services.Cart,
				Order:   a.Services.Order,
				Review:  a.Services.Review,
			})
			res, err := s.Run(cmd.Context(), f)
			if err != nil {
				return err
			}
			cmd.Printf("seeded: %d categories, %d products, %d customers, %d reviews, %d orders\n",
				res.Categories, res.Products, res.Customers, res.Reviews, res.Orders)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "seed YAML file (default: built-in catalog)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the seed file without connecting to any store")
	return cmd
}
