package main

import (
	"fmt"

	"gin-bytemarket/infra"
	"gin-bytemarket/migrations"

	"github.com/spf13/cobra"
)

// bytemarket migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		infra.Initialize()
		db, err := infra.SetupDB()
		if err != nil {
			return err
		}
		if err := migrations.Migrate(db); err != nil {
			return err
		}

		tokenDB, err := infra.SetupTokenDB()
		if err != nil {
			return err
		}
		if err := migrations.MigrateTokens(tokenDB); err != nil {
			return err
		}
		fmt.Println("Migrations complete.")
		return nil
	},
}

// bytemarket seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a demo seller and sample products into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		infra.Initialize()
		db, err := infra.SetupDB()
		if err != nil {
			return err
		}
		if err := migrations.Migrate(db); err != nil {
			return err
		}
		n, err := migrations.Seed(db)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Println("Database already has users; nothing seeded.")
			return nil
		}
		fmt.Printf("Seeded %d products. Seller login: %s / %s\n", n, migrations.SeedSellerEmail, migrations.SeedSellerPassword)
		return nil
	},
}
