package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Registers migrations and seeders through init().
	_ "github.com/shashiranjanraj/storehub/database/migrations"
	_ "github.com/shashiranjanraj/storehub/database/seeders"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "storehub",
	Short:         "StoreHub multi-tenant commerce backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(storeCreateCmd)
	rootCmd.AddCommand(storeListCmd)
	rootCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(tokenIssueCmd)
}
