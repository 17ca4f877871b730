package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"papertrade/cmd"

	"github.com/spf13/cobra"
)

// Scans a user's ledger for trades whose position and cash legs do not
// pair up, which is what a crash between the two writes leaves behind.

var userID string

var rootCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "find trade entries with missing position or cash legs",
	RunE: func(c *cobra.Command, args []string) error {
		apiHandler, err := cmd.InitializeDependencies()
		if err != nil {
			return err
		}
		defer cmd.CloseDependencies(apiHandler)

		unpaired, err := apiHandler.ReconciliationService.FindUnpaired(context.Background(), userID)
		if err != nil {
			return err
		}
		if len(unpaired) == 0 {
			fmt.Printf("no unpaired trades for %s\n", userID)
			return nil
		}

		out, err := json.MarshalIndent(unpaired, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func main() {
	rootCmd.Flags().StringVar(&userID, "user", "", "user id to scan")
	if err := rootCmd.MarkFlagRequired("user"); err != nil {
		log.Fatal(err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
