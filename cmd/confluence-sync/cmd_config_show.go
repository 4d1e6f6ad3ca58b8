/*
Copyright © 2025 pdekker
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdekker/confluence-sync/config"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.  The API token
is reported as present/absent, never printed.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := contentDir("")
		if err != nil {
			return err
		}

		token, err := resolveToken()
		if err != nil {
			return err
		}

		settings, err := config.Resolve(dir, config.Overrides{
			BaseURL: BaseURL,
			Email:   AuthUsername,
			Token:   token,
		}, os.Getenv)
		if err != nil {
			return err
		}

		fmt.Printf("Dump current config state:\n\n")

		fmt.Printf("  Config file: %s\n", ConfigActual)
		fmt.Printf("  Debug: %v\n", Debug)
		fmt.Println()
		fmt.Printf("  Content dir: %s\n", settings.Dir)
		fmt.Printf("  BaseURL: %s\n", settings.BaseURL)
		fmt.Printf("  Email: %s\n", settings.Email)
		fmt.Printf("  Token set: %v\n", settings.Token != "")
		fmt.Printf("  PageId: %s\n", settings.PageID)

		return nil
	},
}

func init() {
	configCmd.AddCommand(showCmd)
}
