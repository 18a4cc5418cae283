package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newKeyCmd(app *App) *cobra.Command {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the API key",
		Long:  `Show or rotate the key clients send in the X-API-Key header.`,
	}

	keyCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.APIKeys == nil {
				return errors.New("API key manager not initialized")
			}
			key := app.APIKeys.GetCurrentKey()
			if key == "" {
				return errors.New("no API key available")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Current API key:")
			fmt.Fprintln(out, key)
			return nil
		},
	})

	var assumeYes bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Rotate the API key",
		Long:  `Generate a new API key. Clients using the old key lose access immediately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.APIKeys == nil {
				return errors.New("API key manager not initialized")
			}
			out := cmd.OutOrStdout()

			if !assumeYes {
				fmt.Fprintln(out, "Warning: clients using the current key will be rejected after the reset.")
				fmt.Fprint(out, "Reset the API key? (yes/no): ")

				input, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && input == "" {
					return fmt.Errorf("read confirmation: %w", err)
				}
				input = strings.TrimSpace(strings.ToLower(input))
				if input != "yes" && input != "y" {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			newKey, err := app.APIKeys.ResetKey()
			if err != nil {
				return fmt.Errorf("reset key: %w", err)
			}
			if app.LogService != nil {
				_ = app.LogService.LogAPIKeyReset()
			}

			fmt.Fprintln(out, "New API key:")
			fmt.Fprintln(out, newKey)
			return nil
		},
	}
	resetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	keyCmd.AddCommand(resetCmd)

	return keyCmd
}
