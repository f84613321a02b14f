package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the session token used to talk to the server",
	Long: `Store the session token issued by the gallery's web login.
The token is sent as the session cookie on every request and kept in a
file only readable by the current user.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")

		if token == "" {
			if isTerminal(os.Stdin) {
				fmt.Fprint(cmd.OutOrStdout(), "Session token: ")
				tokenBytes, err := term.ReadPassword(os.Stdin.Fd())
				if err != nil {
					return fmt.Errorf("error reading token: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout()) // Add a newline after token input
				token = string(tokenBytes)
			} else {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if scanner.Scan() {
					token = scanner.Text()
				}
			}
		}

		token = strings.TrimSpace(token)
		if token == "" {
			return fmt.Errorf("no session token given")
		}

		store, err := tokenStore()
		if err != nil {
			return err
		}
		if err := store.SaveToken(token); err != nil {
			return fmt.Errorf("error saving session token: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Session token saved for %s\n", globalConfig.ServerURL)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := tokenStore()
		if err != nil {
			return err
		}
		if err := store.ClearToken(); err != nil {
			return fmt.Errorf("error removing session token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Successfully logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current user information",
	Long:  "Display the user the stored session token belongs to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		client, err := newClient()
		if err != nil {
			return err
		}
		if client.SessionToken == "" {
			fmt.Fprintln(out, "You are not logged in")
			return nil
		}

		user, err := client.CurrentUser(cmd.Context())
		if err != nil {
			return fmt.Errorf("error checking session: %w", err)
		}

		fmt.Fprintf(out, "Logged in as: %s (@%s)\n", user.FullName, user.Username)
		fmt.Fprintf(out, "User ID: %s\n", user.ID)
		fmt.Fprintf(out, "Server: %s\n", globalConfig.ServerURL)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("token", "", "Session token (prompted for when omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
