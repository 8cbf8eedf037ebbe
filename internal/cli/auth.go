package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || pass == "" {
				return fmt.Errorf("--user and --pass are required")
			}

			cred, err := client.Login(cmd.Context(), user, pass)
			if err != nil {
				return err
			}

			// Save credential
			if err := cfg.SaveCredential(cred); err != nil {
				return fmt.Errorf("failed to save credential: %w", err)
			}

			output(cmd).Print(cred)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.DeleteCredential(); err != nil {
				return err
			}
			output(cmd).PrintMessage("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := cfg.LoadCredential()
			if err != nil {
				return err
			}
			if cred == nil {
				return errors.New("not signed in")
			}
			if cred.Expired(time.Now()) {
				return errors.New("credential has expired, sign in again")
			}

			output(cmd).Print(cred)
			return nil
		},
	}
}
