package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"academia/apperrors"
	"academia/models"
	"academia/services"
)

var (
	loginEmail    string
	loginPassword string

	registerName     string
	registerEmail    string
	registerPassword string

	deleteConfirmed bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		auth := services.NewAuthService(app.client, app.session, app.logger)
		res, err := auth.Login(ctx, models.Credentials{Email: loginEmail, Password: loginPassword})
		if err != nil {
			return errors.New(apperrors.RemoteMessage(err, err.Error()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", res.Name)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		auth := services.NewAuthService(app.client, app.session, app.logger)
		msg, err := auth.Register(ctx, models.Registration{Name: registerName, Email: registerEmail, Password: registerPassword})
		if err != nil {
			return errors.New(apperrors.RemoteMessage(err, err.Error()))
		}
		if msg == "" {
			msg = "Account created"
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		fmt.Fprintln(cmd.OutOrStdout(), "You can now log in with 'academia login'.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := services.NewAuthService(app.client, app.session, app.logger).Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.session.Token() == "" {
			return withLoginHint(apperrors.ErrNotAuthenticated)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, app.session.UserName())
		if claims, err := app.session.Claims(); err == nil && claims.ExpiresAt != nil {
			state := "valid"
			if app.session.Expired(time.Now()) {
				state = "expired"
			}
			fmt.Fprintf(out, "Session %s until %s\n", state, claims.ExpiresAt.Time.Local().Format(time.RFC1123))
		}
		return nil
	},
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage your account",
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your account permanently",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !deleteConfirmed {
			return errors.New("this deletes your account permanently, pass --yes to confirm")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		if err := services.NewAuthService(app.client, app.session, app.logger).DeleteAccount(ctx); err != nil {
			return withLoginHint(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Account deleted")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password")

	accountDeleteCmd.Flags().BoolVar(&deleteConfirmed, "yes", false, "Confirm deletion")
	accountCmd.AddCommand(accountDeleteCmd)
}
