package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"academia/apperrors"
	"academia/models"
	"academia/services"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		user, _, err := services.NewProfileService(app.client, app.session, app.logger).Load(ctx)
		if err != nil {
			return withLoginHint(err)
		}
		printProfile(cmd.OutOrStdout(), user)
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Update profile fields",
	Long: `Update profile fields. Only the flags you pass are changed.

Skills are a comma separated list, empty entries are dropped.
Status is one of ACTIVO, PASIVO, CERRADO.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		svc := services.NewProfileService(app.client, app.session, app.logger)
		_, form, err := svc.Load(ctx)
		if err != nil {
			return withLoginHint(err)
		}

		flags := cmd.Flags()
		for name, dst := range map[string]*string{
			"headline": &form.Headline,
			"summary":  &form.Summary,
			"city":     &form.City,
			"country":  &form.Country,
			"skills":   &form.Skills,
			"status":   &form.JobSearch,
		} {
			if flags.Changed(name) {
				*dst, _ = flags.GetString(name)
			}
		}

		user, err := svc.Save(ctx, form)
		if err != nil {
			return withLoginHint(fmt.Errorf("%s: %w", apperrors.RemoteMessage(err, "could not save profile"), err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Profile updated")
		printProfile(cmd.OutOrStdout(), user)
		return nil
	},
}

func printProfile(w io.Writer, u *models.User) {
	fmt.Fprintln(w, u.Name)
	fmt.Fprintln(w, u.HeadlineLabel())
	fmt.Fprintln(w, u.LocationLabel())
	if label := u.JobSearch.Label(); label != "" {
		fmt.Fprintln(w, label)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, u.SummaryLabel())
	if len(u.Skills) == 0 {
		fmt.Fprintln(w, "No skills listed.")
		return
	}
	fmt.Fprintf(w, "Skills: %s\n", strings.Join(u.Skills, ", "))
}

func init() {
	f := profileEditCmd.Flags()
	f.String("headline", "", "Professional headline")
	f.String("summary", "", "About you")
	f.String("city", "", "City")
	f.String("country", "", "Country")
	f.String("skills", "", "Comma separated skills")
	f.String("status", "", "Job search status")

	profileCmd.AddCommand(profileShowCmd, profileEditCmd)
}
