package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"academia/apperrors"
	"academia/models"
	"academia/services"
)

var (
	listGroup string

	createKind        string
	createTitle       string
	createTags        string
	createInstitution string
	createPDF         string
	createVideo       string
	createDuration    string
	createPlatform    string

	openPrintOnly bool
)

var resourcesCmd = &cobra.Command{
	Use:     "resources",
	Aliases: []string{"catalog"},
	Short:   "Browse, publish and open resources",
}

var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog for one group (research or media)",
	RunE: func(cmd *cobra.Command, args []string) error {
		group, err := models.ParseGroup(listGroup)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		catalog := services.NewCatalog(app.client, app.logger)
		if err := catalog.Load(ctx); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Could not load the catalog.")
		}
		catalog.SetGroup(group)

		out := cmd.OutOrStdout()
		visible := catalog.Visible()
		if len(visible) == 0 {
			fmt.Fprintln(out, "No resources found.")
		}
		for _, r := range visible {
			printResource(out, r)
		}
		if n := len(services.Split(catalog.Items()).Unrecognized); n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d resource(s) of unknown kind not shown\n", n)
		}
		return nil
	},
}

func printResource(w io.Writer, r models.Resource) {
	fmt.Fprintf(w, "%s  [%s] %s\n", r.ID, r.Kind.Label(), r.Title)
	meta := r.Meta()
	if meta != "" {
		meta += " · "
	}
	fmt.Fprintf(w, "    %sby %s\n", meta, r.AuthorName())
	var tags []string
	for _, t := range r.Tags {
		tags = append(tags, "#"+t)
	}
	if len(tags) > 0 {
		fmt.Fprintf(w, "    %s\n", strings.Join(tags, " "))
	}
}

var resourcesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a thesis or a video",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := services.NewResourceForm(app.client, app.session, app.logger)
		kind, err := models.ParseKind(createKind)
		if err != nil {
			return err
		}
		if err := form.SetKind(kind); err != nil {
			return err
		}
		form.Title = createTitle
		form.RawTags = createTags
		form.Institution = createInstitution
		form.DocumentURL = createPDF
		form.VideoURL = createVideo
		form.Duration = createDuration
		if createPlatform != "" {
			form.Platform = models.Platform(createPlatform)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		catalog := services.NewCatalog(app.client, app.logger)
		refreshed := false
		created, err := form.Submit(ctx, func(ctx context.Context) error {
			err := catalog.Load(ctx)
			refreshed = err == nil
			return err
		})
		if err != nil {
			if errors.Is(err, apperrors.ErrValidation) {
				return err
			}
			return withLoginHint(fmt.Errorf("%s: %w", form.Notice, err))
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, form.Notice)
		printResource(out, *created.Resource)
		if group, ok := kind.Group(); ok && refreshed {
			catalog.SetGroup(group)
			fmt.Fprintf(out, "%d resource(s) now listed under %s\n", len(catalog.Visible()), group)
		}
		return nil
	},
}

var resourcesOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a resource's content in the browser",
	Long: `Open a resource's content in the browser.

Office and PDF documents open in the online document viewer,
everything else (videos, meeting links) opens directly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		catalog := services.NewCatalog(app.client, app.logger)
		if err := catalog.Load(ctx); err != nil {
			return fmt.Errorf("could not load the catalog: %w", err)
		}
		r, err := catalog.Find(args[0])
		if err != nil {
			return err
		}

		action, err := services.NewOpener(app.cfg).Resolve(r)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), action.Notice)
			return nil
		}

		out := cmd.OutOrStdout()
		if openPrintOnly {
			fmt.Fprintf(out, "mode:   %s\n", action.Mode)
			fmt.Fprintf(out, "target: %s\n", action.Target)
			fmt.Fprintf(out, "window: %s (%s)\n", action.Window.Name, action.Window.Features)
			return nil
		}
		browser.Stdout = io.Discard
		browser.Stderr = cmd.ErrOrStderr()
		return browser.OpenURL(action.Target)
	},
}

func init() {
	resourcesListCmd.Flags().StringVar(&listGroup, "group", "research", "Catalog group: research or media")

	f := resourcesCreateCmd.Flags()
	f.StringVar(&createKind, "kind", "thesis", "Resource kind: thesis or video")
	f.StringVar(&createTitle, "title", "", "Title")
	f.StringVar(&createTags, "tags", "", "Comma separated tags")
	f.StringVar(&createInstitution, "institution", "", "University (thesis)")
	f.StringVar(&createPDF, "pdf-url", "", "Document URL (thesis)")
	f.StringVar(&createVideo, "video-url", "", "Video link (video)")
	f.StringVar(&createDuration, "duration", "", "Duration, e.g. \"15 min\" (video)")
	f.StringVar(&createPlatform, "platform", "", "YouTube or Vimeo (video)")

	resourcesOpenCmd.Flags().BoolVar(&openPrintOnly, "print", false, "Print the open action instead of launching a browser")

	resourcesCmd.AddCommand(resourcesListCmd, resourcesCreateCmd, resourcesOpenCmd)
}
