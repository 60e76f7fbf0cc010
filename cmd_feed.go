package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"academia/services"
)

var postAnonymous bool

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Read and write posts",
}

var feedListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		posts, err := services.NewFeedService(app.client, app.session, app.logger).Load(ctx)
		if err != nil {
			return withLoginHint(err)
		}
		out := cmd.OutOrStdout()
		if len(posts) == 0 {
			fmt.Fprintln(out, "No posts yet.")
			return nil
		}
		now := time.Now()
		for _, p := range posts {
			fmt.Fprintf(out, "%s · %s\n", p.AuthorName(), services.FormatAge(now, p.CreatedAt))
			fmt.Fprintf(out, "  %s\n", p.Content)
			for _, c := range p.Comments {
				fmt.Fprintf(out, "    %s: %s\n", c.AuthorName(), c.Content)
			}
		}
		return nil
	},
}

var feedPostCmd = &cobra.Command{
	Use:   "post <text>",
	Short: "Publish a post",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		form := services.NewFeedService(app.client, app.session, app.logger).NewPostForm()
		form.Content = strings.Join(args, " ")
		form.Anonymous = postAnonymous
		post, err := form.Submit(ctx, nil)
		if err != nil {
			return withLoginHint(fmt.Errorf("%s: %w", form.Notice, err))
		}
		if post == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Nothing to publish.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Post published")
		return nil
	},
}

func init() {
	feedPostCmd.Flags().BoolVar(&postAnonymous, "anonymous", false, "Publish without your name")
	feedCmd.AddCommand(feedListCmd, feedPostCmd)
}
