package main

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	feedCmd := &cobra.Command{Use: "feed", Short: "Memory feed operations"}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the feed, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = cli.Close() }()
			out, err := cli.ListMemories(context.Background(), limit)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum posts to return")
	feedCmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get MEMORY_ID",
		Short: "Get a single post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = cli.Close() }()
			out, err := cli.GetMemory(context.Background(), args[0])
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	feedCmd.AddCommand(getCmd)

	var title, desc, image string
	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Create a post as the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = cli.Close() }()
			ctx := context.Background()
			sess, err := login(ctx, cli)
			if err != nil {
				return err
			}
			out, err := cli.CreateMemory(ctx, sess, title, desc, image)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	postCmd.Flags().StringVarP(&title, "title", "t", "", "Post title (required)")
	postCmd.Flags().StringVarP(&desc, "desc", "d", "", "Post description")
	postCmd.Flags().StringVarP(&image, "image", "i", "", "Image URL (required)")
	_ = postCmd.MarkFlagRequired("title")
	_ = postCmd.MarkFlagRequired("image")
	feedCmd.AddCommand(postCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete MEMORY_ID",
		Short: "Delete a post (author or admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = cli.Close() }()
			ctx := context.Background()
			sess, err := login(ctx, cli)
			if err != nil {
				return err
			}
			if err := cli.DeleteMemory(ctx, sess, args[0]); err != nil {
				return err
			}
			return printJSON(map[string]string{"status": "deleted", "id": args[0]})
		},
	}
	feedCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(feedCmd)
}
