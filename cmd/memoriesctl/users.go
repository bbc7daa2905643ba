package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{Use: "users", Short: "User directory operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all accounts (admin only)",
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
			out, err := cli.ListUsers(ctx, sess)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	usersCmd.AddCommand(listCmd)

	grantCmd := &cobra.Command{
		Use:   "grant USER_ID",
		Short: "Grant posting permission (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setPermission(args[0], true)
		},
	}
	usersCmd.AddCommand(grantCmd)

	revokeCmd := &cobra.Command{
		Use:   "revoke USER_ID",
		Short: "Revoke posting permission (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setPermission(args[0], false)
		},
	}
	usersCmd.AddCommand(revokeCmd)

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new member account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("new-password")
			cli, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = cli.Close() }()
			out, err := cli.Register(context.Background(), username, email, password)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	registerCmd.Flags().String("username", "", "Username (required)")
	registerCmd.Flags().String("email", "", "Email address (required)")
	registerCmd.Flags().String("new-password", "", "Password for the new account (required)")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("new-password")
	usersCmd.AddCommand(registerCmd)

	rootCmd.AddCommand(usersCmd)
}

func setPermission(rawID string, allowed bool) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return err
	}
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
	out, err := cli.SetPermission(ctx, sess, id, allowed)
	if err != nil {
		return err
	}
	return printJSON(out)
}
