package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KIDDASS/memories-instagram-app/client"
)

var (
	apiFlag      string
	userFlag     string
	passwordFlag string
	rootCmd      = &cobra.Command{
		Use:   "memoriesctl",
		Short: "Admin CLI for the memories service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Memories service base URL")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Username for authenticated operations")
	rootCmd.PersistentFlags().StringVarP(&passwordFlag, "password", "p", "", "Password for authenticated operations")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() (*client.Client, error) {
	return client.New(apiFlag)
}

func login(ctx context.Context, cli *client.Client) (*client.Session, error) {
	if userFlag == "" || passwordFlag == "" {
		return nil, fmt.Errorf("--user and --password required")
	}
	return cli.Login(ctx, userFlag, passwordFlag)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
