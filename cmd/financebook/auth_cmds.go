package main

import (
	"fmt"

	"github.com/financebook/financebook/internal/auth"
	"github.com/financebook/financebook/internal/cli"
	"github.com/financebook/financebook/internal/common"

	"github.com/spf13/cobra"
)

func registerCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if password == "" {
				password, err = readPassword("Password: ")
				if err != nil {
					return err
				}
			}

			user, err := auth.NewService(store).Register(ctx, username, email, password)
			if err != nil {
				fmt.Println(cli.FormatError(common.UserMessage(err)))
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("registered %s (id %d)", user.Username, user.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify credentials and show the account summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if password == "" {
				password, err = readPassword("Password: ")
				if err != nil {
					return err
				}
			}

			user, err := auth.NewService(store).Login(ctx, username, password)
			if err != nil {
				fmt.Println(cli.FormatError(common.UserMessage(err)))
				return err
			}

			balance, err := store.GetUserBalance(ctx, user.ID)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("welcome back, %s", user.Username)))
			fmt.Printf("income %.2f  expense %.2f  balance %.2f\n",
				balance.Income, balance.Expense, balance.Balance)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}
