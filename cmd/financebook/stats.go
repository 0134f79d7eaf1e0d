package main

import (
	"fmt"

	"github.com/financebook/financebook/internal/cli"
	"github.com/financebook/financebook/internal/model"

	"github.com/spf13/cobra"
)

func balanceCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show total income, expense and balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := requireUser(ctx, store, username)
			if err != nil {
				return err
			}

			balance, err := store.GetUserBalance(ctx, user.ID)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Balance for %s", user.Username)))
			fmt.Printf("  income:  %s\n", cli.IncomeStyle.Render(fmt.Sprintf("%.2f", balance.Income)))
			fmt.Printf("  expense: %s\n", cli.ExpenseStyle.Render(fmt.Sprintf("%.2f", balance.Expense)))
			fmt.Printf("  balance: %.2f\n", balance.Balance)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func statsCmd() *cobra.Command {
	var username, period string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show period statistics",
		Long:  `Summarizes records within a calendar period: today, week, month or year.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := requireUser(ctx, store, username)
			if err != nil {
				return err
			}

			records, err := store.GetRecordsByPeriod(ctx, user.ID, period)
			if err != nil {
				return err
			}

			var income, expense float64
			for _, rec := range records {
				switch rec.Type {
				case model.RecordTypeIncome:
					income += rec.Amount
				case model.RecordTypeExpense:
					expense += rec.Amount
				}
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Statistics for %s (%s)", user.Username, period)))
			fmt.Printf("  records: %d\n", len(records))
			fmt.Printf("  income:  %s\n", cli.IncomeStyle.Render(fmt.Sprintf("%.2f", income)))
			fmt.Printf("  expense: %s\n", cli.ExpenseStyle.Render(fmt.Sprintf("%.2f", expense)))
			fmt.Printf("  net:     %.2f\n", income-expense)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	cmd.Flags().StringVarP(&period, "period", "p", "month", "period: today, week, month or year")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}
