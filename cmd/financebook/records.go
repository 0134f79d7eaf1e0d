package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/financebook/financebook/internal/cli"
	"github.com/financebook/financebook/internal/model"
	"github.com/financebook/financebook/internal/session"
	"github.com/financebook/financebook/internal/storage"

	"github.com/spf13/cobra"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage income and expense records",
	}

	cmd.AddCommand(addRecordCmd())
	cmd.AddCommand(listRecordsCmd())
	cmd.AddCommand(updateRecordCmd())
	cmd.AddCommand(deleteRecordCmd())

	return cmd
}

func addRecordCmd() *cobra.Command {
	var username, recordType, note, date string
	var amount float64
	var categoryID int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sess, err := openSession(ctx, store, username)
			if err != nil {
				return err
			}

			record := &model.Record{
				Amount:     amount,
				Type:       model.RecordType(recordType),
				Note:       note,
				CategoryID: categoryID,
				UserID:     sess.CurrentUser().ID,
			}
			if date != "" {
				parsed, parseErr := time.ParseInLocation("2006-01-02", date, time.Local)
				if parseErr != nil {
					return fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", date, parseErr)
				}
				record.Date = parsed
			}

			if err := sess.AddRecord(ctx, record); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("added %s of %.2f (record %d)", recordType, amount, record.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "amount (required)")
	cmd.Flags().StringVarP(&recordType, "type", "t", "expense", "record type: income or expense")
	cmd.Flags().Int64VarP(&categoryID, "category", "c", 0, "category id (required)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "free-form note")
	cmd.Flags().StringVarP(&date, "date", "d", "", "record date YYYY-MM-DD (default: now)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func listRecordsCmd() *cobra.Command {
	var username, start, end, sort string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sess, err := openSession(ctx, store, username)
			if err != nil {
				return err
			}

			records, err := store.GetRecords(ctx, sess.CurrentUser().ID, storage.RecordQuery{
				StartDate: start,
				EndDate:   end,
				Limit:     limit,
				OrderBy:   sort,
			})
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println(cli.FormatInfo("No records found."))
				return nil
			}

			printRecords(ctx, sess, records)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "end date YYYY-MM-DD")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to return")
	cmd.Flags().StringVar(&sort, "sort", "", `sort order, e.g. "amount ASC" (default: date DESC)`)
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func updateRecordCmd() *cobra.Command {
	var username, recordType, note, date string
	var amount float64
	var id, categoryID int64

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace a record",
		Long:  `Updates replace the whole record; every field must be supplied again.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sess, err := openSession(ctx, store, username)
			if err != nil {
				return err
			}

			existing, err := store.GetRecord(ctx, id)
			if err != nil {
				return err
			}
			if existing == nil || existing.UserID != sess.CurrentUser().ID {
				return fmt.Errorf("no such record: %d", id)
			}

			record := &model.Record{
				ID:         id,
				Amount:     amount,
				Type:       model.RecordType(recordType),
				Note:       note,
				CategoryID: categoryID,
				UserID:     sess.CurrentUser().ID,
			}
			if date != "" {
				parsed, parseErr := time.ParseInLocation("2006-01-02", date, time.Local)
				if parseErr != nil {
					return fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", date, parseErr)
				}
				record.Date = parsed
			} else {
				record.Date = existing.Date
			}

			if err := sess.UpdateRecord(ctx, record); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("updated record %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	cmd.Flags().Int64Var(&id, "id", 0, "record id (required)")
	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "amount (required)")
	cmd.Flags().StringVarP(&recordType, "type", "t", "expense", "record type: income or expense")
	cmd.Flags().Int64VarP(&categoryID, "category", "c", 0, "category id (required)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "free-form note")
	cmd.Flags().StringVarP(&date, "date", "d", "", "record date YYYY-MM-DD (default: keep)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func deleteRecordCmd() *cobra.Command {
	var username string
	var id int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sess, err := openSession(ctx, store, username)
			if err != nil {
				return err
			}

			existing, err := store.GetRecord(ctx, id)
			if err != nil {
				return err
			}
			if existing == nil || existing.UserID != sess.CurrentUser().ID {
				return fmt.Errorf("no such record: %d", id)
			}

			if err := sess.DeleteRecord(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("deleted record %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	cmd.Flags().Int64Var(&id, "id", 0, "record id (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func printRecords(ctx context.Context, sess *session.Session, records []model.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("ID"),
		cli.HeaderStyle.Render("Date"),
		cli.HeaderStyle.Render("Type"),
		cli.HeaderStyle.Render("Amount"),
		cli.HeaderStyle.Render("Category"),
		cli.HeaderStyle.Render("Note"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 4),
		strings.Repeat("-", 16),
		strings.Repeat("-", 7),
		strings.Repeat("-", 10),
		strings.Repeat("-", 16),
		strings.Repeat("-", 24))

	for _, rec := range records {
		catName := "unknown"
		if cat, err := sess.CategoryByID(ctx, rec.CategoryID); err == nil && cat != nil {
			catName = cat.Name
		}

		amount := fmt.Sprintf("%.2f", rec.Amount)
		if rec.Type == model.RecordTypeIncome {
			amount = cli.IncomeStyle.Render("+" + amount)
		} else {
			amount = cli.ExpenseStyle.Render("-" + amount)
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID,
			rec.Date.Format("2006-01-02 15:04"),
			rec.Type,
			amount,
			catName,
			rec.Note)
	}
}
