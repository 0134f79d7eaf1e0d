package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/financebook/financebook/internal/cli"
	"github.com/financebook/financebook/internal/model"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage record categories",
		Long:  `List, add, and disable the categories records are labeled with.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(disableCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetCategories(ctx, !all)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.FormatInfo("No categories found."))
				return nil
			}

			names := make(map[int64]string, len(categories))
			for _, cat := range categories {
				names[cat.ID] = cat.Name
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Parent"),
				cli.HeaderStyle.Render("Active"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 20),
				strings.Repeat("-", 20),
				strings.Repeat("-", 6))

			for _, cat := range categories {
				parent := cli.SubtleStyle.Render("(top level)")
				if cat.ParentID != nil {
					if name, ok := names[*cat.ParentID]; ok {
						parent = name
					} else {
						parent = fmt.Sprintf("#%d", *cat.ParentID)
					}
				}
				active := "yes"
				if !cat.IsActive {
					active = "no"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", cat.ID, cat.Name, parent, active)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include disabled categories")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var name string
	var parentID int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat := &model.Category{Name: name, IsActive: true}
			if parentID > 0 {
				parent, lookupErr := store.GetCategory(ctx, parentID)
				if lookupErr != nil {
					return lookupErr
				}
				if parent == nil {
					return fmt.Errorf("no such parent category: %d", parentID)
				}
				if !parent.IsTopLevel() {
					return fmt.Errorf("categories nest at most one level; %q is itself a child", parent.Name)
				}
				cat.ParentID = &parentID
			}

			if err := store.SaveCategory(ctx, cat); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("added category %s (id %d)", cat.Name, cat.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "category name (required)")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "parent category id for a child category")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func disableCategoryCmd() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "disable",
		Short: "Soft-disable a category",
		Long:  `Disabled categories stop appearing in pickers but keep resolving on historical records. Categories are never hard-deleted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := store.GetCategory(ctx, id)
			if err != nil {
				return err
			}
			if cat == nil {
				return fmt.Errorf("no such category: %d", id)
			}

			cat.IsActive = false
			if err := store.SaveCategory(ctx, cat); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("disabled category %s", cat.Name)))
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "category id (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
