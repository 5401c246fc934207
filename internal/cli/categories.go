package cli

import (
	"errors"
	"strings"

	"curator-cli/internal/model"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Category commands",
	}
	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesCreateCmd(app))
	cmd.AddCommand(newCategoriesRenameCmd(app))
	cmd.AddCommand(newCategoriesDeleteCmd(app))
	return cmd
}

func newCategoriesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			catalog, err := client.Taxonomy(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": catalog.Categories})
		},
	}
	return cmd
}

func newCategoriesCreateCmd(app *App) *cobra.Command {
	var name, topic, group string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category (optionally with a first topic and group)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			name = strings.TrimSpace(name)
			if name == "" {
				return writeErr(cmd, errors.New("--name must not be blank"))
			}
			ctx := cmd.Context()

			err = client.CreateCategory(ctx, name, strings.TrimSpace(topic), strings.TrimSpace(group))
			journalRecord(ctx, client, "category.create", "category", 0,
				map[string]any{"name": name, "topic": topic, "group": group}, err)
			if err != nil {
				return writeErr(cmd, err)
			}

			// The create endpoint returns no id; re-fetch and pick the newest
			// row with the created name.
			catalog, err := client.Taxonomy(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			created := newestCategoryNamed(catalog.Categories, name)
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name")
	cmd.Flags().StringVar(&topic, "topic", "", "Also create a first topic under the category")
	cmd.Flags().StringVar(&group, "group", "", "Also create a first group under the topic (needs --topic)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesRenameCmd(app *App) *cobra.Command {
	var id int64
	var name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			name = strings.TrimSpace(name)
			if name == "" {
				return writeErr(cmd, errors.New("--name must not be blank"))
			}
			ctx := cmd.Context()

			err = client.RenameCategory(ctx, id, name)
			journalRecord(ctx, client, "category.rename", "category", id, map[string]any{"name": name}, err)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": model.Category{ID: id, Name: name}})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Category id")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesDeleteCmd(app *App) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a category and its topics and groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()

			err = client.DeleteCategory(ctx, id)
			journalRecord(ctx, client, "category.delete", "category", id, nil, err)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": id, "deleted": true},
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Category id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newestCategoryNamed(cats []model.Category, name string) model.Category {
	var best model.Category
	for _, c := range cats {
		if c.Name == name && c.ID > best.ID {
			best = c
		}
	}
	return best
}
