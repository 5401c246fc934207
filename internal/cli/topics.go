package cli

import (
	"errors"
	"strings"

	"curator-cli/internal/model"

	"github.com/spf13/cobra"
)

func newTopicsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Topic commands",
	}
	cmd.AddCommand(newTopicsListCmd(app))
	cmd.AddCommand(newTopicsCreateCmd(app))
	cmd.AddCommand(newTopicsRenameCmd(app))
	cmd.AddCommand(newTopicsDeleteCmd(app))
	return cmd
}

func newTopicsListCmd(app *App) *cobra.Command {
	var categoryID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the topics of a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			topics, err := client.Topics(cmd.Context(), categoryID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": topics})
		},
	}

	cmd.Flags().Int64Var(&categoryID, "category", 0, "Category id")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newTopicsCreateCmd(app *App) *cobra.Command {
	var categoryID int64
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a topic under a category",
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

			err = client.CreateTopic(ctx, categoryID, name)
			journalRecord(ctx, client, "topic.create", "topic", 0,
				map[string]any{"category_id": categoryID, "name": name}, err)
			if err != nil {
				return writeErr(cmd, err)
			}

			topics, err := client.Topics(ctx, categoryID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": newestTopicNamed(topics, name)})
		},
	}

	cmd.Flags().Int64Var(&categoryID, "category", 0, "Parent category id")
	cmd.Flags().StringVar(&name, "name", "", "Topic name")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTopicsRenameCmd(app *App) *cobra.Command {
	var id int64
	var name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a topic",
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

			err = client.RenameTopic(ctx, id, name)
			journalRecord(ctx, client, "topic.rename", "topic", id, map[string]any{"name": name}, err)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": model.Topic{ID: id, Name: name}})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Topic id")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTopicsDeleteCmd(app *App) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a topic and its groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()

			err = client.DeleteTopic(ctx, id)
			journalRecord(ctx, client, "topic.delete", "topic", id, nil, err)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": id, "deleted": true},
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Topic id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newestTopicNamed(topics []model.Topic, name string) model.Topic {
	var best model.Topic
	for _, t := range topics {
		if t.Name == name && t.ID > best.ID {
			best = t
		}
	}
	return best
}
