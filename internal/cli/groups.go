package cli

import (
	"errors"
	"strings"

	"curator-cli/internal/model"

	"github.com/spf13/cobra"
)

func newGroupsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Group commands",
	}
	cmd.AddCommand(newGroupsListCmd(app))
	cmd.AddCommand(newGroupsCreateCmd(app))
	cmd.AddCommand(newGroupsRenameCmd(app))
	cmd.AddCommand(newGroupsDeleteCmd(app))
	return cmd
}

func newGroupsListCmd(app *App) *cobra.Command {
	var topicID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the groups of a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			groups, err := client.Groups(cmd.Context(), topicID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": groups})
		},
	}

	cmd.Flags().Int64Var(&topicID, "topic", 0, "Topic id")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func newGroupsCreateCmd(app *App) *cobra.Command {
	var topicID int64
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group under a topic",
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

			err = client.CreateGroup(ctx, topicID, name)
			journalRecord(ctx, client, "group.create", "group", 0,
				map[string]any{"topic_id": topicID, "name": name}, err)
			if err != nil {
				return writeErr(cmd, err)
			}

			groups, err := client.Groups(ctx, topicID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": newestGroupNamed(groups, name)})
		},
	}

	cmd.Flags().Int64Var(&topicID, "topic", 0, "Parent topic id")
	cmd.Flags().StringVar(&name, "name", "", "Group name")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newGroupsRenameCmd(app *App) *cobra.Command {
	var id int64
	var name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a group",
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

			err = client.RenameGroup(ctx, id, name)
			journalRecord(ctx, client, "group.rename", "group", id, map[string]any{"name": name}, err)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": model.Group{ID: id, Name: name}})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Group id")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newGroupsDeleteCmd(app *App) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()

			err = client.DeleteGroup(ctx, id)
			journalRecord(ctx, client, "group.delete", "group", id, nil, err)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": id, "deleted": true},
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Group id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newestGroupNamed(groups []model.Group, name string) model.Group {
	var best model.Group
	for _, g := range groups {
		if g.Name == name && g.ID > best.ID {
			best = g
		}
	}
	return best
}
