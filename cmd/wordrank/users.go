package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordrank/internal/config"
	"github.com/nao1215/wordrank/internal/database"
	"github.com/nao1215/wordrank/internal/model"
)

// NewUsersCmd creates the users command and its subcommands.
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage the user directory",
		Long: `Users lists and adds entries of the user directory that is also served
by the /users endpoint of 'wordrank serve'.

Examples:
  # List all users
  wordrank users list

  # Add a user
  wordrank users add gopher gopher@example.com`,
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersAddCmd())

	return cmd
}

func newUsersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE:  runUsersListCmd,
	}

	cmd.Flags().IntP("limit", "l", 0, "Maximum number of users listed (0 = all)")
	cmd.Flags().BoolP("json", "j", false, "Output in JSON format")
	addDBDirFlag(cmd)

	return cmd
}

func newUsersAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <username> <email>",
		Short: "Add a user",
		Args:  cobra.ExactArgs(2),
		RunE:  runUsersAddCmd,
	}

	addDBDirFlag(cmd)

	return cmd
}

// openUsersDB opens the database named by the command's --db-dir flag.
func openUsersDB(cmd *cobra.Command) (*database.DB, error) {
	cfg := config.NewConfig()
	if err := applyDBDirFlag(cmd, cfg); err != nil {
		return nil, err
	}
	return openDB(cfg.DBDir)
}

// runUsersListCmd executes the users list command.
func runUsersListCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit < 0 {
		return errors.New("limit must not be negative")
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := openUsersDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := db.ListUsers(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if users == nil {
			users = []model.User{}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(users)
	}

	if len(users) == 0 {
		fmt.Fprintln(out, "No users found.")
		return nil
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{strconv.FormatInt(u.ID, 10), u.Username, u.Email})
	}

	fmt.Fprintf(out, "Users (%d):\n\n", len(users))
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Username", "Email"},
		rows,
		[]columnAlignment{alignRight},
	))

	return nil
}

// runUsersAddCmd executes the users add command.
func runUsersAddCmd(cmd *cobra.Command, args []string) error {
	db, err := openUsersDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	user := &model.User{Username: args[0], Email: args[1]}
	id, err := db.CreateUser(context.Background(), user)
	if err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added user %s (ID %d)\n", user.Username, id)
	return nil
}
