package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/tables"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerCreateCmd())
	cmd.AddCommand(newPlayerUpdateCmd())
	cmd.AddCommand(newPlayerDeleteCmd())

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List players",
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := client.ListPlayers(cmd.Context())
			if err != nil {
				return err
			}

			output(cmd).Print(list(&flags, tables.PlayerSchema, tables.PlayerColumns, players))
			return nil
		},
	}

	flags.register(cmd, tables.PlayerDefaults)
	return cmd
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}

			player, err := client.GetPlayer(cmd.Context(), id)
			if err != nil {
				return err
			}

			output(cmd).Print(player)
			return nil
		},
	}
}

func newPlayerCreateCmd() *cobra.Command {
	var in model.PlayerInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := client.CreatePlayer(cmd.Context(), in)
			if err != nil {
				return err
			}

			output(cmd).Print(player)
			return nil
		},
	}

	playerInputFlags(cmd, &in)
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newPlayerUpdateCmd() *cobra.Command {
	var in model.PlayerInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a player; only the given fields change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}

			player, err := client.UpdatePlayer(cmd.Context(), id, in)
			if err != nil {
				return err
			}

			output(cmd).Print(player)
			return nil
		},
	}

	playerInputFlags(cmd, &in)
	return cmd
}

func newPlayerDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}

			player, err := client.DeletePlayer(cmd.Context(), id)
			if err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Deleted player %s", player.Username))
			return nil
		},
	}
}

func playerInputFlags(cmd *cobra.Command, in *model.PlayerInput) {
	cmd.Flags().StringVar(&in.Username, "username", "", "Username")
	cmd.Flags().StringVar(&in.FirstName, "first", "", "First name")
	cmd.Flags().StringVar(&in.LastName, "last", "", "Last name")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password")
}

func parsePlayerID(s string) (model.PlayerID, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid player id %q", s)
	}
	return model.PlayerID(id), nil
}
