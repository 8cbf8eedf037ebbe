package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/tables"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match commands",
	}

	cmd.AddCommand(newMatchListCmd())
	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchCreateCmd())
	cmd.AddCommand(newMatchEndCmd())
	cmd.AddCommand(newMatchDeleteCmd())

	return cmd
}

func newMatchListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List matches, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := client.ListMatches(cmd.Context())
			if err != nil {
				return err
			}

			output(cmd).Print(list(&flags, tables.MatchSchema, tables.MatchColumns, matches))
			return nil
		},
	}

	flags.register(cmd, tables.MatchDefaults)
	return cmd
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a match with its score sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMatchID(args[0])
			if err != nil {
				return err
			}

			match, err := client.GetMatch(cmd.Context(), id)
			if err != nil {
				return err
			}

			output(cmd).Print(match)
			return nil
		},
	}
}

func newMatchCreateCmd() *cobra.Command {
	var (
		users    []int
		location int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a match",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.MatchInput{LocationID: location}
			for _, u := range users {
				in.UserIDs = append(in.UserIDs, model.PlayerID(u))
			}

			match, err := client.CreateMatch(cmd.Context(), in)
			if err != nil {
				return err
			}

			output(cmd).Print(match)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&users, "user", nil, "Player id (repeatable, required)")
	cmd.Flags().IntVar(&location, "location", 0, "Location id")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newMatchEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <id>",
		Short: "Mark a match as finished",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMatchID(args[0])
			if err != nil {
				return err
			}

			match, err := client.EndMatch(cmd.Context(), id)
			if err != nil {
				return err
			}

			output(cmd).Print(match)
			return nil
		},
	}
}

func newMatchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMatchID(args[0])
			if err != nil {
				return err
			}

			if _, err := client.DeleteMatch(cmd.Context(), id); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Deleted match %d", id))
			return nil
		},
	}
}

func newRoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Round commands",
	}

	cmd.AddCommand(newRoundSaveCmd())
	return cmd
}

func newRoundSaveCmd() *cobra.Command {
	var (
		matchID, roundID, points int
		users                    []int
		update                   bool
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Record a round for one or more players",
		Long: `Record the points of one round for every given player. One request is
sent per player; with --update an existing round is corrected instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.RoundInput{
				MatchID: model.MatchID(matchID),
				RoundID: roundID,
				Points:  points,
			}
			for _, u := range users {
				in.UserIDs = append(in.UserIDs, model.PlayerID(u))
			}

			rounds, err := client.SaveRound(cmd.Context(), in, update)
			if err != nil {
				return err
			}

			output(cmd).Print(rounds)
			return nil
		},
	}

	cmd.Flags().IntVar(&matchID, "match", 0, "Match id (required)")
	cmd.Flags().IntVar(&roundID, "round", 0, "Round number (required)")
	cmd.Flags().IntVar(&points, "points", 0, "Points scored")
	cmd.Flags().IntSliceVar(&users, "user", nil, "Player id (repeatable, required)")
	cmd.Flags().BoolVar(&update, "update", false, "Correct an existing round")
	_ = cmd.MarkFlagRequired("match")
	_ = cmd.MarkFlagRequired("round")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func parseMatchID(s string) (model.MatchID, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid match id %q", s)
	}
	return model.MatchID(id), nil
}
