package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geetocli/geeto/internal/gitx"
	"github.com/geetocli/geeto/internal/trello"
)

var trelloListName string

var trelloCmd = &cobra.Command{
	Use:   "trello",
	Short: "Work with the configured Trello board",
}

var trelloCardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List cards, optionally filtered to one list",
	RunE: func(cmd *cobra.Command, args []string) error {
		return trelloCardsRun(cmd)
	},
}

var trelloMoveCmd = &cobra.Command{
	Use:   "move <card-id> <list-name>",
	Short: "Move a card to another list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return trelloMoveRun(cmd, args[0], args[1])
	},
}

var trelloAddDesc string

var trelloAddCmd = &cobra.Command{
	Use:   "add <list-name> <card-name>",
	Short: "Create a card on a list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return trelloAddRun(cmd, args[0], args[1])
	},
}

var trelloAttachCmd = &cobra.Command{
	Use:   "attach <card-id>",
	Short: "Comment the current branch onto a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return trelloAttachRun(cmd, args[0])
	},
}

func init() {
	trelloCardsCmd.Flags().StringVar(&trelloListName, "list", "", "Only cards in this list (by name)")
	trelloAddCmd.Flags().StringVar(&trelloAddDesc, "desc", "", "Card description")
	trelloCmd.AddCommand(trelloCardsCmd)
	trelloCmd.AddCommand(trelloAddCmd)
	trelloCmd.AddCommand(trelloMoveCmd)
	trelloCmd.AddCommand(trelloAttachCmd)
	rootCmd.AddCommand(trelloCmd)
}

// trelloBoard builds a client from config and returns the board ID.
func trelloBoard() (trello.Client, string, error) {
	key := viper.GetString("trello.api_key")
	token := viper.GetString("trello.token")
	boardID := viper.GetString("trello.board_id")
	if key == "" || token == "" || boardID == "" {
		return nil, "", fmt.Errorf("trello.api_key, trello.token and trello.board_id must be configured")
	}
	return trello.NewClient(key, token), boardID, nil
}

func trelloCardsRun(cmd *cobra.Command) error {
	client, boardID, err := trelloBoard()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	lists, err := client.Lists(ctx, boardID)
	if err != nil {
		return err
	}
	if trelloListName != "" {
		list := trello.FindList(lists, trelloListName)
		if list == nil {
			return fmt.Errorf("no list named %q on the board", trelloListName)
		}
		lists = []trello.List{*list}
	}

	table := ui.Table([]string{"LIST", "CARD", "ID"})
	for _, list := range lists {
		cards, err := client.Cards(ctx, list.ID)
		if err != nil {
			return err
		}
		for _, card := range cards {
			table.Append([]string{list.Name, card.Name, card.ID})
		}
	}
	table.Render()
	return nil
}

func trelloAddRun(cmd *cobra.Command, listName, cardName string) error {
	client, boardID, err := trelloBoard()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	lists, err := client.Lists(ctx, boardID)
	if err != nil {
		return err
	}
	list := trello.FindList(lists, listName)
	if list == nil {
		return fmt.Errorf("no list named %q on the board", listName)
	}

	if dryRun {
		ui.DryRunMsg("Would create card %q on %s", cardName, list.Name)
		return nil
	}
	card, err := client.CreateCard(ctx, list.ID, cardName, trelloAddDesc)
	if err != nil {
		return err
	}
	ui.Success("Created card %s on %s.", card.ID, list.Name)
	return nil
}

func trelloMoveRun(cmd *cobra.Command, cardID, listName string) error {
	client, boardID, err := trelloBoard()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	lists, err := client.Lists(ctx, boardID)
	if err != nil {
		return err
	}
	list := trello.FindList(lists, listName)
	if list == nil {
		return fmt.Errorf("no list named %q on the board", listName)
	}

	if dryRun {
		ui.DryRunMsg("Would move card %s to %s", cardID, list.Name)
		return nil
	}
	if err := client.MoveCard(ctx, cardID, list.ID); err != nil {
		return err
	}
	ui.Success("Moved card %s to %s.", cardID, list.Name)
	return nil
}

func trelloAttachRun(cmd *cobra.Command, cardID string) error {
	client, _, err := trelloBoard()
	if err != nil {
		return err
	}

	r := newRunner()
	root, err := repoRoot(r)
	if err != nil {
		return err
	}
	branch, err := gitx.New(r).CurrentBranch(root)
	if err != nil {
		return err
	}

	text := "Working branch: " + branch
	if dryRun {
		ui.DryRunMsg("Would comment on card %s: %s", cardID, text)
		return nil
	}
	if err := client.CommentCard(cmd.Context(), cardID, text); err != nil {
		return err
	}
	ui.Success("Commented branch %s on card %s.", branch, cardID)
	return nil
}
