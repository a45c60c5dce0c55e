package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCharacterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "character",
		Short: "Character management commands",
	}

	cmd.AddCommand(newCharacterCreateCmd())
	cmd.AddCommand(newCharacterListCmd())
	cmd.AddCommand(newCharacterGetCmd())
	cmd.AddCommand(newCharacterRenameCmd())
	cmd.AddCommand(newCharacterDeleteCmd())

	return cmd
}

func newCharacterCreateCmd() *cobra.Command {
	var name, gender, class string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new character",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := map[string]string{
				"name":   name,
				"gender": gender,
				"class":  class,
			}
			var result Character

			if err := client.Post("/api/v1/characters", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Character name (required)")
	cmd.Flags().StringVar(&gender, "gender", "male", "Gender: male, female")
	cmd.Flags().StringVar(&class, "class", "warrior", "Class: warrior, mage, ranger")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCharacterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CharacterList

			if err := client.Get("/api/v1/characters", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newCharacterGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Character

			if err := client.Get("/api/v1/characters/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newCharacterRenameCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <id>",
		Short: "Rename a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			req := map[string]string{"name": name}
			var result Character

			if err := client.Patch("/api/v1/characters/"+args[0], req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New character name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCharacterDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/characters/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Character deleted")
			return nil
		},
	}
}
