// Package category handles category tree management commands.
package category

import (
	"fmt"
	"strings"

	"ledgerkit/statement-csv/cmd/root"
	"ledgerkit/statement-csv/internal/categorytree"
	"ledgerkit/statement-csv/internal/models"

	"github.com/spf13/cobra"
)

var (
	parentID string
	newName  string
)

// Cmd represents the category command group.
var Cmd = &cobra.Command{
	Use:   "category",
	Short: "Manage the hierarchical category tree",
	Long: `Manage the hierarchical category tree. Renames, moves and deletes
cascade to the transactions labeled with the affected paths.`,
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category, optionally under a parent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := root.Categories()
		created, err := svc.Create(cmd.Context(), args[0], optionalID(parentID))
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", created.ID, created.Name)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <id> <new-name>",
	Short: "Rename a category, rewriting affected transaction labels",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := root.Categories()
		current, err := findCategory(cmd, svc, args[0])
		if err != nil {
			return err
		}
		return svc.Update(cmd.Context(), args[0], categorytree.UpdateParams{
			Name:     args[1],
			ParentID: current.ParentID,
		})
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <id>",
	Short: "Move a category under a new parent (or to the root)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := root.Categories()
		current, err := findCategory(cmd, svc, args[0])
		if err != nil {
			return err
		}
		name := current.Name
		if newName != "" {
			name = newName
		}
		return svc.Update(cmd.Context(), args[0], categorytree.UpdateParams{
			Name:     name,
			ParentID: optionalID(parentID),
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category and its descendants, resetting affected transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return root.Categories().Delete(cmd.Context(), args[0])
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the category tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		roots, err := root.Categories().Tree(cmd.Context())
		if err != nil {
			return err
		}
		printNodes(roots, 0)
		return nil
	},
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Print the flattened category options (system first)",
	RunE: func(cmd *cobra.Command, args []string) error {
		options, err := root.Categories().Options(cmd.Context())
		if err != nil {
			return err
		}
		for _, opt := range options {
			marker := " "
			if opt.IsSystem {
				marker = "*"
			}
			fmt.Printf("%s %s\t%s\n", marker, opt.ID, opt.Label)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Seed the category tree from a YAML taxonomy file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := root.Cfg.Category.SeedFile
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no seed file given (set category.seed_file or pass a path)")
		}
		nodes, err := categorytree.LoadSeedFile(path)
		if err != nil {
			return err
		}
		return root.Categories().Seed(cmd.Context(), nodes)
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign <transaction-id> <category-id|->",
	Short: "Assign a category to one transaction ('-' keeps a legacy label)",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := models.CategoryRef{}
		if args[1] != "-" {
			ref.ID = &args[1]
		} else if len(args) > 2 {
			ref.Label = args[2]
		}
		return root.Categories().SetTransactionCategory(cmd.Context(), args[0], ref)
	},
}

func init() {
	addCmd.Flags().StringVar(&parentID, "parent", "", "Parent category id")
	moveCmd.Flags().StringVar(&parentID, "parent", "", "New parent category id (empty moves to root)")
	moveCmd.Flags().StringVar(&newName, "name", "", "Optional new name applied together with the move")

	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(renameCmd)
	Cmd.AddCommand(moveCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(optionsCmd)
	Cmd.AddCommand(seedCmd)
	Cmd.AddCommand(assignCmd)
}

func optionalID(id string) *string {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &id
}

// findCategory resolves one category from the flattened option view so
// rename/move can carry over unchanged fields.
func findCategory(cmd *cobra.Command, svc *categorytree.Service, id string) (models.CategoryNode, error) {
	roots, err := svc.Tree(cmd.Context())
	if err != nil {
		return models.CategoryNode{}, err
	}
	var walk func(nodes []*models.CategoryNode) *models.CategoryNode
	walk = func(nodes []*models.CategoryNode) *models.CategoryNode {
		for _, n := range nodes {
			if n.ID == id {
				return n
			}
			if found := walk(n.Children); found != nil {
				return found
			}
		}
		return nil
	}
	if found := walk(roots); found != nil {
		return *found, nil
	}
	return models.CategoryNode{}, fmt.Errorf("category %s not found", id)
}

func printNodes(nodes []*models.CategoryNode, depth int) {
	for _, n := range nodes {
		marker := ""
		if n.IsSystem {
			marker = " (system)"
		}
		fmt.Printf("%s%s\t%s%s\n", strings.Repeat("  ", depth), n.ID, n.Name, marker)
		printNodes(n.Children, depth+1)
	}
}
