package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/canopy/pkg/nodes"
	"github.com/aretw0/canopy/pkg/support"
)

var validateCmd = &cobra.Command{
	Use:   "validate <tree.json>",
	Short: "Check a tree document against the built-in registry",
	Long: `Decodes a V1 tree document and restores it with the built-in node kinds
and value types, reporting the first structural problem found: unknown node
kinds, unknown value types, dangling child or root references, or
connections to undeclared ports.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read tree: %w", err)
		}
		doc, err := support.DecodeDocument(data)
		if err != nil {
			return err
		}

		sup := support.New()
		if err := nodes.Register(sup); err != nil {
			return err
		}
		t, err := sup.DeserializeTree(doc)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d nodes, %d blackboards, %d roots)\n",
			args[0], len(t.NodeIDs()), len(t.BlackboardIDs()), len(t.Roots()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
