package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewCatalogCmd создаёт группу команд для управления каталогом операций.
func NewCatalogCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the task catalog",
	}

	cmd.AddCommand(
		newCatalogListCmd(clientFn, outputFn),
		newCatalogShowCmd(clientFn, outputFn),
		newCatalogApplyCmd(clientFn, outputFn),
		newCatalogDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

func newCatalogListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all catalog tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			defs, err := client.ListCatalog()
			if err != nil {
				return err
			}

			out.Print(taskDefHeaders, taskDefRows(defs), defs)
			return nil
		},
	}
}

func newCatalogShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show PRODUCT",
		Short: "Show tasks of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			defs, err := client.GetProduct(args[0])
			if err != nil {
				return err
			}

			out.Print(taskDefHeaders, taskDefRows(defs), defs)
			return nil
		},
	}
}

func newCatalogApplyCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var tasksFile string

	cmd := &cobra.Command{
		Use:   "apply PRODUCT",
		Short: "Replace product tasks from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, err := os.ReadFile(tasksFile)
			if err != nil {
				return fmt.Errorf("failed to read tasks file: %w", err)
			}

			var req ReplaceProductRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("tasks file is not valid JSON: %w", err)
			}

			defs, err := client.ReplaceProduct(args[0], req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Product %s updated: %d tasks", args[0], len(defs)))
			out.Print(taskDefHeaders, taskDefRows(defs), defs)
			return nil
		},
	}

	cmd.Flags().StringVar(&tasksFile, "file", "", "Path to tasks JSON file (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newCatalogDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete PRODUCT",
		Short: "Delete a product from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteProduct(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Product deleted: %s", args[0]))
			return nil
		},
	}
}

var taskDefHeaders = []string{"PRODUCT", "NAME", "RESULT", "REQUIRES", "SLOTS"}

func taskDefRows(defs []TaskDefResponse) [][]string {
	rows := make([][]string, len(defs))
	for i, d := range defs {
		rows[i] = []string{
			d.Product, d.Name, d.Result,
			strings.Join(d.Requires, ","), strconv.Itoa(d.DurationSlots),
		}
	}
	return rows
}
