package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewWorkerCmd создаёт группу команд для управления работниками.
func NewWorkerCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage workers",
	}

	cmd.AddCommand(
		newWorkerListCmd(clientFn, outputFn),
		newWorkerShowCmd(clientFn, outputFn),
		newWorkerSetCmd(clientFn, outputFn),
		newWorkerDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

func newWorkerListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			workers, err := client.ListWorkers()
			if err != nil {
				return err
			}

			headers := []string{"NAME", "SKILLS", "FAVORITES"}
			rows := make([][]string, len(workers))
			for i, w := range workers {
				rows[i] = []string{w.Name, formatSkills(w.Skills), strings.Join(w.Favorites, ",")}
			}

			out.Print(headers, rows, workers)
			return nil
		},
	}
}

func newWorkerShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show worker details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			worker, err := client.GetWorker(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"NAME", "SKILLS", "FAVORITES"},
				[][]string{{worker.Name, formatSkills(worker.Skills), strings.Join(worker.Favorites, ",")}},
				worker,
			)
			return nil
		},
	}
}

func newWorkerSetCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var skills []string
	var favorites []string

	cmd := &cobra.Command{
		Use:   "set NAME",
		Short: "Create or update a worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := UpsertWorkerRequest{
				Skills:    make(map[string]float64),
				Favorites: favorites,
			}

			for _, kv := range skills {
				parts := strings.SplitN(kv, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("invalid skill format %q, expected NAME=VALUE", kv)
				}
				value, err := strconv.ParseFloat(parts[1], 64)
				if err != nil {
					return fmt.Errorf("invalid skill value %q: %w", kv, err)
				}
				req.Skills[parts[0]] = value
			}

			worker, err := client.UpsertWorker(args[0], req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Worker saved: %s", worker.Name))
			out.Print(
				[]string{"NAME", "SKILLS", "FAVORITES"},
				[][]string{{worker.Name, formatSkills(worker.Skills), strings.Join(worker.Favorites, ",")}},
				worker,
			)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().StringSliceVar(&skills, "skill", nil, "Skill level as NAME=VALUE, 0.0-1.0 (repeatable)")
	cmd.Flags().StringSliceVar(&favorites, "favorite", nil, "Favorite product (repeatable, up to 3)")

	return cmd
}

func newWorkerDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a worker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteWorker(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Worker deleted: %s", args[0]))
			return nil
		},
	}
}

// formatSkills сжимает навыки в строку "bending=0.8,gluing=0.5".
// Нулевые навыки опускаются, ключи в алфавитном порядке.
func formatSkills(skills map[string]float64) string {
	keys := make([]string, 0, len(skills))
	for k, v := range skills {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%.2g", k, skills[k])
	}
	return strings.Join(parts, ",")
}
