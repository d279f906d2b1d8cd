package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewPlanCmd создаёт группу команд для управления планами.
func NewPlanCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage production plans",
	}

	cmd.AddCommand(
		newPlanListCmd(clientFn, outputFn),
		newPlanCreateCmd(clientFn, outputFn),
		newPlanShowCmd(clientFn, outputFn),
		newPlanStatsCmd(clientFn, outputFn),
		newPlanWorkersCmd(clientFn, outputFn),
		newPlanExportCmd(clientFn, outputFn),
	)

	return cmd
}

func newPlanListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			plans, err := client.ListPlans(ListPlansOpts{
				Status: status,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "STATUS", "PRODUCTS", "WORKERS", "SEED", "CREATED"}
			rows := make([][]string, len(plans))
			for i, p := range plans {
				rows[i] = []string{
					p.ID, p.Status,
					formatQuantities(p.Order.Quantities),
					strconv.Itoa(len(p.Order.Workers)),
					strconv.FormatInt(p.Order.Seed, 10),
					p.CreatedAt,
				}
			}

			out.Print(headers, rows, plans)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (PENDING, RUNNING, SUCCEEDED, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newPlanCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var products []string
	var workers []string
	var seed int64
	var startHour, endHour int
	var idempotencyKey string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Queue a new plan for calculation",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreatePlanRequest{
				Quantities:     make(map[string]int),
				Workers:        workers,
				StartHour:      startHour,
				EndHour:        endHour,
				IdempotencyKey: idempotencyKey,
			}

			for _, kv := range products {
				parts := strings.SplitN(kv, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("invalid product format %q, expected NAME=QUANTITY", kv)
				}
				qty, err := strconv.Atoi(parts[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q: %w", kv, err)
				}
				req.Quantities[parts[0]] = qty
			}

			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			plan, err := client.CreatePlan(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Plan queued: %s", plan.ID))
			out.Print(
				[]string{"ID", "STATUS", "SEED", "CREATED"},
				[][]string{{plan.ID, plan.Status, strconv.FormatInt(plan.Order.Seed, 10), plan.CreatedAt}},
				plan,
			)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&products, "product", nil, "Product quantity as NAME=QUANTITY (repeatable, required)")
	cmd.Flags().StringSliceVar(&workers, "worker", nil, "Worker name (repeatable, required)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for reproducible plans")
	cmd.Flags().IntVar(&startHour, "start-hour", 0, "Working day start hour (default 8)")
	cmd.Flags().IntVar(&endHour, "end-hour", 0, "Working day end hour (default 16)")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key")
	cmd.MarkFlagRequired("product")
	cmd.MarkFlagRequired("worker")

	return cmd
}

func newPlanShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show plan details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			plan, err := client.GetPlan(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "STATUS", "PRODUCTS", "SEED", "ERROR", "CREATED"},
				[][]string{{
					plan.ID, plan.Status,
					formatQuantities(plan.Order.Quantities),
					strconv.FormatInt(plan.Order.Seed, 10),
					plan.Error, plan.CreatedAt,
				}},
				plan,
			)
			return nil
		},
	}
}

func newPlanStatsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "stats ID",
		Short: "Show completion statistics of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			stats, err := client.GetPlanStats(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"TOTAL", "COMPLETED", "COMPLETION", "DAYS", "AGGRESSIVE"},
				[][]string{{
					strconv.Itoa(stats.TotalTasks),
					strconv.Itoa(stats.CompletedTasks),
					fmt.Sprintf("%.1f%%", stats.CompletionPercentage),
					strconv.Itoa(stats.EstimatedDays),
					strings.Join(stats.AggressiveWorkers, ","),
				}},
				stats,
			)
			return nil
		},
	}
}

func newPlanWorkersCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "workers ID",
		Short: "Show per-worker reports of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			reports, err := client.GetPlanWorkers(args[0])
			if err != nil {
				return err
			}

			headers := []string{"WORKER", "TASKS", "PRODUCTS", "SKILL_UTIL", "MAIN_PRODUCT"}
			rows := make([][]string, len(reports))
			for i, r := range reports {
				rows[i] = []string{
					r.Worker,
					fmt.Sprintf("%.2f", r.TasksCompleted),
					strconv.Itoa(r.ProductsWorked),
					fmt.Sprintf("%.1f%%", r.SkillUtilizationPct),
					r.MainProduct,
				}
			}

			out.Print(headers, rows, reports)
			return nil
		},
	}
}

func newPlanExportCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export plan schedule as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, err := client.ExportPlanCSV(args[0])
			if err != nil {
				return err
			}

			if outputFile == "" {
				_, err := os.Stdout.Write(data)
				return err
			}

			if err := os.WriteFile(outputFile, data, 0o644); err != nil {
				return fmt.Errorf("failed to write CSV: %w", err)
			}

			out.Success(fmt.Sprintf("Schedule exported to %s", outputFile))
			return nil
		},
	}

	cmd.Flags().StringVar(&outputFile, "output", "", "Write CSV to file instead of stdout")

	return cmd
}

// formatQuantities сжимает заказ в строку "Box=3,Crate=1".
func formatQuantities(quantities map[string]int) string {
	parts := make([]string, 0, len(quantities))
	for product, qty := range quantities {
		parts = append(parts, fmt.Sprintf("%s=%d", product, qty))
	}
	// Порядок map не определён — сортируем для стабильного вывода
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
