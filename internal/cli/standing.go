package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewStandingCmd создаёт группу команд для управления постоянными заказами.
func NewStandingCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standing",
		Short: "Manage standing orders",
	}

	cmd.AddCommand(
		newStandingListCmd(clientFn, outputFn),
		newStandingCreateCmd(clientFn, outputFn),
		newStandingShowCmd(clientFn, outputFn),
		newStandingUpdateCmd(clientFn, outputFn),
		newStandingDeleteCmd(clientFn, outputFn),
		newStandingEnableCmd(clientFn, outputFn),
		newStandingDisableCmd(clientFn, outputFn),
	)

	return cmd
}

func newStandingListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List standing orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			orders, err := client.ListStandingOrders()
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "PRODUCTS", "CRON", "INTERVAL", "ENABLED", "NEXT_DUE"}
			rows := make([][]string, len(orders))
			for i, s := range orders {
				rows[i] = []string{
					s.ID, s.Name,
					formatQuantities(s.Order.Quantities),
					s.CronExpr, formatInterval(s.IntervalSec),
					strconv.FormatBool(s.Enabled), s.NextDueAt,
				}
			}

			out.Print(headers, rows, orders)
			return nil
		},
	}
}

func newStandingCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string
	var products []string
	var workers []string
	var cronExpr string
	var intervalSec int
	var timezone string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a standing order",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			quantities := make(map[string]int)
			for _, kv := range products {
				parts := strings.SplitN(kv, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("invalid product format %q, expected NAME=QUANTITY", kv)
				}
				qty, err := strconv.Atoi(parts[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q: %w", kv, err)
				}
				quantities[parts[0]] = qty
			}

			req := CreateStandingOrderRequest{
				Name: name,
				Order: PlanOrderResponse{
					Quantities: quantities,
					Workers:    workers,
				},
				CronExpr:    cronExpr,
				IntervalSec: intervalSec,
				Timezone:    timezone,
				Enabled:     true,
			}

			order, err := client.CreateStandingOrder(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Standing order created: %s", order.ID))
			out.Print(
				[]string{"ID", "NAME", "CRON", "INTERVAL", "ENABLED", "NEXT_DUE"},
				[][]string{{
					order.ID, order.Name, order.CronExpr,
					formatInterval(order.IntervalSec),
					strconv.FormatBool(order.Enabled), order.NextDueAt,
				}},
				order,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Standing order name (required)")
	cmd.Flags().StringSliceVar(&products, "product", nil, "Product quantity as NAME=QUANTITY (repeatable, required)")
	cmd.Flags().StringSliceVar(&workers, "worker", nil, "Worker name (repeatable, required)")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression (e.g. '0 6 * * 1-5')")
	cmd.Flags().IntVar(&intervalSec, "interval", 0, "Interval in seconds")
	cmd.Flags().StringVar(&timezone, "timezone", "", "Timezone (e.g. 'Europe/Moscow')")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("product")
	cmd.MarkFlagRequired("worker")

	return cmd
}

func newStandingShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show standing order details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			order, err := client.GetStandingOrder(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "NAME", "PRODUCTS", "CRON", "INTERVAL", "TIMEZONE", "ENABLED", "NEXT_DUE"},
				[][]string{{
					order.ID, order.Name,
					formatQuantities(order.Order.Quantities),
					order.CronExpr, formatInterval(order.IntervalSec),
					order.Timezone, strconv.FormatBool(order.Enabled), order.NextDueAt,
				}},
				order,
			)
			return nil
		},
	}
}

func newStandingUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string
	var cronExpr string
	var intervalSec int
	var timezone string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a standing order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := UpdateStandingOrderRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("cron") {
				req.CronExpr = &cronExpr
			}
			if cmd.Flags().Changed("interval") {
				req.IntervalSec = &intervalSec
			}
			if cmd.Flags().Changed("timezone") {
				req.Timezone = &timezone
			}

			order, err := client.UpdateStandingOrder(args[0], req)
			if err != nil {
				return err
			}

			out.Success("Standing order updated")
			out.Print(
				[]string{"ID", "NAME", "CRON", "INTERVAL", "ENABLED", "NEXT_DUE"},
				[][]string{{
					order.ID, order.Name, order.CronExpr,
					formatInterval(order.IntervalSec),
					strconv.FormatBool(order.Enabled), order.NextDueAt,
				}},
				order,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New standing order name")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "New cron expression")
	cmd.Flags().IntVar(&intervalSec, "interval", 0, "New interval in seconds")
	cmd.Flags().StringVar(&timezone, "timezone", "", "New timezone")

	return cmd
}

func newStandingDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a standing order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteStandingOrder(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Standing order deleted: %s", args[0]))
			return nil
		},
	}
}

func newStandingEnableCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "enable ID",
		Short: "Enable a standing order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if _, err := client.EnableStandingOrder(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Standing order enabled: %s", args[0]))
			return nil
		},
	}
}

func newStandingDisableCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "disable ID",
		Short: "Disable a standing order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if _, err := client.DisableStandingOrder(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Standing order disabled: %s", args[0]))
			return nil
		},
	}
}

func formatInterval(sec int) string {
	if sec <= 0 {
		return ""
	}
	return strconv.Itoa(sec) + "s"
}
