package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andy/billfold/internal/domain"
	"github.com/andy/billfold/internal/money"
	"github.com/andy/billfold/internal/service"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `List, inspect, and manage invoices without the TUI.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		statusStr, _ := cmd.Flags().GetString("status")
		statuses, err := parseStatuses(statusStr)
		if err != nil {
			return err
		}

		invoices := appInstance.Invoices.Filtered(statuses)
		if len(invoices) == 0 {
			fmt.Println("No invoices found")
			return nil
		}

		fmt.Printf("%-8s %-12s %-20s %14s  %s\n", "ID", "Due", "Client", "Total", "Status")
		fmt.Println(strings.Repeat("-", 66))
		for _, inv := range invoices {
			fmt.Printf("%-8s %-12s %-20s %14s  %s\n",
				inv.ID,
				inv.PaymentDue.Format("2006-01-02"),
				truncate(inv.ClientName, 20),
				money.Format(inv.Total),
				inv.Status,
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := appInstance.Invoices.Get(args[0])
		if err != nil {
			if errors.Is(err, service.ErrInvoiceNotFound) {
				return fmt.Errorf("invoice %s not found", args[0])
			}
			return err
		}

		fmt.Println(strings.Repeat("=", 64))
		fmt.Printf("Invoice: #%s (%s)\n", inv.ID, inv.Status)
		fmt.Println(strings.Repeat("=", 64))
		if inv.Description != "" {
			fmt.Printf("Description: %s\n", inv.Description)
		}
		fmt.Printf("Invoice Date: %s\n", inv.CreatedAt.Format("2006-01-02"))
		fmt.Printf("Payment Due:  %s (%d days)\n", inv.PaymentDue.Format("2006-01-02"), inv.PaymentTerms)
		fmt.Println()

		fmt.Println("From:")
		printAddress(inv.SenderAddress)
		fmt.Println("Bill To:")
		if inv.ClientName != "" {
			fmt.Printf("  %s\n", inv.ClientName)
		}
		printAddress(inv.ClientAddress)
		if inv.ClientEmail != "" {
			fmt.Printf("  %s\n", inv.ClientEmail)
		}
		fmt.Println()

		if len(inv.Items) > 0 {
			fmt.Println("Items:")
			fmt.Println(strings.Repeat("-", 64))
			fmt.Printf("%-30s %6s %12s %12s\n", "Name", "Qty", "Price", "Total")
			fmt.Println(strings.Repeat("-", 64))
			for _, item := range inv.Items {
				fmt.Printf("%-30s %6s %12s %12s\n",
					truncate(item.Name, 30),
					item.Quantity.String(),
					money.Format(item.Price),
					money.Format(item.Total),
				)
			}
			fmt.Println(strings.Repeat("-", 64))
		}

		fmt.Printf("\nAmount Due: %s\n", money.Format(inv.Total))
		fmt.Println(strings.Repeat("=", 64))
		return nil
	},
}

var invoicesMarkPaidCmd = &cobra.Command{
	Use:   "mark-paid [id]",
	Short: "Mark a pending invoice as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		inv, err := appInstance.Invoices.Get(id)
		if err != nil {
			if errors.Is(err, service.ErrInvoiceNotFound) {
				return fmt.Errorf("invoice %s not found", id)
			}
			return err
		}
		if !inv.CanMarkPaid() {
			fmt.Printf("Invoice #%s is %s; only pending invoices can be marked as paid\n", id, inv.Status)
			return nil
		}

		if err := appInstance.Invoices.MarkPaid(context.Background(), id); err != nil {
			return fmt.Errorf("failed to mark invoice as paid: %w", err)
		}

		fmt.Printf("✓ Invoice #%s marked as paid\n", id)
		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if _, err := appInstance.Invoices.Get(id); err != nil {
			if errors.Is(err, service.ErrInvoiceNotFound) {
				return fmt.Errorf("invoice %s not found", id)
			}
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmPrompt(fmt.Sprintf("Delete invoice #%s? This cannot be undone.", id)) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.Invoices.Delete(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}

		fmt.Printf("✓ Invoice #%s deleted\n", id)
		return nil
	},
}

// parseStatuses parses a comma-separated status filter
func parseStatuses(s string) ([]domain.Status, error) {
	if s == "" {
		return nil, nil
	}
	var statuses []domain.Status
	for _, part := range strings.Split(s, ",") {
		status := domain.Status(strings.TrimSpace(strings.ToLower(part)))
		if !status.Valid() {
			return nil, fmt.Errorf("invalid status %q (want draft, pending, or paid)", part)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func printAddress(addr domain.Address) {
	if addr.Street != "" {
		fmt.Printf("  %s\n", addr.Street)
	}
	if line := addr.CityStateLine(); line != "" {
		fmt.Printf("  %s\n", line)
	}
	if addr.ZipCode != "" {
		fmt.Printf("  %s\n", addr.ZipCode)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesMarkPaidCmd)
	invoicesCmd.AddCommand(invoicesDeleteCmd)

	invoicesListCmd.Flags().String("status", "", "Filter by status, comma separated (draft,pending,paid)")
	invoicesDeleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}
