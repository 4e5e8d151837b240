// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bes2/outreach-engine/internal/contact"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect collected leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored leads, newest first",
	RunE:  runLeadsList,
}

func runLeadsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	leads, err := st.Leads(ctx)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(leads)
	}

	if len(leads) == 0 {
		fmt.Println("No leads collected yet.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-10s  %-12s  %-25s  %s\n",
		"Channel", "Status", "Subscribers", "Contact", "Created")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 95))
	for _, lead := range leads {
		name := lead.ChannelName
		if len([]rune(name)) > 30 {
			name = string([]rune(name)[:27]) + "..."
		}
		addr := ""
		if lead.Email != "" {
			addr = contact.Redact(lead.Email)
		}
		fmt.Fprintf(os.Stdout, "%-30s  %-10s  %-12d  %-25s  %s\n",
			name, lead.Status, lead.SubscriberCount, addr,
			lead.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(os.Stdout, "\n%d leads\n", len(leads))
	return nil
}

var leadsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate leads by workflow status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.LeadStats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("total:     %d\n", stats.Total)
		fmt.Printf("new:       %d\n", stats.New)
		fmt.Printf("contacted: %d\n", stats.Contacted)
		fmt.Printf("responded: %d\n", stats.Responded)
		fmt.Printf("converted: %d\n", stats.Converted)
		fmt.Printf("rejected:  %d\n", stats.Rejected)
		return nil
	},
}

func init() {
	leadsListCmd.Flags().Bool("json", false, "output leads as JSON")

	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsStatsCmd)

	rootCmd.AddCommand(leadsCmd)
}
