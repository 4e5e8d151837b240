// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bes2/outreach-engine/internal/store"
	"github.com/bes2/outreach-engine/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the persistent lead store",
	Long: `Store manages the database backing the pipeline: SQLite by default, or
a hosted Postgres when a DSN is configured. The schema is created on first
open; init forces that eagerly, stats summarizes what is stored.`,
}

var storeInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := storeConfigFromViper()
		st, err := store.Open(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if cfg.DSN != "" {
			fmt.Println("store ready (postgres)")
		} else {
			path := cfg.Path
			if path == "" {
				path = "outreach.db"
			}
			fmt.Printf("store ready: %s\n", path)
		}
		return nil
	},
}

var storeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize stored leads and drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		leads, err := st.LeadStats(ctx)
		if err != nil {
			return err
		}
		drafts, err := st.DraftStats(ctx)
		if err != nil {
			return err
		}
		known, err := st.KnownVideoIDs(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("items:  %d\n", len(known))
		fmt.Printf("leads:  %d total (%d new, %d contacted, %d responded, %d converted, %d rejected)\n",
			leads.Total, leads.New, leads.Contacted, leads.Responded, leads.Converted, leads.Rejected)
		fmt.Printf("drafts: %d total\n", drafts.Total)
		fmt.Printf("  outreach-message: %d pending, %d approved, %d sent, %d rejected\n",
			drafts.Outreach.Pending, drafts.Outreach.Approved, drafts.Outreach.Sent, drafts.Outreach.Rejected)
		fmt.Printf("  short-comment:    %d pending, %d approved, %d sent, %d rejected\n",
			drafts.Comment.Pending, drafts.Comment.Approved, drafts.Comment.Sent, drafts.Comment.Rejected)
		return nil
	},
}

// storeConfigFromViper reads the store backend selection from
// configuration and secrets.
func storeConfigFromViper() types.StoreConfig {
	return types.StoreConfig{
		Driver:   viper.GetString("store.driver"),
		Path:     viper.GetString("store.path"),
		DSN:      secretDefault("store-dsn", viper.GetString("store.dsn")),
		MaxConns: viper.GetInt("store.max_conns"),
	}
}

func init() {
	storeCmd.AddCommand(storeInitCmd)
	storeCmd.AddCommand(storeStatsCmd)

	rootCmd.AddCommand(storeCmd)
}
