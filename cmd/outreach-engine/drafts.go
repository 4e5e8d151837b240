// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bes2/outreach-engine/internal/copywriter"
	"github.com/bes2/outreach-engine/internal/store"
	"github.com/bes2/outreach-engine/pkg/types"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Review and manage generated outreach drafts",
	Long: `Drafts manages the review lifecycle of generated outreach content.
New drafts start pending; approve, sent, and reject move them through the
workflow. Sent and rejected drafts are terminal.

Drafts whose content carries a generation error marker are flagged in the
listing and must not be published.`,
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List drafts by status and type",
	RunE:  runDraftsList,
}

func runDraftsList(cmd *cobra.Command, args []string) error {
	rawStatus, _ := cmd.Flags().GetString("status")
	status, err := types.ParseDraftStatus(rawStatus)
	if err != nil {
		return err
	}

	var draftType types.DraftType
	if rawType, _ := cmd.Flags().GetString("type"); rawType != "" {
		draftType, err = types.ParseDraftType(rawType)
		if err != nil {
			return err
		}
	}

	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	drafts, err := st.DraftsByStatus(ctx, status, draftType)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(drafts)
	}

	if len(drafts) == 0 {
		fmt.Printf("No %s drafts.\n", status)
		return nil
	}

	full, _ := cmd.Flags().GetBool("full")
	fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-10s  %s\n", "ID", "Type", "Created", "Content")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, d := range drafts {
		content := strings.ReplaceAll(d.Content, "\n", " ")
		if copywriter.IsErrorContent(d.Content) {
			content = "[GENERATION FAILED] " + content
		}
		if !full && len([]rune(content)) > 60 {
			content = string([]rune(content)[:57]) + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-10s  %s\n",
			d.ID, d.Type, d.CreatedAt.Format("2006-01-02"), content)
	}
	fmt.Fprintf(os.Stdout, "\n%d drafts\n", len(drafts))
	return nil
}

func newDraftTransitionCmd(use, short string, target types.DraftStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [draft-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			draft, err := st.UpdateDraftStatus(ctx, args[0], target)
			if err != nil {
				return err
			}
			fmt.Printf("draft %s is now %s\n", draft.ID, draft.Status)
			return nil
		},
	}
}

func init() {
	draftsListCmd.Flags().String("status", "pending", "filter by status: pending, approved, sent, rejected")
	draftsListCmd.Flags().String("type", "", "filter by type: outreach-message or short-comment")
	draftsListCmd.Flags().Bool("full", false, "print full draft content")
	draftsListCmd.Flags().Bool("json", false, "output drafts as JSON")

	draftsCmd.AddCommand(draftsListCmd)
	draftsCmd.AddCommand(newDraftTransitionCmd("approve", "Approve a pending draft", types.DraftApproved))
	draftsCmd.AddCommand(newDraftTransitionCmd("sent", "Mark a draft as sent (terminal)", types.DraftSent))
	draftsCmd.AddCommand(newDraftTransitionCmd("reject", "Reject a draft (terminal)", types.DraftRejected))

	rootCmd.AddCommand(draftsCmd)
}

// openStore opens the configured store backend for CLI commands.
func openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, storeConfigFromViper())
}
