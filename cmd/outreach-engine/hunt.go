// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/bes2/outreach-engine/internal/copywriter"
	"github.com/bes2/outreach-engine/internal/hunt"
	"github.com/bes2/outreach-engine/internal/store"
	"github.com/bes2/outreach-engine/internal/videoapi"
	"github.com/bes2/outreach-engine/pkg/types"
)

const defaultUserAgent = "outreach-engine/0.1"

// defaultKeywords is the stock campaign keyword list, used when neither
// flags nor configuration provide one.
var defaultKeywords = []string{
	"사진 정리",
	"사진 용량 부족",
	"핸드폰 용량 정리",
	"갤러리 정리",
	"사진 백업",
	"스마트폰 저장공간",
}

var huntCmd = &cobra.Command{
	Use:   "hunt",
	Short: "Search for creators, enrich results, and persist new leads",
	Long: `Hunt runs the full discovery pipeline for one or more keywords: paginated
platform search with dedup and language filters, batched statistics and
contact enrichment, lead/item persistence, and optional draft generation.

Keywords come from --keyword flags, a --keywords-file YAML list, the
configuration file, or the built-in campaign list, in that order.`,
	RunE: runHunt,
}

func init() {
	huntCmd.Flags().StringSlice("keyword", nil, "keyword to hunt (repeatable; whitespace-separated terms are AND-matched)")
	huntCmd.Flags().String("keywords-file", "", "YAML file holding a list of keywords")
	huntCmd.Flags().Int("max-results", 0, "target candidates per keyword (default 5)")
	huntCmd.Flags().Int("days", 0, "only videos published within the last N days (default 30)")
	huntCmd.Flags().Int64("min-views", 0, "drop videos below this view count (0 = no filter)")
	huntCmd.Flags().Bool("require-contact", false, "drop videos with no resolved contact address")
	huntCmd.Flags().Bool("drafts", false, "generate outreach drafts for newly stored items")
	huntCmd.Flags().String("language", "", "target language for the script filter (default ko)")
	huntCmd.Flags().String("region", "", "platform region code (default KR)")
	huntCmd.Flags().Bool("json", false, "print the report as JSON")
	huntCmd.Flags().String("report", "hunt-report.yaml", "write the report YAML to this path (empty = skip)")

	rootCmd.AddCommand(huntCmd)
}

func runHunt(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	if cfg.Search.APIKey == "" {
		return fmt.Errorf("no platform API key: set .secrets/youtube-api-key or OUTREACH_ENGINE_SEARCH_API_KEY")
	}

	keywords, err := resolveKeywords(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	var drafter hunt.Drafter
	if cfg.Hunt.GenerateDrafts {
		if cfg.Generation.APIKey == "" {
			fmt.Fprintln(os.Stderr, "warning: draft generation disabled: no generation API key")
			cfg.Hunt.GenerateDrafts = false
		} else {
			drafter = copywriter.New(copywriter.NewGemini(cfg.Generation), cfg.Generation)
		}
	}

	pipe := hunt.NewPipeline(videoapi.NewHTTPClient(cfg.Search), st, drafter, cfg, os.Stdout)
	report, err := pipe.Run(ctx, keywords)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := writeReportYAML(report, path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: report write failed: %v\n", err)
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	}

	if report.HasFailures() {
		failed := 0
		for _, k := range report.Keywords {
			if k.Err != "" {
				failed++
			}
		}
		return fmt.Errorf("%d keyword(s) failed", failed)
	}
	return nil
}

// pipelineConfigFromFlags merges viper configuration, secrets, and flag
// overrides into one pipeline configuration.
func pipelineConfigFromFlags(cmd *cobra.Command) (types.PipelineConfig, error) {
	days, _ := cmd.Flags().GetInt("days")
	if days == 0 {
		days = viper.GetInt("search.published_after_days")
	}
	language, _ := cmd.Flags().GetString("language")
	if language == "" {
		language = viper.GetString("search.language")
	}
	if language == "" {
		language = "ko"
	}
	region, _ := cmd.Flags().GetString("region")
	if region == "" {
		region = viper.GetString("search.region")
	}
	if region == "" {
		region = "KR"
	}

	minViews, _ := cmd.Flags().GetInt64("min-views")
	if minViews == 0 {
		minViews = viper.GetInt64("enrich.min_view_count")
	}
	requireContact, _ := cmd.Flags().GetBool("require-contact")
	if !requireContact {
		requireContact = viper.GetBool("enrich.require_contact")
	}

	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = viper.GetInt("hunt.max_results_per_keyword")
	}
	drafts, _ := cmd.Flags().GetBool("drafts")
	if !drafts {
		drafts = viper.GetBool("hunt.generate_drafts")
	}

	cfg := types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: defaultUserAgent,
			},
			APIKey:             secretDefault("youtube-api-key", viper.GetString("search.api_key")),
			PageSize:           viper.GetInt("search.page_size"),
			MaxPages:           viper.GetInt("search.max_pages"),
			PublishedAfterDays: days,
			Language:           language,
			Region:             region,
			PageDelay:          viper.GetDuration("search.page_delay"),
			PageDelayJitter:    viper.GetDuration("search.page_delay_jitter"),
		},
		Enrich: types.EnrichConfig{
			ChunkSize:      viper.GetInt("enrich.chunk_size"),
			MinViewCount:   minViews,
			RequireContact: requireContact,
		},
		Store: storeConfigFromViper(),
		Generation: types.GenerationConfig{
			Model:        viper.GetString("generation.model"),
			APIKey:       secretDefault("gemini-api-key", viper.GetString("generation.api_key")),
			MaxRetries:   viper.GetInt("generation.max_retries"),
			AppVideoURL:  viper.GetString("generation.app_video_url"),
			MinRelevance: viper.GetFloat64("generation.min_relevance"),
		},
		Hunt: types.HuntConfig{
			MaxResultsPerKeyword: maxResults,
			GenerateDrafts:       drafts,
		},
	}
	if cfg.Search.PublishedAfterDays == 0 {
		cfg.Search.PublishedAfterDays = 30
	}
	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = 30 * time.Second
	}
	return cfg, nil
}

// resolveKeywords picks the keyword list: flags, file, configuration, then
// the built-in campaign list.
func resolveKeywords(cmd *cobra.Command) ([]string, error) {
	if keywords, _ := cmd.Flags().GetStringSlice("keyword"); len(keywords) > 0 {
		return keywords, nil
	}

	if path, _ := cmd.Flags().GetString("keywords-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading keywords file: %w", err)
		}
		var keywords []string
		if err := yaml.Unmarshal(data, &keywords); err != nil {
			return nil, fmt.Errorf("parsing keywords file %s: %w", path, err)
		}
		if len(keywords) == 0 {
			return nil, fmt.Errorf("keywords file %s holds no keywords", path)
		}
		return keywords, nil
	}

	if keywords := viper.GetStringSlice("hunt.keywords"); len(keywords) > 0 {
		return keywords, nil
	}
	return defaultKeywords, nil
}

func writeReportYAML(report types.HuntReport, path string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
