// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hunt

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/bes2/outreach-engine/internal/videoapi"
	"github.com/bes2/outreach-engine/pkg/types"
)

const defaultMaxPages = 10

// pageSleep paces successive page requests. Tests replace it to avoid
// real sleeps.
var pageSleep = time.Sleep

// scriptPatterns maps a language code to a pattern matching one character
// of that language's script. Candidates whose title+description contain no
// such character are dropped. Languages without an entry disable the
// script filter.
var scriptPatterns = map[string]*regexp.Regexp{
	"ko": regexp.MustCompile(`[가-힣]`),
	"ja": regexp.MustCompile(`[\x{3040}-\x{30ff}]`),
}

// SearchResult is the output of one keyword search: the surviving
// candidates in discovery order plus first-page metadata.
type SearchResult struct {
	// Candidates holds the survivors, most recent first.
	Candidates []types.Candidate

	// ApproxTotal is the platform's approximate total-match count from the
	// first page. Advisory only.
	ApproxTotal int64

	// Pages is the number of page requests issued.
	Pages int
}

// SearchPager finds unseen, language-and-keyword-matching candidates for
// one keyword without scanning unbounded result volume.
type SearchPager struct {
	client videoapi.Client
	cfg    types.SearchConfig
	log    io.Writer
}

// NewSearchPager builds a pager over the given API client.
func NewSearchPager(client videoapi.Client, cfg types.SearchConfig, log io.Writer) *SearchPager {
	return &SearchPager{client: client, cfg: cfg, log: log}
}

// Search accumulates up to maxResults candidates for the keyword. Pages are
// fetched in order of recency until maxResults survivors are collected, the
// page cap is hit, or results are exhausted. A page request failure aborts
// pagination and returns what was accumulated: partial results are valid
// output, not failure. An empty keyword after trimming is rejected.
func (p *SearchPager) Search(ctx context.Context, keyword string, maxResults int, dedup *DedupIndex) (SearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return SearchResult{}, fmt.Errorf("empty search keyword")
	}
	if maxResults <= 0 {
		return SearchResult{}, fmt.Errorf("max results must be positive, got %d", maxResults)
	}

	terms := splitTerms(keyword)
	script := scriptPatterns[p.cfg.Language]

	maxPages := p.cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	pageSize := p.cfg.PageSize
	if pageSize <= 0 || pageSize > videoapi.BatchLimit {
		pageSize = videoapi.BatchLimit
	}

	var publishedAfter time.Time
	if days := p.cfg.PublishedAfterDays; days > 0 {
		publishedAfter = time.Now().UTC().AddDate(0, 0, -days)
	}

	var result SearchResult
	pageToken := ""

	for result.Pages < maxPages {
		if result.Pages > 0 && p.cfg.PageDelay > 0 {
			pageSleep(p.pageDelay())
		}

		page, err := p.client.SearchPage(ctx, videoapi.PageRequest{
			Query:          keyword,
			PageSize:       pageSize,
			PublishedAfter: publishedAfter,
			Language:       p.cfg.Language,
			Region:         p.cfg.Region,
			PageToken:      pageToken,
		})
		if err != nil {
			fmt.Fprintf(p.log, "  warning: page %d fetch failed for %q: %v\n",
				result.Pages+1, keyword, err)
			return result, nil
		}
		result.Pages++
		if result.Pages == 1 {
			result.ApproxTotal = page.ApproxTotal
		}

		for _, c := range page.Items {
			if dedup != nil && dedup.Contains(c.VideoID) {
				continue
			}
			if script != nil && !script.MatchString(c.Title+" "+c.Description) {
				continue
			}
			if !matchesAllTerms(c.Title+" "+c.Description, terms) {
				continue
			}
			c.SearchKeyword = keyword
			result.Candidates = append(result.Candidates, c)
			if len(result.Candidates) >= maxResults {
				return result, nil
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return result, nil
}

func (p *SearchPager) pageDelay() time.Duration {
	d := p.cfg.PageDelay
	if j := p.cfg.PageDelayJitter; j > 0 {
		d += time.Duration(rand.Int63n(int64(j)))
	}
	return d
}

// splitTerms lowercases the keyword and splits it on whitespace. Every term
// must appear in a candidate's text: AND semantics across terms.
func splitTerms(keyword string) []string {
	return strings.Fields(strings.ToLower(keyword))
}

func matchesAllTerms(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if !strings.Contains(lower, term) {
			return false
		}
	}
	return true
}
