// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package videoapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bes2/outreach-engine/pkg/types"
)

func testClient() *HTTPClient {
	return &HTTPClient{
		Client:    &http.Client{Timeout: 5 * time.Second},
		APIKey:    "test-key",
		UserAgent: "outreach-engine-test/0.1",
	}
}

func withAPIBase(t *testing.T, url string) {
	t.Helper()
	old := apiBase
	apiBase = url
	t.Cleanup(func() { apiBase = old })
}

// --- parseCount ---

func TestParseCount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"empty", "", 0},
		{"plain", "12345", 12345},
		{"zero", "0", 0},
		{"malformed", "12k", 0},
		{"negative", "-3", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseCount(tt.in); got != tt.want {
				t.Errorf("parseCount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

// --- SearchPage ---

func TestSearchPageParsesResults(t *testing.T) {
	var gotQuery, gotOrder, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotOrder = r.URL.Query().Get("order")
		gotToken = r.URL.Query().Get("pageToken")
		fmt.Fprint(w, `{
			"nextPageToken": "TOKEN2",
			"pageInfo": {"totalResults": 4200, "resultsPerPage": 50},
			"items": [
				{
					"id": {"videoId": "vid-1"},
					"snippet": {
						"publishedAt": "2026-08-01T10:00:00Z",
						"channelId": "ch-1",
						"title": "사진 정리 꿀팁",
						"description": "용량 부족 해결",
						"channelTitle": "테크채널",
						"thumbnails": {"high": {"url": "https://img/1.jpg"}}
					}
				},
				{"id": {}, "snippet": {"title": "channel result, no videoId"}}
			]
		}`)
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	page, err := testClient().SearchPage(context.Background(), PageRequest{
		Query:          "사진 정리",
		PageSize:       50,
		PublishedAfter: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Language:       "ko",
		Region:         "KR",
		PageToken:      "TOKEN1",
	})
	if err != nil {
		t.Fatalf("SearchPage() error = %v", err)
	}

	if gotQuery != "사진 정리" {
		t.Errorf("query sent = %q, want %q", gotQuery, "사진 정리")
	}
	if gotOrder != "date" {
		t.Errorf("order sent = %q, want %q", gotOrder, "date")
	}
	if gotToken != "TOKEN1" {
		t.Errorf("pageToken sent = %q, want %q", gotToken, "TOKEN1")
	}

	if len(page.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1 (ID-less result dropped)", len(page.Items))
	}
	if page.ApproxTotal != 4200 {
		t.Errorf("ApproxTotal = %d, want 4200", page.ApproxTotal)
	}
	if page.NextPageToken != "TOKEN2" {
		t.Errorf("NextPageToken = %q, want TOKEN2", page.NextPageToken)
	}

	want := types.Candidate{
		VideoID:      "vid-1",
		Title:        "사진 정리 꿀팁",
		Description:  "용량 부족 해결",
		PublishedAt:  time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		ChannelID:    "ch-1",
		ChannelName:  "테크채널",
		ThumbnailURL: "https://img/1.jpg",
		VideoURL:     "https://www.youtube.com/watch?v=vid-1",
	}
	if page.Items[0] != want {
		t.Errorf("Items[0] = %+v, want %+v", page.Items[0], want)
	}
}

func TestSearchPageEmptyQuery(t *testing.T) {
	_, err := testClient().SearchPage(context.Background(), PageRequest{Query: "   "})
	if err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearchPageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	_, err := testClient().SearchPage(context.Background(), PageRequest{Query: "x"})
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("expected HTTP 403 error, got %v", err)
	}
}

// --- VideoStats ---

func TestVideoStatsZeroFillsMalformedCounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"items": [
				{"id": "vid-1", "statistics": {"viewCount": "1500", "likeCount": "80", "commentCount": "9"}},
				{"id": "vid-2", "statistics": {"viewCount": "not-a-number"}}
			]
		}`)
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	stats, err := testClient().VideoStats(context.Background(), []string{"vid-1", "vid-2", "vid-3"})
	if err != nil {
		t.Fatalf("VideoStats() error = %v", err)
	}

	if got := stats["vid-1"]; got != (Stats{ViewCount: 1500, LikeCount: 80, CommentCount: 9}) {
		t.Errorf("vid-1 stats = %+v", got)
	}
	if got := stats["vid-2"]; got != (Stats{}) {
		t.Errorf("vid-2 stats = %+v, want all zero", got)
	}
	if _, ok := stats["vid-3"]; ok {
		t.Error("vid-3 should be absent, not zero-filled by the client")
	}
}

func TestVideoStatsRejectsOversizedBatch(t *testing.T) {
	ids := make([]string, BatchLimit+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("vid-%d", i)
	}
	_, err := testClient().VideoStats(context.Background(), ids)
	if err == nil {
		t.Fatal("expected error for oversized batch")
	}
}

func TestVideoStatsEmptyBatch(t *testing.T) {
	stats, err := testClient().VideoStats(context.Background(), nil)
	if err != nil {
		t.Fatalf("VideoStats(nil) error = %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("len(stats) = %d, want 0", len(stats))
	}
}

// --- ChannelInfo ---

func TestChannelInfoParsesAndBuildsURL(t *testing.T) {
	var gotIDs string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIDs = r.URL.Query().Get("id")
		fmt.Fprint(w, `{
			"items": [
				{
					"id": "ch-1",
					"snippet": {
						"title": "테크채널",
						"description": "문의 biz@tech.kr",
						"thumbnails": {"high": {"url": "https://img/ch1.jpg"}}
					},
					"statistics": {"subscriberCount": "120000", "videoCount": "310", "viewCount": "9900000"}
				}
			]
		}`)
	}))
	defer srv.Close()
	withAPIBase(t, srv.URL)

	channels, err := testClient().ChannelInfo(context.Background(), []string{"ch-1", "ch-2"})
	if err != nil {
		t.Fatalf("ChannelInfo() error = %v", err)
	}
	if gotIDs != "ch-1,ch-2" {
		t.Errorf("id param = %q, want %q", gotIDs, "ch-1,ch-2")
	}

	ch, ok := channels["ch-1"]
	if !ok {
		t.Fatal("ch-1 missing from response map")
	}
	if ch.SubscriberCount != 120000 || ch.Description != "문의 biz@tech.kr" {
		t.Errorf("ch-1 = %+v", ch)
	}
	if ch.ChannelURL != "https://www.youtube.com/channel/ch-1" {
		t.Errorf("ChannelURL = %q", ch.ChannelURL)
	}
	if _, ok := channels["ch-2"]; ok {
		t.Error("ch-2 should be absent from the map")
	}
}

func TestChannelInfoRejectsOversizedBatch(t *testing.T) {
	ids := make([]string, BatchLimit+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("ch-%d", i)
	}
	_, err := testClient().ChannelInfo(context.Background(), ids)
	if err == nil {
		t.Fatal("expected error for oversized batch")
	}
}
