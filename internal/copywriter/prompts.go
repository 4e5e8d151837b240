// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package copywriter

import (
	"fmt"
	"strings"

	"github.com/bes2/outreach-engine/pkg/types"
)

// Content preview limits per prompt kind. Long transcripts and
// descriptions are truncated to keep prompts inside model context.
const (
	emailContentLimit     = 3000
	commentContentLimit   = 2000
	summaryContentLimit   = 5000
	relevanceContentLimit = 3000
)

// systemPrompt frames every outreach draft: the writer is a sincere peer
// recommending the app, not an advertiser.
const systemPrompt = `너는 '진정성 있는 마케터'야. 단순히 앱을 홍보하는 게 아니라,
구독자들의 돈과 개인정보를 진심으로 아껴주는 동료의 입장에서 글을 써야 해.

[앱의 핵심 가치]
1. 완전 무료: 숨겨진 유료 기능 없음, 광고 없음.
2. Privacy First: 사진이 서버로 전송되지 않음. 비행기 모드에서도 동작.
3. 똑똑한 클라우드 활용: 불필요한 사진을 먼저 정리하면 무료 용량으로 충분함.

[글쓰기 지침]
- 광고 냄새가 나면 안 됨. 발견의 기쁨을 전달할 것.
- "최고의", "혁신적인", "놀라운" 같은 과장 수식어 금지.
- 기능 나열이 아니라 철학과 가치를 전달할 것.
- 한국어로 작성할 것.`

// OutreachEmailPrompt builds the proposal-email prompt for one creator.
func OutreachEmailPrompt(item types.EnrichedItem, lead *types.Lead, appVideoURL string) string {
	subscribers := item.SubscriberCount
	channelName := item.ChannelName
	if lead != nil {
		if lead.SubscriberCount > subscribers {
			subscribers = lead.SubscriberCount
		}
		if channelName == "" {
			channelName = lead.ChannelName
		}
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n---\n[작업 요청]\n")
	b.WriteString("다음 유튜버에게 앱을 소개하는 진심 어린 제안 이메일을 작성해줘.\n\n")
	fmt.Fprintf(&b, "[타겟 유튜버 정보]\n- 채널명: %s\n- 구독자 수: %d명\n- 최근 영상 제목: %s\n\n",
		channelName, subscribers, item.Title)
	fmt.Fprintf(&b, "[영상 내용 - 구체적으로 언급해서 공감대 형성]\n%s\n\n",
		truncate(item.Description, emailContentLimit))
	b.WriteString("[작성 가이드]\n")
	b.WriteString("1. 영상 내용 중 구체적인 부분에 공감하며 시작\n")
	b.WriteString("2. 핵심 가치 중 2가지 이상을 자연스럽게 녹여내기\n")
	b.WriteString("3. 협찬 제안이 아니라 구독자들께 도움 될 것 같아 연락한다는 뉘앙스\n")
	fmt.Fprintf(&b, "4. 앱 구동 영상 URL 반드시 포함: %s\n\n", appVideoURL)
	b.WriteString("[형식]\n- 제목: (매력적이지만 스팸 같지 않게)\n- 본문: 400~600자")
	return b.String()
}

// ShortCommentPrompt builds the video-comment prompt.
func ShortCommentPrompt(item types.EnrichedItem, appVideoURL string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n---\n[작업 요청]\n")
	b.WriteString("다음 유튜브 영상에 달 댓글을 작성해줘. 광고가 아니라 진짜 도움 되는 정보 공유처럼 보여야 해.\n\n")
	fmt.Fprintf(&b, "[영상 정보]\n- 제목: %s\n- 내용: %s\n\n",
		item.Title, truncate(item.Description, commentContentLimit))
	b.WriteString("[작성 가이드]\n")
	b.WriteString("1. 영상 내용에 공감하며 시작\n")
	b.WriteString("2. 핵심 가치 1~2개만 자연스럽게 언급\n")
	fmt.Fprintf(&b, "3. 링크 자연스럽게 포함: %s\n", appVideoURL)
	b.WriteString("4. 100~150자로 짧게, 이모지는 1~2개만")
	return b.String()
}

// SummaryPrompt builds the video-summary prompt.
func SummaryPrompt(content string) string {
	return fmt.Sprintf(`다음 유튜브 영상 자막/설명을 3~5문장으로 요약해줘.
핵심 주제와 다루는 내용을 간결하게 정리해줘.

[영상 내용]
%s`, truncate(content, summaryContentLimit))
}

// RelevancePrompt builds the relevance-analysis prompt. The model is asked
// for a JSON object; AnalyzeRelevance handles the miss.
func RelevancePrompt(content string) string {
	return fmt.Sprintf(`다음 영상이 사진 정리 앱 마케팅에 얼마나 적합한지 분석해줘.

[관련 키워드]
사진 정리, 갤러리 정리, 용량 부족, 저장공간, 사진 백업, 구글포토, 아이클라우드,
중복 사진, 스크린샷 정리, 핸드폰 용량, 클라우드 비용

[영상 내용]
%s

[응답 형식 - 반드시 아래 JSON 형식으로만 응답]
{
    "score": 0.0~1.0 사이의 관련성 점수,
    "reason": "판단 이유 한 문장",
    "keywords_found": ["발견된", "관련", "키워드"]
}`, truncate(content, relevanceContentLimit))
}

// truncate cuts text to at most limit characters, never splitting a rune.
func truncate(text string, limit int) string {
	if text == "" {
		return "내용 없음"
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
