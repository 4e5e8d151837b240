package contact

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"empty", "", "", false},
		{"no address", "비즈니스 문의는 채널 정보란을 확인해주세요", "", false},
		{"plain address", "문의: creator@example.com", "creator@example.com", true},
		{"first of several", "a@b.co then c@d.io", "a@b.co", true},
		{"embedded in korean text", "협업 문의 hello.world+biz@studio-kr.co.kr 환영합니다", "hello.world+biz@studio-kr.co.kr", true},
		{"missing tld", "broken@localhost", "", false},
		{"bare at sign", "100명 @ 방송", "", false},
		{"newlines around", "줄1\nbiz@channel.tv\n줄3", "biz@channel.tv", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Extract(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"creator@example.com", "c***@example.com"},
		{"a@b.co", "a***@b.co"},
		{"notanaddress", "notanaddress"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
