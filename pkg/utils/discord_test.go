package utils

import "testing"

func TestMentionRoundTrip(t *testing.T) {
	if got := FormatUserMention("123"); got != "<@123>" {
		t.Fatalf("FormatUserMention = %q", got)
	}
	if got := ExtractUserIDFromMention("<@123>"); got != "123" {
		t.Fatalf("ExtractUserIDFromMention = %q, want 123", got)
	}
	if got := ExtractUserIDFromMention("<@!123>"); got != "123" {
		t.Fatalf("ExtractUserIDFromMention nickname form = %q, want 123", got)
	}
	if !IsUserMention("<@123>") || IsUserMention("123") {
		t.Fatal("IsUserMention misclassified input")
	}
}

func TestChannelMentionRoundTrip(t *testing.T) {
	if got := FormatChannelMention("456"); got != "<#456>" {
		t.Fatalf("FormatChannelMention = %q", got)
	}
	if got := ExtractChannelIDFromMention("<#456>"); got != "456" {
		t.Fatalf("ExtractChannelIDFromMention = %q, want 456", got)
	}
	if !IsChannelMention("<#456>") || IsChannelMention("#general") {
		t.Fatal("IsChannelMention misclassified input")
	}
}

func TestFormatLeaderboardEntry(t *testing.T) {
	if got := FormatLeaderboardEntry(1, "<@1>", "1h"); got != "🥇 <@1> - 1h" {
		t.Fatalf("rank 1 = %q", got)
	}
	if got := FormatLeaderboardEntry(4, "<@4>", "5m"); got != "4. <@4> - 5m" {
		t.Fatalf("rank 4 = %q", got)
	}
}
