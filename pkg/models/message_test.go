package models

import "testing"

func TestMessageKindValid(t *testing.T) {
	tests := []struct {
		kind MessageKind
		want bool
	}{
		{KindContribution, true},
		{KindDiscussion, true},
		{KindSynthesis, true},
		{KindStatus, true},
		{MessageKind("reply"), false},
		{MessageKind(""), false},
	}

	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.want {
			t.Errorf("MessageKind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestSumTokens(t *testing.T) {
	messages := []CollaborationMessage{
		{Kind: KindContribution, TokensUsed: 100},
		{Kind: KindContribution, TokensUsed: 250},
		{Kind: KindStatus}, // status notes carry no usage
		{Kind: KindSynthesis, TokensUsed: 400},
	}

	if got := SumTokens(messages); got != 750 {
		t.Errorf("SumTokens() = %d, want 750", got)
	}
}

func TestSumTokens_Empty(t *testing.T) {
	if got := SumTokens(nil); got != 0 {
		t.Errorf("SumTokens(nil) = %d, want 0", got)
	}
}

func TestFilterKind(t *testing.T) {
	messages := []CollaborationMessage{
		{Seq: 1, Kind: KindStatus},
		{Seq: 2, Kind: KindContribution, From: "a"},
		{Seq: 3, Kind: KindContribution, From: "b"},
		{Seq: 4, Kind: KindDiscussion, From: "a", To: "b"},
		{Seq: 5, Kind: KindSynthesis, From: SupervisorID},
	}

	contributions := FilterKind(messages, KindContribution)
	if len(contributions) != 2 {
		t.Fatalf("FilterKind(contribution) returned %d messages, want 2", len(contributions))
	}
	if contributions[0].From != "a" || contributions[1].From != "b" {
		t.Errorf("FilterKind() did not preserve order: %v", contributions)
	}

	if got := FilterKind(messages, KindSynthesis); len(got) != 1 {
		t.Errorf("FilterKind(synthesis) returned %d messages, want 1", len(got))
	}
}
