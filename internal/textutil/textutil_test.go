package textutil

import (
	"math"
	"testing"
)

func TestFoldName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Pronóstico  ", "pronostico"},
		{"ÉQUIPE", "equipe"},
		{"BetAI", "betai"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FoldName(tt.in); got != tt.want {
			t.Errorf("FoldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEntityKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BetSpark 1", "betspark"},
		{"Roto Grinders 2", "rotogrinders"},
		{"Action-Network 3", "actionnetwork"},
		{"Pronóstico 12", "pronostico"},
		{"betai", "betai"},
		{"4", "4"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := EntityKey(tt.in); got != tt.want {
			t.Errorf("EntityKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLeadingIndex(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BetSpark 1.jpg", "1"},
		{"Roto Grinders 12.jpeg", "12"},
		{"cover.png", "1"},
		{"v2 shot 3.png", "2"},
	}
	for _, tt := range tests {
		if got := LeadingIndex(tt.in, "1"); got != tt.want {
			t.Errorf("LeadingIndex(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("roto_grinders"); got != "Roto Grinders" {
		t.Fatalf("DisplayName = %q", got)
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("betai", "BetAI"); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical keys scored %v", got)
	}
	if got := Similarity("abc", "xyz"); got != 0 {
		t.Fatalf("disjoint keys scored %v", got)
	}
	if got := Similarity("", "abc"); got != 0 {
		t.Fatalf("empty key scored %v", got)
	}
}

func TestBestMatch(t *testing.T) {
	candidates := []string{"betai", "rotogrinders", "actionnetwork"}
	if got, ok := BestMatch("bet_ai", candidates, 0.8); !ok || got != "betai" {
		t.Fatalf("BestMatch(bet_ai) = %q, %v", got, ok)
	}
	if got, ok := BestMatch("rotogrinder", candidates, 0.8); !ok || got != "rotogrinders" {
		t.Fatalf("BestMatch(rotogrinder) = %q, %v", got, ok)
	}
	if _, ok := BestMatch("zzz", candidates, 0.8); ok {
		t.Fatal("expected no match for unrelated key")
	}
}
