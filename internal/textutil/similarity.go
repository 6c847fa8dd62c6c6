package textutil

import (
	"math"
	"strings"
)

// Similarity returns the cosine similarity of the character bigram vectors of
// the two keys after folding and dropping non-alphanumerics. Identical keys
// score 1; keys sharing no bigram score 0.
func Similarity(a, b string) float64 {
	va := bigrams(a)
	vb := bigrams(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}
	var dot, na, nb float64
	for gram, count := range va {
		na += count * count
		if other, ok := vb[gram]; ok {
			dot += count * other
		}
	}
	for _, count := range vb {
		nb += count * count
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// BestMatch returns the candidate most similar to key when its score reaches
// threshold. Ties keep the earliest candidate.
func BestMatch(key string, candidates []string, threshold float64) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		if score := Similarity(key, candidate); score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	if best == "" || bestScore < threshold {
		return "", false
	}
	return best, true
}

func bigrams(value string) map[string]float64 {
	var b strings.Builder
	for _, r := range FoldName(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if len(clean) < 2 {
		if clean == "" {
			return nil
		}
		return map[string]float64{clean: 1}
	}
	grams := make(map[string]float64, len(clean)-1)
	for i := 0; i+2 <= len(clean); i++ {
		grams[clean[i:i+2]]++
	}
	return grams
}
