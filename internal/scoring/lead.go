package scoring

import (
	"fmt"
	"strings"
)

// LeadAnalysis is the output of scoring a lead's discovered content.
type LeadAnalysis struct {
	IntentScore  float64
	QualityGrade string
	Interests    []string
	PainPoints   []string
	Summary      string
}

// Weighted phrase lists used by the intent scorer. Buying-intent phrases
// carry more weight than topical interest.
var intentPhrases = map[string]float64{
	"looking for":       0.20,
	"recommend":         0.15,
	"any suggestions":   0.15,
	"how do i":          0.10,
	"willing to pay":    0.30,
	"worth paying":      0.25,
	"best course":       0.20,
	"join a community":  0.30,
	"paid community":    0.30,
	"membership":        0.15,
	"mentorship":        0.20,
	"coaching":          0.15,
	"struggling":        0.10,
	"need help":         0.15,
	"where can i learn": 0.20,
	"serious about":     0.15,
	"ready to invest":   0.30,
	"tired of free":     0.25,
	"beginner":          0.05,
	"get started":       0.10,
}

var interestTopics = []string{
	"trading", "crypto", "ecommerce", "dropshipping", "saas", "marketing",
	"fitness", "investing", "real estate", "freelancing", "content creation",
	"copywriting", "design", "coding", "startups",
}

var painPointPhrases = []string{
	"struggling", "overwhelmed", "stuck", "no results", "wasted money",
	"don't know where to start", "information overload", "lost money",
	"can't find", "confused", "burned out",
}

// grade band thresholds
const (
	gradeAMin = 0.8
	gradeBMin = 0.6
	gradeCMin = 0.4
)

// AnalyzeLead scores discovered content for buying intent and extracts
// interests and pain points. Scores are deterministic so re-scoring the
// same content yields the same grade.
func AnalyzeLead(content string) LeadAnalysis {
	lower := strings.ToLower(content)

	score := 0.0
	matched := 0
	for phrase, weight := range intentPhrases {
		if strings.Contains(lower, phrase) {
			score += weight
			matched++
		}
	}

	// Longer, substantive posts signal more intent than one-liners.
	switch {
	case len(content) >= 500:
		score += 0.10
	case len(content) >= 150:
		score += 0.05
	}

	if score > 1 {
		score = 1
	}

	var interests []string
	for _, topic := range interestTopics {
		if strings.Contains(lower, topic) {
			interests = append(interests, topic)
		}
	}

	var painPoints []string
	for _, phrase := range painPointPhrases {
		if strings.Contains(lower, phrase) {
			painPoints = append(painPoints, phrase)
		}
	}

	return LeadAnalysis{
		IntentScore:  score,
		QualityGrade: GradeForScore(score),
		Interests:    interests,
		PainPoints:   painPoints,
		Summary:      summarize(score, matched, interests),
	}
}

// GradeForScore maps an intent score to a quality grade band.
func GradeForScore(score float64) string {
	switch {
	case score >= gradeAMin:
		return "A"
	case score >= gradeBMin:
		return "B"
	case score >= gradeCMin:
		return "C"
	default:
		return "D"
	}
}

func summarize(score float64, matched int, interests []string) string {
	if matched == 0 {
		return "no intent signals found in content"
	}
	s := fmt.Sprintf("%d intent signals, score %.2f", matched, score)
	if len(interests) > 0 {
		s += ", interested in " + strings.Join(interests, ", ")
	}
	return s
}
