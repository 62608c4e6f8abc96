package scoring

import (
	"time"

	"leadengine/internal/model"
)

// ChurnPrediction is the churn assessment for one member.
type ChurnPrediction struct {
	Risk          model.ChurnRisk
	Score         float64
	DaysInactive  int
	ActivityScore float64
}

// PredictChurn derives a member's churn risk from inactivity and message
// volume. Inactivity is measured from the most recent of last_seen and
// last_message, falling back to joined_at for members never seen.
func PredictChurn(m *model.Member, now time.Time) ChurnPrediction {
	var last time.Time
	if m.LastSeen != nil {
		last = *m.LastSeen
	}
	if m.LastMessage != nil && m.LastMessage.After(last) {
		last = *m.LastMessage
	}
	if last.IsZero() {
		last = m.JoinedAt
	}

	days := int(now.Sub(last).Hours() / 24)
	if days < 0 {
		days = 0
	}

	risk, score := riskForInactivity(days)

	activity := 100.0 - float64(days)*2 + float64(m.TotalMessages)*0.1
	if activity < 0 {
		activity = 0
	}
	if activity > 100 {
		activity = 100
	}

	return ChurnPrediction{
		Risk:          risk,
		Score:         score,
		DaysInactive:  days,
		ActivityScore: activity,
	}
}

func riskForInactivity(days int) (model.ChurnRisk, float64) {
	switch {
	case days >= 30:
		return model.RiskCritical, 0.9
	case days >= 14:
		return model.RiskHigh, 0.7
	case days >= 7:
		return model.RiskMedium, 0.4
	default:
		return model.RiskLow, 0.1
	}
}

// RetentionMessageType picks the win-back message style for an at-risk
// member: the longer gone, the heavier the incentive.
func RetentionMessageType(risk model.ChurnRisk, daysInactive int) string {
	switch {
	case risk == model.RiskCritical:
		return "personal_check_in"
	case daysInactive >= 21:
		return "coupon"
	default:
		return "reminder"
	}
}
