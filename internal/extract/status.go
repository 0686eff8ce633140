package extract

import (
	"fmt"

	"supplyplan/internal/domain"
)

var outcomeLabels = map[domain.ParseOutcome]string{
	domain.OutcomeAdded:     "добавлен",
	domain.OutcomeUpdated:   "обновлен",
	domain.OutcomeUnchanged: "пропущен (уже в базе)",
	domain.OutcomeSkipped:   "пропущен (другой год)",
	domain.OutcomeFailed:    "ошибка",
}

// Outcome decides what a run does with a parsed document that may already
// be stored.
func Outcome(existed, updateMode bool) domain.ParseOutcome {
	switch {
	case existed && !updateMode:
		return domain.OutcomeUnchanged
	case existed:
		return domain.OutcomeUpdated
	default:
		return domain.OutcomeAdded
	}
}

// FormatStatus renders the short status tag shown next to a processed file.
func FormatStatus(errors []string, existed, updateMode bool) string {
	return FormatOutcome(Outcome(existed, updateMode), len(errors))
}

// FormatOutcome renders an outcome label with the number of validation errors.
func FormatOutcome(outcome domain.ParseOutcome, errorCount int) string {
	label, ok := outcomeLabels[outcome]
	if !ok {
		label = string(outcome)
	}
	if errorCount > 0 && outcome != domain.OutcomeUnchanged && outcome != domain.OutcomeSkipped {
		return fmt.Sprintf("%s, ошибок: %d", label, errorCount)
	}
	return label
}
