package service

import (
	"encoding/json"
	"exam_hub_backend/internal/model"
	"exam_hub_backend/pkg/logger"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Evaluation is the outcome of grading one answer. Scoring is
// all-or-nothing: full points on a correct answer, zero otherwise.
type Evaluation struct {
	IsCorrect    bool
	PointsEarned int
}

// EvaluateAnswer grades one submitted answer against the question's key.
// It is pure and total: a missing, malformed or wrongly-shaped answer is
// simply incorrect, never an error. points is the question's effective
// weight for the exam being graded.
func EvaluateAnswer(q *model.Question, points int, raw json.RawMessage) Evaluation {
	if points <= 0 {
		points = 1
	}
	if !answered(raw) {
		return Evaluation{}
	}

	key := q.AnswerKey
	correct := false

	switch key.Type {
	case model.SingleChoice:
		if sel, ok := decodeString(raw); ok {
			correct = sel == key.OptionID
		}
	case model.MultipleChoice:
		if sel, ok := decodeStringSet(raw); ok {
			correct = equalSets(sel, key.OptionIDs)
		}
	case model.FreeText:
		if sel, ok := decodeString(raw); ok {
			correct = normalizeText(sel) == normalizeText(key.Text)
		}
	case model.Numeric:
		if n, ok := decodeNumber(raw); ok {
			correct = n == key.Number
		}
	default:
		// Bad key shapes are caught at authoring time; reaching this is a
		// data-integrity problem, not a grading failure.
		logger.Log.Warn("question has unknown answer key type",
			zap.Uint("questionId", q.ID),
			zap.String("keyType", string(key.Type)))
	}

	if !correct {
		return Evaluation{}
	}
	return Evaluation{IsCorrect: true, PointsEarned: points}
}

func answered(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed != "null"
}

// decodeString accepts a JSON string or number; everything else is
// malformed.
func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}

// decodeStringSet accepts an array of option ids or a lone id.
func decodeStringSet(raw json.RawMessage) ([]string, bool) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, true
	}
	if s, ok := decodeString(raw); ok {
		return []string{s}, true
	}
	return nil, false
}

func decodeNumber(raw json.RawMessage) (float64, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

// equalSets compares as sets: order-independent, duplicates collapsed, no
// credit for subsets or supersets.
func equalSets(submitted, correct []string) bool {
	subSet := make(map[string]bool, len(submitted))
	for _, id := range submitted {
		subSet[id] = true
	}
	corSet := make(map[string]bool, len(correct))
	for _, id := range correct {
		corSet[id] = true
	}
	if len(subSet) != len(corSet) {
		return false
	}
	for id := range subSet {
		if !corSet[id] {
			return false
		}
	}
	return true
}

func normalizeText(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
