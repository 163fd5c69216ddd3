package services

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

const (
	StrategySlashAverage = "slash-average"
	StrategyOverallLabel = "overall-label"
)

// ScoreStrategy reads an overall score out of free-form evaluation text.
// A nil result means no score could be found.
type ScoreStrategy interface {
	Name() string
	ExtractScore(text string) *float64
}

func NewScoreStrategy(name string) (ScoreStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategySlashAverage:
		return SlashAverageStrategy{}, nil
	case StrategyOverallLabel:
		return OverallLabelStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown score strategy %q", name)
	}
}

var slashTenPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*10\b`)

// SlashAverageStrategy averages every "N/10" occurrence in the text, rounded to two decimals.
// Values above 10 (dates like 2023/10) are ignored.
type SlashAverageStrategy struct{}

func (SlashAverageStrategy) Name() string {
	return StrategySlashAverage
}

func (SlashAverageStrategy) ExtractScore(text string) *float64 {
	var sum float64
	var count int

	for _, match := range slashTenPattern.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil || value > 10 {
			continue
		}
		sum += value
		count++
	}

	if count == 0 {
		return nil
	}

	score := roundScore(sum / float64(count))
	return &score
}

var (
	overallLabelPattern = regexp.MustCompile(`(?i)overall(?:\s+score)?\s*[:\-]?\s*(\d+(?:\.\d+)?)`)
	numberPattern       = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// OverallLabelStrategy reads the number following an "overall" label. When no number
// directly follows the label, the first number after the label (or after the last colon)
// on a line mentioning "overall" is used. Values above 10 are ignored.
type OverallLabelStrategy struct{}

func (OverallLabelStrategy) Name() string {
	return StrategyOverallLabel
}

func (OverallLabelStrategy) ExtractScore(text string) *float64 {
	if match := overallLabelPattern.FindStringSubmatch(text); match != nil {
		if score := boundedScore(match[1]); score != nil {
			return score
		}
	}

	for _, line := range strings.Split(text, "\n") {
		at := strings.Index(strings.ToLower(line), "overall")
		if at < 0 {
			continue
		}

		rest := line[at+len("overall"):]
		if colon := strings.LastIndex(rest, ":"); colon >= 0 {
			rest = rest[colon+1:]
		}

		for _, number := range numberPattern.FindAllString(rest, -1) {
			if score := boundedScore(number); score != nil {
				return score
			}
		}
	}

	return nil
}

// boundedScore parses a score on the 0-10 scale; anything else yields nil.
func boundedScore(number string) *float64 {
	value, err := strconv.ParseFloat(number, 64)
	if err != nil || value > 10 {
		return nil
	}
	score := roundScore(value)
	return &score
}

func roundScore(value float64) float64 {
	return math.Round(value*100) / 100
}

// AverageScore is the mean of the defined scores, rounded to two decimals.
// Records without a score are left out; nil is returned when none has one.
func AverageScore(records []models.CandidateRecord) *float64 {
	var sum float64
	var count int

	for _, record := range records {
		if score, ok := record.Score(); ok {
			sum += score
			count++
		}
	}

	if count == 0 {
		return nil
	}

	average := roundScore(sum / float64(count))
	return &average
}

// SortByScore orders records by score descending with unscored records last.
// Ties keep their original order.
func SortByScore(records []models.CandidateRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return models.ScoreBefore(records[i].Evaluation.OverallScore, records[j].Evaluation.OverallScore)
	})
}
