package models

import (
	"fmt"
	"strings"
)

// Stage is a hiring workflow stage. Records may move between any two stages.
type Stage string

const (
	StageResumeScoring        Stage = "Resume Scoring"
	StageInitialCallDone      Stage = "Initial Call Done"
	StageClientSubmissionDone Stage = "Client Submission Done"
	StageClientInterview      Stage = "Client Interview"
	StageSelected             Stage = "Selected"
	StageRejected             Stage = "Rejected"
	StageNotInterested        Stage = "Not Interested"
	StageOfferLetterShared    Stage = "Offer Letter Shared"
	StageOnboarded            Stage = "Onboarded"
)

// Stages lists every stage in board order. The first entry is the stage new records start in.
var Stages = []Stage{
	StageResumeScoring,
	StageInitialCallDone,
	StageClientSubmissionDone,
	StageClientInterview,
	StageSelected,
	StageRejected,
	StageNotInterested,
	StageOfferLetterShared,
	StageOnboarded,
}

func InitialStage() Stage {
	return Stages[0]
}

func (s Stage) Valid() bool {
	for _, stage := range Stages {
		if stage == s {
			return true
		}
	}
	return false
}

// ParseStage matches a stage label case-insensitively.
func ParseStage(value string) (Stage, error) {
	value = strings.TrimSpace(value)
	for _, stage := range Stages {
		if strings.EqualFold(string(stage), value) {
			return stage, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStage, value)
}
