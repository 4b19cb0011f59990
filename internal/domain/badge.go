package domain

import (
	"fmt"
	"time"
)

type BadgeCategory string

const (
	BadgeCategoryCohortParticipation      BadgeCategory = "COHORT_PARTICIPATION"
	BadgeCategoryConsecutiveParticipation BadgeCategory = "CONSECUTIVE_PARTICIPATION"
	BadgeCategoryCommemorative            BadgeCategory = "COMMEMORATIVE"
	BadgeCategoryLevelUpgrade             BadgeCategory = "LEVEL_UPGRADE"
	BadgeCategorySpecialEvent             BadgeCategory = "SPECIAL_EVENT"
)

type BadgeGrade string

const (
	BadgeGradeBronze    BadgeGrade = "BRONZE"
	BadgeGradeSilver    BadgeGrade = "SILVER"
	BadgeGradeGold      BadgeGrade = "GOLD"
	BadgeGradePlatinum  BadgeGrade = "PLATINUM"
	BadgeGradeDiamond   BadgeGrade = "DIAMOND"
	BadgeGradeLegendary BadgeGrade = "LEGENDARY"
)

// Category and grade are kept as sent by the backend, which may add values
// this client doesn't know about.
type Badge struct {
	ID          int64
	Name        string
	Description string
	Category    BadgeCategory
	Grade       BadgeGrade
	ImageURL    *string
	Active      bool
	CreatedAt   time.Time
}

type BadgeDraft struct {
	Name        string
	Description string
	Category    BadgeCategory
	Grade       BadgeGrade
	ImageURL    *string
}

func (d BadgeDraft) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: badge name is required", ErrInvalidInput)
	}
	if d.Category == "" || d.Grade == "" {
		return fmt.Errorf("%w: badge category and grade are required", ErrInvalidInput)
	}
	return nil
}

// BadgeUpdate changes the fields that are set.
type BadgeUpdate struct {
	Name        *string
	Description *string
	Category    *BadgeCategory
	Grade       *BadgeGrade
	ImageURL    *string
	Active      *bool
}
