package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type FutsalLevel string

const (
	FutsalLevelRookie    FutsalLevel = "ROOKIE"
	FutsalLevelPlaymaker FutsalLevel = "PLAYMAKER"
	FutsalLevelStriker   FutsalLevel = "STRIKER"
	FutsalLevelMaestro   FutsalLevel = "MAESTRO"
	FutsalLevelLegend    FutsalLevel = "LEGEND"
)

var futsalLevels = []FutsalLevel{
	FutsalLevelRookie,
	FutsalLevelPlaymaker,
	FutsalLevelStriker,
	FutsalLevelMaestro,
	FutsalLevelLegend,
}

func ParseFutsalLevel(s string) (FutsalLevel, error) {
	for _, level := range futsalLevels {
		if string(level) == s {
			return level, nil
		}
	}
	return "", fmt.Errorf("%w: unknown futsal level %q", ErrInvalidInput, s)
}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMember, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

type Member struct {
	ID              int64
	Email           string
	MaskedEmail     string
	Name            string
	Gender          Gender
	Residence       string
	FutsalLevel     FutsalLevel
	Cohort          string
	IsCurrentCohort bool
	Role            Role
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MemberUpdate changes the profile fields that are set.
type MemberUpdate struct {
	Name      *string
	Gender    *Gender
	Residence *string
	Cohort    *string
}
