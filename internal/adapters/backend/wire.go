package backend

import (
	"fmt"
	"strings"
	"time"

	"github.com/futsalhub/clubadmin/internal/domain"
)

// The backend sends local date-times without a zone.
const localDateTimeLayout = "2006-01-02T15:04:05"
const dateLayout = "2006-01-02"

type timeCodec struct {
	location *time.Location
}

func (tc timeCodec) parse(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", errMissingField)
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	// Fractional seconds are accepted even though the layout has none
	t, err := time.ParseInLocation(localDateTimeLayout, value, tc.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return t, nil
}

func (tc timeCodec) parseOptional(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := tc.parse(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (tc timeCodec) format(t time.Time) string {
	return t.In(tc.location).Format(localDateTimeLayout)
}

// rangeBound accepts a date or a date-time. A bare date is widened to the
// start or the end of that day.
func (tc timeCodec) rangeBound(value string, endOfDay bool) (string, error) {
	if strings.Contains(value, "T") {
		t, err := tc.parse(value)
		if err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return tc.format(t), nil
	}

	day, err := time.ParseInLocation(dateLayout, value, tc.location)
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q", domain.ErrInvalidInput, value)
	}
	if endOfDay {
		return day.Format(dateLayout) + "T23:59:59", nil
	}
	return day.Format(dateLayout) + "T00:00:00", nil
}

type pageWire[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Size          int  `json:"size"`
	Number        int  `json:"number"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

func convertPage[W any, D any](page pageWire[W], convert func(W) (D, error)) (domain.Page[D], error) {
	items := make([]D, 0, len(page.Content))
	for _, item := range page.Content {
		converted, err := convert(item)
		if err != nil {
			return domain.Page[D]{}, err
		}
		items = append(items, converted)
	}
	return domain.Page[D]{
		Items:         items,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Size:          page.Size,
		Number:        page.Number,
		First:         page.First,
		Last:          page.Last,
	}, nil
}

func convertAll[W any, D any](items []W, convert func(W) (D, error)) ([]D, error) {
	converted := make([]D, 0, len(items))
	for _, item := range items {
		c, err := convert(item)
		if err != nil {
			return nil, err
		}
		converted = append(converted, c)
	}
	return converted, nil
}

type memberWire struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	MaskedEmail     string `json:"maskedEmail"`
	Name            string `json:"name"`
	Gender          string `json:"gender"`
	Residence       string `json:"residence"`
	FutsalLevel     string `json:"futsalLevel"`
	Cohort          string `json:"cohort"`
	IsCurrentCohort bool   `json:"isCurrentCohort"`
	Role            string `json:"role"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

func (tc timeCodec) member(w memberWire) (domain.Member, error) {
	createdAt, err := tc.parse(w.CreatedAt)
	if err != nil {
		return domain.Member{}, fmt.Errorf("member %d createdAt: %w", w.ID, err)
	}
	updatedAt, err := tc.parse(w.UpdatedAt)
	if err != nil {
		return domain.Member{}, fmt.Errorf("member %d updatedAt: %w", w.ID, err)
	}
	return domain.Member{
		ID:              w.ID,
		Email:           w.Email,
		MaskedEmail:     w.MaskedEmail,
		Name:            w.Name,
		Gender:          domain.Gender(w.Gender),
		Residence:       w.Residence,
		FutsalLevel:     domain.FutsalLevel(w.FutsalLevel),
		Cohort:          w.Cohort,
		IsCurrentCohort: w.IsCurrentCohort,
		Role:            domain.Role(w.Role),
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}, nil
}
