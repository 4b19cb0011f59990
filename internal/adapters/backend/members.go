package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/futsalhub/clubadmin/internal/domain"
)

type memberUpdateRequest struct {
	Name      *string        `json:"name,omitempty"`
	Gender    *domain.Gender `json:"gender,omitempty"`
	Residence *string        `json:"residence,omitempty"`
	Cohort    *string        `json:"cohort,omitempty"`
}

func (c *Client) member(ctx context.Context, operation, method, path string, payload any) (domain.Member, error) {
	member, err := send[memberWire](ctx, c, operation, method, path, payload)
	if err != nil {
		return domain.Member{}, err
	}
	return c.times.member(member)
}

// ListMembers returns one page of members. A non-empty search matches on
// the member's name.
func (c *Client) ListMembers(ctx context.Context, page, size int, search string) (domain.Page[domain.Member], error) {
	query := pageQuery(page, size)
	operation, path := "Backend.ListMembers", "/api/admin/users/paged"
	if search = strings.TrimSpace(search); search != "" {
		query.Set("name", search)
		operation, path = "Backend.SearchMembers", "/api/admin/users/search/name"
	}

	members, err := get[pageWire[memberWire]](ctx, c, operation, path, query)
	if err != nil {
		return domain.Page[domain.Member]{}, err
	}
	return convertPage(members, c.times.member)
}

func (c *Client) GetMember(ctx context.Context, userID int64) (domain.Member, error) {
	return c.member(ctx, "Backend.GetMember", http.MethodGet, idPath("/api/admin/users/%d", userID), nil)
}

func (c *Client) UpdateMember(ctx context.Context, userID int64, update domain.MemberUpdate) (domain.Member, error) {
	return c.member(ctx, "Backend.UpdateMember", http.MethodPut, idPath("/api/admin/users/%d", userID), memberUpdateRequest{
		Name:      update.Name,
		Gender:    update.Gender,
		Residence: update.Residence,
		Cohort:    update.Cohort,
	})
}

func (c *Client) SetFutsalLevel(ctx context.Context, userID int64, level domain.FutsalLevel) (domain.Member, error) {
	body := struct {
		FutsalLevel domain.FutsalLevel `json:"futsalLevel"`
	}{FutsalLevel: level}
	return c.member(ctx, "Backend.SetFutsalLevel", http.MethodPut, idPath("/api/admin/users/%d/futsal-level", userID), body)
}

func (c *Client) SetCurrentCohort(ctx context.Context, userID int64, isCurrentCohort bool) (domain.Member, error) {
	body := struct {
		IsCurrentCohort bool `json:"isCurrentCohort"`
	}{IsCurrentCohort: isCurrentCohort}
	return c.member(ctx, "Backend.SetCurrentCohort", http.MethodPut, idPath("/api/admin/users/%d/current-cohort", userID), body)
}

func (c *Client) SetRole(ctx context.Context, userID int64, role domain.Role) (domain.Member, error) {
	body := struct {
		Role domain.Role `json:"role"`
	}{Role: role}
	return c.member(ctx, "Backend.SetRole", http.MethodPut, idPath("/api/admin/users/%d/role", userID), body)
}

func (c *Client) CountMembers(ctx context.Context) (int, error) {
	count, err := get[int](ctx, c, "Backend.CountMembers", "/api/admin/users/count", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}
