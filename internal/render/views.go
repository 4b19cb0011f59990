package render

import (
	"fmt"
	"strconv"
	"time"

	"github.com/futsalhub/clubadmin/internal/domain"
)

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func (r *Renderer) pageFooter(number, totalPages, totalElements int) {
	if totalPages <= 1 {
		return
	}
	r.Println(r.style(dimStyle, fmt.Sprintf("page %d of %d, %d total", number+1, totalPages, totalElements)))
}

func (r *Renderer) Dashboard(d domain.Dashboard) error {
	return r.Table(
		[]string{"Figure", "Value"},
		[][]string{
			{"Members", strconv.Itoa(d.MemberCount)},
			{"Schedules in first vote", strconv.Itoa(d.ActiveFirstVoteSchedules)},
			{"Active invite keys", strconv.Itoa(d.InviteKeys.Active)},
			{"Used invite keys", strconv.Itoa(d.InviteKeys.Used)},
			{"Expired invite keys", strconv.Itoa(d.InviteKeys.Expired)},
		},
	)
}

func (r *Renderer) Badges(badges []domain.Badge) error {
	rows := make([][]string, 0, len(badges))
	for _, b := range badges {
		rows = append(rows, []string{id(b.ID), b.Name, string(b.Category), string(b.Grade), yesNo(b.Active)})
	}
	return r.Table([]string{"ID", "Name", "Category", "Grade", "Active"}, rows)
}

type badgeView struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Category    string `yaml:"category"`
	Grade       string `yaml:"grade"`
	ImageURL    string `yaml:"imageUrl,omitempty"`
	Active      bool   `yaml:"active"`
	CreatedAt   string `yaml:"createdAt"`
}

func (r *Renderer) Badge(b domain.Badge) error {
	view := badgeView{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Category:    string(b.Category),
		Grade:       string(b.Grade),
		Active:      b.Active,
		CreatedAt:   r.time(b.CreatedAt),
	}
	if b.ImageURL != nil {
		view.ImageURL = *b.ImageURL
	}
	return r.YAML(view)
}

func (r *Renderer) Schedules(schedules []domain.Schedule) error {
	rows := make([][]string, 0, len(schedules))
	for _, s := range schedules {
		rows = append(rows, []string{
			id(s.ID),
			r.time(s.DateTime),
			s.Location,
			string(s.Status),
			strconv.Itoa(s.MinParticipants),
			r.time(s.FirstVoteDeadline),
		})
	}
	return r.Table([]string{"ID", "When", "Location", "Status", "Min", "Vote deadline"}, rows)
}

type scheduleView struct {
	ID                   int64  `yaml:"id"`
	DateTime             string `yaml:"dateTime"`
	Location             string `yaml:"location"`
	Status               string `yaml:"status"`
	MinParticipants      int    `yaml:"minParticipants"`
	FirstVoteDeadline    string `yaml:"firstVoteDeadline"`
	GeneralMemberAllowed bool   `yaml:"generalMemberAllowed"`
	Memo                 string `yaml:"memo,omitempty"`
	ParticipationRate    string `yaml:"firstVoteParticipation,omitempty"`
	CancellationReason   string `yaml:"cancellationReason,omitempty"`
	CancelledAt          string `yaml:"cancelledAt,omitempty"`
	CancelledBy          string `yaml:"cancelledBy,omitempty"`
	UpdatedAt            string `yaml:"updatedAt"`
}

// Schedule prints one schedule. rate is shown when not nil.
func (r *Renderer) Schedule(s domain.Schedule, rate *float64) error {
	view := scheduleView{
		ID:                   s.ID,
		DateTime:             r.time(s.DateTime),
		Location:             s.Location,
		Status:               string(s.Status),
		MinParticipants:      s.MinParticipants,
		FirstVoteDeadline:    r.time(s.FirstVoteDeadline),
		GeneralMemberAllowed: s.GeneralMemberAllowed,
		UpdatedAt:            r.time(s.UpdatedAt),
	}
	if s.Memo != nil {
		view.Memo = *s.Memo
	}
	if rate != nil {
		view.ParticipationRate = fmt.Sprintf("%.1f%%", *rate*100)
	}
	if s.CancellationReason != nil {
		view.CancellationReason = *s.CancellationReason
	}
	if s.CancelledAt != nil {
		view.CancelledAt = r.time(*s.CancelledAt)
	}
	if s.CancelledBy != nil {
		view.CancelledBy = s.CancelledBy.Name
	}
	return r.YAML(view)
}

func (r *Renderer) Members(page domain.Page[domain.Member]) error {
	rows := make([][]string, 0, len(page.Items))
	for _, m := range page.Items {
		rows = append(rows, []string{
			id(m.ID),
			m.Name,
			m.MaskedEmail,
			m.Cohort,
			yesNo(m.IsCurrentCohort),
			string(m.FutsalLevel),
			string(m.Role),
		})
	}
	if err := r.Table([]string{"ID", "Name", "Email", "Cohort", "Current", "Level", "Role"}, rows); err != nil {
		return err
	}
	r.pageFooter(page.Number, page.TotalPages, page.TotalElements)
	return nil
}

type memberView struct {
	ID              int64  `yaml:"id"`
	Name            string `yaml:"name"`
	Email           string `yaml:"email"`
	Gender          string `yaml:"gender,omitempty"`
	Residence       string `yaml:"residence,omitempty"`
	Cohort          string `yaml:"cohort"`
	IsCurrentCohort bool   `yaml:"currentCohort"`
	FutsalLevel     string `yaml:"futsalLevel"`
	Role            string `yaml:"role"`
	CreatedAt       string `yaml:"joined"`
}

func (r *Renderer) Member(m domain.Member) error {
	email := m.Email
	if email == "" {
		email = m.MaskedEmail
	}
	return r.YAML(memberView{
		ID:              m.ID,
		Name:            m.Name,
		Email:           email,
		Gender:          string(m.Gender),
		Residence:       m.Residence,
		Cohort:          m.Cohort,
		IsCurrentCohort: m.IsCurrentCohort,
		FutsalLevel:     string(m.FutsalLevel),
		Role:            string(m.Role),
		CreatedAt:       r.time(m.CreatedAt),
	})
}

func (r *Renderer) Notices(page domain.Page[domain.Notice]) error {
	rows := make([][]string, 0, len(page.Items))
	for _, n := range page.Items {
		rows = append(rows, []string{id(n.ID), n.Title, n.Importance, n.Status, optional(n.AuthorName), r.time(n.CreatedAt)})
	}
	if err := r.Table([]string{"ID", "Title", "Importance", "Status", "Author", "Created"}, rows); err != nil {
		return err
	}
	r.pageFooter(page.Number, page.TotalPages, page.TotalElements)
	return nil
}

type noticeView struct {
	ID         int64  `yaml:"id"`
	Title      string `yaml:"title"`
	Importance string `yaml:"importance"`
	Status     string `yaml:"status"`
	Author     string `yaml:"author"`
	CreatedAt  string `yaml:"createdAt"`
	UpdatedAt  string `yaml:"updatedAt"`
	Content    string `yaml:"content"`
}

func (r *Renderer) Notice(n domain.Notice) error {
	return r.YAML(noticeView{
		ID:         n.ID,
		Title:      n.Title,
		Importance: n.Importance,
		Status:     n.Status,
		Author:     optional(n.AuthorName),
		CreatedAt:  r.time(n.CreatedAt),
		UpdatedAt:  r.time(n.UpdatedAt),
		Content:    n.Content,
	})
}

func (r *Renderer) InviteKeys(keys []domain.InviteKey, now time.Time) error {
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		state := "active"
		switch {
		case k.Used:
			state = "used"
		case k.Expired(now):
			state = "expired"
		}
		rows = append(rows, []string{k.Value, state, r.time(k.ExpiresAt), r.optionalTime(k.UsedAt)})
	}
	return r.Table([]string{"Key", "State", "Expires", "Used at"}, rows)
}

func (r *Renderer) Photos(photos []domain.Photo) error {
	rows := make([][]string, 0, len(photos))
	for _, p := range photos {
		rows = append(rows, []string{id(p.ID), optional(p.Description), p.ImageURL, r.time(p.CreatedAt)})
	}
	return r.Table([]string{"ID", "Description", "Image", "Uploaded"}, rows)
}

func (r *Renderer) Settlements(page domain.Page[domain.Settlement]) error {
	rows := make([][]string, 0, len(page.Items))
	for _, s := range page.Items {
		rows = append(rows, []string{id(s.ID), id(s.ScheduleID), strconv.FormatInt(s.TotalCost, 10), s.Status, r.time(s.CreatedAt)})
	}
	if err := r.Table([]string{"ID", "Schedule", "Total", "Status", "Created"}, rows); err != nil {
		return err
	}
	r.pageFooter(page.Number, page.TotalPages, page.TotalElements)
	return nil
}

type settlementView struct {
	ID            int64                    `yaml:"id"`
	ScheduleID    int64                    `yaml:"scheduleId"`
	TotalCost     int64                    `yaml:"totalCost"`
	AccountNumber string                   `yaml:"accountNumber"`
	AccountHolder string                   `yaml:"accountHolder"`
	BankName      string                   `yaml:"bankName"`
	Status        string                   `yaml:"status"`
	CreatedAt     string                   `yaml:"createdAt"`
	History       []domain.SettlementEvent `yaml:"history,omitempty"`
}

func (r *Renderer) Settlement(s domain.Settlement, history []domain.SettlementEvent) error {
	return r.YAML(settlementView{
		ID:            s.ID,
		ScheduleID:    s.ScheduleID,
		TotalCost:     s.TotalCost,
		AccountNumber: s.AccountNumber,
		AccountHolder: s.AccountHolder,
		BankName:      s.BankName,
		Status:        s.Status,
		CreatedAt:     r.time(s.CreatedAt),
		History:       history,
	})
}

// Update prints one line per cache notification seen by the watch command.
func (r *Renderer) Update(key string, status string, stale, fetching bool, version uint64, err error) {
	flags := ""
	if stale {
		flags += " stale"
	}
	if fetching {
		flags += " fetching"
	}
	line := fmt.Sprintf("#%d %s %s%s", version, key, status, flags)
	if err != nil {
		line += ": " + err.Error()
		r.Println(r.style(errorStyle, line))
		return
	}
	r.Println(r.style(dimStyle, line))
}
