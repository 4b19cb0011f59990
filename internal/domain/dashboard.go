package domain

type Dashboard struct {
	MemberCount              int
	ActiveFirstVoteSchedules int
	InviteKeys               InviteKeyStats
}
