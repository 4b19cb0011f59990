package main

import (
	"io"
	"time"

	"github.com/futsalhub/clubadmin/internal/adapters/backend"
	"github.com/futsalhub/clubadmin/internal/app"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/render"
)

// console is everything a command needs. One console, and so one cache, is
// shared by all commands of a process, including every line of a shell.
type console struct {
	backend *backend.Client
	cache   *cache.Client
	session *app.Session
	out     *render.Renderer
	stdin   io.Reader
	stdout  io.Writer
	nowFunc func() time.Time

	getDashboard app.GetDashboard

	createBadge   app.CreateBadge
	updateBadge   app.UpdateBadge
	deleteBadge   app.DeleteBadge
	activateBadge app.ActivateBadge
	grantBadge    app.GrantBadge

	createSchedule app.CreateSchedule
	updateSchedule app.UpdateSchedule
	deleteSchedule app.DeleteSchedule
	startFirstVote app.TransitionSchedule
	closeFirstVote app.TransitionSchedule
	confirm        app.TransitionSchedule
	cancelSchedule app.CancelSchedule

	updateMember     app.UpdateMember
	setFutsalLevel   app.SetFutsalLevel
	setCurrentCohort app.SetCurrentCohort
	setRole          app.SetRole

	createNotice       app.CreateNotice
	updateNotice       app.UpdateNotice
	deleteNotice       app.DeleteNotice
	toggleNoticeStatus app.ToggleNoticeStatus

	listInviteKeys  app.ListInviteKeys
	createInviteKey app.CreateInviteKey
	expireInviteKey app.ExpireInviteKey
	deleteInviteKey app.DeleteInviteKey

	uploadPhoto            app.UploadPhoto
	deletePhoto            app.DeletePhoto
	updatePhotoDescription app.UpdatePhotoDescription

	calculateSettlement app.CalculateSettlement
	updateSettlement    app.UpdateSettlement
	resendSettlement    app.ResendSettlement
}

func newConsole(
	backendClient *backend.Client,
	cacheClient *cache.Client,
	renderer *render.Renderer,
	stdin io.Reader,
	stdout io.Writer,
	nowFunc func() time.Time,
) *console {
	return &console{
		backend: backendClient,
		cache:   cacheClient,
		session: app.NewSession(cacheClient, backendClient),
		out:     renderer,
		stdin:   stdin,
		stdout:  stdout,
		nowFunc: nowFunc,

		getDashboard: app.BuildGetDashboard(cacheClient, backendClient),

		createBadge:   app.BuildCreateBadge(cacheClient, backendClient),
		updateBadge:   app.BuildUpdateBadge(cacheClient, backendClient),
		deleteBadge:   app.BuildDeleteBadge(cacheClient, backendClient),
		activateBadge: app.BuildActivateBadge(cacheClient, backendClient),
		grantBadge:    app.BuildGrantBadge(cacheClient, backendClient),

		createSchedule: app.BuildCreateSchedule(cacheClient, backendClient),
		updateSchedule: app.BuildUpdateSchedule(cacheClient, backendClient),
		deleteSchedule: app.BuildDeleteSchedule(cacheClient, backendClient),
		startFirstVote: app.BuildStartFirstVote(cacheClient, backendClient),
		closeFirstVote: app.BuildCloseFirstVote(cacheClient, backendClient),
		confirm:        app.BuildConfirmSchedule(cacheClient, backendClient),
		cancelSchedule: app.BuildCancelSchedule(cacheClient, backendClient),

		updateMember:     app.BuildUpdateMember(cacheClient, backendClient),
		setFutsalLevel:   app.BuildSetFutsalLevel(cacheClient, backendClient),
		setCurrentCohort: app.BuildSetCurrentCohort(cacheClient, backendClient),
		setRole:          app.BuildSetRole(cacheClient, backendClient),

		createNotice:       app.BuildCreateNotice(cacheClient, backendClient),
		updateNotice:       app.BuildUpdateNotice(cacheClient, backendClient),
		deleteNotice:       app.BuildDeleteNotice(cacheClient, backendClient),
		toggleNoticeStatus: app.BuildToggleNoticeStatus(cacheClient, backendClient),

		listInviteKeys:  app.BuildListInviteKeys(cacheClient, backendClient, nowFunc),
		createInviteKey: app.BuildCreateInviteKey(cacheClient, backendClient),
		expireInviteKey: app.BuildExpireInviteKey(cacheClient, backendClient),
		deleteInviteKey: app.BuildDeleteInviteKey(cacheClient, backendClient),

		uploadPhoto:            app.BuildUploadPhoto(cacheClient, backendClient),
		deletePhoto:            app.BuildDeletePhoto(cacheClient, backendClient),
		updatePhotoDescription: app.BuildUpdatePhotoDescription(cacheClient, backendClient),

		calculateSettlement: app.BuildCalculateSettlement(cacheClient, backendClient),
		updateSettlement:    app.BuildUpdateSettlement(cacheClient, backendClient),
		resendSettlement:    app.BuildResendSettlement(cacheClient, backendClient),
	}
}
