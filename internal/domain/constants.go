package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleUser    = "user"
	RoleMember  = "member"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

var Roles = []string{RoleAdmin, RoleUser, RoleMember, RoleTeacher, RoleStudent}

func IsValidRole(r string) bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentDropped   = "dropped"
)

const (
	ReportWeekly   = "weekly"
	ReportMonthly  = "monthly"
	ReportSemester = "semester"
	ReportCustom   = "custom"
)

const (
	ProviderGoogle  = "google"
	ProviderYouTube = "youtube"
)

// Presence defaults. Clients heartbeat and re-poll on PresencePollInterval,
// so the visible online set lags by at most interval + window.
const (
	PresenceWindow       = 120 * time.Second
	PresencePollInterval = 30 * time.Second
	GlobalChannel        = "global"
	DefaultDisplayName   = "User"
)

const MessageListLimit = 50

const (
	NotifSessionStarted = "SESSION_STARTED"
	NotifReportReady    = "REPORT_READY"
	NotifMeetScheduled  = "MEET_SCHEDULED"
)
