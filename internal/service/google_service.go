package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"classhub/config"
	"classhub/internal/domain"
	"classhub/internal/models"
	"classhub/internal/repository"
	"classhub/pkg/tokencrypt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/classroom/v1"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

var GoogleScopes = []string{
	"https://www.googleapis.com/auth/classroom.courses.readonly",
	"https://www.googleapis.com/auth/classroom.rosters.readonly",
	"https://www.googleapis.com/auth/classroom.coursework.me",
	"https://www.googleapis.com/auth/calendar.events",
	"openid",
	"email",
	"profile",
}

// refreshSkew is how close to expiry a stored access token gets refreshed.
const refreshSkew = 60 * time.Second

// GoogleService connects a user's Google account and calls Classroom and
// Calendar on their behalf. Tokens are stored encrypted.
type GoogleService struct {
	oauth        *oauth2.Config
	cipher       *tokencrypt.Cipher
	repo         *repository.IntegrationRepository
	sessionRepo  *repository.SessionRepository
	classRepo    *repository.ClassroomRepository
	notifier     *NotificationService
	dashboardURL string
	apiOptions   []option.ClientOption
	now          func() time.Time
}

func NewGoogleService(
	cfg *config.Config,
	repo *repository.IntegrationRepository,
	sessionRepo *repository.SessionRepository,
	classRepo *repository.ClassroomRepository,
	notifier *NotificationService,
) *GoogleService {
	s := &GoogleService{
		oauth: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       GoogleScopes,
			Endpoint:     google.Endpoint,
		},
		repo:         repo,
		sessionRepo:  sessionRepo,
		classRepo:    classRepo,
		notifier:     notifier,
		dashboardURL: cfg.Server.DashboardURL,
		now:          time.Now,
	}
	if cfg.Google.TokenEncryptionKey != "" {
		key, err := config.ParseEncryptionKey(cfg.Google.TokenEncryptionKey)
		if err == nil {
			s.cipher, err = tokencrypt.New(key)
		}
		if err != nil {
			log.Printf("[google] token encryption disabled: %v", err)
		}
	}
	return s
}

// Configured reports whether the OAuth client and token key are present.
func (s *GoogleService) Configured() bool {
	return s.oauth.ClientID != "" && s.cipher != nil
}

type oauthState struct {
	UserID uint   `json:"userId"`
	Nonce  string `json:"nonce"`
	TS     int64  `json:"ts"`
}

func encodeState(st oauthState) string {
	b, _ := json.Marshal(st)
	return base64.StdEncoding.EncodeToString(b)
}

func decodeState(raw string) (*oauthState, error) {
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, invalid("invalid state")
	}
	var st oauthState
	if err := json.Unmarshal(b, &st); err != nil || st.UserID == 0 {
		return nil, invalid("invalid state")
	}
	return &st, nil
}

// AuthURL builds the consent URL for userID.
func (s *GoogleService) AuthURL(userID uint) (string, error) {
	if userID == 0 {
		return "", ErrUnauthorized
	}
	if !s.Configured() {
		return "", fmt.Errorf("google integration not configured: %w", ErrUpstream)
	}
	state := encodeState(oauthState{UserID: userID, Nonce: ulid.Make().String(), TS: s.now().UnixMilli()})
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")), nil
}

// HandleCallback exchanges the code, stores the encrypted tokens, and
// returns the dashboard redirect.
func (s *GoogleService) HandleCallback(ctx context.Context, code, state string) (string, error) {
	if code == "" || state == "" {
		return "", invalid("missing code or state")
	}
	if !s.Configured() {
		return "", fmt.Errorf("google integration not configured: %w", ErrUpstream)
	}
	st, err := decodeState(state)
	if err != nil {
		return "", err
	}
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		log.Printf("[google] code exchange failed: %v", err)
		return "", fmt.Errorf("token exchange: %w", ErrUpstream)
	}
	providerUserID := "google-user"
	if idt, ok := tok.Extra("id_token").(string); ok {
		if sub := idTokenSubject(idt); sub != "" {
			providerUserID = sub
		}
	}
	access, err := s.cipher.Encrypt(tok.AccessToken)
	if err != nil {
		return "", err
	}
	row := &models.OAuthToken{
		UserID:               st.UserID,
		Provider:             domain.ProviderGoogle,
		ProviderUserID:       providerUserID,
		AccessTokenEncrypted: access,
		ExpiresAtMs:          s.expiry(tok),
		Scopes:               GoogleScopes,
	}
	if tok.RefreshToken != "" {
		if row.RefreshTokenEncrypted, err = s.cipher.Encrypt(tok.RefreshToken); err != nil {
			return "", err
		}
	}
	if err := s.repo.UpsertToken(ctx, row); err != nil {
		return "", err
	}
	return s.dashboardURL + "?integration=google_connected", nil
}

func (s *GoogleService) expiry(tok *oauth2.Token) int64 {
	if tok.Expiry.IsZero() {
		return s.now().Add(time.Hour).UnixMilli()
	}
	return tok.Expiry.UnixMilli()
}

// idTokenSubject reads the sub claim from an ID token without verifying it;
// the token came straight from Google's token endpoint.
func idTokenSubject(idToken string) string {
	tok, _, err := jwt.NewParser().ParseUnverified(idToken, &jwt.RegisteredClaims{})
	if err != nil {
		return ""
	}
	sub, _ := tok.Claims.GetSubject()
	return sub
}

// Connected reports whether userID has stored Google tokens.
func (s *GoogleService) Connected(ctx context.Context, userID uint) (bool, error) {
	_, err := s.repo.GetToken(ctx, userID, domain.ProviderGoogle)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *GoogleService) Disconnect(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	return s.repo.DeleteToken(ctx, userID, domain.ProviderGoogle)
}

// AccessToken returns a usable access token for userID, refreshing and
// re-storing it when it expires within a minute.
func (s *GoogleService) AccessToken(ctx context.Context, userID uint) (string, error) {
	if s.cipher == nil {
		return "", ErrNotConnected
	}
	row, err := s.repo.GetToken(ctx, userID, domain.ProviderGoogle)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotConnected
	}
	if err != nil {
		return "", err
	}
	if row.ExpiresAtMs-s.now().UnixMilli() > refreshSkew.Milliseconds() {
		return s.cipher.Decrypt(row.AccessTokenEncrypted)
	}
	if row.RefreshTokenEncrypted == "" {
		return "", ErrNotConnected
	}
	refresh, err := s.cipher.Decrypt(row.RefreshTokenEncrypted)
	if err != nil {
		return "", err
	}
	tok, err := s.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refresh, Expiry: s.now().Add(-time.Minute)}).Token()
	if err != nil {
		log.Printf("[google] refresh for user %d failed: %v", userID, err)
		return "", fmt.Errorf("token refresh: %w", ErrUpstream)
	}
	enc, err := s.cipher.Encrypt(tok.AccessToken)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateAccessToken(ctx, row.ID, enc, s.expiry(tok)); err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func (s *GoogleService) clientOptions(access string) []option.ClientOption {
	opts := []option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: access}))}
	return append(opts, s.apiOptions...)
}

type Course struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Section     string `json:"section,omitempty"`
	Description string `json:"description,omitempty"`
	State       string `json:"state,omitempty"`
	Link        string `json:"link,omitempty"`
}

// Courses lists the user's Google Classroom courses.
func (s *GoogleService) Courses(ctx context.Context, userID uint) ([]Course, error) {
	access, err := s.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	svc, err := classroom.NewService(ctx, s.clientOptions(access)...)
	if err != nil {
		return nil, err
	}
	out := []Course{}
	err = svc.Courses.List().Context(ctx).Pages(ctx, func(page *classroom.ListCoursesResponse) error {
		for _, c := range page.Courses {
			out = append(out, Course{ID: c.Id, Name: c.Name, Section: c.Section, Description: c.Description, State: c.CourseState, Link: c.AlternateLink})
		}
		return nil
	})
	if err != nil {
		log.Printf("[google] list courses for user %d: %v", userID, err)
		return nil, fmt.Errorf("list courses: %w", ErrUpstream)
	}
	return out, nil
}

// ImportCourse records a Google course as an external classroom.
func (s *GoogleService) ImportCourse(ctx context.Context, actor Actor, courseID, title, description string) (*models.ExternalClassroom, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if !actor.CanTeach() {
		return nil, ErrForbidden
	}
	if courseID == "" || strings.TrimSpace(title) == "" {
		return nil, invalid("course id and title are required")
	}
	ext := &models.ExternalClassroom{
		Provider:         domain.ProviderGoogle,
		ProviderCourseID: courseID,
		Title:            strings.TrimSpace(title),
		Description:      description,
		SyncedAtMs:       s.now().UnixMilli(),
	}
	if err := s.repo.UpsertExternalClassroom(ctx, ext); err != nil {
		return nil, err
	}
	return s.repo.GetExternalClassroom(ctx, courseID)
}

type ScheduleMeetInput struct {
	SessionID uint      `json:"session_id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// ScheduleMeet creates a Calendar event with a Meet conference for a session
// the actor owns, and stores the resulting link.
func (s *GoogleService) ScheduleMeet(ctx context.Context, actor Actor, in ScheduleMeetInput) (*models.ExternalMeeting, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.Title) == "" || in.Start.IsZero() || in.End.IsZero() || !in.End.After(in.Start) {
		return nil, invalid("title, start and end are required")
	}
	sess, err := s.sessionRepo.GetByID(ctx, in.SessionID)
	if err != nil {
		return nil, notFound(err, "session")
	}
	if !actor.IsAdmin() && sess.TeacherID != actor.UserID {
		return nil, ErrForbidden
	}
	access, err := s.AccessToken(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	svc, err := calendar.NewService(ctx, s.clientOptions(access)...)
	if err != nil {
		return nil, err
	}
	ev, err := svc.Events.Insert("primary", &calendar.Event{
		Summary: in.Title,
		Start:   &calendar.EventDateTime{DateTime: in.Start.Format(time.RFC3339)},
		End:     &calendar.EventDateTime{DateTime: in.End.Format(time.RFC3339)},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{RequestId: "meet-" + ulid.Make().String()},
		},
	}).ConferenceDataVersion(1).Context(ctx).Do()
	if err != nil {
		log.Printf("[google] schedule meet for session %d: %v", in.SessionID, err)
		return nil, fmt.Errorf("schedule meet: %w", ErrUpstream)
	}
	scheduled := in.Start.UnixMilli()
	m := &models.ExternalMeeting{
		Provider:           domain.ProviderGoogle,
		ProviderMeetingID:  ev.Id,
		ProviderMeetingURL: meetURL(ev),
		SessionID:          sess.ID,
		ScheduledAtMs:      &scheduled,
		CreatedBy:          actor.UserID,
		CreatedAtMs:        s.now().UnixMilli(),
	}
	if err := s.repo.CreateMeeting(ctx, m); err != nil {
		return nil, err
	}
	if s.notifier != nil && s.classRepo != nil && m.ProviderMeetingURL != "" {
		if students, err := s.classRepo.ListActiveStudents(ctx, sess.ClassroomID); err == nil {
			ids := make([]uint, len(students))
			for i, st := range students {
				ids[i] = st.ID
			}
			s.notifier.NotifyMeetScheduled(ctx, ids, sess.ID, m.ProviderMeetingURL)
		}
	}
	return m, nil
}

func meetURL(ev *calendar.Event) string {
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return ev.HangoutLink
}

// LatestMeeting returns the newest meeting scheduled for a session.
func (s *GoogleService) LatestMeeting(ctx context.Context, sessionID uint) (*models.ExternalMeeting, error) {
	m, err := s.repo.LatestMeeting(ctx, sessionID)
	if err != nil {
		return nil, notFound(err, "meeting")
	}
	return m, nil
}
