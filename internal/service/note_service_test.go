package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"classhub/internal/domain"
	"classhub/internal/models"
	"classhub/internal/repository"
	"classhub/pkg/openrouter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (e *testEnv) notes(ai *AIService) *NoteService {
	s := NewNoteService(e.noteRepo, e.sessionRepo, repository.NewTranslationRepository(e.db), ai, nil)
	s.now = e.clock.now
	return s
}

func newNote(t *testing.T, e *testEnv, svc *NoteService) (*models.Note, uint) {
	t.Helper()
	teacher := e.user(t, "teacher", domain.RoleTeacher)
	student := e.user(t, "student", domain.RoleStudent)
	sess := e.liveSession(t, e.classroom(t, teacher.ID), 0)
	n, err := svc.Create(context.Background(), student.ID, CreateNoteInput{SessionID: sess.ID, Title: "Quadratics", Content: "x = (-b ± √(b²-4ac)) / 2a"})
	require.NoError(t, err)
	return n, student.ID
}

func TestSummarizeWithCompletion(t *testing.T) {
	e := newTestEnv(t)
	srv := completionServer(t, http.StatusOK, `{"choices":[{"message":{"content":"Summary: The formula.\n- discriminant\n- vertex"}}]}`)
	svc := e.notes(NewAIService(openrouter.NewClient("key", srv.URL, "", "", "", time.Second)))
	n, owner := newNote(t, e, svc)

	got, err := svc.Summarize(context.Background(), owner, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "The formula.", got.Summary)

	stored, err := e.noteRepo.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Equal(t, "The formula.", stored.Summary)
	assert.Equal(t, models.StringList{"discriminant", "vertex"}, stored.KeyPoints)
	assert.True(t, stored.IsAIGenerated)
	require.NotNil(t, stored.Confidence)
	assert.Equal(t, 0.9, *stored.Confidence)
}

func TestSummarizeUpstreamFailureLeavesNote(t *testing.T) {
	e := newTestEnv(t)
	srv := completionServer(t, http.StatusBadGateway, `{}`)
	svc := e.notes(NewAIService(openrouter.NewClient("key", srv.URL, "", "", "", time.Second)))
	n, owner := newNote(t, e, svc)

	_, err := svc.Summarize(context.Background(), owner, n.ID)
	assert.ErrorIs(t, err, ErrUpstream)

	stored, err := e.noteRepo.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Summary)
	assert.Nil(t, stored.Confidence)
}

func TestSummarizeEmptyCompletionUsesPlaceholder(t *testing.T) {
	e := newTestEnv(t)
	srv := completionServer(t, http.StatusOK, `{"choices":[]}`)
	svc := e.notes(NewAIService(openrouter.NewClient("key", srv.URL, "", "", "", time.Second)))
	n, owner := newNote(t, e, svc)

	got, err := svc.Summarize(context.Background(), owner, n.ID)
	require.NoError(t, err)
	assert.Equal(t, SummaryUnavailable, got.Summary)
}

func TestSummarizeWithoutKeyUsesHeuristic(t *testing.T) {
	e := newTestEnv(t)
	svc := e.notes(NewAIService(openrouter.NewClient("", "", "", "", "", time.Second)))
	n, owner := newNote(t, e, svc)

	got, err := svc.Summarize(context.Background(), owner, n.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Summary, "AI Summary: ")
	assert.False(t, got.IsAIGenerated)
}

func TestSummarizeOwnerOnly(t *testing.T) {
	e := newTestEnv(t)
	svc := e.notes(NewAIService(nil))
	n, _ := newNote(t, e, svc)
	other := e.user(t, "other", domain.RoleStudent)

	_, err := svc.Summarize(context.Background(), other.ID, n.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Summarize(context.Background(), other.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Summarize(context.Background(), 0, n.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateNoteValidation(t *testing.T) {
	e := newTestEnv(t)
	svc := e.notes(NewAIService(nil))
	student := e.user(t, "student", domain.RoleStudent)

	_, err := svc.Create(context.Background(), student.ID, CreateNoteInput{SessionID: 1, Title: "", Content: "c"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(context.Background(), student.ID, CreateNoteInput{SessionID: 404, Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTranslateFallsBackAndPersists(t *testing.T) {
	e := newTestEnv(t)
	srv := completionServer(t, http.StatusInternalServerError, `{}`)
	svc := e.notes(NewAIService(openrouter.NewClient("key", srv.URL, "", "", "", time.Second)))
	student := e.user(t, "student", domain.RoleStudent)

	tr, err := svc.Translate(context.Background(), student.ID, TranslateInput{Text: "hello", ToLanguage: "fr"})
	require.NoError(t, err)
	assert.Equal(t, "TRANSLATED (FR): hello", tr.TranslatedText)

	list, err := svc.Translations(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tr.ID, list[0].ID)
}
