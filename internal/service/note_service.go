package service

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"classhub/internal/models"
	"classhub/internal/repository"
	"classhub/pkg/cloudinary"

	"github.com/google/uuid"
)

type NoteService struct {
	repo            *repository.NoteRepository
	sessionRepo     *repository.SessionRepository
	translationRepo *repository.TranslationRepository
	ai              *AIService
	uploader        cloudinary.Uploader
	now             func() time.Time
}

func NewNoteService(
	repo *repository.NoteRepository,
	sessionRepo *repository.SessionRepository,
	translationRepo *repository.TranslationRepository,
	ai *AIService,
	uploader cloudinary.Uploader,
) *NoteService {
	return &NoteService{
		repo:            repo,
		sessionRepo:     sessionRepo,
		translationRepo: translationRepo,
		ai:              ai,
		uploader:        uploader,
		now:             time.Now,
	}
}

type CreateNoteInput struct {
	SessionID uint   `json:"session_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Language  string `json:"language"`
}

func (s *NoteService) Create(ctx context.Context, userID uint, in CreateNoteInput) (*models.Note, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, invalid("title and content are required")
	}
	if in.Language == "" {
		in.Language = "English"
	}
	if _, err := s.sessionRepo.GetByID(ctx, in.SessionID); err != nil {
		return nil, notFound(err, "session")
	}
	n := &models.Note{
		SessionID:   in.SessionID,
		UserID:      userID,
		Title:       in.Title,
		Content:     in.Content,
		Language:    in.Language,
		CreatedAtMs: s.now().UnixMilli(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ForSession lists the caller's own notes for a session. Anonymous callers get none.
func (s *NoteService) ForSession(ctx context.Context, userID, sessionID uint) ([]models.Note, error) {
	if userID == 0 {
		return []models.Note{}, nil
	}
	return s.repo.ListBySessionUser(ctx, sessionID, userID)
}

func (s *NoteService) Mine(ctx context.Context, userID uint) ([]models.Note, error) {
	if userID == 0 {
		return []models.Note{}, nil
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *NoteService) owned(ctx context.Context, userID, noteID uint) (*models.Note, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	n, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, notFound(err, "note")
	}
	if n.UserID != userID {
		return nil, ErrForbidden
	}
	return n, nil
}

// Summarize generates and stores a summary on the caller's note. On
// ErrUpstream the note is left untouched.
func (s *NoteService) Summarize(ctx context.Context, userID, noteID uint) (*models.Note, error) {
	n, err := s.owned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	sum, err := s.ai.SummarizeNote(ctx, n.Title, n.Language, n.Content)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ApplySummary(ctx, n.ID, sum.Summary, sum.KeyPoints, sum.Confidence, sum.AIGenerated); err != nil {
		return nil, err
	}
	conf := sum.Confidence
	n.Summary = sum.Summary
	n.KeyPoints = sum.KeyPoints
	n.Confidence = &conf
	n.IsAIGenerated = sum.AIGenerated
	return n, nil
}

// UploadAttachment stores an image for the caller's note on Cloudinary.
func (s *NoteService) UploadAttachment(ctx context.Context, userID, noteID uint, file io.Reader) (*models.Note, error) {
	n, err := s.owned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, ErrUpstream
	}
	up, err := s.uploader.UploadAttachment(ctx, file, "note-"+uuid.NewString())
	if err != nil {
		log.Printf("[notes] attachment upload for %d failed: %v", noteID, err)
		return nil, ErrUpstream
	}
	if err := s.repo.SetAttachmentURL(ctx, n.ID, up.URL); err != nil {
		return nil, err
	}
	n.AttachmentURL = up.URL
	return n, nil
}

type TranslateInput struct {
	Text         string `json:"text"`
	FromLanguage string `json:"from_language"`
	ToLanguage   string `json:"to_language"`
	SessionID    *uint  `json:"session_id"`
}

// Translate translates text for the caller and records the result.
func (s *NoteService) Translate(ctx context.Context, userID uint, in TranslateInput) (*models.Translation, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.Text) == "" || strings.TrimSpace(in.ToLanguage) == "" {
		return nil, invalid("text and to_language are required")
	}
	t := &models.Translation{
		OriginalText:   in.Text,
		TranslatedText: s.ai.Translate(ctx, in.Text, in.ToLanguage),
		FromLanguage:   in.FromLanguage,
		ToLanguage:     in.ToLanguage,
		SessionID:      in.SessionID,
		UserID:         userID,
		TimestampMs:    s.now().UnixMilli(),
	}
	if err := s.translationRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *NoteService) Translations(ctx context.Context, userID uint) ([]models.Translation, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	return s.translationRepo.ListByUser(ctx, userID, 50)
}
