package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/formlab/formbuilder/internal/codec"
	"github.com/formlab/formbuilder/internal/events"
	"github.com/formlab/formbuilder/internal/models"
	"github.com/formlab/formbuilder/internal/repositories"
	"github.com/formlab/formbuilder/internal/utils"
	"github.com/google/uuid"
)

// ResponseService starts fill-out sessions against saved forms and lists
// stored responses.
type ResponseService interface {
	StartSession(ctx context.Context, formID string) (*Session, error)
	ListResponses(ctx context.Context) ([]models.FormResponse, error)
	ListByForm(ctx context.Context, formID string) ([]models.FormResponse, error)
}

type responseService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewResponseService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger) ResponseService {
	return &responseService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// StartSession snapshots the form as it exists now and opens a session
// against that snapshot. Edits saved to the form afterwards do not affect
// a session already in progress.
func (s *responseService) StartSession(ctx context.Context, formID string) (*Session, error) {
	form, err := s.repo.Forms().GetByID(ctx, formID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("form %q: %w", formID, ErrFormNotFound)
		}
		return nil, err
	}
	if !form.Renderable() {
		return nil, fmt.Errorf("form %q: %w", formID, ErrFormNotRenderable)
	}

	return &Session{
		form:    form,
		answers: make(map[string]models.Answer),
		submit:  s.submit,
	}, nil
}

func (s *responseService) ListResponses(ctx context.Context) ([]models.FormResponse, error) {
	return s.repo.Responses().List(ctx)
}

func (s *responseService) ListByForm(ctx context.Context, formID string) ([]models.FormResponse, error) {
	return s.repo.Responses().ListByForm(ctx, formID)
}

func (s *responseService) submit(ctx context.Context, session *Session) (*models.FormResponse, error) {
	encoded := make(map[string]json.RawMessage, len(session.answers))
	for questionID, answer := range session.answers {
		question := session.form.Question(questionID)
		raw, err := codec.EncodeAnswer(question, answer)
		if err != nil {
			return nil, fmt.Errorf("encode answer for question %q: %w", questionID, err)
		}
		encoded[questionID] = raw
	}

	response := &models.FormResponse{
		ID:      uuid.NewString(),
		FormID:  session.form.ID,
		Answers: encoded,
	}

	if err := s.repo.Responses().Save(ctx, response); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishChange(ctx, events.NewResponseSubmitted(response.FormID, response.ID)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish response submitted event",
			"form_id", response.FormID, "response_id", response.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "response submitted",
		"form_id", response.FormID, "response_id", response.ID, "answers", len(encoded))
	return response, nil
}

// Session holds in-progress answers for one respondent filling out one
// form. A Session is not safe for concurrent use.
type Session struct {
	form      *models.Form
	answers   map[string]models.Answer
	submitted bool
	submit    func(ctx context.Context, session *Session) (*models.FormResponse, error)
}

// Form returns the snapshot the session was opened against.
func (s *Session) Form() *models.Form {
	return s.form
}

// SetAnswer records the typed answer for a question, replacing any earlier
// answer. The answer must match the question's variant and pass the
// variant's consistency checks against the question definition.
func (s *Session) SetAnswer(questionID string, answer models.Answer) error {
	if s.submitted {
		return ErrSessionSubmitted
	}
	question := s.form.Question(questionID)
	if question == nil {
		return fmt.Errorf("question %q: %w", questionID, ErrQuestionNotFound)
	}
	if answer.AnswerType() != question.Type {
		return fmt.Errorf("question %q expects %q, got %q: %w",
			questionID, question.Type, answer.AnswerType(), ErrQuestionTypeMismatch)
	}

	c, err := codec.ForQuestion(question)
	if err != nil {
		return err
	}
	if err := c.Validate(question, answer); err != nil {
		return err
	}

	s.answers[questionID] = answer
	return nil
}

// ClearAnswer drops the recorded answer for a question, if any.
func (s *Session) ClearAnswer(questionID string) error {
	if s.submitted {
		return ErrSessionSubmitted
	}
	delete(s.answers, questionID)
	return nil
}

// Answer returns the typed answer recorded for a question, or nil.
func (s *Session) Answer(questionID string) models.Answer {
	return s.answers[questionID]
}

// Answered reports whether the question has a recorded answer that its
// variant considers substantive (at least one item placed, one blank
// filled, or a non-empty selection).
func (s *Session) Answered(questionID string) bool {
	answer, ok := s.answers[questionID]
	if !ok {
		return false
	}
	question := s.form.Question(questionID)
	if question == nil {
		return false
	}
	c, err := codec.ForQuestion(question)
	if err != nil {
		return false
	}
	return c.Answered(answer)
}

// AnsweredCount returns how many of the form's questions are answered.
func (s *Session) AnsweredCount() int {
	count := 0
	for i := range s.form.Questions {
		if s.Answered(s.form.Questions[i].ID) {
			count++
		}
	}
	return count
}

// Submit encodes the recorded answers, persists them as a new response
// and closes the session. A session can be submitted once; partial
// submissions are allowed, unanswered questions are simply absent.
func (s *Session) Submit(ctx context.Context) (*models.FormResponse, error) {
	if s.submitted {
		return nil, ErrSessionSubmitted
	}
	response, err := s.submit(ctx, s)
	if err != nil {
		return nil, err
	}
	s.submitted = true
	return response, nil
}
