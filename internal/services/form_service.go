package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/formlab/formbuilder/internal/events"
	"github.com/formlab/formbuilder/internal/models"
	"github.com/formlab/formbuilder/internal/repositories"
	"github.com/formlab/formbuilder/internal/utils"
	"github.com/formlab/formbuilder/internal/validator"
	"github.com/google/uuid"
)

// FormService is the construction/edit boundary for forms and their
// questions. Edits that would leave a question structurally invalid (such
// as removing below a variant's minimum list size) are rejected here; the
// persistence layer never sees them.
type FormService interface {
	// Drafting and persistence
	NewForm() *models.Form
	ListForms(ctx context.Context) ([]models.Form, error)
	GetForm(ctx context.Context, id string) (*models.Form, error)
	SaveForm(ctx context.Context, form *models.Form) error
	DeleteForm(ctx context.Context, id string) error

	// Question editing
	NewQuestion(questionType models.QuestionType) (*models.Question, error)
	AddQuestion(form *models.Form, questionType models.QuestionType) (*models.Question, error)
	UpdateQuestion(form *models.Form, question models.Question) error
	RemoveQuestion(form *models.Form, questionID string) error

	// Variant list editing
	AddCategory(question *models.Question, label string) error
	SetCategory(question *models.Question, index int, label string) error
	RemoveCategory(question *models.Question, index int) error
	AddItem(question *models.Question, label string) error
	SetItem(question *models.Question, index int, label string) error
	RemoveItem(question *models.Question, index int) error
	AddOption(question *models.Question, option string) error
	SetOption(question *models.Question, index int, option string) error
	RemoveOption(question *models.Question, index int) error
	AddBlank(question *models.Question, expected string) error
	SetBlank(question *models.Question, index int, expected string) error
	RemoveBlank(question *models.Question, index int) error
}

type formService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    utils.Logger
	validator *validator.Validator
}

func NewFormService(repo repositories.Repository, publisher events.EventPublisher, logger utils.Logger, v *validator.Validator) FormService {
	return &formService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// ===== DRAFTING AND PERSISTENCE =====

// NewForm starts an unsaved draft with a fresh identifier. Drafts without
// questions are valid persisted entities; they just cannot be answered.
func (s *formService) NewForm() *models.Form {
	return &models.Form{
		ID:        uuid.NewString(),
		Questions: []models.Question{},
	}
}

func (s *formService) ListForms(ctx context.Context) ([]models.Form, error) {
	return s.repo.Forms().List(ctx)
}

func (s *formService) GetForm(ctx context.Context, id string) (*models.Form, error) {
	form, err := s.repo.Forms().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("form %q: %w", id, ErrFormNotFound)
		}
		return nil, err
	}
	return form, nil
}

func (s *formService) SaveForm(ctx context.Context, form *models.Form) error {
	if err := s.validator.ValidateForm(form); err != nil {
		if ve := validator.ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}

	for i := range form.Questions {
		question := &form.Questions[i]
		if drift := s.validator.Question().BlankDrift(question); drift != 0 {
			s.logger.WarnContext(ctx, "cloze blank count differs from markers in text",
				"form_id", form.ID,
				"question_id", question.ID,
				"drift", drift)
		}
	}

	if err := s.repo.Forms().Save(ctx, form); err != nil {
		return err
	}

	if err := s.publisher.PublishChange(ctx, events.NewFormSaved(form.ID)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish form saved event", "form_id", form.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "form saved", "form_id", form.ID, "questions", len(form.Questions))
	return nil
}

func (s *formService) DeleteForm(ctx context.Context, id string) error {
	if _, err := s.repo.Forms().GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Deleting an absent form is a no-op.
			return nil
		}
		return err
	}

	// Responses referencing the form stay stored; the reference is weak.
	if err := s.repo.Forms().Delete(ctx, id); err != nil {
		return err
	}

	if err := s.publisher.PublishChange(ctx, events.NewFormDeleted(id)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish form deleted event", "form_id", id, "error", err)
	}

	s.logger.InfoContext(ctx, "form deleted", "form_id", id)
	return nil
}

// ===== QUESTION EDITING =====

// NewQuestion creates a question of the given variant pre-populated with
// its placeholder defaults.
func (s *formService) NewQuestion(questionType models.QuestionType) (*models.Question, error) {
	question := &models.Question{
		ID:   uuid.NewString(),
		Type: questionType,
	}

	switch questionType {
	case models.Categorize:
		question.Content = &models.CategorizeContent{
			Categories: []string{"Category 1", "Category 2"},
			Items:      []string{"Option 1", "Option 2"},
		}
	case models.Cloze:
		question.Content = &models.ClozeContent{
			Blanks: []string{""},
		}
	case models.Comprehension:
		question.Content = &models.ComprehensionContent{
			Options: []string{"Option A", "Option B", "Option C", "Option D"},
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrQuestionInvalidType, questionType)
	}

	return question, nil
}

func (s *formService) AddQuestion(form *models.Form, questionType models.QuestionType) (*models.Question, error) {
	question, err := s.NewQuestion(questionType)
	if err != nil {
		return nil, err
	}
	form.Questions = append(form.Questions, *question)
	return &form.Questions[len(form.Questions)-1], nil
}

func (s *formService) UpdateQuestion(form *models.Form, question models.Question) error {
	if err := s.validator.Question().ValidateQuestion(&question); err != nil {
		return err
	}
	for i := range form.Questions {
		if form.Questions[i].ID == question.ID {
			form.Questions[i] = question
			return nil
		}
	}
	return fmt.Errorf("question %q: %w", question.ID, ErrQuestionNotFound)
}

func (s *formService) RemoveQuestion(form *models.Form, questionID string) error {
	for i := range form.Questions {
		if form.Questions[i].ID == questionID {
			form.Questions = append(form.Questions[:i], form.Questions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("question %q: %w", questionID, ErrQuestionNotFound)
}

// ===== VARIANT LIST EDITING =====

func (s *formService) AddCategory(question *models.Question, label string) error {
	content := question.Categorize()
	if content == nil {
		return ErrQuestionTypeMismatch
	}
	content.Categories = append(content.Categories, label)
	return nil
}

func (s *formService) SetCategory(question *models.Question, index int, label string) error {
	content := question.Categorize()
	if content == nil {
		return ErrQuestionTypeMismatch
	}
	return setAt(content.Categories, index, label)
}

func (s *formService) RemoveCategory(question *models.Question, index int) error {
	content := question.Categorize()
	if content == nil {
		return ErrQuestionTypeMismatch
	}
	if len(content.Categories) <= validator.MinCategories {
		return ErrMinCategories
	}
	kept, err := removeAt(content.Categories, index)
	if err != nil {
		return err
	}
	content.Categories = kept
	return nil
}

func (s *formService) AddItem(question *models.Question, label string) error {
	content := question.Categorize()
	if content == nil {
		return ErrQuestionTypeMismatch
	}
	content.Items = append(content.Items, label)
	return nil
}

func (s *formService) SetItem(question *models.Question, index int, label string) error {
	content := question.Categorize()
	if content == nil {
		return ErrQuestionTypeMismatch
	}
	return setAt(content.Items, index, label)
}

func (s *formService) RemoveItem(question *models.Question, index int) error {
	content := question.Categorize()
	if content == nil {
		return ErrQuestionTypeMismatch
	}
	if len(content.Items) <= validator.MinItems {
		return ErrMinItems
	}
	kept, err := removeAt(content.Items, index)
	if err != nil {
		return err
	}
	content.Items = kept
	return nil
}

func (s *formService) AddOption(question *models.Question, option string) error {
	content := question.Comprehension()
	if content == nil {
		return ErrQuestionTypeMismatch
	}
	content.Options = append(content.Options, option)
	return nil
}

func (s *formService) SetOption(question *models.Question, index int, option string) error {
	content := question.Comprehension()
	if content == nil {
		return ErrQuestionTypeMismatch
	}
	return setAt(content.Options, index, option)
}

func (s *formService) RemoveOption(question *models.Question, index int) error {
	content := question.Comprehension()
	if content == nil {
		return ErrQuestionTypeMismatch
	}
	if len(content.Options) <= validator.MinOptions {
		return ErrMinOptions
	}
	kept, err := removeAt(content.Options, index)
	if err != nil {
		return err
	}
	content.Options = kept
	return nil
}

func (s *formService) AddBlank(question *models.Question, expected string) error {
	content := question.Cloze()
	if content == nil {
		return ErrQuestionTypeMismatch
	}
	content.Blanks = append(content.Blanks, expected)
	return nil
}

func (s *formService) SetBlank(question *models.Question, index int, expected string) error {
	content := question.Cloze()
	if content == nil {
		return ErrQuestionTypeMismatch
	}
	return setAt(content.Blanks, index, expected)
}

func (s *formService) RemoveBlank(question *models.Question, index int) error {
	content := question.Cloze()
	if content == nil {
		return ErrQuestionTypeMismatch
	}
	if len(content.Blanks) <= validator.MinBlanks {
		return ErrMinBlanks
	}
	kept, err := removeAt(content.Blanks, index)
	if err != nil {
		return err
	}
	content.Blanks = kept
	return nil
}

func setAt(list []string, index int, value string) error {
	if index < 0 || index >= len(list) {
		return fmt.Errorf("index %d out of range", index)
	}
	list[index] = value
	return nil
}

func removeAt(list []string, index int) ([]string, error) {
	if index < 0 || index >= len(list) {
		return nil, fmt.Errorf("index %d out of range", index)
	}
	return append(list[:index], list[index+1:]...), nil
}
