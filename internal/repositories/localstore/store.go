package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/formlab/formbuilder/internal/models"
	"github.com/formlab/formbuilder/internal/repositories"
	"github.com/formlab/formbuilder/internal/storage"
	"github.com/formlab/formbuilder/internal/utils"
)

// Storage keys for the two independent collections.
const (
	FormsKey     = "forms"
	ResponsesKey = "responses"
)

// Store implements the repositories over a key-value Backend. Each
// collection is one serialized list under its key; every mutation is a
// read-modify-write of the whole list. A mutex serializes mutations within
// this process; concurrent writers in other processes are last-write-wins
// at collection granularity, which is the accepted tradeoff for
// single-user usage.
type Store struct {
	backend storage.Backend
	logger  utils.Logger
	now     func() time.Time
	mu      sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(backend storage.Backend, logger utils.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Forms() repositories.FormRepository {
	return &formStore{s}
}

func (s *Store) Responses() repositories.ResponseRepository {
	return &responseStore{s}
}

// readForms loads the form collection. Absent or malformed content is
// treated as an empty collection rather than an error so a corrupt store
// degrades to a functional first-run state.
func (s *Store) readForms(ctx context.Context) []models.Form {
	raw, err := s.backend.Read(ctx, FormsKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.WarnContext(ctx, "failed to read forms, treating as empty", "error", err)
		}
		return []models.Form{}
	}

	var forms []models.Form
	if err := json.Unmarshal(raw, &forms); err != nil {
		s.logger.WarnContext(ctx, "malformed forms payload, treating as empty", "error", err)
		return []models.Form{}
	}
	return forms
}

func (s *Store) writeForms(ctx context.Context, forms []models.Form) error {
	raw, err := json.Marshal(forms)
	if err != nil {
		return fmt.Errorf("failed to marshal forms: %w", err)
	}
	if err := s.backend.Write(ctx, FormsKey, raw); err != nil {
		return fmt.Errorf("failed to persist forms: %w", err)
	}
	return nil
}

func (s *Store) readResponses(ctx context.Context) []models.FormResponse {
	raw, err := s.backend.Read(ctx, ResponsesKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.WarnContext(ctx, "failed to read responses, treating as empty", "error", err)
		}
		return []models.FormResponse{}
	}

	var responses []models.FormResponse
	if err := json.Unmarshal(raw, &responses); err != nil {
		s.logger.WarnContext(ctx, "malformed responses payload, treating as empty", "error", err)
		return []models.FormResponse{}
	}
	return responses
}

func (s *Store) writeResponses(ctx context.Context, responses []models.FormResponse) error {
	raw, err := json.Marshal(responses)
	if err != nil {
		return fmt.Errorf("failed to marshal responses: %w", err)
	}
	if err := s.backend.Write(ctx, ResponsesKey, raw); err != nil {
		return fmt.Errorf("failed to persist responses: %w", err)
	}
	return nil
}

type formStore struct {
	store *Store
}

func (f *formStore) List(ctx context.Context) ([]models.Form, error) {
	return f.store.readForms(ctx), nil
}

func (f *formStore) GetByID(ctx context.Context, id string) (*models.Form, error) {
	for _, form := range f.store.readForms(ctx) {
		if form.ID == id {
			return &form, nil
		}
	}
	return nil, fmt.Errorf("form %q: %w", id, repositories.ErrNotFound)
}

func (f *formStore) Save(ctx context.Context, form *models.Form) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	now := f.store.now()
	forms := f.store.readForms(ctx)

	replaced := false
	for i := range forms {
		if forms[i].ID == form.ID {
			// CreatedAt is immutable after the first save.
			form.CreatedAt = forms[i].CreatedAt
			form.UpdatedAt = now
			forms[i] = *form
			replaced = true
			break
		}
	}
	if !replaced {
		form.CreatedAt = now
		form.UpdatedAt = now
		forms = append(forms, *form)
	}

	return f.store.writeForms(ctx, forms)
}

func (f *formStore) Delete(ctx context.Context, id string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	forms := f.store.readForms(ctx)
	kept := forms[:0]
	for _, form := range forms {
		if form.ID != id {
			kept = append(kept, form)
		}
	}
	return f.store.writeForms(ctx, kept)
}

type responseStore struct {
	store *Store
}

func (r *responseStore) List(ctx context.Context) ([]models.FormResponse, error) {
	return r.store.readResponses(ctx), nil
}

func (r *responseStore) ListByForm(ctx context.Context, formID string) ([]models.FormResponse, error) {
	all := r.store.readResponses(ctx)
	matching := make([]models.FormResponse, 0, len(all))
	for _, response := range all {
		if response.FormID == formID {
			matching = append(matching, response)
		}
	}
	return matching, nil
}

func (r *responseStore) Save(ctx context.Context, response *models.FormResponse) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	response.SubmittedAt = r.store.now()
	responses := append(r.store.readResponses(ctx), *response)
	return r.store.writeResponses(ctx, responses)
}
