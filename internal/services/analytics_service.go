package services

import (
	"context"
	"math"
	"unicode/utf8"

	"github.com/formlab/formbuilder/internal/models"
	"github.com/formlab/formbuilder/internal/repositories"
	"github.com/formlab/formbuilder/internal/utils"
)

const (
	// Titles longer than this are truncated with an ellipsis in summaries.
	summaryTitleLimit = 15

	// How many responses RecentResponses returns when no limit is given.
	defaultRecentLimit = 10

	// Label shown for responses whose form has been deleted.
	unknownFormLabel = "Unknown Form"
)

// Summary is the dashboard headline view of the whole store.
type Summary struct {
	TotalForms          int    `json:"total_forms"`
	TotalResponses      int    `json:"total_responses"`
	AvgResponsesPerForm int    `json:"avg_responses_per_form"`
	MostPopularForm     string `json:"most_popular_form"`
}

// FormPerformance is the per-form row of the dashboard table.
type FormPerformance struct {
	FormID        string `json:"form_id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
	ResponseCount int    `json:"response_count"`
	LastUpdated   string `json:"last_updated"`
}

// RecentResponse pairs a stored response with its form's display title.
type RecentResponse struct {
	Response  models.FormResponse `json:"response"`
	FormTitle string              `json:"form_title"`
}

// AnalyticsService derives dashboard aggregates from stored forms and
// responses. All figures are computed on demand; nothing is cached.
type AnalyticsService interface {
	Summarize(ctx context.Context) (*Summary, error)
	FormPerformances(ctx context.Context) ([]FormPerformance, error)
	RecentResponses(ctx context.Context, limit int) ([]RecentResponse, error)
}

type analyticsService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewAnalyticsService(repo repositories.Repository, logger utils.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		logger: logger,
	}
}

func (s *analyticsService) Summarize(ctx context.Context) (*Summary, error) {
	forms, err := s.repo.Forms().List(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := s.repo.Responses().List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalForms:     len(forms),
		TotalResponses: len(responses),
	}
	if len(forms) > 0 {
		summary.AvgResponsesPerForm = int(math.Round(float64(len(responses)) / float64(len(forms))))
	}
	summary.MostPopularForm = mostPopularForm(forms, responses)

	return summary, nil
}

func (s *analyticsService) FormPerformances(ctx context.Context) ([]FormPerformance, error) {
	forms, err := s.repo.Forms().List(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := s.repo.Responses().List(ctx)
	if err != nil {
		return nil, err
	}

	counts := responseCounts(responses)
	rows := make([]FormPerformance, 0, len(forms))
	for i := range forms {
		form := &forms[i]
		rows = append(rows, FormPerformance{
			FormID:        form.ID,
			Title:         truncateTitle(form.DisplayTitle()),
			QuestionCount: len(form.Questions),
			ResponseCount: counts[form.ID],
			LastUpdated:   form.UpdatedAt.Format("2006-01-02"),
		})
	}
	return rows, nil
}

// RecentResponses returns the most recently submitted responses, newest
// first. Responses whose form was deleted are kept and labelled.
func (s *analyticsService) RecentResponses(ctx context.Context, limit int) ([]RecentResponse, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	forms, err := s.repo.Forms().List(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := s.repo.Responses().List(ctx)
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(forms))
	for i := range forms {
		titles[forms[i].ID] = forms[i].DisplayTitle()
	}

	if len(responses) > limit {
		responses = responses[len(responses)-limit:]
	}

	// Stored order is append-only oldest first; walk backwards.
	recent := make([]RecentResponse, 0, len(responses))
	for i := len(responses) - 1; i >= 0; i-- {
		title, ok := titles[responses[i].FormID]
		if !ok {
			title = unknownFormLabel
		}
		recent = append(recent, RecentResponse{
			Response:  responses[i],
			FormTitle: title,
		})
	}
	return recent, nil
}

// mostPopularForm picks the form with strictly the most responses. On a
// tie the form listed first wins; with no forms the result is empty.
func mostPopularForm(forms []models.Form, responses []models.FormResponse) string {
	if len(forms) == 0 {
		return ""
	}

	counts := responseCounts(responses)
	best := -1
	title := ""
	for i := range forms {
		if count := counts[forms[i].ID]; count > best {
			best = count
			title = truncateTitle(forms[i].DisplayTitle())
		}
	}
	return title
}

func responseCounts(responses []models.FormResponse) map[string]int {
	counts := make(map[string]int, len(responses))
	for i := range responses {
		counts[responses[i].FormID]++
	}
	return counts
}

func truncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= summaryTitleLimit {
		return title
	}
	runes := []rune(title)
	return string(runes[:summaryTitleLimit]) + "..."
}
