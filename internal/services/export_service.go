package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/formlab/formbuilder/internal/codec"
	"github.com/formlab/formbuilder/internal/models"
	"github.com/formlab/formbuilder/internal/repositories"
	"github.com/formlab/formbuilder/internal/utils"
	"github.com/xuri/excelize/v2"
)

// ExportService renders the form catalogue and per-form responses as CSV
// or Excel files for offline analysis.
type ExportService interface {
	ExportFormsToCSV(ctx context.Context) ([]byte, error)
	ExportFormsToExcel(ctx context.Context) ([]byte, error)
	ExportResponsesToCSV(ctx context.Context, formID string) ([]byte, error)
	ExportResponsesToExcel(ctx context.Context, formID string) ([]byte, error)
}

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ===== FORM CATALOGUE =====

var formHeaders = []string{"Form ID", "Title", "Questions", "Responses", "Created At", "Updated At"}

func (s *exportService) ExportFormsToCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.formRows(ctx)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(formHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return []byte(buf.String()), nil
}

func (s *exportService) ExportFormsToExcel(ctx context.Context) ([]byte, error) {
	rows, err := s.formRows(ctx)
	if err != nil {
		return nil, err
	}
	return writeSheet("Forms", formHeaders, rows)
}

func (s *exportService) formRows(ctx context.Context) ([][]string, error) {
	forms, err := s.repo.Forms().List(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := s.repo.Responses().List(ctx)
	if err != nil {
		return nil, err
	}

	counts := responseCounts(responses)
	rows := make([][]string, 0, len(forms))
	for i := range forms {
		form := &forms[i]
		rows = append(rows, []string{
			form.ID,
			form.DisplayTitle(),
			strconv.Itoa(len(form.Questions)),
			strconv.Itoa(counts[form.ID]),
			form.CreatedAt.Format("2006-01-02 15:04:05"),
			form.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows, nil
}

// ===== PER-FORM RESPONSES =====

func (s *exportService) ExportResponsesToCSV(ctx context.Context, formID string) ([]byte, error) {
	headers, rows, err := s.responseRows(ctx, formID)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return []byte(buf.String()), nil
}

func (s *exportService) ExportResponsesToExcel(ctx context.Context, formID string) ([]byte, error) {
	headers, rows, err := s.responseRows(ctx, formID)
	if err != nil {
		return nil, err
	}
	return writeSheet("Responses", headers, rows)
}

// responseRows builds one column per question plus identity columns. Each
// answer cell holds the human-readable summary of the decoded answer.
func (s *exportService) responseRows(ctx context.Context, formID string) ([]string, [][]string, error) {
	form, err := s.repo.Forms().GetByID(ctx, formID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, fmt.Errorf("form %q: %w", formID, ErrFormNotFound)
		}
		return nil, nil, err
	}
	responses, err := s.repo.Responses().ListByForm(ctx, formID)
	if err != nil {
		return nil, nil, err
	}

	headers := []string{"Response ID", "Submitted At"}
	for i := range form.Questions {
		question := &form.Questions[i]
		label := question.Text
		if label == "" {
			label = question.ID
		}
		headers = append(headers, label)
	}

	rows := make([][]string, 0, len(responses))
	for i := range responses {
		response := &responses[i]
		row := []string{
			response.ID,
			response.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		for j := range form.Questions {
			question := &form.Questions[j]
			raw, ok := response.Answers[question.ID]
			if !ok {
				row = append(row, "")
				continue
			}
			answer, err := codec.DecodeAnswer(question, raw)
			if err != nil {
				s.logger.WarnContext(ctx, "skipping undecodable answer in export",
					"form_id", formID, "response_id", response.ID,
					"question_id", question.ID, "error", err)
				row = append(row, "")
				continue
			}
			row = append(row, summarizeAnswer(answer))
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

// summarizeAnswer flattens a typed answer to a single display string.
func summarizeAnswer(answer models.Answer) string {
	switch a := answer.(type) {
	case models.CategorizeAnswer:
		categories := make([]string, 0, len(a))
		for category := range a {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		parts := make([]string, 0, len(categories))
		for _, category := range categories {
			parts = append(parts, fmt.Sprintf("%s: %s", category, strings.Join(a[category], ", ")))
		}
		return strings.Join(parts, "; ")
	case models.ClozeAnswer:
		indices := make([]int, 0, len(a))
		for index := range a {
			indices = append(indices, index)
		}
		sort.Ints(indices)
		parts := make([]string, 0, len(indices))
		for _, index := range indices {
			parts = append(parts, fmt.Sprintf("%d=%s", index+1, a[index]))
		}
		return strings.Join(parts, ", ")
	case models.ComprehensionAnswer:
		return a.SelectedOption
	default:
		return ""
	}
}

// ===== HELPER FUNCTIONS =====

func writeSheet(sheetName string, headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to locate header cell: %w", err)
		}
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, row := range rows {
		for colIndex, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err != nil {
				return nil, fmt.Errorf("failed to locate data cell: %w", err)
			}
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
