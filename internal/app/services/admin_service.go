package services

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"github.com/yigit/studentrecords/internal/app/admin"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// AdminService defines the interface for the generic record browser
type AdminService interface {
	Entities() []admin.EntityConfig
	Browse(ctx context.Context, entity string, query dto.BrowseQuery) (*dto.BrowseResult, error)
	Export(ctx context.Context, entity string, query dto.BrowseQuery, w io.Writer) error
}

type adminServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(repos *repositories.Repositories, logger zerolog.Logger) AdminService {
	return &adminServiceImpl{
		repos:  repos,
		logger: logger,
	}
}

// Entities lists every browsable record type
func (s *adminServiceImpl) Entities() []admin.EntityConfig {
	return admin.Entities()
}

// load returns every record of the entity as admin records
func (s *adminServiceImpl) load(ctx context.Context, entity string) ([]admin.Record, error) {
	var records []admin.Record

	switch entity {
	case admin.EntityStudents:
		students, err := s.repos.StudentRepository.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, st := range students {
			records = append(records, st)
		}
	case admin.EntityCourses:
		courses, err := s.repos.CourseRepository.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range courses {
			records = append(records, c)
		}
	case admin.EntityGrades:
		grades, err := s.repos.GradeRepository.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, g := range grades {
			records = append(records, g)
		}
	}

	return records, nil
}

// Browse applies the entity's search, filters and ordering
func (s *adminServiceImpl) Browse(ctx context.Context, entity string, query dto.BrowseQuery) (*dto.BrowseResult, error) {
	cfg, ok := admin.Lookup(entity)
	if !ok {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("unknown record type %q", entity))
	}

	all, err := s.load(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", entity, err)
	}
	matched := cfg.Apply(all, query.Search, query.Filters)

	result := &dto.BrowseResult{
		Entity:       cfg.Name,
		Title:        cfg.Title,
		Searchable:   len(cfg.SearchFields) > 0,
		Search:       query.Search,
		TotalRecords: len(matched),
	}
	for _, col := range cfg.ListDisplay {
		result.Columns = append(result.Columns, dto.BrowseColumn{Field: col.Field, Label: col.Label})
	}
	for _, f := range cfg.ListFilter {
		result.Filters = append(result.Filters, dto.BrowseFilter{
			Field:    f.Field,
			Label:    f.Label,
			Selected: query.Filters[f.Field],
			Choices:  cfg.FilterChoices(all, f.Field),
		})
	}
	for _, r := range matched {
		result.Rows = append(result.Rows, cfg.Row(r))
	}
	return result, nil
}

// Export writes the browsed rows as an XLSX workbook with a header row
func (s *adminServiceImpl) Export(ctx context.Context, entity string, query dto.BrowseQuery, w io.Writer) error {
	result, err := s.Browse(ctx, entity, query)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	sheet := result.Title
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}

	header := make([]interface{}, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col.Label
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	for i, row := range result.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}

	s.logger.Info().Str("entity", entity).Int("rows", len(result.Rows)).Msg("Records exported")
	return nil
}
