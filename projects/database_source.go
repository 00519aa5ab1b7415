package projects

import (
	"context"
	"fmt"

	"github.com/SignorelliLorenzo/portfolio/models"
)

// ProjectStore is the read side of the projects table.
type ProjectStore interface {
	FindAll(ctx context.Context) ([]models.ProjectRow, error)
	FindByID(ctx context.Context, id string) (*models.ProjectRow, error)
}

// DatabaseSource reads projects from the live database.
type DatabaseSource struct {
	store ProjectStore
}

func NewDatabaseSource(store ProjectStore) *DatabaseSource {
	return &DatabaseSource{store: store}
}

func (s *DatabaseSource) Name() string { return "database" }

// Records lists every row, newest first.
func (s *DatabaseSource) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowRecord(row))
	}
	return records, nil
}

func (s *DatabaseSource) Record(ctx context.Context, id string) (*Record, error) {
	row, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", id, err)
	}
	if row == nil {
		return nil, nil
	}
	r := rowRecord(*row)
	return &r, nil
}

// ImagePath is where the cover stored with a project row is served.
func ImagePath(id string) string {
	return "/api/projects/" + id + "/image"
}

func rowRecord(row models.ProjectRow) Record {
	image := ImagePath(row.ID)
	return Record{
		ID:                 row.ID,
		Title:              row.Title,
		ShortDescription:   row.ShortDescription,
		ShortDescriptionIt: nonEmpty(row.ShortDescriptionIt),
		Image:              &image,
		Tags:               []string(row.Tags),
		Markdown:           row.Markdown,
		MarkdownIt:         nonEmpty(row.MarkdownIt),
		Github:             row.Github,
		Demo:               row.Demo,
		Features:           []string(row.Features),
		FeaturesIt:         []string(row.FeaturesIt),
		Featured:           row.Featured,
	}
}
