package tracker

import (
	"context"
	"io"

	"github.com/colonyops/ticketlog/internal/core/beads"
	"github.com/colonyops/ticketlog/internal/core/idgen"
)

// Import outcomes for a single source line.
const (
	ImportImported = "imported"
	ImportSkipped  = "skipped"
	ImportError    = "error"
)

// ImportStats counts import outcomes.
type ImportStats struct {
	TotalLines int `json:"total_lines"`
	Imported   int `json:"imported"`
	Skipped    int `json:"skipped"`
	Errors     int `json:"errors"`
}

// ImportDetail describes what happened to one source line.
type ImportDetail struct {
	Line     int      `json:"line"`
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title,omitempty"`
	Type     string   `json:"type,omitempty"`
	Status   string   `json:"status"`
	Reason   string   `json:"reason,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ImportReport summarizes an import run.
type ImportReport struct {
	DryRun  bool           `json:"dry_run"`
	Stats   ImportStats    `json:"stats"`
	Details []ImportDetail `json:"details"`
}

// Import reads beads issues from r and appends every issue whose ID is not
// already known. Bad lines are reported in the result and do not stop the
// import. With dryRun nothing is written.
func (s *Service) Import(ctx context.Context, r io.Reader, dryRun bool) (ImportReport, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return ImportReport{}, err
	}

	records, err := beads.Read(r, s.now())
	if err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{DryRun: dryRun, Details: make([]ImportDetail, 0, len(records))}

	// Dangling dependency targets may be filled in by the import; IDs of
	// current tasks and of unreadable lines may not be overwritten.
	taken := idgen.NewSet(snap.IDs()...)
	for _, id := range unreadableIDs(snap) {
		taken.Add(id)
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Stats.TotalLines++
		detail := ImportDetail{Line: rec.Line}

		switch {
		case rec.Err != nil:
			report.Stats.Errors++
			detail.Status = ImportError
			detail.Error = rec.Err.Error()

		case taken.Has(rec.Task.ID):
			report.Stats.Skipped++
			detail.ID = rec.Task.ID
			detail.Status = ImportSkipped
			detail.Reason = "ID already exists"

		default:
			if !dryRun {
				if err := s.append(ctx, rec.Task); err != nil {
					return report, err
				}
			}
			taken.Add(rec.Task.ID)

			report.Stats.Imported++
			detail.ID = rec.Task.ID
			detail.Title = rec.Task.Title
			detail.Type = string(rec.Task.Type)
			detail.Status = ImportImported
			detail.Warnings = rec.Warnings
		}

		report.Details = append(report.Details, detail)
	}

	return report, nil
}
