package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/school-tournament/export"
	"github.com/Dosada05/school-tournament/metrics"
	"github.com/Dosada05/school-tournament/models"
	"github.com/Dosada05/school-tournament/repositories"
	"github.com/Dosada05/school-tournament/scheduling"
	"github.com/Dosada05/school-tournament/storage"
	"github.com/google/uuid"
)

type ImportResult struct {
	Created  []models.Match    `json:"created"`
	Skipped  []string          `json:"skipped"`
	Rejected []export.RowError `json:"rejected"`
}

type ExportService interface {
	WriteSchedule(ctx context.Context, w io.Writer) error
	PublishSchedule(ctx context.Context) (*storage.UploadResult, error)
	ImportMatches(ctx context.Context, r io.Reader) (*ImportResult, error)
}

type exportService struct {
	cfg       scheduling.Config
	tx        repositories.Transactor
	matchRepo repositories.MatchRepository
	uploader  storage.FileUploader
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time

	mu        sync.Mutex
	published string
}

// NewExportService builds the spreadsheet service. uploader may be nil when
// object storage is not configured; PublishSchedule then fails.
func NewExportService(
	cfg scheduling.Config,
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	m *metrics.Metrics,
	logger *slog.Logger,
) ExportService {
	return &exportService{
		cfg:       cfg,
		tx:        tx,
		matchRepo: matchRepo,
		uploader:  uploader,
		metrics:   m,
		logger:    loggerOrDefault(logger),
		now:       time.Now,
	}
}

func (s *exportService) WriteSchedule(ctx context.Context, w io.Writer) error {
	matches, err := s.matchRepo.List(ctx, nil, repositories.MatchFilter{})
	if err != nil {
		return fmt.Errorf("failed to load matches for export: %w", err)
	}
	return export.WriteSchedule(w, s.cfg, matches)
}

func (s *exportService) PublishSchedule(ctx context.Context) (*storage.UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrUploadNotConfigured
	}
	var buf bytes.Buffer
	if err := s.WriteSchedule(ctx, &buf); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("exports/schedule-%s.xlsx", s.now().UTC().Format("20060102-150405"))
	res, err := s.uploader.Upload(ctx, key, export.ContentTypeXLSX, &buf)
	if err != nil {
		s.logger.ErrorContext(ctx, "schedule upload failed", slog.String("key", key), slog.Any("error", err))
		return nil, err
	}
	s.logger.InfoContext(ctx, "schedule published", slog.String("key", res.Key), slog.String("location", res.Location))
	s.dropPrevious(ctx, res.Key)
	return res, nil
}

// dropPrevious removes the export this process published before key. A
// failed delete only leaves a stale object behind.
func (s *exportService) dropPrevious(ctx context.Context, key string) {
	s.mu.Lock()
	prev := s.published
	s.published = key
	s.mu.Unlock()

	if prev == "" || prev == key {
		return
	}
	if err := s.uploader.Delete(ctx, prev); err != nil {
		s.logger.WarnContext(ctx, "failed to remove previous schedule export", slog.String("key", prev), slog.Any("error", err))
	}
}

// ImportMatches stores every valid row of the workbook. Rows without an ID
// get a fresh one; rows whose match or playoff position already exists are
// skipped. Slotted rows must fit the grid like a manual placement does.
func (s *exportService) ImportMatches(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, rejects, err := export.ReadMatches(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	res := &ImportResult{}

	err = s.tx.WithTx(ctx, func(tx repositories.SQLExecutor) error {
		res.Created, res.Skipped = []models.Match{}, []string{}
		res.Rejected = append([]export.RowError{}, rejects...)

		existing, err := s.matchRepo.List(ctx, tx, repositories.MatchFilter{})
		if err != nil {
			return fmt.Errorf("failed to load matches for import: %w", err)
		}
		slots, err := scheduling.NewSlotChecker(s.cfg, existing, scheduling.ConflictPolicy{}, nil)
		if err != nil {
			return fmt.Errorf("invalid schedule config: %w", err)
		}
		known := make(map[string]bool, len(existing))
		for _, m := range existing {
			known[m.ID], known[importKey(m)] = true, true
		}

		for _, row := range rows {
			m := row.Match
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			if known[m.ID] || known[importKey(m)] {
				res.Skipped = append(res.Skipped, m.ID)
				continue
			}
			if err := slots.Book(m); err != nil {
				res.Rejected = append(res.Rejected, row.Reject(err))
				continue
			}
			err := s.matchRepo.Create(ctx, tx, &m)
			if errors.Is(err, repositories.ErrMatchAlreadyExists) {
				res.Skipped = append(res.Skipped, m.ID)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to import match %s: %w", m.ID, handleRepositoryError(err))
			}
			known[m.ID], known[importKey(m)] = true, true
			res.Created = append(res.Created, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, m := range res.Created {
		s.metrics.MatchCreated(string(m.Phase))
	}
	s.logger.InfoContext(ctx, "matches imported",
		slog.Int("created", len(res.Created)),
		slog.Int("skipped", len(res.Skipped)),
		slog.Int("rejected", len(res.Rejected)),
	)
	return res, nil
}

// importKey identifies a match the way the store does: playoff matches by
// their bracket position, everything else by id.
func importKey(m models.Match) string {
	if m.Phase.IsPlayoff() {
		return fmt.Sprintf("%s#%s#%d", m.BracketKey(), m.Phase, m.Order)
	}
	return m.ID
}
