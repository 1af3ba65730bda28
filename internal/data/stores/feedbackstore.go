// Package stores implements the persistence contracts of the core packages
// on top of the SQLite database.
package stores

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/feedback/internal/core/feedback"
	"github.com/colonyops/feedback/internal/core/logging"
	"github.com/colonyops/feedback/internal/core/validate"
	"github.com/colonyops/feedback/internal/data/db"
)

const busyRetries = 3

// FeedbackStore implements feedback.Store using SQLite.
type FeedbackStore struct {
	db  *db.DB
	now func() time.Time
}

var _ feedback.Store = (*FeedbackStore)(nil)

// NewFeedbackStore creates a new SQLite-backed feedback store.
func NewFeedbackStore(db *db.DB) *FeedbackStore {
	return &FeedbackStore{db: db, now: time.Now}
}

// Save persists a payload and its screenshot in one transaction.
func (s *FeedbackStore) Save(ctx context.Context, p feedback.Payload) (feedback.Submission, error) {
	sub := feedback.Submission{
		Ref:       uuid.NewString(),
		Title:     p.Title,
		Comment:   p.Comment,
		CreatedAt: s.now(),
	}
	if p.HasImage() {
		sub.Image = p.Image
		sub.ImageType = http.DetectContentType(p.Image)
	}
	if err := validate.Payload(p, sub.ImageType); err != nil {
		return feedback.Submission{}, err
	}

	insert := func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO feedback (ref, title, comment, created_at) VALUES (?, ?, ?, ?)",
			sub.Ref, sub.Title, sub.Comment, sub.CreatedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("insert feedback: %w", err)
		}
		if sub.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("read feedback id: %w", err)
		}

		if sub.Image == nil {
			return nil
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO feedback_screenshots (feedback_id, mime_type, data) VALUES (?, ?, ?)",
			sub.ID, sub.ImageType, sub.Image,
		)
		if err != nil {
			return fmt.Errorf("insert screenshot: %w", err)
		}
		return nil
	}

	var err error
	for attempt := 1; attempt <= busyRetries; attempt++ {
		err = s.db.WithTx(ctx, insert)
		if !IsBusyError(err) {
			break
		}
		logging.Component("store").Debug().Ctx(ctx).Int("attempt", attempt).Msg("database busy, retrying save")
	}
	if err != nil {
		return feedback.Submission{}, err
	}

	logging.Component("store").Info().Ctx(ctx).
		Int64("id", sub.ID).
		Str("ref", sub.Ref).
		Bool("image", sub.HasImage()).
		Msg("feedback saved")
	return sub, nil
}

const selectSubmission = `
	SELECT f.id, f.ref, f.title, f.comment, f.created_at,
	       COALESCE(s.mime_type, ''), s.data
	FROM feedback f
	LEFT JOIN feedback_screenshots s ON s.feedback_id = f.id`

// List returns up to limit submissions, newest first. A limit <= 0 returns
// all submissions.
func (s *FeedbackStore) List(ctx context.Context, limit int) ([]feedback.Submission, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Conn().QueryContext(ctx,
		selectSubmission+" ORDER BY f.created_at DESC, f.id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []feedback.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}

// Get returns a submission by ID. Returns feedback.ErrNotFound if missing.
func (s *FeedbackStore) Get(ctx context.Context, id int64) (feedback.Submission, error) {
	row := s.db.Conn().QueryRowContext(ctx, selectSubmission+" WHERE f.id = ?", id)
	sub, err := scanSubmission(row)
	if IsNotFoundError(err) {
		return feedback.Submission{}, feedback.ErrNotFound
	}
	if err != nil {
		return feedback.Submission{}, fmt.Errorf("get feedback %d: %w", id, err)
	}
	return sub, nil
}

// Delete removes a submission and its screenshot.
func (s *FeedbackStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.Conn().ExecContext(ctx, "DELETE FROM feedback WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete feedback %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete feedback %d: %w", id, err)
	}
	if n == 0 {
		return feedback.ErrNotFound
	}
	return nil
}

// Count returns the number of stored submissions.
func (s *FeedbackStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback").Scan(&n); err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row scanner) (feedback.Submission, error) {
	var (
		sub     feedback.Submission
		created int64
	)
	if err := row.Scan(&sub.ID, &sub.Ref, &sub.Title, &sub.Comment, &created, &sub.ImageType, &sub.Image); err != nil {
		return feedback.Submission{}, err
	}
	sub.CreatedAt = time.Unix(0, created)
	return sub, nil
}
