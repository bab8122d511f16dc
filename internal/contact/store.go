package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists submissions to Postgres. It doubles as the read side for
// the admin listing and the retention purge; the intake path only writes.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Name() string     { return "database" }
func (s *Store) Configured() bool { return s.db != nil }
func (s *Store) BestEffort() bool { return false }

func (s *Store) Deliver(ctx context.Context, sub *Submission) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO contact_submissions
		   (id, name, email, phone, business, message, selected_option, option_title, service_path, source, type, offer, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		sub.ID, sub.Name, sub.Email, sub.Phone, sub.Business, sub.Message,
		sub.SelectedOption, sub.OptionTitle, sub.ServicePath, sub.Source,
		sub.Type, sub.Offer, sub.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

type ListOptions struct {
	Limit  int
	Offset int
}

func (s *Store) List(ctx context.Context, opts ListOptions) ([]Submission, error) {
	if s.db == nil {
		return nil, errors.New("database not configured")
	}
	if opts.Limit <= 0 {
		opts.Limit = 50
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, name, email, phone, business, message, selected_option, option_title, service_path, source, type, offer, created_at
		 FROM contact_submissions
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(
			&sub.ID, &sub.Name, &sub.Email, &sub.Phone, &sub.Business, &sub.Message,
			&sub.SelectedOption, &sub.OptionTitle, &sub.ServicePath, &sub.Source,
			&sub.Type, &sub.Offer, &sub.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// PurgeOlderThan deletes submissions created before cutoff and returns the
// number of rows removed.
func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.db == nil {
		return 0, errors.New("database not configured")
	}
	tag, err := s.db.Exec(ctx, "DELETE FROM contact_submissions WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge submissions: %w", err)
	}
	return tag.RowsAffected(), nil
}
