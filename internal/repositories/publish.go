package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/spotrec/internal/models"
	"github.com/desertthunder/spotrec/internal/shared"
)

const publishColumns = `id, user_id, playlist_id, playlist_name, requested_tracks, added_tracks, status, error, created_at`

// PublishRepository stores playlist publish attempts in the publish_log table.
type PublishRepository struct {
	db *sql.DB
}

// NewPublishRepository creates a new PublishRepository with the given database connection
func NewPublishRepository(db *sql.DB) *PublishRepository {
	return &PublishRepository{db: db}
}

// Create inserts a record with a generated ID. A zero CreatedAt is set to now.
func (r *PublishRepository) Create(record *models.PublishRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	record.ID = shared.GenerateID()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO publish_log (` + publishColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		record.ID,
		record.UserID,
		record.PlaylistID,
		record.PlaylistName,
		record.RequestedTracks,
		record.AddedTracks,
		string(record.Status),
		record.Error,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert publish record: %w", err)
	}

	return nil
}

// RecordPublish persists the outcome of a publish attempt.
func (r *PublishRepository) RecordPublish(record models.PublishRecord) error {
	return r.Create(&record)
}

// Get retrieves a record by ID
func (r *PublishRepository) Get(id string) (*models.PublishRecord, error) {
	query := `SELECT ` + publishColumns + ` FROM publish_log WHERE id = ?`

	record, err := scanPublish(r.db.QueryRow(query, id))
	if err != nil {
		return nil, notFound(err, "publish record", id)
	}
	return record, nil
}

// List returns records newest first, filtered by status when it is non-empty.
// A limit of zero or less returns every match.
func (r *PublishRepository) List(status models.PublishStatus, limit int) ([]*models.PublishRecord, error) {
	query := `SELECT ` + publishColumns + ` FROM publish_log`
	args := []any{}

	if status != "" {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown publish status %q", shared.ErrInvalidArgument, status)
		}
		query += " WHERE status = ?"
		args = append(args, string(status))
	}

	query += " ORDER BY created_at DESC, id ASC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query publish records: %w", err)
	}
	defer rows.Close()

	records := []*models.PublishRecord{}
	for rows.Next() {
		record, err := scanPublish(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan publish record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// CountByStatus tallies records per status.
func (r *PublishRepository) CountByStatus() (map[models.PublishStatus]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM publish_log GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count publish records: %w", err)
	}
	defer rows.Close()

	counts := map[models.PublishStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[models.PublishStatus(status)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return counts, nil
}

func scanPublish(row rowScanner) (*models.PublishRecord, error) {
	var (
		record models.PublishRecord
		status string
	)

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.PlaylistID,
		&record.PlaylistName,
		&record.RequestedTracks,
		&record.AddedTracks,
		&status,
		&record.Error,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Status = models.PublishStatus(status)
	return &record, nil
}
