package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"holoframe-backend/internal/models"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrInsufficientCredit = errors.New("insufficient credit")
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// NewDatabaseClientFromDB wraps an existing handle.
func NewDatabaseClientFromDB(db *sql.DB) *DatabaseClient {
	return &DatabaseClient{db: db}
}

func (d *DatabaseClient) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DatabaseClient) DB() *sql.DB {
	return d.db
}

func (d *DatabaseClient) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := d.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(nickname, ''), credit
		FROM profiles
		WHERE id = $1
	`, userID).Scan(&p.ID, &p.Nickname, &p.Credit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

// DeductCredit takes amount from the profile only when the balance covers
// it, and records the charge in the same transaction. It returns the new
// balance, or ErrInsufficientCredit when no row qualified. A non-empty
// reference is charged at most once; repeating it returns the current
// balance untouched.
func (d *DatabaseClient) DeductCredit(ctx context.Context, userID uuid.UUID, amount int, reference string) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO credit_ledger (id, user_id, amount, status, reference)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (reference) WHERE status = 'charged' AND reference <> '' DO NOTHING
	`, uuid.New(), userID, amount, models.LedgerStatusCharged, reference)
	if err != nil {
		return 0, fmt.Errorf("failed to write credit ledger: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var balance int
		err := tx.QueryRowContext(ctx, `SELECT credit FROM profiles WHERE id = $1`, userID).Scan(&balance)
		if err != nil {
			return 0, fmt.Errorf("failed to read credit: %w", err)
		}
		return balance, nil
	}

	var balance int
	err = tx.QueryRowContext(ctx, `
		UPDATE profiles
		SET credit = credit - $1
		WHERE id = $2 AND credit >= $1
		RETURNING credit
	`, amount, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInsufficientCredit
	}
	if err != nil {
		return 0, fmt.Errorf("failed to deduct credit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit credit deduction: %w", err)
	}
	return balance, nil
}

// RecordUnreconciledCharge notes a delivered video whose charge failed.
func (d *DatabaseClient) RecordUnreconciledCharge(ctx context.Context, userID uuid.UUID, amount int, reference, reason string) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO credit_ledger (id, user_id, amount, status, reference, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), userID, amount, models.LedgerStatusUnreconciled, reference, reason)
	if err != nil {
		return fmt.Errorf("failed to record unreconciled charge: %w", err)
	}
	return nil
}

func (d *DatabaseClient) NicknamesByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, COALESCE(nickname, '')
		FROM profiles
		WHERE id = ANY($1::uuid[])
	`, pq.Array(strs))
	if err != nil {
		return nil, fmt.Errorf("failed to load nicknames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       uuid.UUID
			nickname string
		)
		if err := rows.Scan(&id, &nickname); err != nil {
			return nil, fmt.Errorf("failed to scan nickname: %w", err)
		}
		out[id] = nickname
	}
	return out, rows.Err()
}

const hologramColumns = `h.id, h.user_id, COALESCE(h.title, ''), COALESCE(h.description, ''), h.original_image_url,
		h.background_removed_image_url, h.video_url, h.platform, h.hologram_type, h.user_prompt,
		h.created_at, h.updated_at`

func (d *DatabaseClient) CreateHologram(ctx context.Context, h *models.Hologram) (*models.Hologram, error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}

	var out models.Hologram
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO holograms AS h (id, user_id, title, description, original_image_url,
			background_removed_image_url, video_url, platform, hologram_type, user_prompt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+hologramColumns,
		h.ID, h.UserID, h.Title, h.Description, h.OriginalImageURL,
		h.BackgroundRemovedImageURL, h.VideoURL, h.Platform, h.HologramType, h.UserPrompt,
	).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.OriginalImageURL,
		&out.BackgroundRemovedImageURL, &out.VideoURL, &out.Platform, &out.HologramType, &out.UserPrompt,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create hologram: %w", err)
	}

	return &out, nil
}

// ListHolograms returns the newest holograms, optionally only one user's,
// with the owner's nickname joined in.
func (d *DatabaseClient) ListHolograms(ctx context.Context, userID uuid.NullUUID, limit int) ([]models.Hologram, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT `+hologramColumns+`, p.nickname
		FROM holograms h
		LEFT JOIN profiles p ON p.id = h.user_id
		WHERE ($1::uuid IS NULL OR h.user_id = $1)
		ORDER BY h.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list holograms: %w", err)
	}
	defer rows.Close()

	holograms := []models.Hologram{}
	for rows.Next() {
		var h models.Hologram
		err := rows.Scan(
			&h.ID, &h.UserID, &h.Title, &h.Description, &h.OriginalImageURL,
			&h.BackgroundRemovedImageURL, &h.VideoURL, &h.Platform, &h.HologramType, &h.UserPrompt,
			&h.CreatedAt, &h.UpdatedAt, &h.Nickname,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hologram: %w", err)
		}
		holograms = append(holograms, h)
	}

	return holograms, rows.Err()
}

const jobColumns = `id, user_id, operation_name, platform, status, prompt, hologram_type,
		title, description, original_image_url, source_image_url, video_url, error_message,
		polls, created_at, updated_at`

func scanJob(row interface{ Scan(...interface{}) error }) (*models.GenerationJob, error) {
	var j models.GenerationJob
	err := row.Scan(
		&j.ID, &j.UserID, &j.OperationName, &j.Platform, &j.Status, &j.Prompt, &j.HologramType,
		&j.Title, &j.Description, &j.OriginalImageURL, &j.SourceImageURL, &j.VideoURL, &j.ErrorMessage,
		&j.Polls, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (d *DatabaseClient) CreateJob(ctx context.Context, job *models.GenerationJob) (*models.GenerationJob, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = models.JobStatusSubmitted
	}

	row := d.db.QueryRowContext(ctx, `
		INSERT INTO generation_jobs (id, user_id, operation_name, platform, status, prompt, hologram_type,
			title, description, original_image_url, source_image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+jobColumns,
		job.ID, job.UserID, job.OperationName, job.Platform, job.Status, job.Prompt, job.HologramType,
		job.Title, job.Description, job.OriginalImageURL, job.SourceImageURL,
	)
	out, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return out, nil
}

func (d *DatabaseClient) GetJobByOperation(ctx context.Context, operationName string) (*models.GenerationJob, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+`
		FROM generation_jobs
		WHERE operation_name = $1
	`, operationName)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListPendingJobs returns submitted or processing jobs, oldest first.
func (d *DatabaseClient) ListPendingJobs(ctx context.Context, limit int) ([]models.GenerationJob, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM generation_jobs
		WHERE status IN ('submitted', 'processing')
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.GenerationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// IncrementJobPolls bumps the poll count of a still pending job. A job that
// another worker has claimed or finished yields ErrNotFound.
func (d *DatabaseClient) IncrementJobPolls(ctx context.Context, jobID uuid.UUID) (int, error) {
	var polls int
	err := d.db.QueryRowContext(ctx, `
		UPDATE generation_jobs
		SET polls = polls + 1, status = 'processing', updated_at = NOW()
		WHERE id = $1 AND status IN ('submitted', 'processing')
		RETURNING polls
	`, jobID).Scan(&polls)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update job polls: %w", err)
	}
	return polls, nil
}

// ClaimJob moves a pending job to materializing. It reports false when the
// job was no longer pending, meaning another worker owns it.
func (d *DatabaseClient) ClaimJob(ctx context.Context, jobID uuid.UUID) (bool, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE generation_jobs
		SET status = 'materializing', updated_at = NOW()
		WHERE id = $1 AND status IN ('submitted', 'processing')
	`, jobID)
	if err != nil {
		return false, fmt.Errorf("failed to claim job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to claim job: %w", err)
	}
	return n == 1, nil
}

func (d *DatabaseClient) MarkJobSucceeded(ctx context.Context, jobID uuid.UUID, videoURL string) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE generation_jobs
		SET status = 'succeeded', video_url = $1, updated_at = NOW()
		WHERE id = $2
	`, videoURL, jobID)
	return err
}

// MarkJobFailed moves a job to a terminal failure status (failed or timed_out).
func (d *DatabaseClient) MarkJobFailed(ctx context.Context, jobID uuid.UUID, status, message string) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE generation_jobs
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3
	`, status, message, jobID)
	return err
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
