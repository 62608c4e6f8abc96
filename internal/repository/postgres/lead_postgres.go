package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"leadengine/internal/model"
	"leadengine/internal/repository"
)

// LeadPostgres is a PostgreSQL implementation of repository.LeadRepository.
type LeadPostgres struct {
	db *sql.DB
}

// NewLeadPostgres creates a new LeadPostgres repository.
func NewLeadPostgres(db *sql.DB) *LeadPostgres {
	return &LeadPostgres{db: db}
}

var _ repository.LeadRepository = (*LeadPostgres)(nil)

const leadColumns = `id, user_id, name, email, username, profile_url, source, status, content,
		intent_score, quality_grade, interests, pain_points, summary, contact_method,
		contact_count, last_contacted, converted_at, conversion_value, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (*model.Lead, error) {
	var l model.Lead
	var interests, painPoints []byte
	if err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.Name,
		&l.Email,
		&l.Username,
		&l.ProfileURL,
		&l.Source,
		&l.Status,
		&l.Content,
		&l.IntentScore,
		&l.QualityGrade,
		&interests,
		&painPoints,
		&l.Summary,
		&l.ContactMethod,
		&l.ContactCount,
		&l.LastContacted,
		&l.ConvertedAt,
		&l.ConversionValue,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(interests, &l.Interests); err != nil {
		return nil, fmt.Errorf("decode interests: %w", err)
	}
	if err := json.Unmarshal(painPoints, &l.PainPoints); err != nil {
		return nil, fmt.Errorf("decode pain_points: %w", err)
	}
	return &l, nil
}

func jsonArray(items []string) []byte {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return b
}

// Create inserts a new lead row and returns the stored record.
func (r *LeadPostgres) Create(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	const q = `
		INSERT INTO leads (id, user_id, name, email, username, profile_url, source, status, content,
			intent_score, quality_grade, interests, pain_points, summary, contact_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
		RETURNING ` + leadColumns
	row := r.db.QueryRowContext(ctx, q,
		l.ID,
		l.UserID,
		l.Name,
		l.Email,
		l.Username,
		l.ProfileURL,
		l.Source,
		l.Status,
		l.Content,
		l.IntentScore,
		l.QualityGrade,
		jsonArray(l.Interests),
		jsonArray(l.PainPoints),
		l.Summary,
		l.ContactMethod,
		l.CreatedAt,
	)
	return scanLead(row)
}

// FindByID fetches a single lead by ID, scoped to the owner.
func (r *LeadPostgres) FindByID(ctx context.Context, userID, id string) (*model.Lead, error) {
	const q = `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND user_id = $2`
	return scanLead(r.db.QueryRowContext(ctx, q, id, userID))
}

// FindDuplicate looks up an existing lead by email, or username+source when
// the candidate has no email.
func (r *LeadPostgres) FindDuplicate(ctx context.Context, userID string, l *model.Lead) (*model.Lead, error) {
	if l.Email != "" {
		const q = `SELECT ` + leadColumns + ` FROM leads WHERE user_id = $1 AND email = $2`
		return scanLead(r.db.QueryRowContext(ctx, q, userID, l.Email))
	}
	const q = `SELECT ` + leadColumns + ` FROM leads WHERE user_id = $1 AND username = $2 AND source = $3`
	return scanLead(r.db.QueryRowContext(ctx, q, userID, l.Username, l.Source))
}

// List returns leads matching the filter using LIMIT/OFFSET pagination and a
// total count. Filter conditions are appended as numbered placeholders.
func (r *LeadPostgres) List(ctx context.Context, userID string, f repository.LeadFilter, pq repository.PageQuery) (*repository.PageResult[model.Lead], error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Source != "" {
		args = append(args, f.Source)
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}
	if f.QualityGrade != "" {
		args = append(args, f.QualityGrade)
		where = append(where, fmt.Sprintf("quality_grade = $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int
	qCount := `SELECT COUNT(*) FROM leads WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, pq.Limit, pq.Offset)
	qList := `SELECT ` + leadColumns + ` FROM leads WHERE ` + cond +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Lead]{Items: items, Total: total}, nil
}

// ListAll returns every lead owned by the user, newest first.
func (r *LeadPostgres) ListAll(ctx context.Context, userID string) ([]model.Lead, error) {
	const q = `SELECT ` + leadColumns + ` FROM leads WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

// Update persists mutable lead fields and returns the stored record.
func (r *LeadPostgres) Update(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	const q = `
		UPDATE leads
		SET name = $3, email = $4, username = $5, status = $6, contact_method = $7,
			intent_score = $8, quality_grade = $9, interests = $10, pain_points = $11, summary = $12,
			contact_count = $13, last_contacted = $14, converted_at = $15, conversion_value = $16,
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + leadColumns
	row := r.db.QueryRowContext(ctx, q,
		l.ID,
		l.UserID,
		l.Name,
		l.Email,
		l.Username,
		l.Status,
		l.ContactMethod,
		l.IntentScore,
		l.QualityGrade,
		jsonArray(l.Interests),
		jsonArray(l.PainPoints),
		l.Summary,
		l.ContactCount,
		l.LastContacted,
		l.ConvertedAt,
		l.ConversionValue,
	)
	return scanLead(row)
}

// RecordContact stamps the outreach touch on the lead. A fresh lead moves to
// contacted; responded, converted, and rejected leads keep their status.
func (r *LeadPostgres) RecordContact(ctx context.Context, id string, at time.Time) error {
	const q = `
		UPDATE leads
		SET last_contacted = $2,
			contact_count = contact_count + 1,
			status = CASE WHEN status = 'new' THEN 'contacted' ELSE status END,
			updated_at = now()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, at)
	return err
}

// Delete removes an owner's lead by ID and reports whether a row was deleted.
func (r *LeadPostgres) Delete(ctx context.Context, userID, id string) (bool, error) {
	const q = `DELETE FROM leads WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
