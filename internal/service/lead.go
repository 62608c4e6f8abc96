package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadengine/internal/model"
	"leadengine/internal/repository"
	"leadengine/internal/scoring"
	"leadengine/internal/storage"
)

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrDuplicateLead   = errors.New("lead already exists")
	ErrInvalidSource   = errors.New("unknown lead source")
	ErrInvalidStatus   = errors.New("unknown lead status")
	ErrLeadNameMissing = errors.New("a name, username or email is required")
)

const exportURLExpiry = 15 * time.Minute

// LeadInput carries the fields accepted when creating a lead.
type LeadInput struct {
	Name          string
	Email         string
	Username      string
	ProfileURL    string
	Source        model.LeadSource
	Content       string
	ContactMethod string
}

// LeadUpdate carries mutable lead fields. Nil pointers leave the stored
// value unchanged.
type LeadUpdate struct {
	Name          *string
	Email         *string
	Status        *model.LeadStatus
	ContactMethod *string
}

// LeadListResult is the service-level DTO for paginated leads.
type LeadListResult struct {
	Items []model.Lead `json:"data"`
	Total int          `json:"total"`
}

// ImportResult summarizes a bulk CSV import. Leads holds the created
// records; Errors holds one entry per skipped row.
type ImportResult struct {
	Imported int          `json:"imported"`
	Skipped  int          `json:"skipped"`
	Leads    []model.Lead `json:"leads"`
	Errors   []string     `json:"errors,omitempty"`
}

// ExportResult carries the presigned download link for a CSV export.
type ExportResult struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Count     int       `json:"count"`
}

// LeadService defines the lead lifecycle use cases. Every operation is
// scoped to the owning user.
type LeadService interface {
	// Create scores and stores a new lead, rejecting duplicates.
	Create(ctx context.Context, userID string, in LeadInput) (*model.Lead, error)

	// List returns a filtered page of the owner's leads.
	List(ctx context.Context, userID string, f repository.LeadFilter, limit, offset int) (*LeadListResult, error)

	// Get returns a single lead by ID.
	Get(ctx context.Context, userID, id string) (*model.Lead, error)

	// Update applies a partial update; marking a lead converted stamps
	// converted_at.
	Update(ctx context.Context, userID, id string, in LeadUpdate) (*model.Lead, error)

	// Delete removes a lead.
	Delete(ctx context.Context, userID, id string) error

	// Import reads a CSV stream and creates one lead per row, skipping
	// duplicates and rows with no usable identity.
	Import(ctx context.Context, userID string, r io.Reader) (*ImportResult, error)

	// Export writes the owner's leads to object storage as CSV and returns
	// a time-limited download URL.
	Export(ctx context.Context, userID string) (*ExportResult, error)
}

type leadService struct {
	leads repository.LeadRepository
	store storage.Storage
	now   func() time.Time
}

// NewLeadService constructs a new LeadService.
func NewLeadService(leads repository.LeadRepository, store storage.Storage) LeadService {
	return &leadService{leads: leads, store: store, now: time.Now}
}

func (s *leadService) Create(ctx context.Context, userID string, in LeadInput) (*model.Lead, error) {
	l, err := s.buildLead(userID, in)
	if err != nil {
		return nil, err
	}

	if _, err := s.leads.FindDuplicate(ctx, userID, l); err == nil {
		return nil, ErrDuplicateLead
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}

	return s.leads.Create(ctx, l)
}

// buildLead validates the input and runs the intent scorer.
func (s *leadService) buildLead(userID string, in LeadInput) (*model.Lead, error) {
	if in.Source == "" {
		in.Source = model.SourceManual
	}
	if !in.Source.Valid() {
		return nil, ErrInvalidSource
	}
	if strings.TrimSpace(in.Name) == "" && strings.TrimSpace(in.Username) == "" && strings.TrimSpace(in.Email) == "" {
		return nil, ErrLeadNameMissing
	}

	analysis := scoring.AnalyzeLead(in.Content)

	return &model.Lead{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Username:      strings.TrimSpace(in.Username),
		ProfileURL:    strings.TrimSpace(in.ProfileURL),
		Source:        in.Source,
		Status:        model.LeadNew,
		Content:       in.Content,
		IntentScore:   analysis.IntentScore,
		QualityGrade:  analysis.QualityGrade,
		Interests:     analysis.Interests,
		PainPoints:    analysis.PainPoints,
		Summary:       analysis.Summary,
		ContactMethod: in.ContactMethod,
		CreatedAt:     s.now().UTC(),
	}, nil
}

func (s *leadService) List(ctx context.Context, userID string, f repository.LeadFilter, limit, offset int) (*LeadListResult, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if f.Source != "" && !f.Source.Valid() {
		return nil, ErrInvalidSource
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.leads.List(ctx, userID, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &LeadListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *leadService) Get(ctx context.Context, userID, id string) (*model.Lead, error) {
	l, err := s.leads.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *leadService) Update(ctx context.Context, userID, id string, in LeadUpdate) (*model.Lead, error) {
	l, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		l.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		l.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.ContactMethod != nil {
		l.ContactMethod = *in.ContactMethod
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		if *in.Status == model.LeadConverted && l.Status != model.LeadConverted {
			now := s.now().UTC()
			l.ConvertedAt = &now
		}
		l.Status = *in.Status
	}

	return s.leads.Update(ctx, l)
}

func (s *leadService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.leads.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLeadNotFound
	}
	return nil
}

// Import accepts a header row of name,email,username,profile_url,source,content
// in any column order. Unknown columns are ignored.
func (s *leadService) Import(ctx context.Context, userID string, r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	res := &ImportResult{Leads: make([]model.Lead, 0)}
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		source := model.LeadSource(field(rec, "source"))
		if source == "" || !source.Valid() {
			source = model.SourceImport
		}
		l, err := s.Create(ctx, userID, LeadInput{
			Name:       field(rec, "name"),
			Email:      field(rec, "email"),
			Username:   field(rec, "username"),
			ProfileURL: field(rec, "profile_url"),
			Source:     source,
			Content:    field(rec, "content"),
		})
		switch {
		case err == nil:
			res.Imported++
			res.Leads = append(res.Leads, *l)
		case errors.Is(err, ErrDuplicateLead) || errors.Is(err, ErrLeadNameMissing):
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", row, err))
		default:
			return nil, err
		}
	}
}

func (s *leadService) Export(ctx context.Context, userID string) (*ExportResult, error) {
	leads, err := s.leads.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"id", "name", "email", "username", "profile_url", "source", "status", "intent_score", "quality_grade", "summary", "created_at"})
	for _, l := range leads {
		w.Write([]string{
			l.ID,
			l.Name,
			l.Email,
			l.Username,
			l.ProfileURL,
			string(l.Source),
			string(l.Status),
			strconv.FormatFloat(l.IntentScore, 'f', 2, 64),
			l.QualityGrade,
			l.Summary,
			l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.csv", userID, uuid.New().String())
	if _, err := s.store.Put(ctx, key, &buf, storage.PutObjectOptions{
		Size:        int64(buf.Len()),
		ContentType: "text/csv",
	}); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key, exportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}
	return &ExportResult{URL: url, ExpiresAt: s.now().UTC().Add(exportURLExpiry), Count: len(leads)}, nil
}
