package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hyvewyre/lead-api/internal/entity"
)

const leadColumns = `id, user_id, first_name, last_name, phone, COALESCE(email, ''), COALESCE(state, ''),
	COALESCE(zip_code, ''), tags, status, disposition, score, campaign_id, ai_enabled,
	last_interaction_at, created_at, updated_at`

// Tag array expressions. Merging keeps first-seen order; removal ignores case.
const (
	mergeTagsSQL  = `ARRAY(SELECT t FROM unnest(%s || %s) WITH ORDINALITY AS u(t, n) GROUP BY t ORDER BY MIN(n))`
	removeTagsSQL = `ARRAY(SELECT t FROM unnest(%s) AS t WHERE lower(t) <> ALL(SELECT lower(x) FROM unnest(%s) AS x))`
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(s rowScanner) (*entity.Lead, error) {
	var (
		l          entity.Lead
		status     string
		disp       string
		score      sql.NullInt64
		campaignID sql.NullString
		lastAt     sql.NullTime
	)
	err := s.Scan(&l.ID, &l.UserID, &l.FirstName, &l.LastName, &l.Phone, &l.Email, &l.State,
		&l.ZipCode, pq.Array(&l.Tags), &status, &disp, &score, &campaignID, &l.AIEnabled,
		&lastAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Status = entity.LeadStatus(status)
	l.Disposition = entity.Disposition(disp)
	if l.Tags == nil {
		l.Tags = []string{}
	}
	if score.Valid {
		v := int(score.Int64)
		l.Score = &v
	}
	if campaignID.Valid {
		v := campaignID.String
		l.CampaignID = &v
	}
	if lastAt.Valid {
		v := lastAt.Time
		l.LastInteractionAt = &v
	}
	return &l, nil
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (id, user_id, first_name, last_name, phone, email, state, zip_code,
			tags, status, disposition, score, campaign_id, ai_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.DB.ExecContext(ctx, query,
		l.ID, l.UserID, l.FirstName, l.LastName, l.Phone,
		nullString(l.Email), nullString(l.State), nullString(l.ZipCode),
		pq.Array(l.Tags), l.Status, l.Disposition, l.Score, l.CampaignID, l.AIEnabled,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrLeadAlreadyExists
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, userID, id string) (*entity.Lead, error) {
	if !validID(id) {
		return nil, entity.ErrLeadNotFound
	}
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE user_id = $1 AND id = $2`, userID, id)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	return l, err
}

func (r *LeadRepository) FindByPhone(ctx context.Context, userID, phone string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE user_id = $1 AND phone = $2`, userID, phone)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	return l, err
}

func (r *LeadRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	if !validID(l.ID) {
		return entity.ErrLeadNotFound
	}
	query := `
		UPDATE leads SET
			first_name = $3, last_name = $4, phone = $5, email = $6, state = $7, zip_code = $8,
			tags = $9, status = $10, disposition = $11, campaign_id = $12, ai_enabled = $13,
			updated_at = $14
		WHERE user_id = $1 AND id = $2
	`
	res, err := r.DB.ExecContext(ctx, query,
		l.UserID, l.ID, l.FirstName, l.LastName, l.Phone,
		nullString(l.Email), nullString(l.State), nullString(l.ZipCode),
		pq.Array(l.Tags), l.Status, l.Disposition, l.CampaignID, l.AIEnabled, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrLeadAlreadyExists
		}
		return fmt.Errorf("update lead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return entity.ErrLeadNotFound
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// BulkUpsert inserts leads in one transaction. On a (user_id, phone) conflict
// non-empty imported values win, tags are merged and status is kept.
func (r *LeadRepository) BulkUpsert(ctx context.Context, userID string, leads []*entity.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer rollback(tx)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO leads (id, user_id, first_name, last_name, phone, email, state, zip_code,
			tags, status, campaign_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (user_id, phone) DO UPDATE SET
			first_name  = COALESCE(NULLIF(EXCLUDED.first_name, ''), leads.first_name),
			last_name   = COALESCE(NULLIF(EXCLUDED.last_name, ''), leads.last_name),
			email       = COALESCE(EXCLUDED.email, leads.email),
			state       = COALESCE(EXCLUDED.state, leads.state),
			zip_code    = COALESCE(EXCLUDED.zip_code, leads.zip_code),
			tags        = `+fmt.Sprintf(mergeTagsSQL, "leads.tags", "EXCLUDED.tags")+`,
			campaign_id = COALESCE(EXCLUDED.campaign_id, leads.campaign_id),
			updated_at  = EXCLUDED.updated_at
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	total := 0
	for _, l := range leads {
		res, err := stmt.ExecContext(ctx,
			l.ID, userID, l.FirstName, l.LastName, l.Phone,
			nullString(l.Email), nullString(l.State), nullString(l.ZipCode),
			pq.Array(l.Tags), l.Status, l.CampaignID, now,
		)
		if err != nil {
			return 0, fmt.Errorf("upsert lead %s: %w", l.Phone, err)
		}
		n, _ := res.RowsAffected()
		total += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

// bulkExec runs an UPDATE/DELETE scoped to userID ($1) and ids ($2).
func (r *LeadRepository) bulkExec(ctx context.Context, query, userID string, ids []string, args ...any) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	all := append([]any{userID, pq.Array(ids)}, args...)
	res, err := r.DB.ExecContext(ctx, query, all...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

const bulkScope = ` WHERE user_id = $1 AND id = ANY($2::uuid[])`

func (r *LeadRepository) BulkSetStatus(ctx context.Context, userID string, ids []string, status entity.LeadStatus) (int, error) {
	return r.bulkExec(ctx, `UPDATE leads SET status = $3, updated_at = NOW()`+bulkScope, userID, ids, status)
}

func (r *LeadRepository) BulkSetDisposition(ctx context.Context, userID string, ids []string, d entity.Disposition) (int, error) {
	return r.bulkExec(ctx, `UPDATE leads SET disposition = $3, updated_at = NOW()`+bulkScope, userID, ids, d)
}

func (r *LeadRepository) BulkAddTags(ctx context.Context, userID string, ids, tags []string) (int, error) {
	q := `UPDATE leads SET tags = ` + fmt.Sprintf(mergeTagsSQL, "tags", "$3::text[]") + `, updated_at = NOW()` + bulkScope
	return r.bulkExec(ctx, q, userID, ids, pq.Array(tags))
}

func (r *LeadRepository) BulkRemoveTags(ctx context.Context, userID string, ids, tags []string) (int, error) {
	q := `UPDATE leads SET tags = ` + fmt.Sprintf(removeTagsSQL, "tags", "$3::text[]") + `, updated_at = NOW()` + bulkScope
	return r.bulkExec(ctx, q, userID, ids, pq.Array(tags))
}

// BulkReplaceTags removes then adds in a single statement.
func (r *LeadRepository) BulkReplaceTags(ctx context.Context, userID string, ids, remove, add []string) (int, error) {
	removed := fmt.Sprintf(removeTagsSQL, "tags", "$3::text[]")
	q := `UPDATE leads SET tags = ` + fmt.Sprintf(mergeTagsSQL, removed, "$4::text[]") + `, updated_at = NOW()` + bulkScope
	return r.bulkExec(ctx, q, userID, ids, pq.Array(remove), pq.Array(add))
}

// BulkReDrip moves leads into a campaign and restarts its drip sequence.
func (r *LeadRepository) BulkReDrip(ctx context.Context, userID, campaignID string, ids []string) (int, error) {
	q := `UPDATE leads SET campaign_id = $3, drip_step = 0, drip_next_at = NOW(), updated_at = NOW()` + bulkScope
	return r.bulkExec(ctx, q, userID, ids, campaignID)
}

func (r *LeadRepository) BulkSetAIEnabled(ctx context.Context, userID string, ids []string, enabled bool) (int, error) {
	return r.bulkExec(ctx, `UPDATE leads SET ai_enabled = $3, updated_at = NOW()`+bulkScope, userID, ids, enabled)
}

func (r *LeadRepository) BulkDelete(ctx context.Context, userID string, ids []string) (int, error) {
	return r.bulkExec(ctx, `DELETE FROM leads`+bulkScope, userID, ids)
}

func (r *LeadRepository) UpdateScores(ctx context.Context, userID string, scores map[string]int) (int, error) {
	if len(scores) == 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer rollback(tx)

	stmt, err := tx.PrepareContext(ctx, `UPDATE leads SET score = $3 WHERE user_id = $1 AND id = $2`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	total := 0
	for id, score := range scores {
		res, err := stmt.ExecContext(ctx, userID, id, score)
		if err != nil {
			return 0, fmt.Errorf("update score %s: %w", id, err)
		}
		n, _ := res.RowsAffected()
		total += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}
