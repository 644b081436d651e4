package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/hyvewyre/lead-api/internal/entity"
)

// DNCRepository stores the list and its append-only history. Every list
// mutation writes its history row in the same transaction.
type DNCRepository struct {
	DB *sql.DB
}

func NewDNCRepository(db *sql.DB) *DNCRepository {
	return &DNCRepository{DB: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertHistory(ctx context.Context, ex execer, entries ...*entity.DNCHistoryEntry) error {
	for _, h := range entries {
		meta := h.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		raw, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if _, err := ex.ExecContext(ctx, `
			INSERT INTO dnc_history (id, user_id, phone_number, action, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, h.ID, h.UserID, h.PhoneNumber, h.Action, raw, h.CreatedAt); err != nil {
			return fmt.Errorf("insert dnc history: %w", err)
		}
	}
	return nil
}

func insertEntry(ctx context.Context, ex execer, e *entity.DNCEntry, onConflictSkip bool) (bool, error) {
	q := `
		INSERT INTO dnc_entries (id, user_id, phone_number, normalized_phone, reason, source, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if onConflictSkip {
		q += ` ON CONFLICT (user_id, normalized_phone) DO NOTHING`
	}
	res, err := ex.ExecContext(ctx, q, e.ID, e.UserID, e.PhoneNumber, e.NormalizedPhone,
		e.Reason, e.Source, nullString(e.Notes), e.CreatedAt)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func addedHistory(e *entity.DNCEntry) *entity.DNCHistoryEntry {
	return entity.NewDNCHistoryEntry(e.UserID, e.NormalizedPhone, entity.DNCActionAdded, map[string]string{
		"reason": string(e.Reason),
		"source": e.Source,
	})
}

func (r *DNCRepository) Add(ctx context.Context, e *entity.DNCEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	if _, err := insertEntry(ctx, tx, e, false); err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDNCExists
		}
		return fmt.Errorf("insert dnc entry: %w", err)
	}
	if err := insertHistory(ctx, tx, addedHistory(e)); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *DNCRepository) BulkAdd(ctx context.Context, userID string, entries []*entity.DNCEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer rollback(tx)

	added := 0
	for _, e := range entries {
		e.UserID = userID
		ok, err := insertEntry(ctx, tx, e, true)
		if err != nil {
			return 0, fmt.Errorf("insert dnc entry %s: %w", e.NormalizedPhone, err)
		}
		if !ok {
			continue
		}
		if err := insertHistory(ctx, tx, addedHistory(e)); err != nil {
			return 0, err
		}
		added++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

func (r *DNCRepository) Remove(ctx context.Context, userID, normalizedPhone string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	var reason string
	err = tx.QueryRowContext(ctx, `
		DELETE FROM dnc_entries WHERE user_id = $1 AND normalized_phone = $2
		RETURNING reason
	`, userID, normalizedPhone).Scan(&reason)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrDNCNotFound
	}
	if err != nil {
		return err
	}

	h := entity.NewDNCHistoryEntry(userID, normalizedPhone, entity.DNCActionRemoved, map[string]string{"reason": reason})
	if err := insertHistory(ctx, tx, h); err != nil {
		return err
	}
	return tx.Commit()
}

const dncColumns = `id, user_id, phone_number, normalized_phone, reason, source, COALESCE(notes, ''), created_at`

func scanDNC(s rowScanner) (*entity.DNCEntry, error) {
	var (
		e      entity.DNCEntry
		reason string
	)
	if err := s.Scan(&e.ID, &e.UserID, &e.PhoneNumber, &e.NormalizedPhone, &reason, &e.Source, &e.Notes, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Reason = entity.DNCReason(reason)
	return &e, nil
}

func (r *DNCRepository) FindByPhone(ctx context.Context, userID, normalizedPhone string) (*entity.DNCEntry, error) {
	e, err := scanDNC(r.DB.QueryRowContext(ctx,
		`SELECT `+dncColumns+` FROM dnc_entries WHERE user_id = $1 AND normalized_phone = $2`, userID, normalizedPhone))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrDNCNotFound
	}
	return e, err
}

func (r *DNCRepository) ContainsAny(ctx context.Context, userID string, phones []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(phones) == 0 {
		return out, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT normalized_phone FROM dnc_entries WHERE user_id = $1 AND normalized_phone = ANY($2::text[])`,
		userID, pq.Array(phones))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = true
	}
	return out, rows.Err()
}

func (r *DNCRepository) List(ctx context.Context, userID, search string, limit, offset int) ([]*entity.DNCEntry, int, error) {
	where := ` WHERE user_id = $1`
	args := []any{userID}
	if search != "" {
		where += ` AND (phone_number ILIKE $2 OR normalized_phone ILIKE $2 OR notes ILIKE $2)`
		args = append(args, "%"+escapeLike(search)+"%")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM dnc_entries`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf(`SELECT %s FROM dnc_entries%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		dncColumns, where, len(args)+1, len(args)+2)
	rows, err := r.DB.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*entity.DNCEntry{}
	for rows.Next() {
		e, err := scanDNC(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *DNCRepository) History(ctx context.Context, f entity.DNCHistoryFilter) ([]*entity.DNCHistoryEntry, int, error) {
	where, args := historyWhere(f)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM dnc_history`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf(`SELECT id, user_id, phone_number, action, metadata, created_at FROM dnc_history%s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.DB.QueryContext(ctx, q, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*entity.DNCHistoryEntry{}
	for rows.Next() {
		var (
			h      entity.DNCHistoryEntry
			action string
			raw    []byte
		)
		if err := rows.Scan(&h.ID, &h.UserID, &h.PhoneNumber, &action, &raw, &h.CreatedAt); err != nil {
			return nil, 0, err
		}
		h.Action = entity.DNCAction(action)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &h.Metadata); err != nil {
				return nil, 0, fmt.Errorf("decode history metadata: %w", err)
			}
		}
		out = append(out, &h)
	}
	return out, total, rows.Err()
}

func historyWhere(f entity.DNCHistoryFilter) (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{f.UserID}
	if f.Action != "" {
		args = append(args, string(f.Action))
		clauses = append(clauses, fmt.Sprintf("action = $%d", len(args)))
	}
	if f.Phone != "" {
		args = append(args, "%"+escapeLike(f.Phone)+"%")
		clauses = append(clauses, fmt.Sprintf("phone_number ILIKE $%d", len(args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *DNCRepository) AppendHistory(ctx context.Context, entries ...*entity.DNCHistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	if err := insertHistory(ctx, tx, entries...); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *DNCRepository) Stats(ctx context.Context, userID string, since time.Time) (*entity.DNCStats, error) {
	st := &entity.DNCStats{ByReason: map[entity.DNCReason]int{}}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT reason, COUNT(*), COUNT(*) FILTER (WHERE created_at >= $2)
		FROM dnc_entries WHERE user_id = $1 GROUP BY reason
	`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			reason       string
			count, fresh int
		)
		if err := rows.Scan(&reason, &count, &fresh); err != nil {
			return nil, err
		}
		st.ByReason[entity.DNCReason(reason)] = count
		st.Total += count
		st.AddedRecently += fresh
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM dnc_history WHERE user_id = $1 AND action = $2 AND created_at >= $3
	`, userID, string(entity.DNCActionBlocked), since).Scan(&st.BlockedRecent)
	if err != nil {
		return nil, err
	}
	return st, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
