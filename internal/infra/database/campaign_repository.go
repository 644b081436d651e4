package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/hyvewyre/lead-api/internal/entity"
)

const campaignSelect = `
	SELECT c.id, c.user_id, c.name, c.tags_applied, c.created_at, c.updated_at,
		(SELECT COUNT(*) FROM leads l WHERE l.campaign_id = c.id) AS lead_count
	FROM campaigns c
`

type CampaignRepository struct {
	DB *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func scanCampaign(s rowScanner) (*entity.Campaign, error) {
	var c entity.Campaign
	if err := s.Scan(&c.ID, &c.UserID, &c.Name, pq.Array(&c.TagsApplied), &c.CreatedAt, &c.UpdatedAt, &c.LeadCount); err != nil {
		return nil, err
	}
	if c.TagsApplied == nil {
		c.TagsApplied = []string{}
	}
	return &c, nil
}

func (r *CampaignRepository) Create(ctx context.Context, c *entity.Campaign) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO campaigns (id, user_id, name, tags_applied, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.UserID, c.Name, pq.Array(c.TagsApplied), c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *CampaignRepository) FindByID(ctx context.Context, userID, id string) (*entity.Campaign, error) {
	if !validID(id) {
		return nil, entity.ErrCampaignNotFound
	}
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, campaignSelect+` WHERE c.user_id = $1 AND c.id = $2`, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCampaignNotFound
	}
	return c, err
}

func (r *CampaignRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Campaign, error) {
	rows, err := r.DB.QueryContext(ctx, campaignSelect+` WHERE c.user_id = $1 ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CampaignRepository) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return entity.ErrCampaignNotFound
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrCampaignNotFound
	}
	return nil
}

type TagRepository struct {
	DB *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{DB: db}
}

// ListByUser aggregates tags over the user's leads, most used first.
func (r *TagRepository) ListByUser(ctx context.Context, userID string) ([]entity.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT t, COUNT(*) FROM leads, unnest(tags) AS t
		WHERE user_id = $1
		GROUP BY t
		ORDER BY COUNT(*) DESC, t ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Tag{}
	for rows.Next() {
		var t entity.Tag
		if err := rows.Scan(&t.Name, &t.LeadCount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
