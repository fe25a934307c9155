package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ads_platform_backend/models"
	"ads_platform_backend/store"
)

// Postgres error codes the store translates.
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// Store implements store.Storage on PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ store.Storage = (*Store)(nil)

// New wraps an open lib/pq connection.
func New(db *sql.DB) *Store {
	return &Store{db: sqlx.NewDb(db, "postgres")}
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w", pqErr.Constraint, store.ErrNotFound)
		case uniqueViolation:
			return fmt.Errorf("%s: %w", pqErr.Constraint, store.ErrConflict)
		}
	}
	return err
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// escapeLike escapes LIKE metacharacters so the query matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// === Users ===

func (s *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO users (username, first_name, last_name, email, phone, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		user.Username, user.FirstName, user.LastName, user.Email, user.Phone, string(user.Role), user.PasswordHash,
	)
	if err != nil {
		return nil, translate(err)
	}
	return row.toModel(), nil
}

func (s *Store) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var row userRow
	if err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		return nil, translate(err)
	}
	return row.toModel(), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var row userRow
	if err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username); err != nil {
		return nil, translate(err)
	}
	return row.toModel(), nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		UPDATE users SET first_name = $1, last_name = $2, phone = $3
		WHERE id = $4
		RETURNING `+userColumns,
		user.FirstName, user.LastName, user.Phone, user.ID,
	)
	if err != nil {
		return nil, translate(err)
	}
	return row.toModel(), nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return translate(err)
	}
	return expectOneRow(res)
}

// === Ads ===

func (s *Store) CreateAd(ctx context.Context, ad *models.Ad) (*models.Ad, error) {
	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ads (author_id, title, price, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, ad.AuthorID, ad.Title, ad.Price, ad.Description).Scan(&id)
	if err != nil {
		return nil, translate(err)
	}
	return s.GetAd(ctx, id)
}

func (s *Store) GetAd(ctx context.Context, id int) (*models.Ad, error) {
	var row adRow
	if err := s.db.GetContext(ctx, &row, adSelect+` WHERE a.id = $1`, id); err != nil {
		return nil, translate(err)
	}
	return row.toModel(), nil
}

func (s *Store) ListAds(ctx context.Context) ([]*models.Ad, error) {
	return s.selectAds(ctx, adSelect+` ORDER BY a.id`)
}

func (s *Store) ListAdsByAuthor(ctx context.Context, authorID int) ([]*models.Ad, error) {
	return s.selectAds(ctx, adSelect+` WHERE a.author_id = $1 ORDER BY a.id`, authorID)
}

func (s *Store) SearchAdsByTitle(ctx context.Context, query string) ([]*models.Ad, error) {
	return s.selectAds(ctx, adSelect+` WHERE a.title ILIKE '%' || $1 || '%' ESCAPE '\' ORDER BY a.id`, escapeLike(query))
}

func (s *Store) selectAds(ctx context.Context, query string, args ...interface{}) ([]*models.Ad, error) {
	var rows []adRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, translate(err)
	}
	ads := make([]*models.Ad, 0, len(rows))
	for _, r := range rows {
		ads = append(ads, r.toModel())
	}
	return ads, nil
}

func (s *Store) UpdateAd(ctx context.Context, ad *models.Ad) (*models.Ad, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ads SET title = $1, price = $2, description = $3
		WHERE id = $4
	`, ad.Title, ad.Price, ad.Description, ad.ID)
	if err != nil {
		return nil, translate(err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, err
	}
	return s.GetAd(ctx, ad.ID)
}

// DeleteAd relies on ON DELETE CASCADE for comments and images.
func (s *Store) DeleteAd(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	return expectOneRow(res)
}

// === Comments ===

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ads_comments (ad_id, author_id, text, created_at)
		VALUES ($1, $2, $3, COALESCE($4::timestamptz, NOW()))
		RETURNING id
	`, comment.AdID, comment.AuthorID, comment.Text, nullTime(comment)).Scan(&id)
	if err != nil {
		return nil, translate(err)
	}
	return s.GetComment(ctx, comment.AdID, id)
}

func nullTime(c *models.Comment) sql.NullTime {
	return sql.NullTime{Time: c.CreatedAt, Valid: !c.CreatedAt.IsZero()}
}

func (s *Store) GetComment(ctx context.Context, adID, id int) (*models.Comment, error) {
	var row commentRow
	if err := s.db.GetContext(ctx, &row, commentSelect+` WHERE c.id = $1 AND c.ad_id = $2`, id, adID); err != nil {
		return nil, translate(err)
	}
	return row.toModel(), nil
}

func (s *Store) ListComments(ctx context.Context, adID int) ([]*models.Comment, error) {
	var rows []commentRow
	if err := s.db.SelectContext(ctx, &rows, commentSelect+` WHERE c.ad_id = $1 ORDER BY c.id`, adID); err != nil {
		return nil, translate(err)
	}
	comments := make([]*models.Comment, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, r.toModel())
	}
	return comments, nil
}

func (s *Store) UpdateCommentText(ctx context.Context, adID, id int, text string) (*models.Comment, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE ads_comments SET text = $1 WHERE id = $2 AND ad_id = $3`, text, id, adID)
	if err != nil {
		return nil, translate(err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, err
	}
	return s.GetComment(ctx, adID, id)
}

func (s *Store) DeleteComment(ctx context.Context, adID, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ads_comments WHERE id = $1 AND ad_id = $2`, id, adID)
	if err != nil {
		return translate(err)
	}
	return expectOneRow(res)
}

// === Images ===

func (s *Store) AddImage(ctx context.Context, image *models.Image) (*models.Image, error) {
	out := &models.Image{AdID: image.AdID, MediaType: image.MediaType}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ads_images (ad_id, media_type, data)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, image.AdID, image.MediaType, image.Data).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) GetLatestImage(ctx context.Context, adID int) (*models.Image, error) {
	var row imageRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, ad_id, media_type, data, created_at
		FROM ads_images
		WHERE ad_id = $1
		ORDER BY id DESC
		LIMIT 1
	`, adID)
	if err != nil {
		return nil, translate(err)
	}
	return &models.Image{
		ID:        row.ID,
		AdID:      row.AdID,
		MediaType: row.MediaType,
		Data:      row.Data,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
