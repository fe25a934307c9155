package postgres

import (
	"database/sql"
	"time"

	"ads_platform_backend/models"
)

const userColumns = `id, username, first_name, last_name, email, phone, role, password_hash, created_at`

type userRow struct {
	ID           int       `db:"id"`
	Username     string    `db:"username"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	Role         string    `db:"role"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Phone:        r.Phone,
		Role:         models.Role(r.Role),
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

// authorRow is the author projection joined onto ads and comments.
type authorRow struct {
	AuthorUsername  string `db:"author_username"`
	AuthorFirstName string `db:"author_first_name"`
	AuthorLastName  string `db:"author_last_name"`
	AuthorEmail     string `db:"author_email"`
	AuthorPhone     string `db:"author_phone"`
	AuthorRole      string `db:"author_role"`
}

func (r authorRow) toModel(id int) models.User {
	return models.User{
		ID:        id,
		Username:  r.AuthorUsername,
		FirstName: r.AuthorFirstName,
		LastName:  r.AuthorLastName,
		Email:     r.AuthorEmail,
		Phone:     r.AuthorPhone,
		Role:      models.Role(r.AuthorRole),
	}
}

const authorColumns = `u.username AS author_username, u.first_name AS author_first_name,
	u.last_name AS author_last_name, u.email AS author_email, u.phone AS author_phone,
	u.role AS author_role`

const adSelect = `
	SELECT a.id, a.title, a.price, a.description, a.author_id, a.created_at,
	` + authorColumns + `,
	(SELECT MAX(i.id) FROM ads_images i WHERE i.ad_id = a.id) AS latest_image_id
	FROM ads a
	JOIN users u ON u.id = a.author_id`

type adRow struct {
	ID            int           `db:"id"`
	Title         string        `db:"title"`
	Price         int           `db:"price"`
	Description   string        `db:"description"`
	AuthorID      int           `db:"author_id"`
	CreatedAt     time.Time     `db:"created_at"`
	LatestImageID sql.NullInt64 `db:"latest_image_id"`
	authorRow
}

func (r adRow) toModel() *models.Ad {
	ad := &models.Ad{
		ID:          r.ID,
		Title:       r.Title,
		Price:       r.Price,
		Description: r.Description,
		AuthorID:    r.AuthorID,
		Author:      r.authorRow.toModel(r.AuthorID),
		CreatedAt:   r.CreatedAt,
	}
	if r.LatestImageID.Valid {
		id := int(r.LatestImageID.Int64)
		ad.LatestImageID = &id
	}
	return ad
}

const commentSelect = `
	SELECT c.id, c.ad_id, c.author_id, c.text, c.created_at,
	` + authorColumns + `
	FROM ads_comments c
	JOIN users u ON u.id = c.author_id`

type commentRow struct {
	ID        int       `db:"id"`
	AdID      int       `db:"ad_id"`
	AuthorID  int       `db:"author_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
	authorRow
}

func (r commentRow) toModel() *models.Comment {
	return &models.Comment{
		ID:        r.ID,
		AdID:      r.AdID,
		AuthorID:  r.AuthorID,
		Author:    r.authorRow.toModel(r.AuthorID),
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

type imageRow struct {
	ID        int       `db:"id"`
	AdID      int       `db:"ad_id"`
	MediaType string    `db:"media_type"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
}
