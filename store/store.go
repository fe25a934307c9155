// Package store defines the persistence contract for users, ads, comments and
// ad images.
package store

import (
	"context"
	"errors"

	"ads_platform_backend/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Storage is implemented by the postgres and in-memory stores. Reads of ads
// and comments populate the embedded Author.
type Storage interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int, passwordHash string) error

	CreateAd(ctx context.Context, ad *models.Ad) (*models.Ad, error)
	GetAd(ctx context.Context, id int) (*models.Ad, error)
	ListAds(ctx context.Context) ([]*models.Ad, error)
	ListAdsByAuthor(ctx context.Context, authorID int) ([]*models.Ad, error)
	// SearchAdsByTitle matches titles containing query, ignoring case.
	SearchAdsByTitle(ctx context.Context, query string) ([]*models.Ad, error)
	UpdateAd(ctx context.Context, ad *models.Ad) (*models.Ad, error)
	DeleteAd(ctx context.Context, id int) error

	CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	// GetComment only finds the comment when it belongs to adID.
	GetComment(ctx context.Context, adID, id int) (*models.Comment, error)
	ListComments(ctx context.Context, adID int) ([]*models.Comment, error)
	UpdateCommentText(ctx context.Context, adID, id int, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, adID, id int) error

	AddImage(ctx context.Context, image *models.Image) (*models.Image, error)
	GetLatestImage(ctx context.Context, adID int) (*models.Image, error)

	Ping(ctx context.Context) error
}
