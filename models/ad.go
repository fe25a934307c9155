package models

import "time"

type Ad struct {
	ID          int
	Title       string
	Price       int
	Description string
	AuthorID    int
	Author      User
	CreatedAt   time.Time
	// LatestImageID is nil when the ad has no images.
	LatestImageID *int
}

type AdsDto struct {
	Pk     int    `json:"pk"`
	Author int    `json:"author"`
	Title  string `json:"title"`
	Price  int    `json:"price"`
	Image  string `json:"image"`
}

// CreateAdsDto is the writable part of an ad, used for create and update.
type CreateAdsDto struct {
	Pk          *int   `json:"pk,omitempty"`
	Title       string `json:"title" binding:"required,max=255"`
	Price       int    `json:"price" binding:"gte=0"`
	Description string `json:"description" binding:"max=4000"`
}

type FullAdsDto struct {
	Pk              int    `json:"pk"`
	Title           string `json:"title"`
	Price           int    `json:"price"`
	Description     string `json:"description"`
	Image           string `json:"image"`
	AuthorFirstName string `json:"authorFirstName"`
	AuthorLastName  string `json:"authorLastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
}

type ResponseWrapper[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}
