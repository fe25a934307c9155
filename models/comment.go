package models

import "time"

type Comment struct {
	ID        int
	AdID      int
	AuthorID  int
	Author    User
	Text      string
	CreatedAt time.Time
}

type AdsCommentDto struct {
	Pk        int       `json:"pk"`
	Author    int       `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	Text      string    `json:"text" binding:"required,max=2000"`
}
