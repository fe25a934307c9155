package models

import "time"

type Image struct {
	ID        int
	AdID      int
	MediaType string
	Data      []byte
	CreatedAt time.Time
}

func (i Image) Size() int {
	return len(i.Data)
}
