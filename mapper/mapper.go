// Package mapper converts between domain entities and API DTOs.
package mapper

import (
	"fmt"

	"ads_platform_backend/models"
)

// ImageLink is the path the latest image of an ad is served from, or "" if the
// ad has none.
func ImageLink(ad *models.Ad) string {
	if ad.LatestImageID == nil {
		return ""
	}
	return fmt.Sprintf("/ads/%d/image", ad.ID)
}

func AdToDto(ad *models.Ad) models.AdsDto {
	return models.AdsDto{
		Pk:     ad.ID,
		Author: ad.AuthorID,
		Title:  ad.Title,
		Price:  ad.Price,
		Image:  ImageLink(ad),
	}
}

func AdToFullDto(ad *models.Ad) models.FullAdsDto {
	return models.FullAdsDto{
		Pk:              ad.ID,
		Title:           ad.Title,
		Price:           ad.Price,
		Description:     ad.Description,
		Image:           ImageLink(ad),
		AuthorFirstName: ad.Author.FirstName,
		AuthorLastName:  ad.Author.LastName,
		Email:           ad.Author.Email,
		Phone:           ad.Author.Phone,
	}
}

// CreateAdsDtoToAd copies the writable fields only. Pk is ignored.
func CreateAdsDtoToAd(dto models.CreateAdsDto) *models.Ad {
	return &models.Ad{
		Title:       dto.Title,
		Price:       dto.Price,
		Description: dto.Description,
	}
}

func WrapAds(ads []*models.Ad) models.ResponseWrapper[models.AdsDto] {
	results := make([]models.AdsDto, 0, len(ads))
	for _, ad := range ads {
		results = append(results, AdToDto(ad))
	}
	return models.ResponseWrapper[models.AdsDto]{Count: len(results), Results: results}
}

func CommentToDto(c *models.Comment) models.AdsCommentDto {
	return models.AdsCommentDto{
		Pk:        c.ID,
		Author:    c.AuthorID,
		CreatedAt: c.CreatedAt,
		Text:      c.Text,
	}
}

// DtoToComment copies the text only; pk, author and createdAt are server-owned.
func DtoToComment(dto models.AdsCommentDto) *models.Comment {
	return &models.Comment{Text: dto.Text}
}

func WrapComments(comments []*models.Comment) models.ResponseWrapper[models.AdsCommentDto] {
	results := make([]models.AdsCommentDto, 0, len(comments))
	for _, c := range comments {
		results = append(results, CommentToDto(c))
	}
	return models.ResponseWrapper[models.AdsCommentDto]{Count: len(results), Results: results}
}

func UserToDto(u *models.User) models.UserDto {
	return models.UserDto{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
	}
}

// ApplyUserUpdate sets the fields present in req on u.
func ApplyUserUpdate(u *models.User, req models.UpdateUserRequest) {
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
}
