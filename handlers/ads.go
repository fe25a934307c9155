package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"ads_platform_backend/apperrors"
	"ads_platform_backend/mapper"
	"ads_platform_backend/models"
	"ads_platform_backend/services"
)

type AdsHandler struct {
	ads    *services.AdsService
	images *services.ImageService
	log    logrus.FieldLogger
}

func NewAdsHandler(ads *services.AdsService, images *services.ImageService, log logrus.FieldLogger) *AdsHandler {
	return &AdsHandler{ads: ads, images: images, log: log}
}

func (h *AdsHandler) GetAllAds(c *gin.Context) {
	ads, err := h.ads.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.WrapAds(ads))
}

func (h *AdsHandler) GetMyAds(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	ads, err := h.ads.ListMine(c.Request.Context(), caller)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.WrapAds(ads))
}

func (h *AdsHandler) SearchAds(c *gin.Context) {
	ads, err := h.ads.SearchByTitle(c.Request.Context(), c.Query("title"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.WrapAds(ads))
}

func (h *AdsHandler) GetAd(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ad, err := h.ads.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.AdToFullDto(ad))
}

// CreateAd accepts either a JSON CreateAdsDto body or a multipart form with
// the DTO in the "properties" field and an optional "image" file.
func (h *AdsHandler) CreateAd(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	var req models.CreateAdsDto
	var image []byte
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		props := c.PostForm("properties")
		if props == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "properties field is required"})
			return
		}
		if err := binding.JSON.BindBody([]byte(props), &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var err error
		if image, err = h.readImage(c, false); err != nil {
			respondError(c, h.log, err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad, err := h.ads.Create(c.Request.Context(), caller, mapper.CreateAdsDtoToAd(req), image)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.AdToDto(ad))
}

func (h *AdsHandler) UpdateAd(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.CreateAdsDto
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad, err := h.ads.Update(c.Request.Context(), caller, id, mapper.CreateAdsDtoToAd(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.AdToDto(ad))
}

func (h *AdsHandler) DeleteAd(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ads.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAdImage streams the latest image of an ad with its detected media type.
func (h *AdsHandler) GetAdImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	img, err := h.images.Latest(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, img.MediaType, img.Data)
}

func (h *AdsHandler) UpdateAdImage(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.images.Authorize(c.Request.Context(), caller, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	data, err := h.readImage(c, true)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if _, err := h.images.Upload(c.Request.Context(), caller, id, data); err != nil {
		respondError(c, h.log, err)
		return
	}
	ad, err := h.ads.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.AdToDto(ad))
}

// readImage reads the "image" multipart file. It returns nil data when the
// file is absent and not required. At most MaxBytes+1 bytes are read so the
// service can reject oversized payloads.
func (h *AdsHandler) readImage(c *gin.Context, required bool) ([]byte, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		if required {
			return nil, apperrors.Invalid("image file is required")
		}
		return nil, nil
	} else if err != nil {
		return nil, apperrors.Invalid("Malformed multipart body")
	}
	if fh.Size > h.images.MaxBytes() {
		return nil, apperrors.TooLarge("Image is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.Internal("Failed to open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.images.MaxBytes()+1))
	if err != nil {
		return nil, apperrors.Internal("Failed to read upload", err)
	}
	return data, nil
}
