package admin

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/charmsmith/internal/http/handlers/shared"
	"github.com/charmsmith/internal/http/response"
	"github.com/charmsmith/internal/repository"
	"github.com/charmsmith/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCharms 管理端饰品列表（含下架）
func (h *Handler) ListCharms(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	filter := repository.CharmListFilter{
		Page:        page,
		PageSize:    pageSize,
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Search:      c.Query("search"),
	}
	charms, total, err := h.CharmAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "charm list failed", err)
		return
	}
	response.SuccessWithPage(c, charms, shared.BuildPagination(page, pageSize, total))
}

// CreateCharm 创建饰品
func (h *Handler) CreateCharm(c *gin.Context) {
	var input service.CharmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	charm, err := h.CharmAdminService.Create(input)
	if err != nil {
		respondCharmAdminError(c, err)
		return
	}
	response.Success(c, charm)
}

// UpdateCharm 更新饰品
func (h *Handler) UpdateCharm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid charm id", nil)
		return
	}
	var input service.CharmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	charm, err := h.CharmAdminService.Update(uint(id), input)
	if err != nil {
		respondCharmAdminError(c, err)
		return
	}
	response.Success(c, charm)
}

// DeleteCharm 删除饰品
func (h *Handler) DeleteCharm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid charm id", nil)
		return
	}
	if err := h.CharmAdminService.Delete(uint(id)); err != nil {
		respondCharmAdminError(c, err)
		return
	}
	response.SuccessWithMsg(c, "charm deleted", nil)
}

// ExportCharmsCSV 导出饰品 CSV
func (h *Handler) ExportCharmsCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.CharmAdminService.ExportCSV(&buf); err != nil {
		respondError(c, response.CodeInternal, "csv export failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="charms.csv"`)
	c.Data(200, "text/csv; charset=utf-8", buf.Bytes())
}

// ImportCharmsCSV 导入饰品 CSV
func (h *Handler) ImportCharmsCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "csv file required", nil)
		return
	}
	defer file.Close()

	imported, err := h.CharmAdminService.ImportCSV(file)
	if err != nil {
		if errors.Is(err, service.ErrCSVHeaderInvalid) {
			respondError(c, response.CodeBadRequest, "csv header invalid", nil)
			return
		}
		respondError(c, response.CodeBadRequest, "csv import failed", err)
		return
	}
	response.Success(c, gin.H{"imported": imported})
}

// UploadCharmImage 上传饰品图片到对象存储
func (h *Handler) UploadCharmImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "image file required", nil)
		return
	}
	defer file.Close()

	url, err := h.UploadService.UploadImage(
		c.Request.Context(),
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		file,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadDisabled):
			respondError(c, response.CodeBadRequest, "upload disabled", nil)
		case errors.Is(err, service.ErrUploadTypeInvalid):
			respondError(c, response.CodeBadRequest, "file type not allowed", nil)
		case errors.Is(err, service.ErrUploadTooLarge):
			respondError(c, response.CodeBadRequest, "file too large", nil)
		default:
			respondError(c, response.CodeInternal, "upload failed", err)
		}
		return
	}
	response.Success(c, gin.H{"url": url})
}

func respondCharmAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "charm not found", nil)
	case errors.Is(err, service.ErrCharmPriceInvalid):
		respondError(c, response.CodeBadRequest, "price must be non-negative", nil)
	case errors.Is(err, service.ErrCharmStockInvalid):
		respondError(c, response.CodeBadRequest, "stock must be -1 (unlimited) or non-negative", nil)
	case errors.Is(err, service.ErrCharmNotAvailable):
		respondError(c, response.CodeBadRequest, "name and category are required", nil)
	default:
		respondError(c, response.CodeInternal, "charm save failed", err)
	}
}
