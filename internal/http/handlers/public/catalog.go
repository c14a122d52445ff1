package public

import (
	"strconv"
	"time"

	"github.com/charmsmith/internal/cache"
	"github.com/charmsmith/internal/http/handlers/shared"
	"github.com/charmsmith/internal/http/response"
	"github.com/charmsmith/internal/repository"
	"github.com/charmsmith/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	categoryTreeCacheKey = "public:category_tree"
	categoryTreeCacheTTL = 60 * time.Second
)

// ListCharms 浏览饰品列表
func (h *Handler) ListCharms(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	filter := repository.CharmListFilter{
		Page:        page,
		PageSize:    pageSize,
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Search:      c.Query("search"),
		InStock:     c.Query("in_stock") == "true",
	}
	charms, total, err := h.CatalogService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "charm list failed", err)
		return
	}
	response.SuccessWithPage(c, charms, shared.BuildPagination(page, pageSize, total))
}

// GetCharm 饰品详情
func (h *Handler) GetCharm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid charm id", nil)
		return
	}
	charm, err := h.CatalogService.Get(uint(id))
	if err != nil {
		if err == service.ErrNotFound {
			respondError(c, response.CodeNotFound, "charm not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "charm fetch failed", err)
		return
	}
	response.Success(c, charm)
}

// GetCategoryTree 目录分类树（短缓存，目录编辑后一分钟内收敛）
func (h *Handler) GetCategoryTree(c *gin.Context) {
	var cached []service.CategoryNode
	if hit, err := cache.GetJSON(c.Request.Context(), categoryTreeCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	tree, err := h.CatalogService.CategoryTree()
	if err != nil {
		respondError(c, response.CodeInternal, "category tree failed", err)
		return
	}
	if err := cache.SetJSON(c.Request.Context(), categoryTreeCacheKey, tree, categoryTreeCacheTTL); err != nil {
		shared.RequestLog(c).Warnw("category_tree_cache_set_failed", "error", err)
	}
	response.Success(c, tree)
}
