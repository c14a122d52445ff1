package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmsmith/internal/logger"
	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/repository"
)

const regionLookupTimeout = 2 * time.Second

// ReviewService 评价服务
type ReviewService struct {
	reviewRepo      repository.ReviewRepository
	regionLookupURL string
	httpClient      *http.Client
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:      reviewRepo,
		regionLookupURL: "http://ip-api.com/json/%s?fields=regionName",
		httpClient:      &http.Client{Timeout: regionLookupTimeout},
	}
}

// ReviewInput 创建评价输入
type ReviewInput struct {
	Name     string `json:"name"`
	Rating   int    `json:"rating"`
	Message  string `json:"message"`
	ClientIP string `json:"-"`
}

// List 评价列表
func (s *ReviewService) List(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(filter)
}

// Create 创建评价。来源地区通过 IP 反查补充，
// 查询失败静默降级为空值，绝不影响评价写入。
func (s *ReviewService) Create(ctx context.Context, input ReviewInput) (*models.Review, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Anonymous"
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrRatingInvalid
	}

	review := models.Review{
		Name:      name,
		Rating:    input.Rating,
		Message:   strings.TrimSpace(input.Message),
		Region:    s.lookupRegion(ctx, input.ClientIP),
		ClientIP:  strings.TrimSpace(input.ClientIP),
		CreatedAt: time.Now(),
	}
	if err := s.reviewRepo.Create(&review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete 删除评价（管理端）
func (s *ReviewService) Delete(id uint) error {
	return s.reviewRepo.Delete(id)
}

func (s *ReviewService) lookupRegion(ctx context.Context, clientIP string) string {
	ip := strings.TrimSpace(clientIP)
	if ip == "" || s.httpClient == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, regionLookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(s.regionLookupURL, ip), nil)
	if err != nil {
		return ""
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Debugw("review_region_lookup_failed", "error", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	var payload struct {
		RegionName string `json:"regionName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.RegionName)
}
