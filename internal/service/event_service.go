package service

import (
	"strings"
	"time"

	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/repository"
)

// EventService 活动服务
type EventService struct {
	eventRepo repository.EventRepository
}

// NewEventService 创建活动服务
func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// EventInput 创建/更新活动输入
type EventInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Venue       string     `json:"venue"`
	Image       string     `json:"image"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	IsActive    *bool      `json:"is_active"`
	SortOrder   int        `json:"sort_order"`
}

// ListPublic 前台活动列表（仅展示中的未结束活动）
func (s *EventService) ListPublic(page, pageSize int) ([]models.Event, int64, error) {
	return s.eventRepo.List(repository.EventListFilter{
		Page:       page,
		PageSize:   pageSize,
		OnlyActive: true,
		Upcoming:   true,
	})
}

// ListAdmin 管理端活动列表
func (s *EventService) ListAdmin(page, pageSize int) ([]models.Event, int64, error) {
	return s.eventRepo.List(repository.EventListFilter{Page: page, PageSize: pageSize})
}

// Create 创建活动
func (s *EventService) Create(input EventInput) (*models.Event, error) {
	if err := validateEventInput(input); err != nil {
		return nil, err
	}
	now := time.Now()
	event := models.Event{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Venue:       strings.TrimSpace(input.Venue),
		Image:       strings.TrimSpace(input.Image),
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		IsActive:    true,
		SortOrder:   input.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.IsActive != nil {
		event.IsActive = *input.IsActive
	}
	if err := s.eventRepo.Create(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Update 更新活动
func (s *EventService) Update(id uint, input EventInput) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event.Title = strings.TrimSpace(input.Title)
	event.Description = strings.TrimSpace(input.Description)
	event.Venue = strings.TrimSpace(input.Venue)
	event.Image = strings.TrimSpace(input.Image)
	event.StartsAt = input.StartsAt
	event.EndsAt = input.EndsAt
	event.SortOrder = input.SortOrder
	if input.IsActive != nil {
		event.IsActive = *input.IsActive
	}
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete 删除活动
func (s *EventService) Delete(id uint) error {
	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrNotFound
	}
	return s.eventRepo.Delete(id)
}

func validateEventInput(input EventInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrEventTitleRequired
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return ErrEventTimeInvalid
	}
	return nil
}
