package service

import (
	"context"
	"strings"
	"time"

	"github.com/charmsmith/internal/cache"
	"github.com/charmsmith/internal/config"
	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/logger"

	"github.com/mojocn/base64Captcha"
)

const captchaProviderImage = "image"

// CaptchaService 图片验证码服务（结算场景按配置启用）
type CaptchaService struct {
	cfg     config.CaptchaConfig
	captcha *base64Captcha.Captcha
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	s := &CaptchaService{cfg: cfg}
	if strings.EqualFold(strings.TrimSpace(cfg.Provider), captchaProviderImage) {
		driver := base64Captcha.NewDriverDigit(
			normalizeCaptchaInt(cfg.Image.Height, 80),
			normalizeCaptchaInt(cfg.Image.Width, 240),
			normalizeCaptchaInt(cfg.Image.Length, 5),
			0.7,
			normalizeCaptchaInt(cfg.Image.ShowLine, 2),
		)
		s.captcha = base64Captcha.NewCaptcha(driver, newCaptchaStore(cfg.Image))
	}
	return s
}

// Required 判断场景是否要求验证码
func (s *CaptchaService) Required(scene string) bool {
	if s == nil || s.captcha == nil {
		return false
	}
	switch scene {
	case constants.CaptchaSceneCheckout:
		return s.cfg.Scenes.Checkout
	default:
		return false
	}
}

// Generate 生成验证码（返回 id 与 base64 图片）
func (s *CaptchaService) Generate() (string, string, error) {
	if s == nil || s.captcha == nil {
		return "", "", ErrCaptchaRequired
	}
	id, b64, _, err := s.captcha.Generate()
	return id, b64, err
}

// Verify 校验验证码（一次性，校验后即失效）
func (s *CaptchaService) Verify(id, answer string) bool {
	if s == nil || s.captcha == nil {
		return false
	}
	if strings.TrimSpace(id) == "" || strings.TrimSpace(answer) == "" {
		return false
	}
	return s.captcha.Verify(id, strings.TrimSpace(answer), true)
}

// newCaptchaStore Redis 可用时用共享存储，否则退回进程内存储
func newCaptchaStore(cfg config.CaptchaImageConfig) base64Captcha.Store {
	expire := time.Duration(normalizeCaptchaInt(cfg.ExpireSeconds, 300)) * time.Second
	if cache.Enabled() {
		return &redisCaptchaStore{expire: expire}
	}
	return base64Captcha.NewMemoryStore(normalizeCaptchaInt(cfg.MaxStore, 10240), expire)
}

// redisCaptchaStore 基于共享缓存的验证码存储
type redisCaptchaStore struct {
	expire time.Duration
}

func (s *redisCaptchaStore) Set(id string, value string) error {
	return cache.SetJSON(context.Background(), captchaKey(id), value, s.expire)
}

func (s *redisCaptchaStore) Get(id string, clear bool) string {
	var value string
	hit, err := cache.GetJSON(context.Background(), captchaKey(id), &value)
	if err != nil {
		logger.Warnw("captcha_store_get_failed", "error", err)
		return ""
	}
	if !hit {
		return ""
	}
	if clear {
		_ = cache.Del(context.Background(), captchaKey(id))
	}
	return value
}

func (s *redisCaptchaStore) Verify(id, answer string, clear bool) bool {
	stored := s.Get(id, clear)
	return stored != "" && strings.EqualFold(stored, strings.TrimSpace(answer))
}

func captchaKey(id string) string {
	return "captcha:" + id
}

func normalizeCaptchaInt(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
