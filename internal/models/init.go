package models

import (
	"github.com/charmsmith/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化管理员账号（共享口令，bcrypt 落库）
func InitDefaultAdmin(username, password string) error {
	if username == "" {
		username = "admin"
	}

	var existing Admin
	err := DB.Where("username = ?", username).First(&existing).Error
	if err == nil {
		// 已存在且配置了口令时同步更新，保证配置是唯一事实来源
		if password == "" {
			return nil
		}
		if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)) == nil {
			return nil
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}
		return DB.Model(&existing).Update("password_hash", string(hash)).Error
	}

	if password == "" {
		password = "admin123"
		logger.Warnw("default_admin_created_with_default_password", "username", username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := Admin{
		Username:     username,
		PasswordHash: string(hash),
	}
	return DB.Create(&admin).Error
}
