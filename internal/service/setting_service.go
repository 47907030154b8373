package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
)

// SettingService defines the business logic for website settings.
type SettingService interface {
	List(ctx context.Context) ([]*model.Setting, error)
	Get(ctx context.Context, key string) (*model.Setting, error)

	// Upsert creates or replaces the setting under s.Key. The value is
	// replaced wholesale; there is no merging.
	Upsert(ctx context.Context, s *model.Setting) error

	Delete(ctx context.Context, key string) error
}

// settingServiceImpl is the production implementation of SettingService.
type settingServiceImpl struct {
	repo repository.SettingRepository
}

// NewSettingService creates a SettingService backed by the given repository.
func NewSettingService(repo repository.SettingRepository) SettingService {
	return &settingServiceImpl{repo: repo}
}

func (s *settingServiceImpl) List(ctx context.Context) ([]*model.Setting, error) {
	return s.repo.List(ctx)
}

func (s *settingServiceImpl) Get(ctx context.Context, key string) (*model.Setting, error) {
	return s.repo.Get(ctx, key)
}

func (s *settingServiceImpl) Upsert(ctx context.Context, setting *model.Setting) error {
	setting.Key = strings.TrimSpace(setting.Key)
	if setting.Key == "" || len(setting.Value) == 0 {
		return NewValidationError("Missing key or value")
	}
	if !json.Valid(setting.Value) {
		return NewValidationError("value must be valid JSON")
	}
	return s.repo.Upsert(ctx, setting)
}

func (s *settingServiceImpl) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}
