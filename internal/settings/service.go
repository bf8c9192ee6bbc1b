// internal/settings/service.go

// Package settings serves runtime configuration from the shop_settings table
// with an in-memory snapshot, so trades read the tax rate without a query and
// operators can change values without a restart.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arclabs/buttonshop/internal/models"
)

// Defaults applied on first boot and whenever a key is missing.
const (
	DefaultTaxRate           = 0.05
	DefaultTaxEnabled        = true
	DefaultMaxShopsPerPlayer = 50
)

type Service struct {
	db  *gorm.DB
	log *logrus.Logger

	mu     sync.RWMutex
	values map[string]string
}

func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log, values: make(map[string]string)}
}

// Seed inserts any missing default rows, then loads the snapshot.
func (s *Service) Seed(ctx context.Context) error {
	defaults := []models.ShopSetting{
		{Key: models.SettingTradeTaxRate, Value: strconv.FormatFloat(DefaultTaxRate, 'f', -1, 64), Description: "Fraction of the base price collected as tax"},
		{Key: models.SettingTradeTaxEnabled, Value: strconv.FormatBool(DefaultTaxEnabled), Description: "Whether trade tax is collected"},
		{Key: models.SettingMaxShopsPerPlayer, Value: strconv.Itoa(DefaultMaxShopsPerPlayer), Description: "Maximum listings per owner"},
	}
	for _, d := range defaults {
		var existing models.ShopSetting
		err := s.db.WithContext(ctx).First(&existing, "key = ?", d.Key).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
				return fmt.Errorf("seed setting %s: %w", d.Key, err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("check setting %s: %w", d.Key, err)
		}
	}
	return s.Reload(ctx)
}

// Reload replaces the in-memory snapshot from the database.
func (s *Service) Reload(ctx context.Context) error {
	var rows []models.ShopSetting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.Key] = r.Value
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	s.log.WithField("count", len(values)).Info("settings reloaded")
	return nil
}

// Set persists one key and updates the snapshot.
func (s *Service) Set(ctx context.Context, key, value string) error {
	setting := models.ShopSetting{Key: key, Value: value}
	err := s.db.WithContext(ctx).Where("key = ?", key).
		Assign(models.ShopSetting{Value: value}).
		FirstOrCreate(&setting).Error
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

// All returns a copy of the current snapshot.
func (s *Service) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *Service) get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// TaxRate returns the effective tax fraction, 0 when tax is disabled.
func (s *Service) TaxRate() float64 {
	if !s.TaxEnabled() {
		return 0
	}
	raw, ok := s.get(models.SettingTradeTaxRate)
	if !ok {
		return DefaultTaxRate
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 || rate > 1 {
		s.log.WithField("value", raw).Warn("invalid tax rate setting, using default")
		return DefaultTaxRate
	}
	return rate
}

func (s *Service) TaxEnabled() bool {
	raw, ok := s.get(models.SettingTradeTaxEnabled)
	if !ok {
		return DefaultTaxEnabled
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return DefaultTaxEnabled
	}
	return enabled
}

func (s *Service) MaxShopsPerPlayer() int {
	raw, ok := s.get(models.SettingMaxShopsPerPlayer)
	if !ok {
		return DefaultMaxShopsPerPlayer
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return DefaultMaxShopsPerPlayer
	}
	return n
}
