package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ridloal/retail-admin-console/internal/inventory/domain"
	"github.com/ridloal/retail-admin-console/internal/inventory/repository"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
)

// AlertService keeps the last low-stock alerts fetched for a workspace. It is
// polled in the background, so failures are logged and never notified.
type AlertService struct {
	repo repository.AlertRepository

	mu        sync.RWMutex
	alerts    []domain.Alert
	fetchedAt time.Time
}

func NewAlertService(repo repository.AlertRepository) *AlertService {
	return &AlertService{repo: repo, alerts: []domain.Alert{}}
}

// Fetch replaces the alerts. On failure the previous alerts are kept.
func (s *AlertService) Fetch(ctx context.Context) error {
	alerts, err := s.repo.ListLowStock(ctx)
	if err != nil {
		logger.Warn("AlertService.Fetch: keeping previous alerts: " + err.Error())
		return fmt.Errorf("could not fetch low-stock alerts: %w", err)
	}
	s.mu.Lock()
	s.alerts = alerts
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Poll is the scheduler job form of Fetch.
func (s *AlertService) Poll(ctx context.Context) {
	_ = s.Fetch(ctx)
}

func (s *AlertService) Alerts() []domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

func (s *AlertService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts)
}

func (s *AlertService) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}
