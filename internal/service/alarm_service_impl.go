package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/plannersmart/internal/db"
	"github.com/alexanderramin/plannersmart/internal/domain"
	"github.com/alexanderramin/plannersmart/internal/repository"
	"github.com/google/uuid"
)

type alarmService struct {
	alarms repository.AlarmRepo
	uow    db.UnitOfWork
}

func NewAlarmService(alarms repository.AlarmRepo, uow db.UnitOfWork) AlarmService {
	return &alarmService{alarms: alarms, uow: uow}
}

func (s *alarmService) List(ctx context.Context, userID int64) ([]domain.Alarm, error) {
	alarms, err := s.alarms.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Alarm, 0, len(alarms))
	for _, a := range alarms {
		out = append(out, *a)
	}
	return out, nil
}

func (s *alarmService) Create(ctx context.Context, userID int64, a *domain.Alarm) error {
	if err := validateAlarm(a); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return s.alarms.Create(ctx, userID, a)
}

func (s *alarmService) Update(ctx context.Context, userID int64, a *domain.Alarm) error {
	if a.ID == "" {
		return invalid("Alarm id is required.")
	}
	if err := validateAlarm(a); err != nil {
		return err
	}
	return s.alarms.Update(ctx, userID, a)
}

// Toggle flips the alarm's active flag and returns the updated alarm.
func (s *alarmService) Toggle(ctx context.Context, userID int64, id string) (*domain.Alarm, error) {
	var toggled *domain.Alarm
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAlarms := repository.NewSQLiteAlarmRepo(tx)
		alarms, err := txAlarms.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, a := range alarms {
			if a.ID != id {
				continue
			}
			a.IsActive = !a.IsActive
			if err := txAlarms.SetActive(ctx, userID, id, a.IsActive); err != nil {
				return err
			}
			toggled = a
			return nil
		}
		return fmt.Errorf("alarm %s: %w", id, repository.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

func (s *alarmService) Delete(ctx context.Context, userID int64, id string) error {
	return s.alarms.Delete(ctx, userID, id)
}

func validateAlarm(a *domain.Alarm) error {
	if strings.TrimSpace(a.Title) == "" || a.Time == "" {
		return invalid("Alarm title and time are required.")
	}
	if _, ok := a.At(); !ok {
		return invalid("Alarm time must be an ISO-8601 instant.")
	}
	return nil
}
