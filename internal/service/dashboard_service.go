package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Leganyst/clinic-booking/internal/calendar"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

// DashboardDays — длина окна ежедневной статистики.
const DashboardDays = 7

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Dashboard — сводка для администратора.
type Dashboard struct {
	TotalDoctors         int64        `json:"totalDoctors"`
	PendingDoctors       int64        `json:"pendingDoctors"`
	TotalPatients        int64        `json:"totalPatients"`
	TotalAppointments    int64        `json:"totalAppointments"`
	TotalPayments        int64        `json:"totalPayments"`
	TotalAmountCollected float64      `json:"totalAmountCollected"`
	DailyAppointments    []DailyCount `json:"dailyAppointments"`
}

// DashboardService считает статистику по текущему состоянию базы.
// Ничего не кэширует: каждый вызов — новые запросы.
type DashboardService struct {
	store *repository.Store
	loc   *time.Location
	clock Clock
	log   *zap.Logger
}

// loc — таймзона, в которой определяется "сегодня".
func NewDashboardService(store *repository.Store, loc *time.Location, log *zap.Logger) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{store: store, loc: loc, log: orNop(log)}
}

func (s *DashboardService) WithClock(c Clock) *DashboardService {
	s.clock = c
	return s
}

func (s *DashboardService) Get(ctx context.Context) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)

	if d.TotalDoctors, err = s.store.Doctors.Count(ctx); err != nil {
		return nil, storageError("count doctors", err)
	}
	if d.PendingDoctors, err = s.store.Doctors.CountByStatus(ctx, model.ApprovalStatusPending); err != nil {
		return nil, storageError("count pending doctors", err)
	}
	if d.TotalPatients, err = s.store.Users.CountByRole(ctx, model.RoleCodePatient); err != nil {
		return nil, storageError("count patients", err)
	}
	if d.TotalAppointments, err = s.store.Appointments.Count(ctx); err != nil {
		return nil, storageError("count appointments", err)
	}
	if d.TotalPayments, err = s.store.Payments.Count(ctx); err != nil {
		return nil, storageError("count payments", err)
	}
	if d.TotalAmountCollected, err = s.store.Payments.SumAmount(ctx); err != nil {
		return nil, storageError("sum payments", err)
	}

	today := calendar.Today(s.clock.now(), s.loc)
	days := calendar.TrailingDays(today, DashboardDays)
	d.DailyAppointments = make([]DailyCount, 0, len(days))
	for _, day := range days {
		n, err := s.store.Appointments.CountByDate(ctx, day)
		if err != nil {
			return nil, storageError("count appointments by date", err)
		}
		d.DailyAppointments = append(d.DailyAppointments, DailyCount{Date: calendar.DateKey(day), Count: n})
	}

	s.log.Debug("dashboard.computed", zap.String("today", calendar.DateKey(today)))
	return &d, nil
}
