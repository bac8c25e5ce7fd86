package services

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"cinematix/models"
	"cinematix/util"
)

// TodayService re-anchors sessions at local midnight so quick dates ("today",
// "tomorrow") resolve against the new day without a restart.
type TodayService struct {
	scheduler gocron.Scheduler
	dispatch  func(models.Action)
	log       *zap.Logger
}

// NewTodayService schedules the daily rollover. Start must be called before
// any job runs.
func NewTodayService(dispatch func(models.Action), log *zap.Logger) (*TodayService, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return nil, fmt.Errorf("failed to create rollover scheduler: %w", err)
	}

	s := &TodayService{scheduler: scheduler, dispatch: dispatch, log: log}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0))),
		gocron.NewTask(s.rollover),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule midnight rollover: %w", err)
	}
	return s, nil
}

// Start begins firing the rollover at each local midnight.
func (s *TodayService) Start() {
	s.scheduler.Start()
}

// Stop shuts the scheduler down.
func (s *TodayService) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *TodayService) rollover() {
	today := time.Now().Format(util.DateFormat)
	s.log.Info("midnight rollover", zap.String("today", today))
	s.dispatch(models.TodayAction{Value: today})
}
