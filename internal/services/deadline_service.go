package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
	"github.com/mcavalcanti/lexora-api/pkg/logger"
)

// UpcomingDeadlineWindow is how far ahead the reminder job looks
const UpcomingDeadlineWindow = 72 * time.Hour

// DeadlineService handles procedural deadline CRUD and reminders
type DeadlineService struct {
	repo     repository.DeadlineRepository
	notifSvc *NotificationService
}

// NewDeadlineService creates a new deadline service
func NewDeadlineService(repo repository.DeadlineRepository, notifSvc *NotificationService) *DeadlineService {
	return &DeadlineService{repo: repo, notifSvc: notifSvc}
}

// FindByID retrieves a deadline
func (s *DeadlineService) FindByID(ctx context.Context, id uint) (*models.Deadline, error) {
	deadline, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return deadline, nil
}

// List retrieves deadlines with pagination and filters
func (s *DeadlineService) List(ctx context.Context, query *repository.ListQuery) ([]models.Deadline, int64, error) {
	return s.repo.List(ctx, query)
}

// Create registers a deadline
func (s *DeadlineService) Create(ctx context.Context, deadline *models.Deadline) error {
	if deadline.Title == "" {
		return fmt.Errorf("prazo sem título")
	}
	return s.repo.Create(ctx, deadline)
}

// Update saves deadline data
func (s *DeadlineService) Update(ctx context.Context, deadline *models.Deadline) error {
	if _, err := s.repo.FindByID(ctx, deadline.ID); err != nil {
		return ErrNotFound
	}
	return s.repo.Update(ctx, deadline)
}

// MarkDone closes a deadline
func (s *DeadlineService) MarkDone(ctx context.Context, id uint) (*models.Deadline, error) {
	deadline, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	now := time.Now()
	deadline.Done = true
	deadline.DoneAt = &now
	if err := s.repo.Update(ctx, deadline); err != nil {
		return nil, fmt.Errorf("falha ao concluir prazo: %w", err)
	}
	return deadline, nil
}

// Delete removes a deadline
func (s *DeadlineService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// NotifyUpcoming raises one notification per deadline entering the reminder
// window. Runs from the daily job; reminded deadlines are stamped so the next
// run skips them.
func (s *DeadlineService) NotifyUpcoming(ctx context.Context, now time.Time) error {
	deadlines, err := s.repo.FindUpcoming(ctx, now, UpcomingDeadlineWindow)
	if err != nil {
		return fmt.Errorf("falha ao buscar prazos próximos: %w", err)
	}
	if len(deadlines) == 0 {
		return nil
	}

	var reminded []uint
	for _, d := range deadlines {
		title := fmt.Sprintf("Prazo próximo: %s", d.Title)
		message := fmt.Sprintf("Vence em %s", d.DueAt.Format("02/01/2006 15:04"))
		if d.Case != nil {
			message = fmt.Sprintf("%s (processo %s)", message, d.Case.Number)
		}
		s.notifSvc.Notify(ctx, title, message, models.NotificationTypeDeadlineUpcoming)
		reminded = append(reminded, d.ID)
	}

	if err := s.repo.MarkReminderSent(ctx, reminded); err != nil {
		return fmt.Errorf("falha ao marcar lembretes enviados: %w", err)
	}

	logger.Info("Lembretes de prazo enviados", "count", len(reminded))
	return nil
}
