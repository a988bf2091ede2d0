package services

import (
	"context"

	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
)

type NotificationService struct {
	repo         repository.NotificationRepository
	employeeRepo repository.EmployeeRepository
}

func NewNotificationService(repo repository.NotificationRepository, employeeRepo repository.EmployeeRepository) *NotificationService {
	return &NotificationService{repo: repo, employeeRepo: employeeRepo}
}

func (s *NotificationService) FindByID(ctx context.Context, id uint) (*models.Notification, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *NotificationService) FindByEmployee(ctx context.Context, employeeID uint, query *repository.ListQuery) ([]models.Notification, int64, error) {
	return s.repo.FindByEmployee(ctx, employeeID, query)
}

func (s *NotificationService) Create(ctx context.Context, notification *models.Notification) error {
	return s.repo.Create(ctx, notification)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uint) error {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	notification.MarkAsRead()
	return s.repo.Update(ctx, notification)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, employeeID uint) error {
	return s.repo.MarkAllAsRead(ctx, employeeID)
}

func (s *NotificationService) CountUnread(ctx context.Context, employeeID uint) (int64, error) {
	return s.repo.CountUnread(ctx, employeeID)
}

func (s *NotificationService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *NotificationService) NotifyEmployee(ctx context.Context, employeeID uint, title, message, notifType string) error {
	notification := &models.Notification{
		EmployeeID:       employeeID,
		Title:            title,
		Message:          message,
		NotificationType: &notifType,
	}
	return s.repo.Create(ctx, notification)
}

func (s *NotificationService) NotifyAdmins(ctx context.Context, title, message, notifType string) error {
	admins, err := s.employeeRepo.FindAdmins(ctx)
	if err != nil {
		return err
	}
	for _, admin := range admins {
		notification := &models.Notification{
			EmployeeID:       admin.ID,
			Title:            title,
			Message:          message,
			NotificationType: &notifType,
		}
		s.repo.Create(ctx, notification)
	}
	return nil
}
