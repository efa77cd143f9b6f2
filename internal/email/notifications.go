package email

import (
	"context"
	"log"

	"github.com/google/uuid"

	"atelier/internal/config"
	"atelier/internal/models"
)

// NotificationStore is the subset of the database the notifier needs.
type NotificationStore interface {
	GetOperatorEmails(ctx context.Context) ([]string, error)
	GetClientAccountByID(ctx context.Context, id uuid.UUID) (*models.ClientAccount, error)
}

// Notifier sends email notifications for various events.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
	db        NotificationStore
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, db NotificationStore) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
		db:        db,
	}
}

// NotifyApprovalAction notifies operators that a client account recorded an
// approval, rejection, or comment on a material.
func (n *Notifier) NotifyApprovalAction(ctx context.Context, approval *models.Approval, material *models.Material, accountID uuid.UUID) {
	if !n.service.IsEnabled() || !n.cfg.NotifyApprovals {
		return
	}

	account, err := n.db.GetClientAccountByID(ctx, accountID)
	if err != nil {
		log.Printf("Failed to load account for approval notification: %v", err)
		return
	}

	emails, err := n.db.GetOperatorEmails(ctx)
	if err != nil {
		log.Printf("Failed to get operator emails: %v", err)
		return
	}

	if len(emails) == 0 {
		log.Println("No operator emails found for notification")
		return
	}

	subject, htmlBody, textBody := n.templates.ApprovalAction(approval, material, account)
	n.service.SendAsync(emails, subject, htmlBody, textBody)
}

// NotifyPreviewCheckFailed notifies operators that a material preview asset
// failed its reachability check.
func (n *Notifier) NotifyPreviewCheckFailed(ctx context.Context, material *models.Material, checkErr string) {
	if !n.service.IsEnabled() {
		return
	}

	emails, err := n.db.GetOperatorEmails(ctx)
	if err != nil {
		log.Printf("Failed to get operator emails: %v", err)
		return
	}

	if len(emails) == 0 {
		return
	}

	subject, htmlBody, textBody := n.templates.PreviewCheckFailed(material, checkErr)
	n.service.SendAsync(emails, subject, htmlBody, textBody)
}
