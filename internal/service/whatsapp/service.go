package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/internal/service/reporting"
	client "github.com/mamadbah2/washify/pkg/clients/whatsapp"
)

// ErrNoRecipient is returned when a notification has nowhere to go.
var ErrNoRecipient = errors.New("no recipient phone number")

const sendTimeout = 10 * time.Second

// Notifier pushes shop notifications over WhatsApp.
type Notifier struct {
	sender client.Sender
	logger *zap.Logger
}

// NewNotifier wires a notifier on top of the Cloud API sender.
func NewNotifier(sender client.Sender, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{sender: sender, logger: logger}
}

// SendOutbound delivers a single text message.
func (n *Notifier) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	if strings.TrimSpace(req.To) == "" {
		return ErrNoRecipient
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	id, err := n.sender.SendText(ctx, req.To, req.Message)
	if err != nil {
		return fmt.Errorf("send outbound message: %w", err)
	}
	n.logger.Debug("whatsapp message sent", zap.String("message_id", id))
	return nil
}

// NotifyDailyReport sends the owner of user a summary of their day.
func (n *Notifier) NotifyDailyReport(ctx context.Context, user models.User, r models.DailyReport) error {
	if user.Phone == "" {
		return ErrNoRecipient
	}
	return n.SendOutbound(ctx, models.OutboundMessageRequest{
		To:      user.Phone,
		Message: reporting.DailyMessage(user.ShopName, r),
	})
}
