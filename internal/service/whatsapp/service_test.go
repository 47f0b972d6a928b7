package whatsapp

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/washify/internal/domain/models"
)

type mockSender struct{ mock.Mock }

func (m *mockSender) SendText(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}

func TestSendOutbound(t *testing.T) {
	sender := new(mockSender)
	sender.On("SendText", mock.Anything, "2348031234567", "hello").Return("wamid.1", nil).Once()

	err := NewNotifier(sender, nil).SendOutbound(context.Background(), models.OutboundMessageRequest{To: "2348031234567", Message: "hello"})

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestSendOutboundWrapsSenderError(t *testing.T) {
	sender := new(mockSender)
	sender.On("SendText", mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError).Once()

	err := NewNotifier(sender, nil).SendOutbound(context.Background(), models.OutboundMessageRequest{To: "1", Message: "x"})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestNotifyDailyReport(t *testing.T) {
	report := models.DailyReport{
		Date:          "2024-03-15",
		TotalOrders:   2,
		TotalIncome:   decimal.NewFromInt(150),
		TotalExpenses: decimal.NewFromInt(30),
		NetProfit:     decimal.NewFromInt(120),
		TotalPaid:     decimal.NewFromInt(100),
		TotalBalance:  decimal.NewFromInt(70),
		TotalPending:  decimal.NewFromInt(50),
	}

	t.Run("sends summary to shop phone", func(t *testing.T) {
		sender := new(mockSender)
		sender.On("SendText", mock.Anything, "+2348031234567", mock.MatchedBy(func(body string) bool {
			return strings.HasPrefix(body, "*Sparkle* daily summary") && strings.Contains(body, "Net profit: ₦120.00")
		})).Return("wamid.2", nil).Once()

		user := models.User{ShopName: "Sparkle", Phone: "+2348031234567"}
		require.NoError(t, NewNotifier(sender, nil).NotifyDailyReport(context.Background(), user, report))
		sender.AssertExpectations(t)
	})

	t.Run("no phone", func(t *testing.T) {
		sender := new(mockSender)
		err := NewNotifier(sender, nil).NotifyDailyReport(context.Background(), models.User{ShopName: "Sparkle"}, report)
		assert.ErrorIs(t, err, ErrNoRecipient)
		sender.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
	})
}
