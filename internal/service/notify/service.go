// Package notify pushes report summaries to the station manager.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/domain/models"
	client "github.com/mamadbah2/station/pkg/clients/whatsapp"
)

// Service sends text notifications over WhatsApp.
type Service struct {
	client    client.Sender
	managerID string
	logger    *zap.Logger
}

// NewService wires a notifier sending to managerID by default.
func NewService(c client.Sender, managerID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: c, managerID: managerID, logger: logger}
}

// Send delivers msg. An empty recipient falls back to the manager.
func (s *Service) Send(ctx context.Context, msg models.OutboundMessage) error {
	to := msg.To
	if to == "" {
		to = s.managerID
	}
	if to == "" {
		return errors.New("notification recipient is not configured")
	}

	id, err := s.client.SendText(ctx, to, msg.Message)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			s.logger.Warn("whatsapp rejected notification",
				zap.Int("status", apiErr.Status),
				zap.Int("code", apiErr.Code),
				zap.String("trace_id", apiErr.TraceID),
				zap.Bool("temporary", apiErr.Temporary()))
		}
		return fmt.Errorf("send notification: %w", err)
	}

	s.logger.Info("notification sent", zap.String("to", to), zap.String("message_id", id))
	return nil
}

// SendDailyReport formats and sends a daily snapshot to the manager.
func (s *Service) SendDailyReport(ctx context.Context, report models.DailyReport) error {
	return s.Send(ctx, models.OutboundMessage{Message: FormatDailyReport(report)})
}

// FormatDailyReport renders a snapshot as a short text message.
func FormatDailyReport(r models.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily report %s\n", r.Date.Format(models.DateLayout))
	fmt.Fprintf(&b, "Sales: %.2f (%d transactions, %.2f L)\n", r.TotalSales, r.Transactions, r.QuantitySold)
	fmt.Fprintf(&b, "Expenses: %.2f\n", r.Expenses)
	fmt.Fprintf(&b, "Salaries: %.2f\n", r.Salaries)

	label := "Profit"
	if r.Profit < 0 {
		label = "Loss"
	}
	fmt.Fprintf(&b, "%s: %.2f (margin %s%%)", label, r.Profit, r.ProfitMargin)

	if r.LowStockCount > 0 {
		fmt.Fprintf(&b, "\nLow stock items: %d", r.LowStockCount)
	}
	return b.String()
}
