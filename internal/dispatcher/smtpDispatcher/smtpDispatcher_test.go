package smtpDispatcher

import (
	"errors"
	"testing"

	"github.com/ldutos/market_reporter/internal/model"
	mail "github.com/wneessen/go-mail"
)

func TestClassifySendError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus model.DeliveryStatus
		wantReason string
	}{
		{name: "auth", err: &mail.SendError{Reason: mail.ErrSMTPAuth}, wantStatus: model.DeliveryRejected, wantReason: "auth"},
		{name: "recipient", err: &mail.SendError{Reason: mail.ErrSMTPRcptTo}, wantStatus: model.DeliveryRejected, wantReason: "recipient"},
		{name: "sender", err: &mail.SendError{Reason: mail.ErrSMTPMailFrom}, wantStatus: model.DeliveryRejected, wantReason: "sender"},
		{name: "connect", err: &mail.SendError{Reason: mail.ErrConnect}, wantStatus: model.DeliveryTransportError, wantReason: "connect"},
		{name: "data phase", err: &mail.SendError{Reason: mail.ErrSMTPData}, wantStatus: model.DeliveryTransportError, wantReason: "transport"},
		{name: "plain error", err: errors.New("broken pipe"), wantStatus: model.DeliveryTransportError, wantReason: "transport"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := ClassifySendError(tc.err)
			if result.Status != tc.wantStatus {
				t.Errorf("status = %s, want %s", result.Status, tc.wantStatus)
			}
			if result.Reason != tc.wantReason {
				t.Errorf("reason = %q, want %q", result.Reason, tc.wantReason)
			}
			if result.Accepted() {
				t.Error("classified failure must never read as accepted")
			}
			if result.Err == nil {
				t.Error("original error must be preserved")
			}
		})
	}
}
