package smtpDispatcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ldutos/market_reporter/config"
	"github.com/ldutos/market_reporter/internal/model"
	"github.com/ldutos/market_reporter/utils"
	mail "github.com/wneessen/go-mail"
)

type SmtpDispatcher struct {
	cfg *config.Config
}

func New(cfg *config.Config) *SmtpDispatcher {
	return &SmtpDispatcher{cfg: cfg}
}

// Send submits the artifact in a single SMTP transaction. The result
// distinguishes authentication and recipient rejections from transport
// failures; nothing is swallowed into a generic error.
func (d *SmtpDispatcher) Send(ctx context.Context, artifact model.Artifact, recipients []string) model.DeliveryResult {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "SmtpDispatcher.Send"

	slog.Debug("Send start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("recipients", len(recipients)))

	msg, err := d.buildMessage(artifact, recipients)
	if err != nil {
		slog.Error("can't build message", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.DeliveryResult{Status: model.DeliveryRejected, Reason: "invalid message", Err: err}
	}

	client, err := mail.NewClient(
		d.cfg.SMTP.Host,
		mail.WithPort(d.cfg.SMTP.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(d.cfg.SMTP.User),
		mail.WithPassword(d.cfg.SMTP.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(d.cfg.SMTP.Timeout),
	)
	if err != nil {
		slog.Error("can't create smtp client", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.DeliveryResult{Status: model.DeliveryTransportError, Reason: "client setup", Err: err}
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		result := ClassifySendError(err)
		slog.Error("smtp submission failed", slog.String("rqID", rqID), slog.String("op", op),
			slog.String("status", string(result.Status)), slog.String("reason", result.Reason), slog.String("err", err.Error()))
		return result
	}

	slog.Debug("Send finished", slog.String("rqID", rqID), slog.String("op", op))

	return model.DeliveryResult{Status: model.DeliveryAccepted}
}

func (d *SmtpDispatcher) buildMessage(artifact model.Artifact, recipients []string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(d.cfg.SMTP.From); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(recipients...); err != nil {
		return nil, fmt.Errorf("set recipients: %w", err)
	}

	msg.Subject(artifact.Subject)
	msg.SetBodyString(mail.TypeTextHTML, artifact.Body)

	for _, attachment := range artifact.Attachments {
		err := msg.AttachReader(attachment.Filename, bytes.NewReader(attachment.Data),
			mail.WithFileContentType(mail.ContentType(attachment.MIMEType)))
		if err != nil {
			return nil, fmt.Errorf("attach %s: %w", attachment.Filename, err)
		}
	}

	return msg, nil
}

// ClassifySendError maps a go-mail submission error onto the delivery
// result taxonomy.
func ClassifySendError(err error) model.DeliveryResult {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		switch sendErr.Reason {
		case mail.ErrSMTPAuth:
			return model.DeliveryResult{Status: model.DeliveryRejected, Reason: "auth", Err: err}
		case mail.ErrSMTPRcptTo:
			return model.DeliveryResult{Status: model.DeliveryRejected, Reason: "recipient", Err: err}
		case mail.ErrSMTPMailFrom:
			return model.DeliveryResult{Status: model.DeliveryRejected, Reason: "sender", Err: err}
		case mail.ErrConnect:
			return model.DeliveryResult{Status: model.DeliveryTransportError, Reason: "connect", Err: err}
		}
	}
	return model.DeliveryResult{Status: model.DeliveryTransportError, Reason: "transport", Err: err}
}
