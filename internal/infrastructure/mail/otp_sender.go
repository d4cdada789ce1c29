package mail

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/petaverse-auth/internal/application"
	"github.com/oksasatya/petaverse-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/petaverse-auth/pkg/mailer/templates"
)

// Branding is applied to every OTP mail.
type Branding struct {
	AppName     string
	CompanyName string
}

func (b Branding) job(msg application.OTPMessage) mailer.EmailJob {
	return mailer.EmailJob{
		To:       msg.Email,
		Template: mailtpl.OTPVerification,
		Data: mailtpl.NewOTPData(msg.Name, msg.Email, msg.Code,
			mailtpl.WithAppName(b.AppName),
			mailtpl.WithCompanyName(b.CompanyName),
		),
	}
}

// JobSender is anything that can deliver a composed job (Mailgun in production).
type JobSender interface {
	SendJob(ctx context.Context, job mailer.EmailJob) error
}

// DirectSender renders and sends the OTP mail in-process.
type DirectSender struct {
	Client   JobSender
	Branding Branding
	Timeout  time.Duration
}

func (s *DirectSender) SendOTP(ctx context.Context, msg application.OTPMessage) error {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Client.SendJob(c, s.Branding.job(msg))
}

// Publisher enqueues JSON messages (helpers.RabbitPublisher in production).
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueSender hands the OTP mail to the email worker through the queue.
type QueueSender struct {
	Pub      Publisher
	Branding Branding
}

func (s *QueueSender) SendOTP(ctx context.Context, msg application.OTPMessage) error {
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.Pub.PublishJSON(c, s.Branding.job(msg))
}

// LogSender is used when mail sending is disabled. The code is only
// logged at debug level, which NewLogger enables in development.
type LogSender struct {
	Logger *logrus.Logger
}

func (s *LogSender) SendOTP(_ context.Context, msg application.OTPMessage) error {
	s.Logger.WithField("email", msg.Email).Info("mail sending disabled; otp not delivered")
	s.Logger.WithFields(logrus.Fields{"email": msg.Email, "code": msg.Code}).Debug("otp code")
	return nil
}

var (
	_ application.OTPSender = (*DirectSender)(nil)
	_ application.OTPSender = (*QueueSender)(nil)
	_ application.OTPSender = (*LogSender)(nil)
)
