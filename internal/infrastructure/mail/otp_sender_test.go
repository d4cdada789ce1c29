package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/petaverse-auth/internal/application"
	"github.com/oksasatya/petaverse-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/petaverse-auth/pkg/mailer/templates"
)

type recordingSender struct {
	jobs     []mailer.EmailJob
	deadline bool
	err      error
}

func (r *recordingSender) SendJob(ctx context.Context, job mailer.EmailJob) error {
	_, r.deadline = ctx.Deadline()
	r.jobs = append(r.jobs, job)
	return r.err
}

type recordingPublisher struct {
	bodies []any
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.bodies = append(p.bodies, body)
	return p.err
}

var msg = application.OTPMessage{Email: "ana@example.com", Name: "Ana", Code: "123456"}

func TestDirectSender(t *testing.T) {
	rec := &recordingSender{}
	s := &DirectSender{Client: rec, Branding: Branding{AppName: "Petaverse", CompanyName: "AuthModule Petaverse"}, Timeout: time.Second}

	require.NoError(t, s.SendOTP(context.Background(), msg))
	require.Len(t, rec.jobs, 1)
	job := rec.jobs[0]
	assert.True(t, rec.deadline)
	assert.Equal(t, "ana@example.com", job.To)
	assert.Equal(t, mailtpl.OTPVerification, job.Template)
	assert.Equal(t, "123456", job.Data["Code"])
	assert.Equal(t, "Ana", job.Data["Name"])
	assert.Equal(t, "AuthModule Petaverse", job.Data["CompanyName"])
}

func TestDirectSender_Error(t *testing.T) {
	boom := errors.New("mailgun down")
	s := &DirectSender{Client: &recordingSender{err: boom}}
	assert.ErrorIs(t, s.SendOTP(context.Background(), msg), boom)
}

func TestQueueSender(t *testing.T) {
	pub := &recordingPublisher{}
	s := &QueueSender{Pub: pub, Branding: Branding{AppName: "Petaverse"}}

	require.NoError(t, s.SendOTP(context.Background(), msg))
	require.Len(t, pub.bodies, 1)
	job, ok := pub.bodies[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", job.To)
	assert.Equal(t, "Petaverse", job.Data["AppName"])

	// the queued job renders the same way the worker will render it
	subject, text, _, err := mailer.Compose(job)
	require.NoError(t, err)
	assert.Equal(t, "OTP Verification Token", subject)
	assert.Equal(t, "Your OTP Verification Token is: 123456", text)
}

func TestLogSender_HidesCodeAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.InfoLevel)

	require.NoError(t, (&LogSender{Logger: logger}).SendOTP(context.Background(), msg))
	assert.Contains(t, buf.String(), "ana@example.com")
	assert.NotContains(t, buf.String(), "123456")
}
