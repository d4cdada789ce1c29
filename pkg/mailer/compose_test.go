package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mailtpl "github.com/oksasatya/petaverse-auth/pkg/mailer/templates"
)

func TestCompose_OTPTemplate(t *testing.T) {
	job := EmailJob{
		To:       "ana@example.com",
		Template: mailtpl.OTPVerification,
		Data: mailtpl.NewOTPData("Ana", "", "042917",
			mailtpl.WithAppName("Petaverse"),
			mailtpl.WithCompanyName("AuthModule Petaverse"),
		),
	}

	subject, text, html, err := Compose(job)
	require.NoError(t, err)
	assert.Equal(t, "OTP Verification Token", subject)
	assert.Equal(t, "Your OTP Verification Token is: 042917", text)
	assert.Contains(t, html, "042917")
	assert.Contains(t, html, "Hi Ana,")
	// recipient fills the empty Email field
	assert.Contains(t, html, "ana@example.com")
	assert.Contains(t, html, "AuthModule Petaverse")
}

func TestCompose_Raw(t *testing.T) {
	subject, text, html, err := Compose(EmailJob{To: "a@x.io", Subject: "Hi", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "Hi", subject)
	assert.Equal(t, "body", text)
	assert.Empty(t, html)
}

func TestCompose_Errors(t *testing.T) {
	_, _, _, err := Compose(EmailJob{Template: mailtpl.OTPVerification})
	assert.Error(t, err)

	_, _, _, err = Compose(EmailJob{To: "a@x.io", Subject: "Hi"})
	assert.ErrorIs(t, err, ErrEmptyJob)

	_, _, _, err = Compose(EmailJob{To: "a@x.io", Template: "does_not_exist"})
	assert.Error(t, err)
}
