package application

import "expvar"

// stats is published at /debug/vars under "auth".
var stats = expvar.NewMap("auth")

const (
	statRegistered     = "registered"
	statVerified       = "verified"
	statVerifyRejected = "verify_rejected"
	statLoginOK        = "login_ok"
	statLoginRejected  = "login_rejected"
	statProfileUpdated = "profile_updated"
	statDeleted        = "deleted"
	statOTPMailFailed  = "otp_mail_failed"
)
