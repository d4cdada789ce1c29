package templates

// Option pattern
type Option func(*EmailData)

func WithAppName(name string) Option     { return func(d *EmailData) { d.AppName = name } }
func WithCompanyName(name string) Option { return func(d *EmailData) { d.CompanyName = name } }

// NewOTPData builds the data map for the OTP verification mail.
func NewOTPData(name, email, code string, opts ...Option) map[string]any {
	d := EmailData{Name: name, Email: email, Code: code}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
