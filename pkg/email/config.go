package email

// Config holds email service configuration.
// Postmark tokens are optional: without them the service falls back to a
// development or logging sender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@brilliantperspectives.com"`
	SupportEmail         string `env:"CUSTOMER_SUPPORT_EMAIL" envDefault:"help@brilliantperspectives.com"`
	DevDir               string `env:"EMAIL_DEV_DIR"`
}

// PostmarkEnabled reports whether both Postmark tokens are set.
func (c Config) PostmarkEnabled() bool {
	return c.PostmarkServerToken != "" && c.PostmarkAccountToken != ""
}
