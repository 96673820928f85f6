// Package email gives the assistant mailbox access: listing and marking
// inbox messages over IMAP and sending mail over SMTP, exposed to the model
// as named tool capabilities.
package email

// IMAPConfig holds the settings for the incoming-mail connection.
type IMAPConfig struct {
	Host     string `json:"host" env:"NOORI_IMAP_HOST"`
	Port     int    `json:"port" env:"NOORI_IMAP_PORT"`
	Username string `json:"username" env:"NOORI_IMAP_USERNAME"`
	Password string `json:"password" env:"NOORI_IMAP_PASSWORD"`
	TLS      bool   `json:"tls" env:"NOORI_IMAP_TLS"`
}

// SMTPConfig holds the settings for outgoing mail.
type SMTPConfig struct {
	Host     string `json:"host" env:"NOORI_SMTP_HOST"`
	Port     int    `json:"port" env:"NOORI_SMTP_PORT"`
	Username string `json:"username" env:"NOORI_SMTP_USERNAME"`
	Password string `json:"password" env:"NOORI_SMTP_PASSWORD"`
	From     string `json:"from" env:"NOORI_SMTP_FROM"`

	// StartTLS selects plain-then-upgrade (port 587). When false the
	// connection is implicit TLS (port 465).
	StartTLS bool `json:"starttls" env:"NOORI_SMTP_STARTTLS"`
}

// Configured reports whether the account has enough settings to connect.
func (c IMAPConfig) Configured() bool {
	return c.Host != "" && c.Username != ""
}

// Configured reports whether outgoing mail is usable.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}
