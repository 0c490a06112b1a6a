package config

// AppConfig holds the application configuration. Every value is read once
// at startup and injected; nothing below this layer touches the environment.
type AppConfig struct {
	Port         string
	DBURL        string
	RedisAddress string

	// SymmetricKey encrypts PASETO tokens. Must be exactly 32 bytes.
	SymmetricKey string

	// The admin is not a database row: the panel ships with a single fixed
	// admin identity configured at deploy time.
	AdminEmail    string
	AdminPassword string

	AllowedOrigins []string

	RazorpayKeyID     string
	RazorpayKeySecret string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string

	// UploadDir is where profile and doctor images land; BaseURL prefixes
	// the public URLs handed back to clients.
	UploadDir string
	BaseURL   string
}

// GetSymmetricKey returns the PASETO symmetric key from the config.
func (c *AppConfig) GetSymmetricKey() string {
	return c.SymmetricKey
}

// MailConfigured reports whether SMTP settings are present. Notification
// mail is skipped entirely when they are not.
func (c *AppConfig) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != 0 && c.SMTPUser != ""
}
