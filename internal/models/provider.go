package models

import "strings"

// EmailProviderConfig configures the templated email delivery provider.
type EmailProviderConfig struct {
	ServiceID  string `json:"serviceId"`
	TemplateID string `json:"templateId"`
	PublicKey  string `json:"publicKey"`
}

// IsConfigured reports whether every field needed to send is present.
func (c EmailProviderConfig) IsConfigured() bool {
	return strings.TrimSpace(c.ServiceID) != "" &&
		strings.TrimSpace(c.TemplateID) != "" &&
		strings.TrimSpace(c.PublicKey) != ""
}

// Redacted returns a copy safe to print.
func (c EmailProviderConfig) Redacted() EmailProviderConfig {
	if len(c.PublicKey) > 4 {
		c.PublicKey = c.PublicKey[:4] + strings.Repeat("*", len(c.PublicKey)-4)
	} else if c.PublicKey != "" {
		c.PublicKey = "****"
	}
	return c
}
