package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/constants"
	"github.com/julianstephens/datebook/internal/models"
)

const testTimeout = 30 * time.Second

// EmailCmd groups the templated email provider commands.
type EmailCmd struct {
	Set   EmailSetCmd   `cmd:"" help:"Save the email provider credentials."`
	Show  EmailShowCmd  `cmd:"" help:"Show the email provider configuration."`
	Clear EmailClearCmd `cmd:"" help:"Remove the email provider configuration."`
	Test  EmailTestCmd  `cmd:"" help:"Send a test reminder email."`
}

type EmailSetCmd struct {
	ServiceID  string `help:"Provider service ID." required:""`
	TemplateID string `help:"Provider template ID." required:""`
	PublicKey  string `help:"Provider public key." required:""`
}

func (c *EmailSetCmd) Run(ctx *cli.Context) error {
	cfg := models.EmailProviderConfig{
		ServiceID:  strings.TrimSpace(c.ServiceID),
		TemplateID: strings.TrimSpace(c.TemplateID),
		PublicKey:  strings.TrimSpace(c.PublicKey),
	}
	if !cfg.IsConfigured() {
		return fmt.Errorf("service ID, template ID and public key must all be non-empty")
	}

	if err := ctx.SaveProviderConfig(cfg); err != nil {
		return fmt.Errorf("failed to save email provider config: %w", err)
	}

	ctx.Println("✓ Email provider configuration saved")
	ctx.Printf("  Run '%s email test <address>' to check delivery.\n", constants.AppName)
	return nil
}

type EmailShowCmd struct{}

func (c *EmailShowCmd) Run(ctx *cli.Context) error {
	cfg, err := ctx.ProviderConfig()
	if err != nil {
		return err
	}

	if cfg.IsConfigured() {
		shown := cfg.Redacted()
		ctx.Println("Templated provider:")
		ctx.Printf("  Endpoint:    %s\n", ctx.Config.ProviderEndpoint)
		ctx.Printf("  Service ID:  %s\n", shown.ServiceID)
		ctx.Printf("  Template ID: %s\n", shown.TemplateID)
		ctx.Printf("  Public key:  %s\n", shown.PublicKey)
	} else {
		ctx.Println("Templated provider: not configured")
	}

	if ctx.Config.SMTP.Configured() {
		ctx.Printf("SMTP: %s:%d as %s\n", ctx.Config.SMTP.Host, ctx.Config.SMTP.Port, ctx.Config.SMTP.From)
	} else {
		ctx.Println("SMTP: not configured")
	}
	return nil
}

type EmailClearCmd struct{}

func (c *EmailClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.Backend.Delete(constants.ProviderConfigKey); err != nil {
		return fmt.Errorf("failed to clear email provider config: %w", err)
	}
	ctx.Println("✓ Email provider configuration cleared")
	return nil
}

type EmailTestCmd struct {
	To string `arg:"" help:"Address to send the test email to."`
}

func (c *EmailTestCmd) Run(ctx *cli.Context) error {
	d := ctx.Dispatcher()
	if !d.EmailConfigured() {
		return fmt.Errorf("no email transport configured: run '%s email set' or add SMTP settings to %s", constants.AppName, ctx.ConfigPath)
	}

	sendCtx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	if err := d.TestEmail(sendCtx, c.To); err != nil {
		ctx.Printf("❌ Test email delivery failed: %v\n", err)
		return err
	}
	ctx.Printf("✓ Test email sent to %s\n", c.To)
	return nil
}
