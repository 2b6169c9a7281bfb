package email

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/config"
	"github.com/julianstephens/datebook/internal/constants"
	"github.com/julianstephens/datebook/internal/models"
	"github.com/julianstephens/datebook/internal/storage"
)

func setupContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	keyring.MockInit()
	cfg := config.DefaultConfig()
	cfg.SetDesktopEnabled(false)
	ctx, err := cli.NewContext(storage.NewMemoryStore(), cfg, "config.yaml")
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	ctx.Out = &out
	return ctx, &out
}

func TestEmailSetShowClear(t *testing.T) {
	ctx, out := setupContext(t)

	set := &EmailSetCmd{ServiceID: "svc", TemplateID: "tpl", PublicKey: "public-key"}
	if err := set.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "email test") {
		t.Errorf("set output missing test notice: %q", out.String())
	}

	out.Reset()
	if err := (&EmailShowCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	if !strings.Contains(text, "svc") || strings.Contains(text, "public-key") {
		t.Errorf("show output = %q", text)
	}

	if err := (&EmailClearCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	cfg, err := ctx.ProviderConfig()
	if err != nil || cfg.IsConfigured() {
		t.Errorf("config after clear = %+v, %v", cfg, err)
	}
}

func TestEmailSet_RejectsBlank(t *testing.T) {
	ctx, _ := setupContext(t)
	if err := (&EmailSetCmd{ServiceID: "svc", TemplateID: " ", PublicKey: "k"}).Run(ctx); err == nil {
		t.Error("expected error for blank template ID")
	}
}

func TestEmailTest(t *testing.T) {
	ctx, out := setupContext(t)

	var toEmail string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TemplateParams struct {
				ToEmail string `json:"to_email"`
			} `json:"template_params"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		toEmail = body.TemplateParams.ToEmail
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	ctx.Config.ProviderEndpoint = server.URL
	if err := (&EmailTestCmd{To: "me@example.com"}).Run(ctx); err == nil {
		t.Fatal("expected error with no transport configured")
	}

	ctx.SaveProviderConfig(testProvider())
	if err := (&EmailTestCmd{To: "me@example.com"}).Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if toEmail != "me@example.com" {
		t.Errorf("provider saw to_email %q", toEmail)
	}
	if !strings.Contains(out.String(), "✓ Test email sent") {
		t.Errorf("output = %q", out.String())
	}
}

func TestEmailTest_DeliveryFailed(t *testing.T) {
	ctx, out := setupContext(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusBadRequest)
	}))
	defer server.Close()

	ctx.Config.ProviderEndpoint = server.URL
	ctx.SaveProviderConfig(testProvider())
	if err := (&EmailTestCmd{To: "me@example.com"}).Run(ctx); err == nil {
		t.Fatal("expected delivery error")
	}
	if !strings.Contains(out.String(), "delivery failed") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSMTPPassword(t *testing.T) {
	ctx, out := setupContext(t)

	orig := stdin
	stdin = strings.NewReader("s3cret\n")
	t.Cleanup(func() { stdin = orig })

	if err := (&SMTPPasswordSetCmd{Stdin: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got, err := keyring.Get(constants.AppName, constants.KeyringSMTPUser)
	if err != nil || got != "s3cret" {
		t.Errorf("keyring value = %q, %v", got, err)
	}
	if !strings.Contains(out.String(), "✓ SMTP password stored") {
		t.Errorf("output = %q", out.String())
	}

	if err := (&SMTPPasswordDeleteCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := keyring.Get(constants.AppName, constants.KeyringSMTPUser); !errors.Is(err, keyring.ErrNotFound) {
		t.Errorf("password still stored: %v", err)
	}
	if err := (&SMTPPasswordDeleteCmd{}).Run(ctx); err == nil {
		t.Error("expected error deleting a missing password")
	}
}

func testProvider() models.EmailProviderConfig {
	return models.EmailProviderConfig{ServiceID: "svc", TemplateID: "tpl", PublicKey: "pub"}
}
