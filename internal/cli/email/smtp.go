package email

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/datebook/internal/cli"
	"github.com/julianstephens/datebook/internal/keyring"
)

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// SMTPPasswordCmd manages the SMTP password kept in the OS keyring.
type SMTPPasswordCmd struct {
	Set    SMTPPasswordSetCmd    `cmd:"" help:"Store the SMTP password in the OS keyring."`
	Delete SMTPPasswordDeleteCmd `cmd:"" help:"Remove the SMTP password from the OS keyring."`
}

type SMTPPasswordSetCmd struct {
	Stdin bool `help:"Read the password from standard input instead of prompting."`
}

func (c *SMTPPasswordSetCmd) Run(ctx *cli.Context) error {
	password, err := c.readPassword()
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if err := keyring.SetSMTPPassword(password); err != nil {
		return err
	}
	ctx.Println("✓ SMTP password stored in OS keyring")
	return nil
}

func (c *SMTPPasswordSetCmd) readPassword() (string, error) {
	if c.Stdin {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	var password string
	err := huh.NewInput().
		Title("SMTP password").
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Run()
	if err != nil {
		return "", err
	}
	return password, nil
}

type SMTPPasswordDeleteCmd struct{}

func (c *SMTPPasswordDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteSMTPPassword(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no SMTP password found in keyring")
		}
		return err
	}
	ctx.Println("✓ SMTP password deleted from OS keyring")
	return nil
}
