package cli

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/terraincognita07/dailypulse/internal/db"
	"github.com/terraincognita07/dailypulse/internal/services"
	"go.uber.org/zap"
)

type ResetPasswordCmd struct {
	Email       string `help:"Email of the account to reset." required:""`
	SetPassword bool   `help:"Prompt for a new password instead of generating a temporary one." name:"set-password"`
}

func (c *ResetPasswordCmd) Run(ctx *Context) error {
	email := services.NormalizeAuthEmail(c.Email)
	if email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	database, closeDatabase, err := ctx.openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase()

	authService := services.NewAuthService(db.NewUserRepository(database))
	out := ctx.stdout()

	if c.SetPassword {
		password, err := c.promptPassword(ctx)
		if err != nil {
			return err
		}
		user, err := authService.FindByEmail(email)
		if err != nil {
			return resetLookupError(email, err)
		}
		if err := authService.SetPassword(&user, password, false); err != nil {
			return fmt.Errorf("update user password: %w", err)
		}
		ctx.logger().Info("password set from cli", zap.Uint("user_id", user.ID))
		fmt.Fprintln(out, "Password updated.")
		return nil
	}

	temporaryPassword, err := authService.ResetPassword(email)
	if err != nil {
		return resetLookupError(email, err)
	}
	ctx.logger().Info("temporary password issued", zap.String("email", email))
	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "User must change password on next login.")
	return nil
}

func (c *ResetPasswordCmd) promptPassword(ctx *Context) (string, error) {
	out := ctx.stdout()

	first, err := promptSecret(out, ctx.Stdin, "New password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	second, err := promptSecret(out, ctx.Stdin, "Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	password := strings.TrimSpace(first)
	if password != strings.TrimSpace(second) {
		return "", errors.New("passwords do not match")
	}
	if err := services.ValidatePasswordStrength(password); err != nil {
		return "", errors.New("weak password: use at least 8 characters with upper and lower case letters and a digit")
	}
	return password, nil
}

func resetLookupError(email string, err error) error {
	if errors.Is(err, services.ErrAuthUserNotFound) {
		return fmt.Errorf("user %s not found", email)
	}
	return fmt.Errorf("reset password: %w", err)
}
