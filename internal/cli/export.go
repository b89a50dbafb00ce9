package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/terraincognita07/dailypulse/internal/db"
	"github.com/terraincognita07/dailypulse/internal/services"
	"go.uber.org/zap"
)

type ExportCmd struct {
	Email  string `help:"Email of the account to export." required:""`
	Window string `help:"Window in days (7, 14 or 30)." default:"7" enum:"7,14,30"`
	Out    string `help:"Output file or directory. Writes to stdout when empty." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	window, err := services.ParseWindow(c.Window)
	if err != nil {
		return fmt.Errorf("invalid window %q", c.Window)
	}

	database, closeDatabase, err := ctx.openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase()

	repositories := db.NewRepositories(database)
	user, err := services.NewAuthService(repositories.Users).FindByEmail(c.Email)
	if err != nil {
		if errors.Is(err, services.ErrAuthUserNotFound) {
			return fmt.Errorf("user %s not found", services.NormalizeAuthEmail(c.Email))
		}
		return fmt.Errorf("load user: %w", err)
	}

	exportService := services.NewExportService(repositories.DailyEntries, ctx.Config.EntryListLimit)
	result, err := exportService.ExportWindowCSV(user.ID, window, ctx.now(), ctx.location())
	if err != nil {
		return fmt.Errorf("export entries: %w", err)
	}

	if c.Out == "" {
		_, err := ctx.stdout().Write(result.Content)
		return err
	}

	target := c.Out
	if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
		target = filepath.Join(target, result.Filename)
	}
	if err := os.WriteFile(target, result.Content, 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	ctx.logger().Info("export written",
		zap.String("path", target),
		zap.Int("rows", result.Summary.TotalEntries),
	)
	fmt.Fprintf(ctx.stdout(), "Exported %d entries to %s\n", result.Summary.TotalEntries, target)
	return nil
}
