package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/terraincognita07/dailypulse/internal/config"
	"github.com/terraincognita07/dailypulse/internal/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Context carries what every command needs. main fills it once after
// parsing flags.
type Context struct {
	Config config.Config
	Logger *zap.Logger
	Stdout io.Writer
	Stdin  *os.File
	Now    func() time.Time
}

func (ctx *Context) logger() *zap.Logger {
	if ctx.Logger == nil {
		return zap.NewNop()
	}
	return ctx.Logger
}

func (ctx *Context) stdout() io.Writer {
	if ctx.Stdout == nil {
		return os.Stdout
	}
	return ctx.Stdout
}

func (ctx *Context) now() time.Time {
	if ctx.Now == nil {
		return time.Now()
	}
	return ctx.Now()
}

func (ctx *Context) location() *time.Location {
	location, ok := ctx.Config.Location()
	if !ok {
		ctx.logger().Warn("unknown time zone, falling back to UTC", zap.String("tz", ctx.Config.TimeZone))
	}
	return location
}

func (ctx *Context) openDatabase() (*gorm.DB, func(), error) {
	database, err := db.OpenSQLite(ctx.Config.DBPath, ctx.logger())
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	closeDatabase := func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return database, closeDatabase, nil
}
