package api

import (
	"github.com/terraincognita07/dailypulse/internal/db"
	"github.com/terraincognita07/dailypulse/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.entryService = services.NewEntryService(handler.repositories.DailyEntries)
	handler.insightsService = services.NewInsightsService(handler.repositories.DailyEntries, handler.listLimit)
	handler.badgeService = services.NewBadgeService(handler.repositories.DailyEntries, handler.repositories.Users)
	handler.profileService = services.NewProfileService(handler.repositories.Users, handler.repositories.DailyEntries, handler.listLimit)
	handler.exportService = services.NewExportService(handler.repositories.DailyEntries, handler.listLimit)
	return handler
}

func (handler *Handler) ensureDependencies() {
	if handler.repositories == nil {
		if handler.db == nil {
			return
		}
		handler.repositories = db.NewRepositories(handler.db)
	}

	if handler.authService == nil {
		handler.authService = services.NewAuthService(handler.repositories.Users)
	}
	if handler.entryService == nil {
		handler.entryService = services.NewEntryService(handler.repositories.DailyEntries)
	}
	if handler.insightsService == nil {
		handler.insightsService = services.NewInsightsService(handler.repositories.DailyEntries, handler.listLimit)
	}
	if handler.badgeService == nil {
		handler.badgeService = services.NewBadgeService(handler.repositories.DailyEntries, handler.repositories.Users)
	}
	if handler.profileService == nil {
		handler.profileService = services.NewProfileService(handler.repositories.Users, handler.repositories.DailyEntries, handler.listLimit)
	}
	if handler.exportService == nil {
		handler.exportService = services.NewExportService(handler.repositories.DailyEntries, handler.listLimit)
	}
}
