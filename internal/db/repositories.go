package db

import "gorm.io/gorm"

type Repositories struct {
	Users        *UserRepository
	DailyEntries *DailyEntryRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(database),
		DailyEntries: NewDailyEntryRepository(database),
	}
}
