package models

import "time"

// SchemaMigration records a schema migration that has been applied.
type SchemaMigration struct {
	Version   uint   `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"not null"`
	AppliedAt time.Time
}
