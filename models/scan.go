package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// One analyzed food item, saved after the client confirms a scan.
// Records are write-once: they are only ever created and deleted, never
// updated. CreatedAt doubles as the quota-window timestamp.
type ScanRecord struct {
	gorm.Model
	UserID       string `gorm:"type:varchar(255);index;not null"`
	Context      string `gorm:"size:500"` // sanitized user-supplied prompt context
	FoodName     string `gorm:"not null"`
	Calories     int    `gorm:"not null;check:calories >= 0"`
	Ingredients  datatypes.JSON // ordered array of strings
	RiskLevel    string         `gorm:"type:varchar(10);not null;check:risk_level IN ('high','medium','low')"`
	RiskReason   string
	HumorComment string
	BrandNote    *string
	BurnOff      datatypes.JSON // exercise-equivalence breakdown
	ImageURL     string         // optional S3 location of the confirmed photo
}
