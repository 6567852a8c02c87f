package models

import "time"

// ProductAction counts cart additions and purchases of a product per day bucket.
type ProductAction struct {
	ProductID     string `gorm:"size:36;primaryKey"`
	Timestamp     int64  `gorm:"primaryKey;autoIncrement:false"`
	TotalCart     int    `gorm:"not null;default:0"`
	TotalPurchase int    `gorm:"not null;default:0"`
}

// ActionBucket truncates t to the day, as a unix timestamp.
func ActionBucket(t time.Time) int64 {
	return t.UTC().Truncate(24 * time.Hour).Unix()
}
