package leads

import (
	"time"

	"quote-service/internal/model"
	"quote-service/prometheus"

	"gorm.io/gorm"
)

// Save persists a captured lead.
func Save(db *gorm.DB, lead *model.Lead) error {
	defer prometheus.TrackDBOperation("create_lead")(time.Now())
	return db.Create(lead).Error
}

// List returns the most recent leads, newest first. A non-positive
// limit returns everything.
func List(db *gorm.DB, limit int) ([]model.Lead, error) {
	defer prometheus.TrackDBOperation("list_leads")(time.Now())

	q := db.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []model.Lead
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
