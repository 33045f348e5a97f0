package reviewrepo

import (
	"time"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/ports"

	"github.com/google/uuid"
)

// ReviewDTO is the database representation of a submitted review. The unique
// index on JobCardID backs the once-per-job rule against concurrent writers.
type ReviewDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobCardID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName overrides the table name used by GORM.
func (ReviewDTO) TableName() string {
	return "reviews"
}

func fromPort(review ports.Review) ReviewDTO {
	return ReviewDTO{
		ID:         kernel.NewUUID().Bytes(),
		JobCardID:  review.JobCardID.Bytes(),
		CustomerID: review.CustomerID.Bytes(),
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  time.Now().UTC(),
	}
}
