package handlers

import (
	"time"

	"gorm.io/datatypes"

	"github.com/ahurasense/ahurasense/internal/apperrors"
)

const dateLayout = "2006-01-02"

// parseDate converts a YYYY-MM-DD request field into a date column value.
func parseDate(value string) (*datatypes.Date, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, apperrors.BadRequest("Dates must use the YYYY-MM-DD format")
	}

	date := datatypes.Date(parsed)
	return &date, nil
}

func formatDate(date *datatypes.Date) *string {
	if date == nil {
		return nil
	}

	formatted := time.Time(*date).Format(dateLayout)
	return &formatted
}
