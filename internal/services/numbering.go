package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/models"
)

// NextIssueNumber allocates the next per-project issue number. It reads the
// current maximum inside the caller's insert transaction rather than using a
// separate sequence, so concurrent creates serialize on the row locks instead
// of leaving gaps.
func NextIssueNumber(tx *gorm.DB, projectID uint) (int, error) {
	var max int

	err := tx.Model(&models.Issue{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(issue_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}

	return max + 1, nil
}

// IssueKey derives the immutable human-readable key, e.g. "CORE-42".
func IssueKey(projectKey string, number int) string {
	return fmt.Sprintf("%s-%d", projectKey, number)
}
