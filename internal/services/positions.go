package services

import (
	"gorm.io/gorm"

	"github.com/ahurasense/ahurasense/internal/models"
)

// Position maintenance for the dense zero-based ordering inside each
// (project, status) bucket. Every helper must run inside the caller's
// transaction; a bucket is never left partially renumbered.

// NextIssuePosition returns the append index for a bucket: max+1, or 0 when
// the bucket is empty.
func NextIssuePosition(tx *gorm.DB, projectID, statusID uint) (int, error) {
	var max int

	err := tx.Model(&models.Issue{}).
		Where("project_id = ? AND status_id = ?", projectID, statusID).
		Select("COALESCE(MAX(position), -1)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}

	return max + 1, nil
}

// BucketSize counts the issues in a bucket.
func BucketSize(tx *gorm.DB, projectID, statusID uint) (int, error) {
	var count int64

	err := tx.Model(&models.Issue{}).
		Where("project_id = ? AND status_id = ?", projectID, statusID).
		Count(&count).Error

	return int(count), err
}

// OpenSlot shifts every issue at or after index one step right, opening a hole
// for an insert at that index.
func OpenSlot(tx *gorm.DB, projectID, statusID uint, index int) error {
	return tx.Model(&models.Issue{}).
		Where("project_id = ? AND status_id = ? AND position >= ?", projectID, statusID, index).
		Update("position", gorm.Expr("position + 1")).Error
}

// CloseGap shifts every issue after oldPosition one step left, closing the
// hole a removed issue leaves behind.
func CloseGap(tx *gorm.DB, projectID, statusID uint, oldPosition int) error {
	return tx.Model(&models.Issue{}).
		Where("project_id = ? AND status_id = ? AND position > ?", projectID, statusID, oldPosition).
		Update("position", gorm.Expr("position - 1")).Error
}

// RenumberStatusColumns rewrites the project's column positions to a dense
// zero-based sequence preserving the current order.
func RenumberStatusColumns(tx *gorm.DB, projectID uint) error {
	var remaining []models.IssueStatus

	if err := tx.Where("project_id = ?", projectID).Order("position asc").Find(&remaining).Error; err != nil {
		return err
	}

	for index, status := range remaining {
		if status.Position == index {
			continue
		}
		err := tx.Model(&models.IssueStatus{}).
			Where("id = ?", status.ID).
			Update("position", index).Error
		if err != nil {
			return err
		}
	}

	return nil
}
