package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Vivek-Rav/yawye/models"
	"github.com/Vivek-Rav/yawye/utils"
)

// ScanService runs the analyze pipeline against the vision model and owns
// ScanRecord persistence. Analysis and persistence are deliberately separate
// steps: a scan only consumes a quota slot once the client confirms it.
type ScanService struct {
	db     *gorm.DB
	vision VisionModel
}

func NewScanService(db *gorm.DB, vision VisionModel) *ScanService {
	return &ScanService{db: db, vision: vision}
}

// Analyze validates the request payload, sanitizes the user context, calls
// the model and shape-checks its output. Nothing is persisted here. Guard
// order matters: every local check runs before the external call so a bad
// payload never costs a model invocation.
func (s *ScanService) Analyze(ctx context.Context, image, userContext string) (*ScanResult, error) {
	if image == "" {
		return nil, fmt.Errorf("%w: no image provided", ErrInvalidImage)
	}
	if len(image) > utils.MaxImagePayload {
		return nil, ErrImageTooLarge
	}
	if utf8.RuneCountInString(userContext) > 500 {
		return nil, ErrContextTooLong
	}

	img, err := utils.ParseImageDataURI(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	prompt := BuildScanPrompt(utils.SanitizeContext(userContext))
	raw, err := s.vision.AnalyzeImage(ctx, img, prompt)
	if err != nil {
		return nil, err
	}
	return ParseModelResponse(raw)
}

// Save persists a confirmed scan for the user. The context is re-sanitized
// on the way in; the result is assumed shape-valid (the confirm handler
// re-validates the client's copy before calling this).
func (s *ScanService) Save(userID string, res *ScanResult, userContext, imageURL string) (*models.ScanRecord, error) {
	ingredients, err := json.Marshal(res.Ingredients)
	if err != nil {
		return nil, err
	}
	burnOff, err := json.Marshal(res.BurnOff)
	if err != nil {
		return nil, err
	}

	rec := &models.ScanRecord{
		UserID:       userID,
		Context:      utils.SanitizeContext(userContext),
		FoodName:     res.FoodName,
		Calories:     res.Calories,
		Ingredients:  datatypes.JSON(ingredients),
		RiskLevel:    res.RiskLevel,
		RiskReason:   res.RiskReason,
		HumorComment: res.HumorComment,
		BrandNote:    res.BrandNote,
		BurnOff:      datatypes.JSON(burnOff),
		ImageURL:     imageURL,
	}
	if err := s.db.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// CountScansSince implements ScanCounter for the quota gate.
func (s *ScanService) CountScansSince(userID string, since time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.ScanRecord{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

// History returns the user's scans, newest first.
func (s *ScanService) History(userID string) ([]models.ScanRecord, error) {
	var records []models.ScanRecord
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// Delete removes one scan, owner-checked.
func (s *ScanService) Delete(userID string, id uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.ScanRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes all of the user's scans.
func (s *ScanService) Clear(userID string) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.ScanRecord{}).Error
}

// IsNotFound reports whether err is the record-missing case, either ours or gorm's.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
