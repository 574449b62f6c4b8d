package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/Vivek-Rav/yawye/services"
	"github.com/Vivek-Rav/yawye/utils"
)

// maxRequestBody rejects oversized requests from Content-Length alone,
// before the body is read or parsed.
const maxRequestBody = 6_000_000

type ScanController struct {
	scans    *services.ScanService
	quota    *services.QuotaService
	hub      *services.RealtimeHub
	uploader *utils.S3Uploader // nil when S3 is not configured
	mailer   *utils.Mailer     // nil when SES is not configured
}

func NewScanController(
	scans *services.ScanService,
	quota *services.QuotaService,
	hub *services.RealtimeHub,
	uploader *utils.S3Uploader,
	mailer *utils.Mailer,
) *ScanController {
	return &ScanController{scans: scans, quota: quota, hub: hub, uploader: uploader, mailer: mailer}
}

func (sc *ScanController) timezone(c *gin.Context) string {
	return services.ResolveTimezone(c.GetHeader("X-Timezone"))
}

// guardBodySize rejects oversized bodies before they are parsed. The
// Content-Length check is the cheap path; MaxBytesReader also covers chunked
// requests, which carry no length and would otherwise be read in full.
// Returns false after responding when the declared length is already over.
func guardBodySize(c *gin.Context) bool {
	if c.Request.ContentLength > maxRequestBody {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request too large"})
		return false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)
	return true
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// GET /api/scan/limit
func (sc *ScanController) CheckLimit(c *gin.Context) {
	uid := c.GetString("userID")
	email := c.GetString("email")

	status, err := sc.quota.Status(uid, email, sc.timezone(c))
	if err != nil {
		log.Printf("scan limit check failed for %s: %v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check scan limit"})
		return
	}
	c.JSON(http.StatusOK, status)
}

type AnalyzeScanRequest struct {
	Image   string `json:"image" binding:"required"`
	Context string `json:"context"`
}

// POST /api/scan
//
// The body is only parsed after the cheap gates (size, quota) have passed,
// and the model is only called after every local validation has passed.
func (sc *ScanController) Analyze(c *gin.Context) {
	uid := c.GetString("userID")
	email := c.GetString("email")

	if !guardBodySize(c) {
		return
	}

	if err := sc.quota.Allow(uid, email, sc.timezone(c)); err != nil {
		sc.respondError(c, uid, err)
		return
	}

	var req AnalyzeScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}

	result, err := sc.scans.Analyze(c.Request.Context(), req.Image, req.Context)
	if err != nil {
		sc.respondError(c, uid, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type ConfirmScanRequest struct {
	Result  services.ScanResult `json:"result" binding:"required"`
	Context string              `json:"context"`
	Image   string              `json:"image"`
}

// POST /api/scan/confirm
//
// Persisting the record is what consumes a quota slot, so the gate runs
// again here; the client's copy of the result is pushed back through the
// same shape validator before it is trusted.
func (sc *ScanController) Confirm(c *gin.Context) {
	uid := c.GetString("userID")
	email := c.GetString("email")
	tz := sc.timezone(c)

	if !guardBodySize(c) {
		return
	}

	if err := sc.quota.Allow(uid, email, tz); err != nil {
		sc.respondError(c, uid, err)
		return
	}

	var req ConfirmScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}
	if utf8.RuneCountInString(req.Context) > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Context too long (max 500 characters)"})
		return
	}

	raw, err := json.Marshal(req.Result)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scan payload"})
		return
	}
	result, err := services.ParseModelResponse(string(raw))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scan payload"})
		return
	}

	imageURL := ""
	if req.Image != "" && sc.uploader != nil {
		img, err := utils.ParseImageDataURI(req.Image)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image format"})
			return
		}
		url, err := sc.uploader.UploadImage(c.Request.Context(), img)
		if err != nil {
			// the photo is a nice-to-have; the record still saves without it
			log.Printf("scan image upload failed for %s: %v", uid, err)
		} else {
			imageURL = url
		}
	}

	rec, err := sc.scans.Save(uid, result, req.Context, imageURL)
	if err != nil {
		sc.respondError(c, uid, err)
		return
	}

	sc.hub.BroadcastScan(uid, "scan.created", rec)
	sc.notifyIfExhausted(uid, email, tz)

	c.JSON(http.StatusCreated, rec)
}

// notifyIfExhausted sends the one-off "limit reached" mail when this save
// consumed the user's final slot of the day. Best-effort on purpose.
func (sc *ScanController) notifyIfExhausted(uid, email, tz string) {
	if sc.mailer == nil || email == "" {
		return
	}
	status, err := sc.quota.Status(uid, email, tz)
	if err != nil || status.IsAdmin || status.Remaining > 0 {
		return
	}
	go func() {
		if err := sc.mailer.SendLimitReachedEmail(context.Background(), email, sc.quota.Limit()); err != nil {
			log.Printf("limit-reached mail to %s failed: %v", email, err)
		}
	}()
}

// GET /api/scan/history
func (sc *ScanController) History(c *gin.Context) {
	uid := c.GetString("userID")
	records, err := sc.scans.History(uid)
	if err != nil {
		sc.respondError(c, uid, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// DELETE /api/scan/history
func (sc *ScanController) ClearHistory(c *gin.Context) {
	uid := c.GetString("userID")
	if err := sc.scans.Clear(uid); err != nil {
		sc.respondError(c, uid, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "history cleared"})
}

// DELETE /api/scan/:id
func (sc *ScanController) DeleteScan(c *gin.Context) {
	uid := c.GetString("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scan id"})
		return
	}
	if err := sc.scans.Delete(uid, uint(id)); err != nil {
		sc.respondError(c, uid, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "scan deleted"})
}

// respondError maps pipeline failures onto the HTTP taxonomy. Internal
// causes (model output, store errors) are logged here and never forwarded.
func (sc *ScanController) respondError(c *gin.Context, uid string, err error) {
	switch {
	case errors.Is(err, services.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "Daily scan limit of " + strconv.Itoa(sc.quota.Limit()) + " reached",
		})
	case errors.Is(err, services.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
	case errors.Is(err, services.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image format"})
	case errors.Is(err, services.ErrContextTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Context too long (max 500 characters)"})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "Scan not found"})
	case errors.Is(err, services.ErrMisconfigured):
		log.Printf("misconfiguration serving %s: %v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server misconfiguration"})
	default:
		log.Printf("scan error for %s: %v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Scan failed. Please try again."})
	}
}
