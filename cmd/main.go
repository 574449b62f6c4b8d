package main

import (
	"context"
	"log"

	"github.com/Vivek-Rav/yawye/config"
	"github.com/Vivek-Rav/yawye/controllers"
	"github.com/Vivek-Rav/yawye/routes"
	"github.com/Vivek-Rav/yawye/services"
	"github.com/Vivek-Rav/yawye/utils"
)

func main() {
	cfg := config.Load()
	db := config.InitDB(cfg)

	ctx := context.Background()

	vision, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("gemini client init failed: %v", err)
	}
	defer vision.Close()

	scanSvc := services.NewScanService(db, vision)
	quotaSvc := services.NewQuotaService(scanSvc, cfg.AdminEmail, cfg.DailyScanLimit)
	hub := services.NewRealtimeHub()

	var uploader *utils.S3Uploader
	if cfg.S3Bucket != "" {
		uploader, err = utils.NewS3Uploader(ctx, cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			log.Fatalf("S3 init failed: %v", err)
		}
	}

	var mailer *utils.Mailer
	if cfg.SESSender != "" {
		mailer, err = utils.NewMailer(ctx, cfg.AWSRegion, cfg.SESSender)
		if err != nil {
			log.Fatalf("SES init failed: %v", err)
		}
	}

	scanCtrl := controllers.NewScanController(scanSvc, quotaSvc, hub, uploader, mailer)
	streamCtrl := controllers.NewStreamController(hub)

	r := routes.SetupRouter(cfg.JWTSecret, scanCtrl, streamCtrl)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
