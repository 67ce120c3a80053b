package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hoopsreport/dashboard/internal/config"
	"github.com/hoopsreport/dashboard/internal/logic"
	"github.com/hoopsreport/dashboard/internal/models"
	"github.com/hoopsreport/dashboard/internal/storage"
)

// Seeds a sample scouting report so the dashboard has something to show
// in local development. Writes to -out when given, otherwise uploads to
// the configured bucket.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	date := flag.String("date", time.Now().In(cfg.ReportTimezone).Format(models.DateLayout), "report date (YYYY-MM-DD)")
	out := flag.String("out", "", "write the workbook to this file instead of uploading it")
	flag.Parse()

	if err := logic.ValidateDate(*date); err != nil {
		log.Fatalf("Invalid -date: %v", err)
	}

	data, err := logic.BuildWorkbook(sampleSummary(), sampleRawData())
	if err != nil {
		log.Fatalf("Failed to build workbook: %v", err)
	}

	if *out != "" {
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", *out, err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", *out, len(data))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := storage.NewS3Client(ctx, storage.ClientConfig{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Endpoint:        cfg.S3Endpoint,
	})
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}

	store := storage.NewReportStore(client, cfg.ReportBucket, cfg.ReportPrefix)
	if err := store.Put(ctx, *date, data); err != nil {
		log.Fatalf("Upload failed: %v", err)
	}
	fmt.Printf("Uploaded s3://%s/%s\n", cfg.ReportBucket, store.Key(*date))
}

func sampleSummary() models.Sheet {
	num := models.NumberCell
	str := models.StringCell
	// tip-off times are Excel day fractions, as the scraper writes them
	at := func(hour, minute int) models.Cell {
		return num(float64(hour*60+minute) / (24 * 60))
	}

	return models.Sheet{
		Name: models.SummarySheet,
		Columns: []string{
			models.ColTime, "Team A", "Team B", models.ColPredictedScore, models.ColWinProbability,
			models.ColTeamAEff, models.ColTeamAShoot, models.ColTeamADelta,
			models.ColTeamBEff, models.ColTeamBShoot, models.ColTeamBDelta,
		},
		Rows: [][]models.Cell{
			{at(21, 0), str("Gonzaga"), str("Saint Mary's"), str("74-70"), num(0.6123), num(118.46), num(55.21), num(-2.31), num(112.04), num(52.9), num(1.26)},
			{at(19, 0), str("Duke"), str("North Carolina"), str("78-75"), num(0.5561), num(120.11), num(54.04), num(0), num(117.5), num(53.33), {}},
			{at(12, 30), str("Purdue"), str("Illinois"), str("81-72"), num(0.7804), num(124.9), num(56.47), num(3.12), num(115.36), num(51.02), num(-4.48)},
			{str("TBA"), str("Houston"), str("Baylor"), str("68-66"), num(0.5422), num(116.2), num(50.8), num(-0.5), num(114.73), num(52.15), num(0.92)},
		},
	}
}

func sampleRawData() models.Sheet {
	num := models.NumberCell
	str := models.StringCell

	return models.Sheet{
		Name:    models.RawDataSheet,
		Columns: []string{"Team", "Conf", "AdjEM", "AdjO", "AdjD", "AdjT"},
		Rows: [][]models.Cell{
			{str("Duke"), str("ACC"), num(24.81), num(120.11), num(95.3), num(68.2)},
			{str("North Carolina"), str("ACC"), num(21.38), num(117.5), num(96.12), num(70.4)},
			{str("Gonzaga"), str("WCC"), num(22.07), num(118.46), num(96.39), num(69.8)},
			{str("Saint Mary's"), str("WCC"), num(17.65), num(112.04), num(94.39), num(62.1)},
			{str("Purdue"), str("B10"), num(28.9), num(124.9), num(96.0), num(66.5)},
			{str("Illinois"), str("B10"), num(20.11), num(115.36), num(95.25), num(70.0)},
			{str("Houston"), str("B12"), num(27.44), num(116.2), num(88.76), num(63.9)},
			{str("Baylor"), str("B12"), num(19.3), num(114.73), num(95.43), num(67.1)},
		},
	}
}
