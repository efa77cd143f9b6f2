package jobs

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"atelier/internal/db"
	"atelier/internal/models"
	"atelier/internal/validation"
)

// AssetChecker performs background reachability checks on material preview
// assets. It never touches share links or their expiry; those are evaluated
// at resolution time.
type AssetChecker struct {
	db       *db.DB
	interval time.Duration
	maxAge   time.Duration
	client   *http.Client
}

// NewAssetChecker creates a new asset checker.
func NewAssetChecker(database *db.DB, interval, maxAge time.Duration) *AssetChecker {
	return &AssetChecker{
		db:       database,
		interval: interval,
		maxAge:   maxAge,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// Start begins the background check loop.
func (a *AssetChecker) Start(ctx context.Context) {
	log.Printf("Asset checker started (interval: %v, maxAge: %v)", a.interval, a.maxAge)

	// Run immediately on start
	a.checkAll(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Asset checker stopped")
			return
		case <-ticker.C:
			a.checkAll(ctx)
		}
	}
}

// checkAll checks all materials whose preview asset is due for a check.
func (a *AssetChecker) checkAll(ctx context.Context) {
	materials, err := a.db.GetMaterialsNeedingPreviewCheck(ctx, a.maxAge, 50)
	if err != nil {
		log.Printf("Asset checker: failed to get materials: %v", err)
		return
	}

	if len(materials) == 0 {
		return
	}

	log.Printf("Asset checker: checking %d materials", len(materials))

	for _, material := range materials {
		select {
		case <-ctx.Done():
			return
		default:
		}

		status, errorMsg := a.checkURL(ctx, material.PreviewURL)
		if err := a.db.UpdateMaterialPreviewStatus(ctx, material.ID, status, errorMsg); err != nil {
			log.Printf("Asset checker: failed to update material %s: %v", material.ID, err)
			continue
		}

		// Delay between checks to avoid overwhelming external servers
		time.Sleep(1 * time.Second)
	}
}

// checkURL performs a HEAD request to check if a preview asset responds.
// Validates URLs before making requests to prevent SSRF attacks.
func (a *AssetChecker) checkURL(ctx context.Context, url string) (string, *string) {
	if valid, msg := validation.ValidateURLForAssetCheck(url); !valid {
		return models.PreviewUnhealthy, &msg
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		errMsg := "invalid URL: " + err.Error()
		return models.PreviewUnhealthy, &errMsg
	}

	req.Header.Set("User-Agent", "Atelier-AssetChecker/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		errMsg := "connection failed: " + err.Error()
		return models.PreviewUnknown, &errMsg
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errMsg := "asset returned " + resp.Status
		return models.PreviewUnhealthy, &errMsg
	}

	return models.PreviewHealthy, nil
}
