package menusync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Refresher signals the downstream search index that menu items changed.
// The signal is advisory: a failure is logged, never propagated, because
// the sync has already committed.
type Refresher interface {
	Refresh(ctx context.Context, restaurantID uint, menuItemIDs []uint) error
}

// HTTPRefresher posts the affected item ids to a search service endpoint.
type HTTPRefresher struct {
	url    string
	client *http.Client
}

// NewHTTPRefresher builds a refresher for the given endpoint.
func NewHTTPRefresher(url string, timeout time.Duration) *HTTPRefresher {
	return &HTTPRefresher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type refreshPayload struct {
	RestaurantID uint   `json:"restaurant_id"`
	MenuItemIDs  []uint `json:"menu_item_ids"`
}

func (r *HTTPRefresher) Refresh(ctx context.Context, restaurantID uint, menuItemIDs []uint) error {
	if len(menuItemIDs) == 0 {
		return nil
	}
	body, err := json.Marshal(refreshPayload{RestaurantID: restaurantID, MenuItemIDs: menuItemIDs})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("search refresh returned %s", resp.Status)
	}
	return nil
}

// NopRefresher is used when no search endpoint is configured.
type NopRefresher struct{}

func (NopRefresher) Refresh(context.Context, uint, []uint) error { return nil }
