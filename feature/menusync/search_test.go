package menusync_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-sync/feature/menusync"
)

func TestHTTPRefresher(t *testing.T) {
	t.Run("PostsAffectedItems", func(t *testing.T) {
		var got struct {
			RestaurantID uint   `json:"restaurant_id"`
			MenuItemIDs  []uint `json:"menu_item_ids"`
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		r := menusync.NewHTTPRefresher(srv.URL, time.Second)
		err := r.Refresh(context.Background(), 7, []uint{1, 2, 3})
		assert.NoError(t, err)
		assert.EqualValues(t, 7, got.RestaurantID)
		assert.Equal(t, []uint{1, 2, 3}, got.MenuItemIDs)
	})

	t.Run("NothingAffectedSkipsCall", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		r := menusync.NewHTTPRefresher(srv.URL, time.Second)
		assert.NoError(t, r.Refresh(context.Background(), 7, nil))
		assert.False(t, called)
	})

	t.Run("ErrorStatusSurfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		r := menusync.NewHTTPRefresher(srv.URL, time.Second)
		assert.Error(t, r.Refresh(context.Background(), 7, []uint{1}))
	})
}
