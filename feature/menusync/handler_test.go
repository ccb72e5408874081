package menusync_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"menu-sync/core/middleware/rayid"
	"menu-sync/feature/menusync"
	"menu-sync/feature/menusync/models"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := setupSyncDB(t)

	app := fiber.New()
	app.Use(rayid.New())

	feat := menusync.NewFeature(db, zap.NewNop(), nil, "", menusync.Config{}, "petpooja")
	require.NoError(t, feat.Load(app))
	return app, db
}

func postSnapshot(t *testing.T, app *fiber.App, body []byte) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/pos/menu/sync", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, payload
}

func TestHandleMenuSync_Success(t *testing.T) {
	app, db := setupApp(t)

	status, body := postSnapshot(t, app, rawSnapshot(t, fullSnapshot()))
	assert.Equal(t, fiber.StatusOK, status)

	var report models.Report
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 2, report.MenuItems.Inserted)
	assert.Len(t, report.Taxes, 2)

	var count int64
	require.NoError(t, db.Model(&models.MenuItem{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestHandleMenuSync_MalformedBody(t *testing.T) {
	app, _ := setupApp(t)

	status, _ := postSnapshot(t, app, []byte("{not json"))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleMenuSync_UnknownRestaurant(t *testing.T) {
	app, _ := setupApp(t)

	snap := fullSnapshot()
	snap.Restaurants[0].RestaurantID = "R9"
	status, _ := postSnapshot(t, app, rawSnapshot(t, snap))
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleMenuSync_UnknownParent(t *testing.T) {
	app, _ := setupApp(t)

	snap := fullSnapshot()
	snap.Items[0].CategoryID = "CX"
	status, body := postSnapshot(t, app, rawSnapshot(t, snap))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "unknown parent")
}
