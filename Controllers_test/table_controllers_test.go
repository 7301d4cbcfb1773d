package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
)

// setupTestDBForTables menggunakan SQLite in-memory khusus untuk TableController
func setupTestDBForTables(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.Table{}, &models.AvailabilityBlock{}, &models.Reservation{})
	if err != nil {
		panic(err)
	}
	return db
}

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	tableCtrl := controllers.NewTableController(db, services.NewAvailabilityService(db))
	router.GET("/tables", tableCtrl.GetAllTables)
	router.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)
	router.PUT("/tables/:table_id/availability", tableCtrl.UpdateAvailability)
	router.GET("/tables/:table_id/availability", tableCtrl.CheckAvailability)
	return router
}

func TestGetAllTables(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	// Seed data: buat dua meja
	table1 := models.Table{Name: "A1", Capacity: 2, Status: models.TableStatusAvailable}
	table2 := models.Table{Name: "B1", Capacity: 4, Status: models.TableStatusOccupied}
	db.Create(&table1)
	db.Create(&table2)

	router := setupTableRouter(db)
	req, err := http.NewRequest("GET", "/tables", nil)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "List of tables", response["message"])

	data := response["data"].([]interface{})
	assert.GreaterOrEqual(t, len(data), 2)
}

func TestUpdateTableStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	table := models.Table{Name: "C1", Capacity: 2, Status: models.TableStatusAvailable}
	db.Create(&table)

	router := setupTableRouter(db)

	// Ubah status menjadi "maintenance"
	payload := map[string]string{"status": models.TableStatusMaintenance}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	url := "/tables/" + strconv.Itoa(int(table.ID))
	req, err := http.NewRequest("PATCH", url, bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Table status updated", response["message"])
	data := response["data"].(map[string]interface{})
	// Field model tidak memiliki tag JSON, jadi nama field mengikuti Go
	assert.Equal(t, models.TableStatusMaintenance, data["Status"])
}

func TestUpdateAvailabilityRejectsOverlap(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	table := models.Table{Name: "D1", Capacity: 2, Status: models.TableStatusAvailable}
	db.Create(&table)

	router := setupTableRouter(db)

	payload := map[string]interface{}{
		"blocks": []map[string]interface{}{
			{"date": "2024-05-01", "times": []string{"18:00-20:00", "19:00-21:00"}},
		},
	}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	url := "/tables/" + strconv.Itoa(int(table.ID)) + "/availability"
	req, err := http.NewRequest("PUT", url, bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckAvailabilityClosedByDefault(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables(t)

	table := models.Table{Name: "E1", Capacity: 2, Status: models.TableStatusAvailable}
	db.Create(&table)

	router := setupTableRouter(db)

	url := "/tables/" + strconv.Itoa(int(table.ID)) + "/availability?date=2024-05-01"
	req, err := http.NewRequest("GET", url, nil)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	slots, ok := data["slots"].(map[string]interface{})
	if ok {
		assert.Empty(t, slots)
	}
}
