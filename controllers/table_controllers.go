package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB           *gorm.DB
	Availability *services.AvailabilityService
}

func NewTableController(db *gorm.DB, availability *services.AvailabilityService) *TableController {
	return &TableController{DB: db, Availability: availability}
}

// CreateTable -> menambahkan meja baru
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Capacity int    `json:"capacity"`
		Status   string `json:"status"` // optional, default "available"
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		Name:     req.Name,
		Capacity: req.Capacity,
		Status:   models.TableStatusAvailable,
	}
	if table.Capacity <= 0 {
		table.Capacity = 2
	}
	if req.Status != "" {
		table.Status = req.Status
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(events.EventTableCreate, table)

	utils.InfoLogger.Printf("New table created: %s (status=%s)", table.Name, table.Status)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> menampilkan seluruh meja
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja beserta block ketersediaannya
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.Preload("AvailabilityBlocks").First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableStatus -> update status meja (available/occupied/reserved/maintenance)
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	tableID := c.Param("table_id")
	var body struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	table.Status = body.Status
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(events.EventTableUpdate, table)

	utils.InfoLogger.Printf("Table %d status changed to %s", table.ID, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// DeleteTable -> menghapus meja
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table

	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastTableUpdate(events.EventTableDelete, table)

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"id": table.ID,
	})
}

// UpdateAvailability -> ganti daftar jendela buka meja untuk tanggal yang
// dikirim (admin). Last-writer-wins per tanggal: jendela lama tanggal itu
// dibuang, bukan di-merge.
func (tc *TableController) UpdateAvailability(c *gin.Context) {
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type blockReq struct {
		Date  string   `json:"date" binding:"required"`
		Times []string `json:"times" binding:"required"`
	}
	var body struct {
		Blocks []blockReq `json:"blocks" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	blocks := make([]models.AvailabilityBlock, 0, len(body.Blocks))
	for _, b := range body.Blocks {
		blocks = append(blocks, models.AvailabilityBlock{
			Date:  b.Date,
			Times: models.TimeWindowList(b.Times),
		})
	}

	if err := tc.Availability.ReplaceBlocks(table.ID, blocks); err != nil {
		utils.RespondError(c, services.StatusFor(err), err)
		return
	}

	events.BroadcastAvailabilityUpdate(table.ID, blocks)

	utils.InfoLogger.Printf("Availability replaced for table %d (%d blocks)", table.ID, len(blocks))
	utils.RespondJSON(c, http.StatusOK, "Table availability updated", gin.H{
		"table_id": table.ID,
		"blocks":   blocks,
	})
}

// CheckAvailability -> peta jam terbuka/tertutup untuk satu tanggal.
// Tanggal tanpa block menghasilkan peta kosong (tutup seluruhnya).
func (tc *TableController) CheckAvailability(c *gin.Context) {
	tableID := c.Param("table_id")
	date := c.Query("date")

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	slots, err := tc.Availability.CheckAvailability(table.ID, date)
	if err != nil {
		utils.RespondError(c, services.StatusFor(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Availability for "+date, gin.H{
		"table_id": table.ID,
		"date":     date,
		"slots":    slots,
	})
}
