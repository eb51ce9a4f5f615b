package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"krishibondhu/pkg/datasync"
)

var appStart = time.Now()

type HealthCtrl struct {
	db    *gorm.DB
	store *datasync.Store
}

func NewHealthCtrl(db *gorm.DB, store *datasync.Store) *HealthCtrl {
	return &HealthCtrl{db: db, store: store}
}

// Health reports 503 only when local persistence is down. An offline remote
// store is reported but still healthy: the app keeps serving local data.
func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	dbOK := true
	dbErr := ""
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			dbOK = false
			dbErr = "db.DB(): " + err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbOK = false
			dbErr = "ping: " + err.Error()
		}
	} else {
		dbOK = false
		dbErr = "gorm db is nil"
	}

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}

	type sub struct {
		OK  bool   `json:"ok"`
		Err string `json:"err,omitempty"`
	}

	sync := h.store.Status()
	resp := map[string]any{
		"status":     map[string]any{"ok": dbOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database": sub{OK: dbOK, Err: dbErr},
			"remote":   sub{OK: sync.Phase == datasync.PhaseSynced, Err: sync.LastError},
		},
		"sync": sync,
		"time": time.Now().Format(time.RFC3339),
	}

	return c.JSON(status, resp)
}
