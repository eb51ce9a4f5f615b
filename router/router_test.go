package router_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"krishibondhu/database"
	"krishibondhu/entities"
	"krishibondhu/pkg/ai"
	"krishibondhu/pkg/catalog"
	"krishibondhu/pkg/datasync"
	"krishibondhu/pkg/news/ingest"
	"krishibondhu/pkg/persist"
	"krishibondhu/pkg/persist/repositoryImp"
	"krishibondhu/pkg/relay"
	"krishibondhu/pkg/remote"
	"krishibondhu/router"

	adCtrlImp "krishibondhu/pkg/ad/controllerImp"
	adminCtrlImp "krishibondhu/pkg/admin/controllerImp"
	assistantCtrlImp "krishibondhu/pkg/assistant/controllerImp"
	cropCtrlImp "krishibondhu/pkg/crop/controllerImp"
	healthCtrlImp "krishibondhu/pkg/health/controllerImp"
	marketCtrlImp "krishibondhu/pkg/market/controllerImp"
	newsCtrlImp "krishibondhu/pkg/news/controllerImp"
	supportCtrlImp "krishibondhu/pkg/support/controllerImp"
	weatherCtrlImp "krishibondhu/pkg/weather/controllerImp"
)

const adminPass = "s3cret"

type recordingAI struct {
	chats atomic.Int32
}

func (r *recordingAI) DiagnoseImage(_ context.Context, image []byte, mimeType string, lang entities.Language) string {
	return string(lang) + ":" + mimeType + ":" + string(image)
}

func (r *recordingAI) Chat(_ context.Context, message string, history []entities.ChatMessage, lang entities.Language) string {
	r.chats.Add(1)
	return string(lang) + " reply to " + message
}

type env struct {
	e        *echo.Echo
	store    *datasync.Store
	relayHit atomic.Int32
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := zaptest.NewLogger(t)

	db, err := database.OpenSQLite("file::memory:")
	require.NoError(t, err)
	store := datasync.New(persist.New(repositoryImp.New(db), log), remote.NewDisabled(), catalog.Defaults, log)
	select {
	case <-store.Initialize():
	case <-time.After(5 * time.Second):
		t.Fatal("initialize timed out")
	}

	ev := &env{store: store}
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		ev.relayHit.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	forms := relay.New(relaySrv.URL, "k", time.Second, log)

	t.Cleanup(func() {
		relaySrv.Close()
		_ = store.Close(context.Background())
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	ev.e = router.New(echo.New(),
		router.Options{AdminPassword: adminPass, Logger: log},
		cropCtrlImp.New(store, log),
		newsCtrlImp.New(store, ingest.New(nil, 0, time.Second), log),
		marketCtrlImp.New(store, forms),
		adCtrlImp.New(store),
		assistantCtrlImp.New(&recordingAI{}),
		supportCtrlImp.New(forms),
		adminCtrlImp.NewAdminController(store, adminPass, log),
		weatherCtrlImp.NewWeatherCtrl(store),
		healthCtrlImp.NewHealthCtrl(db, store),
	)
	return ev
}

func (ev *env) do(method, path string, body any, admin bool, hdr ...string) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case []byte:
		rd = bytes.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if admin {
		req.Header.Set("X-Admin-Token", adminPass)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	ev.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestPublicReads(t *testing.T) {
	ev := newEnv(t)
	def := catalog.Defaults()

	rec := ev.do(http.MethodGet, "/api/crops", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, def.Crops, decode[[]entities.Crop](t, rec))

	rec = ev.do(http.MethodGet, "/api/crops/"+def.Crops[0].ID, nil, false)
	assert.Equal(t, def.Crops[0], decode[entities.Crop](t, rec))
	assert.Equal(t, http.StatusNotFound, ev.do(http.MethodGet, "/api/crops/nope", nil, false).Code)

	rec = ev.do(http.MethodGet, "/api/weather", nil, false)
	assert.Equal(t, def.Weather, decode[[]entities.WeatherForecast](t, rec))

	rec = ev.do(http.MethodGet, "/api/news?category=Loan", nil, false)
	for _, n := range decode[[]entities.NewsItem](t, rec) {
		assert.Equal(t, entities.CategoryLoan, n.Category)
	}
	assert.Equal(t, http.StatusBadRequest, ev.do(http.MethodGet, "/api/news?category=Sports", nil, false).Code)

	rec = ev.do(http.MethodGet, "/api/market?type=seed", nil, false)
	for _, m := range decode[[]entities.MarketItem](t, rec) {
		assert.Equal(t, entities.MarketSeed, m.Type)
	}

	assert.Equal(t, http.StatusNoContent, ev.do(http.MethodGet, "/api/ads/active/ad-slot-1", nil, false).Code)

	st := decode[datasync.Status](t, ev.do(http.MethodGet, "/api/sync/status", nil, false))
	assert.Equal(t, datasync.PhaseOffline, st.Phase)

	assert.Equal(t, http.StatusOK, ev.do(http.MethodGet, "/health", nil, false).Code)
}

func TestAdminRequiresToken(t *testing.T) {
	ev := newEnv(t)
	crop := entities.Crop{Name: "Mustard"}

	assert.Equal(t, http.StatusUnauthorized, ev.do(http.MethodPost, "/admin/api/crops", crop, false).Code)
	assert.Equal(t, http.StatusUnauthorized, ev.do(http.MethodPost, "/admin/api/crops", crop, false, "X-Admin-Token", "wrong").Code)

	rec := ev.do(http.MethodPost, "/admin/api/login", map[string]string{"password": adminPass}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, "admin_token", cookie.Name)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/session", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	ev.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"admin": true}, decode[map[string]bool](t, rec))

	assert.Equal(t, http.StatusUnauthorized,
		ev.do(http.MethodPost, "/admin/api/login", map[string]string{"password": "admin123"}, false).Code)
}

func TestAdminCropCRUD(t *testing.T) {
	ev := newEnv(t)

	rec := ev.do(http.MethodPost, "/admin/api/crops", entities.Crop{Name: "সরিষা", Fertilizers: []string{"ইউরিয়া"}}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[entities.Crop](t, rec)
	require.NotEmpty(t, created.ID)

	// visible to public readers right away
	rec = ev.do(http.MethodGet, "/api/crops/"+created.ID, nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	created.Season = "রবি"
	rec = ev.do(http.MethodPut, "/admin/api/crops/"+created.ID, created, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	got, _ := ev.store.Crop(created.ID)
	assert.Equal(t, "রবি", got.Season)

	blank := created
	blank.Name = " "
	assert.Equal(t, http.StatusBadRequest, ev.do(http.MethodPut, "/admin/api/crops/"+created.ID, blank, true).Code)
	got, _ = ev.store.Crop(created.ID)
	assert.Equal(t, "সরিষা", got.Name)

	assert.Equal(t, http.StatusConflict, ev.do(http.MethodPost, "/admin/api/crops", created, true).Code)
	assert.Equal(t, http.StatusNotFound, ev.do(http.MethodPut, "/admin/api/crops/missing", created, true).Code)
	assert.Equal(t, http.StatusBadRequest, ev.do(http.MethodPost, "/admin/api/crops", entities.Crop{}, true).Code)

	assert.Equal(t, http.StatusNoContent, ev.do(http.MethodDelete, "/admin/api/crops/"+created.ID, nil, true).Code)
	assert.Equal(t, http.StatusNotFound, ev.do(http.MethodDelete, "/admin/api/crops/"+created.ID, nil, true).Code)
}

func TestAdminAdsAndReset(t *testing.T) {
	ev := newEnv(t)

	ad := entities.AdItem{PositionID: "ad-slot-2", Type: entities.AdImage, Content: "/static/banner.png", Active: true}
	require.Equal(t, http.StatusOK, ev.do(http.MethodPut, "/admin/api/ads", ad, true).Code)
	assert.Equal(t, http.StatusBadRequest,
		ev.do(http.MethodPut, "/admin/api/ads", entities.AdItem{PositionID: "ad-slot-9"}, true).Code)

	rec := ev.do(http.MethodGet, "/api/ads/active/ad-slot-2", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/static/banner.png", decode[entities.AdItem](t, rec).Content)

	_, err := ev.store.AddMarketItem(entities.MarketItem{Name: "Power tiller", Type: entities.MarketEquipment})
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, ev.do(http.MethodPost, "/admin/api/reset", nil, true).Code)
	assert.Equal(t, http.StatusNoContent, ev.do(http.MethodGet, "/api/ads/active/ad-slot-2", nil, false).Code)
	assert.Equal(t, catalog.Defaults().Market, ev.store.Market())
}

func TestChatReturnsAppendedHistory(t *testing.T) {
	ev := newEnv(t)
	history := []entities.ChatMessage{
		{ID: "1", Role: entities.RoleUser, Text: "hello"},
		{ID: "2", Role: entities.RoleModel, Text: "hi"},
	}
	rec := ev.do(http.MethodPost, "/api/chat", map[string]any{"message": "rice?", "history": history, "lang": "en"}, false)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[struct {
		Reply   string                 `json:"reply"`
		History []entities.ChatMessage `json:"history"`
	}](t, rec)
	assert.Equal(t, "en reply to rice?", out.Reply)
	require.Len(t, out.History, 4)
	assert.Equal(t, history, out.History[:2])
	assert.Equal(t, entities.RoleUser, out.History[2].Role)
	assert.Equal(t, "rice?", out.History[2].Text)
	assert.Equal(t, entities.RoleModel, out.History[3].Role)
	assert.Equal(t, out.Reply, out.History[3].Text)

	assert.Equal(t, http.StatusBadRequest, ev.do(http.MethodPost, "/api/chat", map[string]any{"message": "  "}, false).Code)
}

func TestDiagnoseLanguageResolution(t *testing.T) {
	ev := newEnv(t)
	img := base64.StdEncoding.EncodeToString([]byte("PIX"))

	rec := ev.do(http.MethodPost, "/api/diagnose", map[string]string{"image": img}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bn:image/jpeg:PIX", decode[map[string]string](t, rec)["result"])

	rec = ev.do(http.MethodPost, "/api/diagnose", map[string]string{"image": "data:image/png;base64," + img}, false,
		"Accept-Language", "en-US,en;q=0.9")
	assert.Equal(t, "en:image/png:PIX", decode[map[string]string](t, rec)["result"])

	assert.Equal(t, http.StatusBadRequest, ev.do(http.MethodPost, "/api/diagnose", map[string]string{"image": "%%%"}, false).Code)
}

func TestDiagnoseMultipart(t *testing.T) {
	ev := newEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "leaf.jpg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("JPEG"))
	require.NoError(t, mw.WriteField("lang", "en"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	ev.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	// multipart parts created by CreateFormFile are application/octet-stream
	assert.Equal(t, "en:image/jpeg:JPEG", decode[map[string]string](t, rec)["result"])
}

func TestFormsGoThroughRelay(t *testing.T) {
	ev := newEnv(t)
	id := catalog.Defaults().Market[0].ID

	rec := ev.do(http.MethodPost, "/api/market/"+id+"/contact", map[string]string{"name": "Karim", "phone": "017"}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"ok": true}, decode[map[string]bool](t, rec))

	assert.Equal(t, http.StatusNotFound,
		ev.do(http.MethodPost, "/api/market/none/contact", map[string]string{"name": "K", "phone": "1"}, false).Code)

	rec = ev.do(http.MethodPost, "/api/support/expert-call", map[string]string{"name": "Karim", "phone": "017", "problem": "leaf curl"}, false)
	assert.Equal(t, map[string]bool{"ok": true}, decode[map[string]bool](t, rec))
	assert.EqualValues(t, 2, ev.relayHit.Load())

	assert.Equal(t, http.StatusBadRequest,
		ev.do(http.MethodPost, "/api/support/expert-call", map[string]string{"name": "Karim"}, false).Code)
}

func TestCropSheetExportImport(t *testing.T) {
	ev := newEnv(t)

	rec := ev.do(http.MethodGet, "/admin/api/crops/export.xlsx", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "crops.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("ID,Name,Season\n" + catalog.Defaults().Crops[0].ID + ",Renamed,Boro\n,Sunflower,Rabi\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/api/crops/import", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set("X-Admin-Token", adminPass)
	rec = httptest.NewRecorder()
	ev.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]int{"added": 1, "updated": 1}, decode[map[string]int](t, rec))
	got, _ := ev.store.Crop(catalog.Defaults().Crops[0].ID)
	assert.Equal(t, "Renamed", got.Name)
	assert.Len(t, ev.store.Crops(), len(catalog.Defaults().Crops)+1)
}

func TestNewsImportURL(t *testing.T) {
	ev := newEnv(t)
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><meta property="og:title" content="Krishi loan opens"></head><body><p>Apply now.</p></body></html>`))
	}))
	defer page.Close()

	rec := ev.do(http.MethodPost, "/admin/api/news/import-url", map[string]string{"url": page.URL, "category": "Loan"}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	n := decode[entities.NewsItem](t, rec)
	assert.Equal(t, "Krishi loan opens", n.Title)
	assert.Equal(t, "Apply now.", n.Summary)
	assert.Equal(t, entities.CategoryLoan, n.Category)
	assert.Len(t, ev.store.News(), len(catalog.Defaults().News)+1)

	assert.Equal(t, http.StatusBadRequest,
		ev.do(http.MethodPost, "/admin/api/news/import-url", map[string]string{"url": "notaurl"}, true).Code)
}

var _ ai.Client = (*recordingAI)(nil)
