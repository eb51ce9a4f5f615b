package controllerImp

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"krishibondhu/entities"
	"krishibondhu/pkg/crop/sheet"
	"krishibondhu/pkg/datasync"
	"krishibondhu/pkg/httpx"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CropCtrl struct {
	store *datasync.Store
	log   *zap.Logger
}

func New(store *datasync.Store, log *zap.Logger) *CropCtrl {
	return &CropCtrl{store: store, log: log}
}

func (h *CropCtrl) List(c echo.Context) error {
	crops := h.store.Crops()
	if q := strings.ToLower(strings.TrimSpace(c.QueryParam("q"))); q != "" {
		out := crops[:0]
		for _, cr := range crops {
			if strings.Contains(strings.ToLower(cr.Name), q) {
				out = append(out, cr)
			}
		}
		crops = out
	}
	return c.JSON(http.StatusOK, crops)
}

func (h *CropCtrl) Get(c echo.Context) error {
	cr, ok := h.store.Crop(c.Param("id"))
	if !ok {
		return httpx.Error(c, http.StatusNotFound, "crop not found")
	}
	return c.JSON(http.StatusOK, cr)
}

func bindCrop(c echo.Context) (entities.Crop, error) {
	var in entities.Crop
	if err := c.Bind(&in); err != nil {
		return in, errors.New("invalid json")
	}
	if strings.TrimSpace(in.Name) == "" {
		return in, errors.New("name is required")
	}
	return in, nil
}

func (h *CropCtrl) Create(c echo.Context) error {
	in, err := bindCrop(c)
	if err != nil {
		return httpx.Error(c, http.StatusBadRequest, err.Error())
	}
	out, err := h.store.AddCrop(in)
	if err != nil {
		return httpx.StoreError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CropCtrl) Update(c echo.Context) error {
	in, err := bindCrop(c)
	if err != nil {
		return httpx.Error(c, http.StatusBadRequest, err.Error())
	}
	in.ID = c.Param("id")
	if err := h.store.UpdateCrop(in); err != nil {
		return httpx.StoreError(c, err)
	}
	return c.JSON(http.StatusOK, in)
}

func (h *CropCtrl) Delete(c echo.Context) error {
	if !h.store.DeleteCrop(c.Param("id")) {
		return httpx.Error(c, http.StatusNotFound, "crop not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CropCtrl) Export(c echo.Context) error {
	var buf bytes.Buffer
	if err := sheet.Export(&buf, h.store.Crops()); err != nil {
		h.log.Error("crop export failed", zap.Error(err))
		return httpx.Error(c, http.StatusInternalServerError, "export failed")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="crops.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

// Import accepts a multipart "file" (xlsx or csv) and upserts every row by ID.
func (h *CropCtrl) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return httpx.Error(c, http.StatusBadRequest, "file required")
	}
	f, err := fh.Open()
	if err != nil {
		return httpx.Error(c, http.StatusBadRequest, err.Error())
	}
	defer f.Close()

	crops, err := sheet.Import(f, fh.Filename)
	if err != nil {
		return httpx.Error(c, http.StatusUnprocessableEntity, err.Error())
	}
	added, updated, err := sheet.Apply(h.store, crops)
	if err != nil {
		return httpx.StoreError(c, err)
	}
	h.log.Info("crops imported", zap.String("file", fh.Filename), zap.Int("added", added), zap.Int("updated", updated))
	return c.JSON(http.StatusOK, echo.Map{"added": added, "updated": updated})
}
