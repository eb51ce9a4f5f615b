// Package sheet moves the crop knowledge base in and out of spreadsheets.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"krishibondhu/entities"
)

const (
	SheetName = "Crops"
	listSep   = "; "
)

var ErrMissingName = errors.New("crop sheet has no name column")

var header = []string{"ID", "Name", "Image", "Season", "Soil", "Description", "Fertilizers", "Pests", "Diseases", "Harvesting"}

// Export writes crops as an xlsx workbook with one sheet. List fields are joined with "; ".
func Export(w io.Writer, crops []entities.Crop) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, c := range crops {
		row := []any{
			c.ID, c.Name, c.Image, c.Season, c.Soil, c.Description,
			strings.Join(c.Fertilizers, listSep), strings.Join(c.Pests, listSep), strings.Join(c.Diseases, listSep),
			c.Harvesting,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SheetName, "B", "B", 18)
	_ = f.SetColWidth(SheetName, "F", "F", 48)
	_, err := f.WriteTo(w)
	return err
}

// Import reads crops from an xlsx workbook (first sheet) or CSV. The format is
// chosen from the file name, falling back to sniffing the zip signature.
func Import(r io.Reader, filename string) ([]entities.Crop, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	if isXLSX(filename, b) {
		rows, err = readXLSX(b)
	} else {
		rows, err = readCSV(b)
	}
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

func isXLSX(filename string, b []byte) bool {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".xlsx"):
		return true
	case strings.HasSuffix(name, ".csv"):
		return false
	}
	return bytes.HasPrefix(b, []byte("PK\x03\x04"))
}

func readXLSX(b []byte) ([][]string, error) {
	x, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer x.Close()
	return x.GetRows(x.GetSheetName(0))
}

func readCSV(b []byte) ([][]string, error) {
	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF") // BOM
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func fromRows(rows [][]string) ([]entities.Crop, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	hmap := map[string]int{}
	for i, h := range rows[0] {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cID := findAny("ID", "crop_id")
	cName := findAny("Name", "crop", "crop_name", "নাম")
	cImage := findAny("Image", "image_url", "photo")
	cSeason := findAny("Season", "মৌসুম")
	cSoil := findAny("Soil", "soil_type", "মাটি")
	cDesc := findAny("Description", "details", "বিবরণ")
	cFert := findAny("Fertilizers", "fertilizer", "সার")
	cPests := findAny("Pests", "pest", "পোকা")
	cDis := findAny("Diseases", "disease", "রোগ")
	cHarv := findAny("Harvesting", "harvest", "ফসল কাটা")
	if cName == -1 {
		return nil, fmt.Errorf("%w; found headers: %v", ErrMissingName, rows[0])
	}

	out := make([]entities.Crop, 0, len(rows)-1)
	for _, rec := range rows[1:] {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		name := get(cName)
		if name == "" {
			continue
		}
		id := get(cID)
		if id == "" {
			id = IDFromName(name)
		}
		out = append(out, entities.Crop{
			ID:          id,
			Name:        name,
			Image:       get(cImage),
			Season:      get(cSeason),
			Soil:        get(cSoil),
			Description: get(cDesc),
			Fertilizers: splitList(get(cFert)),
			Pests:       splitList(get(cPests)),
			Diseases:    splitList(get(cDis)),
			Harvesting:  get(cHarv),
		})
	}
	return out, nil
}

// IDFromName derives a stable ID so re-importing the same sheet updates rather than duplicates.
func IDFromName(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("crop:"+strings.ToLower(strings.TrimSpace(name)))).String()
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '\n' || r == '|' }) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Store is the part of the sync store an import writes through.
type Store interface {
	Crop(id string) (entities.Crop, bool)
	AddCrop(c entities.Crop) (entities.Crop, error)
	UpdateCrop(c entities.Crop) error
}

// Apply upserts crops into st by ID and reports how many were added and updated.
func Apply(st Store, crops []entities.Crop) (added, updated int, err error) {
	for _, c := range crops {
		if _, ok := st.Crop(c.ID); ok {
			if err = st.UpdateCrop(c); err != nil {
				return added, updated, err
			}
			updated++
			continue
		}
		if _, err = st.AddCrop(c); err != nil {
			return added, updated, err
		}
		added++
	}
	return added, updated, nil
}
