package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"foodgram/config"
	"foodgram/internal/database"
	"foodgram/internal/models"
)

type ingredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagRecord struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// importdata loads the reference catalogs from JSON or CSV files.
// Existing rows are left alone, so re-running the import is safe.
func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "path to the ingredients JSON file")
	tagsPath := flag.String("tags", "data/tags.json", "path to the tags JSON file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	db, err := database.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	if err := importIngredients(db, *ingredientsPath); err != nil {
		logrus.WithError(err).Fatal("ingredient import failed")
	}
	if err := importTags(db, *tagsPath); err != nil {
		logrus.WithError(err).Fatal("tag import failed")
	}
}

func importIngredients(db *gorm.DB, path string) error {
	records, err := readIngredients(path)
	if err != nil {
		return err
	}

	created := 0
	for _, rec := range records {
		ingredient := models.Ingredient{Name: rec.Name, MeasurementUnit: rec.MeasurementUnit}
		res := db.Where("name = ? AND measurement_unit = ?", rec.Name, rec.MeasurementUnit).
			FirstOrCreate(&ingredient)
		if res.Error != nil {
			return res.Error
		}
		created += int(res.RowsAffected)
	}
	logrus.WithFields(logrus.Fields{"file": path, "created": created, "total": len(records)}).
		Info("ingredients imported")
	return nil
}

func importTags(db *gorm.DB, path string) error {
	var records []tagRecord
	if err := readJSON(path, &records); err != nil {
		return err
	}

	created := 0
	for _, rec := range records {
		tag := models.Tag{Name: rec.Name, Slug: rec.Slug}
		res := db.Where("slug = ?", rec.Slug).FirstOrCreate(&tag)
		if res.Error != nil {
			return res.Error
		}
		created += int(res.RowsAffected)
	}
	logrus.WithFields(logrus.Fields{"file": path, "created": created, "total": len(records)}).
		Info("tags imported")
	return nil
}

// readIngredients parses a JSON array of objects or a two-column CSV
// (name, measurement_unit), selected by file extension.
func readIngredients(path string) ([]ingredientRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return readIngredientsCSV(path)
	}
	var records []ingredientRecord
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func readIngredientsCSV(path string) ([]ingredientRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	records := make([]ingredientRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("%s line %d: expected name,measurement_unit", path, i+1)
		}
		records = append(records, ingredientRecord{
			Name:            strings.TrimSpace(row[0]),
			MeasurementUnit: strings.TrimSpace(row[1]),
		})
	}
	return records, nil
}

func readJSON(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(out)
}
