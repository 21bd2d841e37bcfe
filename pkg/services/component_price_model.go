package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
)

const monthLayout = "2006-01"

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// TrainComponentModels fits one price trend per part over its monthly mean unit price.
// Time is the Unix second of each month start. A part seen in a single month gets a flat model.
func TrainComponentModels(purchases []models.ComponentPurchase) []models.ComponentPriceModel {
	type bucket struct {
		sum   float64
		count int
	}
	byPart := make(map[string]map[time.Time]*bucket)
	for _, p := range purchases {
		months, ok := byPart[p.PartName]
		if !ok {
			months = make(map[time.Time]*bucket)
			byPart[p.PartName] = months
		}
		m := monthStart(p.Date)
		b, ok := months[m]
		if !ok {
			b = &bucket{}
			months[m] = b
		}
		b.sum += p.UnitPriceUSD
		b.count++
	}

	parts := make([]string, 0, len(byPart))
	for part := range byPart {
		parts = append(parts, part)
	}
	sort.Strings(parts)

	out := make([]models.ComponentPriceModel, 0, len(parts))
	for _, part := range parts {
		months := make([]time.Time, 0, len(byPart[part]))
		for m := range byPart[part] {
			months = append(months, m)
		}
		sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

		t := make([]float64, len(months))
		y := make([]float64, len(months))
		for i, m := range months {
			b := byPart[part][m]
			t[i] = float64(m.Unix())
			y[i] = b.sum / float64(b.count)
		}

		model := models.ComponentPriceModel{
			PartName:  part,
			Intercept: y[0],
			LastMonth: months[len(months)-1].Format(monthLayout),
			Months:    len(months),
		}
		if len(months) > 1 {
			if fit, err := fitLinear(t, y); err == nil {
				model.Slope = fit.Slope
				model.Intercept = fit.Intercept
			} else {
				model.Intercept = calculateMean(y)
			}
		}
		out = append(out, model)
	}
	return out
}

// PredictComponentPrice evaluates the model at the start of the month after its last month.
func PredictComponentPrice(model models.ComponentPriceModel) (models.ComponentForecast, error) {
	last, err := time.Parse(monthLayout, model.LastMonth)
	if err != nil {
		return models.ComponentForecast{}, fmt.Errorf("model %q: bad last_month %q: %w", model.PartName, model.LastMonth, err)
	}
	next := last.AddDate(0, 1, 0)
	return models.ComponentForecast{
		PartName:     model.PartName,
		Month:        next.Format(monthLayout),
		UnitPriceUSD: model.Intercept + model.Slope*float64(next.Unix()),
	}, nil
}

// ComponentModelStore persists one JSON model file per part under Dir.
type ComponentModelStore struct {
	Dir string
}

// NewComponentModelStore stores models in dir.
func NewComponentModelStore(dir string) *ComponentModelStore {
	return &ComponentModelStore{Dir: dir}
}

// Save writes every model, creating Dir when needed, and returns the written paths.
func (s *ComponentModelStore) Save(modelsToSave []models.ComponentPriceModel) ([]string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create model dir: %w", err)
	}
	paths := make([]string, 0, len(modelsToSave))
	for _, m := range modelsToSave {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return paths, fmt.Errorf("encode model %q: %w", m.PartName, err)
		}
		path := s.path(m.PartName)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write model %q: %w", m.PartName, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Load reads the model for part. A missing file is ErrModelNotFound.
func (s *ComponentModelStore) Load(part string) (models.ComponentPriceModel, error) {
	data, err := os.ReadFile(s.path(part))
	if errors.Is(err, os.ErrNotExist) {
		return models.ComponentPriceModel{}, fmt.Errorf("%w: %s", ErrModelNotFound, part)
	}
	if err != nil {
		return models.ComponentPriceModel{}, err
	}
	var m models.ComponentPriceModel
	if err := json.Unmarshal(data, &m); err != nil {
		return models.ComponentPriceModel{}, fmt.Errorf("decode model %q: %w", part, err)
	}
	return m, nil
}

// PredictNextMonth loads the part's model and predicts the following month's unit price.
func (s *ComponentModelStore) PredictNextMonth(part string) (models.ComponentForecast, error) {
	m, err := s.Load(part)
	if err != nil {
		return models.ComponentForecast{}, err
	}
	return PredictComponentPrice(m)
}

func (s *ComponentModelStore) path(part string) string {
	return filepath.Join(s.Dir, slugify(part)+".json")
}

// slugify lowercases and collapses runs of anything outside [a-z0-9] into "-".
func slugify(name string) string {
	slug := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "component"
	}
	return slug
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
