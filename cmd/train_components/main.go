package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	config "github.com/dev-shahrooz/Smart-Pricing/configs"
	"github.com/dev-shahrooz/Smart-Pricing/internal/logger"
	"github.com/dev-shahrooz/Smart-Pricing/pkg/models"
	"github.com/dev-shahrooz/Smart-Pricing/pkg/services"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	in := flag.String("in", "", "Component purchase history (.csv or .xlsx)")
	out := flag.String("out", cfg.ComponentModelsDir, "Directory for the trained model files")
	flag.Parse()

	log := logger.NewOrNop(cfg.Environment)
	defer log.Sync() //nolint:errcheck

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: train_components -in purchases.csv [-out dir]")
		os.Exit(2)
	}

	trained, paths, err := run(*in, *out)
	if err != nil {
		log.Fatal("training failed", zap.String("in", *in), zap.Error(err))
	}
	for i, m := range trained {
		log.Info("model saved",
			zap.String("part", m.PartName),
			zap.Int("months", m.Months),
			zap.Float64("slope", m.Slope),
			zap.String("path", paths[i]),
		)
	}
	log.Info("training complete", zap.Int("models", len(trained)), zap.String("dir", *out))
}

// run trains on the purchase file at in and writes one model per part into outDir.
func run(in, outDir string) ([]models.ComponentPriceModel, []string, error) {
	f, err := os.Open(in)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	purchases, err := services.LoadComponentPurchases(filepath.Base(in), f)
	if err != nil {
		return nil, nil, err
	}
	trained := services.TrainComponentModels(purchases)
	paths, err := services.NewComponentModelStore(outDir).Save(trained)
	if err != nil {
		return nil, nil, err
	}
	return trained, paths, nil
}
