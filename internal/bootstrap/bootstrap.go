package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/fake-news-detector/internal/config"
	"github.com/kirillkom/fake-news-detector/internal/core/ports"
	"github.com/kirillkom/fake-news-detector/internal/core/usecase"
	"github.com/kirillkom/fake-news-detector/internal/infrastructure/extractor"
	"github.com/kirillkom/fake-news-detector/internal/infrastructure/model"
	"github.com/kirillkom/fake-news-detector/internal/infrastructure/resilience"
	"github.com/kirillkom/fake-news-detector/internal/infrastructure/textnorm"
	"github.com/kirillkom/fake-news-detector/internal/observability/metrics"
)

const ServiceName = "fake-news-web"

type App struct {
	Config config.Config

	Metrics  *metrics.HTTPServerMetrics
	Model    *model.Model
	DetectUC ports.NewsDetector

	closeFn func()
}

// New loads both model artifacts and wires the detector. It fails when either
// artifact is missing or invalid, so the caller never starts serving without
// a usable model.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	httpMetrics := metrics.NewHTTPServerMetrics(ServiceName)
	artifactMetrics := metrics.NewArtifactMetrics(ServiceName, httpMetrics.Registerer())

	policy := resilience.DefaultConfig()
	policy.MaxAttempts = cfg.ArtifactFetchAttempts
	policy.BreakerEnabled = cfg.ArtifactBreakerEnabled
	source := model.NewSource(cfg.ArtifactFetchTimeout, resilience.NewExecutor(policy, logger))

	started := time.Now()
	m, err := model.Load(ctx, source, cfg.VectorizerPath, cfg.ClassifierPath)
	artifactMetrics.ObserveLoad(time.Since(started), err)
	if err != nil {
		source.Close()
		return nil, fmt.Errorf("load model artifacts: %w", err)
	}
	artifactMetrics.SetFeatures(m.Vectorizer.Dim())
	logger.Info("artifact_loaded",
		"vectorizer", cfg.VectorizerPath,
		"classifier", cfg.ClassifierPath,
		"features", m.Vectorizer.Dim(),
		"duration_ms", float64(time.Since(started).Microseconds())/1000.0,
	)

	detectUC := usecase.NewDetectNewsUseCase(
		extractor.NewRegistry(),
		textnorm.NewNormalizer(),
		m.Vectorizer,
		m.Classifier,
		httpMetrics,
		logger,
		cfg.MaxUploadBytes,
	)

	return &App{
		Config:   cfg,
		Metrics:  httpMetrics,
		Model:    m,
		DetectUC: detectUC,
		closeFn:  source.Close,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
