package integrity

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("integrity/internal/integrity")

	resolutionCounter metric.Int64Counter
)

func init() {
	var err error
	resolutionCounter, err = meter.Int64Counter(
		"integrity.prompt.resolutions",
		metric.WithDescription("Prompt resolutions by policy and outcome"),
	)
	if err != nil {
		log.Fatalf("failed to create resolution counter: %v", err)
	}
}

func recordResolution(ctx context.Context, policyName, outcome string) {
	resolutionCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("policy", policyName),
		attribute.String("outcome", outcome),
	))
}
