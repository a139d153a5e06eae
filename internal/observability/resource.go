package observability

import (
	"context"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"crush-calc/internal/version"
)

// DefaultServiceName is used when OTEL_SERVICE_NAME is not configured.
const DefaultServiceName = "crush-calc"

// newResource describes this process to every OTel exporter.
// OTEL_RESOURCE_ATTRIBUTES is merged in.
func newResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	return resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version.Version),
		),
	)
}
