package middleware

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// unknownService is reported when no service name can be detected.
const unknownService = "unknown-service"

const serviceAccountNamespaceFile = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"

// detectServiceInfo resolves the service name and namespace, in order of
// preference, from OTEL_SERVICE_NAME, the pod name (POD_NAME or hostname with
// the replicaset and pod hashes stripped), OTEL_RESOURCE_ATTRIBUTES, the
// mounted service account namespace and POD_NAMESPACE.
func detectServiceInfo() (serviceName, namespace string) {
	serviceName = os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		podName := os.Getenv("POD_NAME")
		if podName == "" {
			podName, _ = os.Hostname()
		}
		serviceName = serviceFromPodName(podName)
	}
	if serviceName == "" {
		serviceName = unknownService
	}

	for _, attr := range strings.Split(os.Getenv("OTEL_RESOURCE_ATTRIBUTES"), ",") {
		if k, v, ok := strings.Cut(attr, "="); ok && k == "service.namespace" {
			return serviceName, v
		}
	}
	if data, err := os.ReadFile(serviceAccountNamespaceFile); err == nil {
		return serviceName, strings.TrimSpace(string(data))
	}
	if ns := os.Getenv("POD_NAMESPACE"); ns != "" {
		return serviceName, ns
	}
	return serviceName, "default"
}

// serviceFromPodName strips the deployment hashes from a pod name:
// "franchise-75c98b4b9c-kdv2n" -> "franchise".
func serviceFromPodName(podName string) string {
	if podName == "" {
		return ""
	}
	parts := strings.Split(podName, "-")
	if len(parts) >= 3 {
		return strings.Join(parts[:len(parts)-2], "-")
	}
	return parts[0]
}

// CreateResource builds the OpenTelemetry resource shared by tracing and
// profiling. On partial detection failure a minimal resource is returned
// together with the error.
func CreateResource(ctx context.Context) (*resource.Resource, error) {
	serviceName, namespace := detectServiceInfo()

	res, err := resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithOS(),
		resource.WithContainer(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceNamespaceKey.String(namespace),
		),
	)
	if err != nil {
		return resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceNamespaceKey.String(namespace),
		), fmt.Errorf("resource detection partial failure (using fallback): %w", err)
	}
	return res, nil
}

// GetServiceName extracts the service name from a resource.
func GetServiceName(res *resource.Resource) string {
	for _, attr := range res.Attributes() {
		if attr.Key == semconv.ServiceNameKey {
			return attr.Value.AsString()
		}
	}
	return unknownService
}
