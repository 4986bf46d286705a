package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("outcome", "paid"),
		attribute.String("share_slug", "aB3xY9QkLm2f"),
		attribute.String("endpoint", "/v/:slug"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "share_slug" {
			t.Fatalf("expected share_slug to be dropped")
		}
	}
}
