package qdrant

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestDocumentFromPayload(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"content": qdrant.NewValueString("esters smell fruity"),
		"source":  qdrant.NewValueString("chem.pdf"),
		"subject": qdrant.NewValueString("chemistry"),
	}

	doc, ok := documentFromPayload(payload)
	if !ok {
		t.Fatal("expected document from full payload")
	}
	if doc.Content() != "esters smell fruity" {
		t.Errorf("Content() = %q", doc.Content())
	}
	if doc.Source() != "chem.pdf" || doc.Subject() != "chemistry" {
		t.Errorf("metadata = %v", doc.Metadata())
	}
}

func TestDocumentFromPayloadMissingContent(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"source": qdrant.NewValueString("chem.pdf"),
	}
	if _, ok := documentFromPayload(payload); ok {
		t.Error("expected no document when content is missing")
	}
}

func TestDocumentFromPayloadIgnoresNonStringMetadata(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"content": qdrant.NewValueString("polymers repeat"),
		"source":  qdrant.NewValueInt(42),
	}

	doc, ok := documentFromPayload(payload)
	if !ok {
		t.Fatal("expected document")
	}
	if doc.Source() != "" {
		t.Errorf("Source() = %q, want empty for non-string payload value", doc.Source())
	}
}
