package services

import (
	"path"
	"strings"
)

// Classify derives a document classification and extracted metadata from the
// validation payload. The heuristics are intentionally shallow; downstream
// consumers only depend on the event contract, not on classification
// quality.
func Classify(aggregateID string, payload map[string]any) (string, map[string]string) {
	metadata := map[string]string{
		"document_id": aggregateID,
	}

	fileName, _ := payload["file_name"].(string)
	if fileName != "" {
		metadata["file_name"] = fileName
		if ext := strings.TrimPrefix(path.Ext(fileName), "."); ext != "" {
			metadata["file_extension"] = strings.ToLower(ext)
		}
	}

	haystack := strings.ToLower(fileName)
	if title, _ := payload["title"].(string); title != "" {
		haystack += " " + strings.ToLower(title)
	}

	classification := "document"
	switch {
	case strings.Contains(haystack, "invoice"):
		classification = "invoice"
	case strings.Contains(haystack, "receipt"):
		classification = "receipt"
	case strings.Contains(haystack, "contract"):
		classification = "contract"
	case strings.Contains(haystack, "report"):
		classification = "report"
	}

	metadata["classification_source"] = "heuristic"
	return classification, metadata
}
