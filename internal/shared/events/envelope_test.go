package events

import (
	"errors"
	"testing"
	"time"

	contractsv1 "docflow/contracts/gen/events/v1"
)

func TestNewStampsIdentityAndCopiesPayload(t *testing.T) {
	payload := map[string]any{
		"file_name": "invoice-march.pdf",
		"tags":      []any{"finance"},
	}

	env, err := New(TypeDocumentUploaded, "doc-1", payload)
	if err != nil {
		t.Fatalf("new envelope failed: %v", err)
	}
	if env.EventID() == "" {
		t.Fatalf("expected stamped event id")
	}
	if env.OccurredAt().IsZero() {
		t.Fatalf("expected stamped occurred_at")
	}

	payload["file_name"] = "mutated.pdf"
	payload["tags"].([]any)[0] = "mutated"
	got := env.Payload()
	if got["file_name"] != "invoice-march.pdf" {
		t.Fatalf("caller mutation leaked into envelope: %v", got["file_name"])
	}
	if got["tags"].([]any)[0] != "finance" {
		t.Fatalf("caller slice mutation leaked into envelope: %v", got["tags"])
	}
}

func TestPayloadAccessorReturnsCopy(t *testing.T) {
	env, err := New(TypeDocumentValidated, "doc-2", map[string]any{"checksum": "abc"})
	if err != nil {
		t.Fatalf("new envelope failed: %v", err)
	}

	first := env.Payload()
	first["checksum"] = "tampered"

	second := env.Payload()
	if second["checksum"] != "abc" {
		t.Fatalf("accessor copy mutation leaked: %v", second["checksum"])
	}
}

func TestNewRejectsUnknownTypeAndMissingAggregate(t *testing.T) {
	if _, err := New(Type("DocumentShredded"), "doc-1", nil); !errors.Is(err, ErrUnknownEventType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}
	if _, err := New(TypeDocumentUploaded, "   ", nil); !errors.Is(err, ErrMissingAggregate) {
		t.Fatalf("expected missing aggregate error, got %v", err)
	}
}

func TestFromContractValidation(t *testing.T) {
	base := contractsv1.Envelope{
		EventID:     "evt-1",
		EventType:   string(TypeDocumentUploaded),
		OccurredAt:  time.Now().UTC(),
		AggregateID: "doc-1",
	}

	missingID := base
	missingID.EventID = ""
	if _, err := FromContract(missingID); !errors.Is(err, ErrMissingEventID) {
		t.Fatalf("expected missing event id error, got %v", err)
	}

	unknownType := base
	unknownType.EventType = "DocumentShredded"
	if _, err := FromContract(unknownType); !errors.Is(err, ErrUnknownEventType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}

	missingAggregate := base
	missingAggregate.AggregateID = ""
	if _, err := FromContract(missingAggregate); !errors.Is(err, ErrMissingAggregate) {
		t.Fatalf("expected missing aggregate error, got %v", err)
	}

	badPayload := base
	badPayload.Data = []byte("{not json")
	if _, err := FromContract(badPayload); err == nil {
		t.Fatalf("expected payload decode error")
	}
}

func TestContractRoundTrip(t *testing.T) {
	env, err := New(TypeDocumentRejected, "doc-9", map[string]any{"reason": "checksum mismatch"})
	if err != nil {
		t.Fatalf("new envelope failed: %v", err)
	}

	contract, err := env.ToContract("intake-service")
	if err != nil {
		t.Fatalf("to contract failed: %v", err)
	}
	if contract.PartitionKey != "doc-9" {
		t.Fatalf("partition key must equal aggregate id, got %q", contract.PartitionKey)
	}
	if contract.SchemaVersion != 1 {
		t.Fatalf("unexpected schema version %d", contract.SchemaVersion)
	}

	rebuilt, err := FromContract(contract)
	if err != nil {
		t.Fatalf("from contract failed: %v", err)
	}
	if !rebuilt.Equal(env) {
		t.Fatalf("round trip must preserve identity")
	}
	if rebuilt.Payload()["reason"] != "checksum mismatch" {
		t.Fatalf("round trip lost payload: %v", rebuilt.Payload())
	}
}

func TestEqualComparesByEventIDOnly(t *testing.T) {
	a, err := New(TypeDocumentUploaded, "doc-1", map[string]any{"v": 1})
	if err != nil {
		t.Fatalf("new envelope failed: %v", err)
	}
	b, err := New(TypeDocumentUploaded, "doc-1", map[string]any{"v": 1})
	if err != nil {
		t.Fatalf("new envelope failed: %v", err)
	}
	if a.Equal(b) {
		t.Fatalf("distinct event ids must not be equal")
	}
	if !a.Equal(a) {
		t.Fatalf("envelope must equal itself")
	}
	if (Envelope{}).Equal(Envelope{}) {
		t.Fatalf("zero envelopes must not be equal")
	}
}
