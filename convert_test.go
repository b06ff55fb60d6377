package eventsource

import (
	"errors"
	"testing"
	"time"
)

func TestConvert(t *testing.T) {
	recordTime := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("EST", -5*60*60))
	record := RawRecord{
		ID:             "0b3d6f0e-6f8a-4c8e-9d1c-2f2a7f1c9b10",
		StreamName:     "orders-1",
		Type:           "OrderPlaced",
		Position:       4,
		GlobalPosition: 42,
		Data:           []byte(`{"order_id": "o-1"}`),
		Metadata:       nil,
		Time:           recordTime,
	}

	event, err := Convert(record)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if event.ID != record.ID || event.StreamName != record.StreamName || event.Type != record.Type {
		t.Errorf("Expected identity fields to be copied, got %+v", event)
	}
	if event.Position != 4 || event.GlobalPosition != 42 {
		t.Errorf("Expected positions 4/42, got %d/%d", event.Position, event.GlobalPosition)
	}
	if event.Data["order_id"] != "o-1" {
		t.Errorf("Expected order_id 'o-1', got %v", event.Data["order_id"])
	}
	if event.Metadata != nil {
		t.Errorf("Expected nil metadata, got %v", event.Metadata)
	}
	if event.Time.Location() != time.UTC || !event.Time.Equal(recordTime) {
		t.Errorf("Expected %v in UTC, got %v", recordTime, event.Time)
	}
}

func TestConvert_DeserializationError(t *testing.T) {
	record := RawRecord{
		StreamName: "orders-1",
		Position:   3,
		Data:       []byte(`{}`),
		Metadata:   []byte(`{broken`),
	}

	_, err := Convert(record)
	if !errors.Is(err, ErrDeserialization) {
		t.Fatalf("Expected ErrDeserialization, got %v", err)
	}

	var derr *DeserializationError
	if !errors.As(err, &derr) {
		t.Fatalf("Expected DeserializationError, got %T", err)
	}
	if derr.StreamName != "orders-1" || derr.Position != 3 || derr.Field != "metadata" {
		t.Errorf("Expected metadata of orders-1 at position 3, got %+v", derr)
	}
}
