package eventsource

import "errors"

// Convert builds an Event from a raw record: identity fields are copied,
// payloads are deserialized and the time is normalized to UTC.
func Convert(record RawRecord) (Event, error) {
	data, err := DeserializeData(record.Data)
	if err != nil {
		return Event{}, withRecord(err, record)
	}

	metadata, err := DeserializeMetadata(record.Metadata)
	if err != nil {
		return Event{}, withRecord(err, record)
	}

	return Event{
		ID:             record.ID,
		StreamName:     record.StreamName,
		Type:           record.Type,
		Position:       record.Position,
		GlobalPosition: record.GlobalPosition,
		Data:           data,
		Metadata:       metadata,
		Time:           UTCCoerce(record.Time),
	}, nil
}

// withRecord attaches the stream and position of record to a DeserializationError.
func withRecord(err error, record RawRecord) error {
	var derr *DeserializationError
	if errors.As(err, &derr) {
		derr.StreamName = record.StreamName
		derr.Position = record.Position
	}
	return err
}

// convertAll converts records in order, stopping at the first failure.
func convertAll(records []RawRecord) ([]Event, error) {
	events := make([]Event, 0, len(records))
	for _, record := range records {
		event, err := Convert(record)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
