package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	eventsource "github.com/shogotsuneto/go-simple-eventsource"
)

// eventView is the printed shape of an event.
type eventView struct {
	ID             string         `json:"id" yaml:"id"`
	StreamName     string         `json:"stream_name" yaml:"stream_name"`
	Type           string         `json:"type" yaml:"type"`
	Position       int64          `json:"position" yaml:"position"`
	GlobalPosition int64          `json:"global_position" yaml:"global_position"`
	Data           map[string]any `json:"data" yaml:"data"`
	Metadata       map[string]any `json:"metadata" yaml:"metadata"`
	Time           string         `json:"time" yaml:"time"`
}

func newEventView(event eventsource.Event) eventView {
	return eventView{
		ID:             event.ID,
		StreamName:     event.StreamName,
		Type:           event.Type,
		Position:       event.Position,
		GlobalPosition: event.GlobalPosition,
		Data:           event.Data,
		Metadata:       event.Metadata,
		Time:           event.Time.Format(time.RFC3339Nano),
	}
}

// printer writes events one at a time.
type printer interface {
	Print(event eventsource.Event) error
	Close() error
}

func newPrinter(w io.Writer, format string) (printer, error) {
	switch format {
	case "json":
		return &jsonPrinter{enc: json.NewEncoder(w)}, nil
	case "yaml":
		return &yamlPrinter{enc: yaml.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// jsonPrinter writes one JSON object per line.
type jsonPrinter struct {
	enc *json.Encoder
}

func (p *jsonPrinter) Print(event eventsource.Event) error {
	return p.enc.Encode(newEventView(event))
}

func (p *jsonPrinter) Close() error {
	return nil
}

// yamlPrinter writes one YAML document per event.
type yamlPrinter struct {
	enc *yaml.Encoder
}

func (p *yamlPrinter) Print(event eventsource.Event) error {
	return p.enc.Encode(newEventView(event))
}

func (p *yamlPrinter) Close() error {
	return p.enc.Close()
}
