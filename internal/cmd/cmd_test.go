package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	eventsource "github.com/shogotsuneto/go-simple-eventsource"
	"github.com/shogotsuneto/go-simple-eventsource/sqlite"
)

// setupTestDB creates a SQLite message store holding count events of orders-1.
func setupTestDB(t *testing.T, count int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "messages.db")
	db, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := sqlite.InitSchema(context.Background(), db, "messages"); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	for i := 0; i < count; i++ {
		_, err := db.Exec(
			`INSERT INTO "messages" (id, stream_name, type, position, data, metadata, time) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), "orders-1", "OrderPlaced", i,
			fmt.Sprintf(`{"sequence": %d}`, i), `{"source": "cli"}`, "2024-01-02 03:04:05")
		if err != nil {
			t.Fatalf("Failed to insert message: %v", err)
		}
	}

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(append(args, "--log-level", "error"))
	root.SetOut(&out)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeJSON(t *testing.T, out string) []eventView {
	t.Helper()

	var views []eventView
	dec := json.NewDecoder(strings.NewReader(out))
	for {
		var view eventView
		if err := dec.Decode(&view); err == io.EOF {
			return views
		} else if err != nil {
			t.Fatalf("Failed to decode output %q: %v", out, err)
		}
		views = append(views, view)
	}
}

func viewPositions(views []eventView) []int64 {
	result := make([]int64, len(views))
	for i, view := range views {
		result[i] = view.Position
	}
	return result
}

func TestReadCommand(t *testing.T) {
	path := setupTestDB(t, 5)

	tests := []struct {
		name     string
		args     []string
		expected []int64
	}{
		{
			name:     "whole stream",
			args:     []string{"read", "orders-1", "--batch-size", "2"},
			expected: []int64{0, 1, 2, 3, 4},
		},
		{
			name:     "from position",
			args:     []string{"read", "orders-1", "--batch-size", "2", "--position", "3"},
			expected: []int64{3, 4},
		},
		{
			name:     "limit",
			args:     []string{"read", "orders-1", "--batch-size", "2", "--limit", "3"},
			expected: []int64{0, 1, 2},
		},
		{
			name:     "unknown stream",
			args:     []string{"read", "orders-2"},
			expected: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--backend", "sqlite", "--dsn", path)
			out, err := run(t, args...)
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}

			views := decodeJSON(t, out)
			if got := viewPositions(views); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected positions %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestReadCommand_EventFields(t *testing.T) {
	path := setupTestDB(t, 1)

	out, err := run(t, "read", "orders-1", "--backend", "sqlite", "--dsn", path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	views := decodeJSON(t, out)
	if len(views) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(views))
	}

	view := views[0]
	if view.StreamName != "orders-1" || view.Type != "OrderPlaced" {
		t.Errorf("Unexpected identity fields: %+v", view)
	}
	if view.Data["sequence"] != float64(0) {
		t.Errorf("Expected sequence 0, got %v", view.Data["sequence"])
	}
	if view.Metadata["source"] != "cli" {
		t.Errorf("Expected source 'cli', got %v", view.Metadata["source"])
	}
	if view.Time != "2024-01-02T03:04:05Z" {
		t.Errorf("Expected UTC time '2024-01-02T03:04:05Z', got %q", view.Time)
	}
}

func TestGetCommand(t *testing.T) {
	path := setupTestDB(t, 5)

	out, err := run(t, "get", "orders-1", "--backend", "sqlite", "--dsn", path, "--batch-size", "2", "--position", "1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	views := decodeJSON(t, out)
	if got := viewPositions(views); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Errorf("Expected positions [1 2], got %v", got)
	}
}

func TestGetCommand_YAML(t *testing.T) {
	path := setupTestDB(t, 2)

	out, err := run(t, "get", "orders-1", "--backend", "sqlite", "--dsn", path, "-o", "yaml")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	var views []eventView
	dec := yaml.NewDecoder(strings.NewReader(out))
	for {
		var view eventView
		if err := dec.Decode(&view); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Failed to decode output %q: %v", out, err)
		}
		views = append(views, view)
	}

	if got := viewPositions(views); !reflect.DeepEqual(got, []int64{0, 1}) {
		t.Errorf("Expected positions [0 1], got %v", got)
	}
}

func TestCommand_Errors(t *testing.T) {
	path := setupTestDB(t, 1)

	tests := []struct {
		name string
		args []string
		err  error
	}{
		{
			name: "unknown output format",
			args: []string{"get", "orders-1", "--backend", "sqlite", "--dsn", path, "-o", "xml"},
		},
		{
			name: "missing dsn",
			args: []string{"get", "orders-1", "--backend", "sqlite"},
		},
		{
			name: "invalid batch size",
			args: []string{"read", "orders-1", "--backend", "sqlite", "--dsn", path, "--batch-size", "0"},
			err:  eventsource.ErrInvalidArgument,
		},
		{
			name: "negative position",
			args: []string{"read", "orders-1", "--backend", "sqlite", "--dsn", path, "--position", "-1"},
			err:  eventsource.ErrInvalidArgument,
		},
		{
			name: "missing table",
			args: []string{"get", "orders-1", "--backend", "sqlite", "--dsn", path, "--table", "missing"},
			err:  eventsource.ErrQuery,
		},
		{
			name: "missing stream argument",
			args: []string{"read", "--backend", "sqlite", "--dsn", path},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("Expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestReadCommand_LargeIntegers(t *testing.T) {
	path := setupTestDB(t, 0)

	db, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	_, err = db.Exec(
		`INSERT INTO "messages" (id, stream_name, type, position, data, metadata, time) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), "accounts-1", "AccountOpened", 0,
		`{"account_id": 9007199254740993}`, nil, "2024-01-02 03:04:05")
	db.Close()
	if err != nil {
		t.Fatalf("Failed to insert message: %v", err)
	}

	out, err := run(t, "read", "accounts-1", "--backend", "sqlite", "--dsn", path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if !strings.Contains(out, `"account_id":9007199254740993`) {
		t.Errorf("Expected account_id 9007199254740993 in output, got %q", out)
	}
}

func TestCommand_ClosesDatabase(t *testing.T) {
	path := setupTestDB(t, 1)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name: "success",
			args: []string{"read", "orders-1"},
		},
		{
			name:    "failure",
			args:    []string{"get", "orders-1", "--table", "missing"},
			wantErr: eventsource.ErrQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &app{v: viper.New()}
			root := newRootCommand(a)
			root.SetArgs(append(tt.args, "--backend", "sqlite", "--dsn", path, "--log-level", "error"))
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)

			err := root.ExecuteContext(context.Background())
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Command failed: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}

			if a.db == nil {
				t.Fatal("Expected the command to open a database")
			}
			if err := a.db.Ping(); err == nil || !strings.Contains(err.Error(), "database is closed") {
				t.Errorf("Expected closed database, got %v", err)
			}
		})
	}
}
