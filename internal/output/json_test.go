package output

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONFormatter_Format(t *testing.T) {
	formatter := NewJSONFormatter(nil)

	data := map[string]interface{}{
		"cluster": "prod-phoenix",
		"healthy": true,
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded["cluster"] != "prod-phoenix" {
		t.Errorf("expected cluster prod-phoenix, got %v", decoded["cluster"])
	}
}

func TestJSONFormatter_FormatClusters(t *testing.T) {
	formatter := NewJSONFormatter(nil)

	var buf bytes.Buffer
	if err := formatter.FormatClusters(&buf, testClusters()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("expected 2 items, got %d", len(decoded))
	}

	if decoded[0]["name"] != "prod-phoenix" {
		t.Errorf("expected name prod-phoenix, got %v", decoded[0]["name"])
	}
	if decoded[0]["current"] != true {
		t.Errorf("expected current true, got %v", decoded[0]["current"])
	}
	if decoded[0]["region"] != "us-phoenix-1" {
		t.Errorf("expected region, got %v", decoded[0]["region"])
	}

	// Entries without a region omit the key
	if _, ok := decoded[1]["region"]; ok {
		t.Error("expected region to be omitted for unregistered cluster")
	}
}

func TestJSONFormatter_FormatHealth(t *testing.T) {
	formatter := NewJSONFormatter(nil)

	var buf bytes.Buffer
	if err := formatter.FormatHealth(&buf, testStatuses()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("expected 2 items, got %d", len(decoded))
	}

	if decoded[0]["healthy"] != true {
		t.Errorf("expected healthy true, got %v", decoded[0]["healthy"])
	}
	if decoded[0]["version"] != "v1.29.1" {
		t.Errorf("expected version, got %v", decoded[0]["version"])
	}

	if decoded[1]["healthy"] != false {
		t.Errorf("expected healthy false, got %v", decoded[1]["healthy"])
	}
	if decoded[1]["error"] != "connection refused" {
		t.Errorf("expected error message, got %v", decoded[1]["error"])
	}
}

func TestJSONFormatter_FormatHealth_Empty(t *testing.T) {
	formatter := NewJSONFormatter(nil)

	var buf bytes.Buffer
	if err := formatter.FormatHealth(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded []interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(decoded) != 0 {
		t.Errorf("expected empty array, got %d items", len(decoded))
	}
}

func TestJSONFormatter_FormatReport(t *testing.T) {
	formatter := NewJSONFormatter(nil)

	var buf bytes.Buffer
	if err := formatter.FormatReport(&buf, testReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded["project"] != "orion" || decoded["stage"] != "prod" {
		t.Errorf("unexpected report identity: %v/%v", decoded["project"], decoded["stage"])
	}

	hosts, ok := decoded["hosts"].([]interface{})
	if !ok {
		t.Fatalf("expected hosts array, got %T", decoded["hosts"])
	}
	if len(hosts) != 2 {
		t.Fatalf("expected 2 hosts, got %d", len(hosts))
	}

	first := hosts[0].(map[string]interface{})
	if first["host"] != "phx-node-1" {
		t.Errorf("expected host phx-node-1, got %v", first["host"])
	}
	if first["drifted"] != true {
		t.Errorf("expected drifted true, got %v", first["drifted"])
	}

	failures, ok := decoded["failures"].([]interface{})
	if !ok || len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %v", decoded["failures"])
	}

	summary, ok := decoded["summary"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected summary object, got %T", decoded["summary"])
	}
	if summary["drifted"] != float64(1) {
		t.Errorf("expected 1 drifted in summary, got %v", summary["drifted"])
	}
}

func TestJSONFormatter_OutputIsIndented(t *testing.T) {
	formatter := NewJSONFormatter(nil)

	var buf bytes.Buffer
	if err := formatter.FormatHealth(&buf, testStatuses()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Contains(buf.Bytes(), []byte("\n  ")) {
		t.Error("expected indented JSON output")
	}
}
