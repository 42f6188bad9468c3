package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/cart/pkg/errors"
)

// TestLoggerInterface tests the TestLogger implementation of Logger
func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message", ErrorCodeKey, ErrorInvalidInput)
	testLogger.Error("error message", fmt.Errorf("test error"), ErrorCodeKey, ErrorOutOfRange)

	if buffer.Len() == 0 {
		t.Fatal("Expected log output, got empty buffer")
	}

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}

	if !testLogger.ContainsField("key1", "value1") {
		t.Error("Expected field key1=value1 not found")
	}
	if !testLogger.ContainsField("number", 42.0) {
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField(ErrAttrKey, "test error") {
		t.Error("Expected leading error to be logged under the error key")
	}
}

// TestLoggerWith tests the With method for context-aware logging
func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	child := testLogger.With(ModelNameKey, "DecisionTreeClassifier", EstimatorIDKey, "abc")
	child.Info("fit done", DepthKey, 3)

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("parse entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry[ModelNameKey] != "DecisionTreeClassifier" || entry[EstimatorIDKey] != "abc" {
		t.Errorf("context fields missing: %v", entry)
	}
	if entry[DepthKey] != 3.0 {
		t.Errorf("depth = %v, want 3", entry[DepthKey])
	}
}

// TestLoggerEnabled tests level filtering
func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if testLogger.Enabled(ctx, LevelDebug) {
		t.Error("Debug should be disabled at info level")
	}
	if !testLogger.Enabled(ctx, LevelWarn) {
		t.Error("Warn should be enabled at info level")
	}

	testLogger.Debug("hidden")
	if testLogger.ContainsMessage("hidden") {
		t.Error("Debug record should have been filtered")
	}
}

func TestLoggerProviderIntegration(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)

	provider.GetLogger().Info("provider test message")
	provider.GetLoggerWithName("tree.builder").Info("named logger message")

	if !strings.Contains(buffer.String(), "provider test message") {
		t.Error("Expected provider test message in output")
	}
	if !provider.Logger().ContainsField(ComponentKey, "tree.builder") {
		t.Error("Expected component field from named logger")
	}
}

func TestConcurrentLogging(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				testLogger.Info("subtree built", "worker", id, "i", i)
			}
		}(g)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("concurrent writes produced unparsable output: %v", err)
	}
	if len(entries) != 200 {
		t.Errorf("expected 200 entries, got %d", len(entries))
	}
}

func TestZerologProvider(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProvider(&buf, LevelInfo)

	logger := provider.GetLoggerWithName("tree.builder").With(ModelNameKey, "DecisionTreeClassifier")
	logger.Debug("filtered out")
	logger.Info("Tree built", SamplesKey, 4, LeavesKey, 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one record, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if entry["message"] != "Tree built" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry[ComponentKey] != "tree.builder" {
		t.Errorf("component = %v", entry[ComponentKey])
	}
	if entry[SamplesKey] != 4.0 || entry[LeavesKey] != 2.0 {
		t.Errorf("fields not attached: %v", entry)
	}
}

func TestZerologLoggerErrorCarriesDetail(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologProvider(&buf, LevelDebug).GetLogger()

	err := errors.NewInvalidDatasetError("Build", 2, "expected width 3, got 2")
	logger.Error("Dataset rejected", err, OperationKey, OperationFit)

	var entry map[string]interface{}
	if jerr := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); jerr != nil {
		t.Fatalf("record is not JSON: %v", jerr)
	}
	if !strings.Contains(fmt.Sprint(entry[ErrAttrKey]), "invalid dataset at row 2") {
		t.Errorf("error field = %v", entry[ErrAttrKey])
	}
	if entry[StacktraceAttrKey] == nil {
		t.Error("expected a stacktrace field")
	}
	detail, ok := entry["error_detail"].(map[string]interface{})
	if !ok || detail["type"] != "InvalidDatasetError" {
		t.Errorf("expected structured error detail, got %v", entry["error_detail"])
	}
}

func TestZerologEnabled(t *testing.T) {
	logger := NewZerologProvider(&bytes.Buffer{}, LevelWarn).GetLogger()
	if logger.Enabled(context.Background(), LevelInfo) {
		t.Error("Info should be disabled at warn level")
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("Error should be enabled at warn level")
	}
}

func TestNewZerologLoggerKeepsCallerSettings(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.WarnLevel).With().Str("service", "cart").Logger()
	logger := NewZerologLogger(zl)

	logger.Info("filtered out")
	logger.Warn("Degenerate tree", SamplesKey, 4)

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "Degenerate tree" || entry["service"] != "cart" || entry[SamplesKey] != 4.0 {
		t.Errorf("unexpected record: %v", entry)
	}
	if logger.Enabled(context.Background(), LevelInfo) {
		t.Error("Info should be disabled by the wrapped logger's level")
	}
}

func TestSetupLoggerRoutesWarnings(t *testing.T) {
	var buf bytes.Buffer
	if err := SetupLogger("info", &buf); err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	defer func() {
		errors.SetZerologWarnFunc(nil)
		SetProvider(NewZerologProvider(&bytes.Buffer{}, LevelWarn))
	}()

	errors.Warn(errors.NewDegenerateTreeWarning(2, 8, "max_depth is 0"))

	if !strings.Contains(buf.String(), "DegenerateTreeWarning") {
		t.Errorf("expected warning detail in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"ml.component":"warnings"`) {
		t.Errorf("expected warnings component, got %q", buf.String())
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "info", want: LevelInfo},
		{in: "", want: LevelInfo},
		{in: "warn", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
