package governance

import (
	"fmt"
	"io"
	"log/slog"

	"clingov/internal/testutil"
)

// errTest is a sentinel error for test scenarios.
var errTest = fmt.Errorf("test error")

// discardLogger keeps service log output out of test output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Shorthand aliases for the shared mocks.
type mockEventRepo = testutil.MockLineageEventRepo
type mockReportRepo = testutil.MockQualityReportRepo
type mockResultRepo = testutil.MockContractResultRepo
