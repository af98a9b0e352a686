package framework

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

const statusQueryRetryInterval = time.Millisecond * 100

// TargetInfo is what the harness learned about the system under test from its initial status
// query.
type TargetInfo struct {
	URL        string
	StatusCode int
	Server     string
}

// TestHarness holds what all tests in a run share: the address of the system under test and
// the harness-level debug logger.
type TestHarness struct {
	targetURL  string
	targetInfo TargetInfo
	logger     Logger
}

// NewTestHarness creates a TestHarness instance, and verifies that the system under test is
// responding by querying targetURL until it answers with a status below 400 or statusQueryTimeout
// elapses. Progress is
// written to startupOutput.
func NewTestHarness(
	targetURL string,
	statusQueryTimeout time.Duration,
	debugLogger Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	if startupOutput == nil {
		startupOutput = io.Discard
	}

	info, err := queryTargetInfo(targetURL, statusQueryTimeout, startupOutput)
	if err != nil {
		return nil, err
	}
	debugLogger.Printf("Target %s answered with status %d", targetURL, info.StatusCode)

	return &TestHarness{
		targetURL:  targetURL,
		targetInfo: info,
		logger:     debugLogger,
	}, nil
}

func (h *TestHarness) TargetURL() string {
	return h.targetURL
}

func (h *TestHarness) TargetInfo() TargetInfo {
	return h.targetInfo
}

func (h *TestHarness) Logger() Logger {
	return h.logger
}

func queryTargetInfo(url string, timeout time.Duration, output io.Writer) (TargetInfo, error) {
	fmt.Fprintf(output, "Connecting to %s", url)

	client := &http.Client{Timeout: timeout}
	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := client.Get(url)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if resp.StatusCode < 400 {
				fmt.Fprintln(output)
				info := TargetInfo{
					URL:        resp.Request.URL.String(),
					StatusCode: resp.StatusCode,
					Server:     resp.Header.Get("Server"),
				}
				if info.Server != "" {
					fmt.Fprintf(output, "Target is up (HTTP %d, server %q)\n", info.StatusCode, info.Server)
				} else {
					fmt.Fprintf(output, "Target is up (HTTP %d)\n", info.StatusCode)
				}
				return info, nil
			}
			err = fmt.Errorf("target returned status code %d", resp.StatusCode)
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return TargetInfo{}, fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(statusQueryRetryInterval)
	}
}
