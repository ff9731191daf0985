package analysis

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/metrics"
	"github.com/Sauravdeep01/ResumeAnalyser/internal/shared/telemetry"
)

// Sentinel texts returned when extraction cannot produce usable content.
// Extraction failure is recoverable: the pipeline scores the sentinel
// instead of failing the upload.
const (
	SentinelExtractError = "Error extracting text from PDF."
	SentinelEmptyContent = "Empty resume content."
)

// ExtractText reads the PDF at path and returns its plain text. It never
// returns an error: any failure yields sentinel text and a log line.
func ExtractText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		logExtractFailure(path, err)
		return SentinelExtractError
	}
	return ExtractTextFromBytes(path, data)
}

// ExtractTextFromBytes extracts plain text from an in-memory PDF payload.
func ExtractTextFromBytes(path string, data []byte) (text string) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			logExtractFailure(path, nil)
			text = SentinelExtractError
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		logExtractFailure(path, err)
		return SentinelExtractError
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		logExtractFailure(path, err)
		return SentinelExtractError
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		logExtractFailure(path, err)
		return SentinelExtractError
	}

	out := strings.TrimSpace(buf.String())
	if out == "" {
		telemetry.Warn("extract.empty", map[string]any{"path": path})
		return SentinelEmptyContent
	}
	return out
}

func logExtractFailure(path string, err error) {
	metrics.IncExtractFailed()
	fields := map[string]any{"path": path}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Warn("extract.failed", fields)
}
