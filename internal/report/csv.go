package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rohmanhakim/hreflang-audit/internal/analyzer"
	"github.com/rohmanhakim/hreflang-audit/internal/metadata"
	"github.com/rohmanhakim/hreflang-audit/pkg/failure"
	"github.com/rohmanhakim/hreflang-audit/pkg/fileutil"
)

/*
Responsibilities
- Persist audit records as CSV
- Fixed column order, header row, UTF-8

Column layout:

	URL, Status, Title, Language, Indexable, Method, UserAgent,
	hreflang 1, URL 1, ... hreflang N, URL N, [HreflangCount,] Issues

N is the configured alternate cap. The HreflangCount column only
appears on the extended profile (cap above 3), where the stored pairs
may undercount what the page declares.

Output Characteristics
- Deterministic: rows follow record order
- Overwrite-safe reruns
*/

// compactPairLimit is the widest layout that still omits HreflangCount.
const compactPairLimit = 3

type Sink interface {
	Write(
		outputPath string,
		records []analyzer.PageRecord,
		maxAlternates int,
	) failure.ClassifiedError
}

type CSVSink struct {
	metadataSink metadata.MetadataSink
}

func NewCSVSink(
	metadataSink metadata.MetadataSink,
) CSVSink {
	return CSVSink{
		metadataSink: metadataSink,
	}
}

func (s *CSVSink) Write(
	outputPath string,
	records []analyzer.PageRecord,
	maxAlternates int,
) failure.ClassifiedError {
	err := write(outputPath, records, maxAlternates)
	if err != nil {
		var reportError *ReportError
		errors.As(err, &reportError)
		s.metadataSink.RecordError(
			time.Now(),
			"report",
			"CSVSink.Write",
			mapReportErrorToMetadataCause(reportError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrWritePath, reportError.Path),
			},
		)
		return reportError
	}
	return nil
}

// WriteTo streams the CSV to an arbitrary writer. Used for stdout
// output when no file path is configured.
func (s *CSVSink) WriteTo(
	w io.Writer,
	records []analyzer.PageRecord,
	maxAlternates int,
) failure.ClassifiedError {
	if err := encode(w, records, maxAlternates); err != nil {
		reportError := &ReportError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
		}
		s.metadataSink.RecordError(
			time.Now(),
			"report",
			"CSVSink.WriteTo",
			mapReportErrorToMetadataCause(reportError),
			reportError.Error(),
			nil,
		)
		return reportError
	}
	return nil
}

func write(
	outputPath string,
	records []analyzer.PageRecord,
	maxAlternates int,
) failure.ClassifiedError {
	if err := fileutil.EnsureParentDir(outputPath); err != nil {
		return &ReportError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      outputPath,
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return &ReportError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
			Path:      outputPath,
		}
	}
	defer file.Close()

	if err := encode(file, records, maxAlternates); err != nil {
		return &ReportError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
			Path:      outputPath,
		}
	}
	return nil
}

func encode(w io.Writer, records []analyzer.PageRecord, maxAlternates int) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header(maxAlternates)); err != nil {
		return err
	}
	for _, record := range records {
		if err := csvWriter.Write(row(record, maxAlternates)); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func header(maxAlternates int) []string {
	columns := []string{"URL", "Status", "Title", "Language", "Indexable", "Method", "UserAgent"}
	for i := 1; i <= maxAlternates; i++ {
		columns = append(columns, fmt.Sprintf("hreflang %d", i), fmt.Sprintf("URL %d", i))
	}
	if maxAlternates > compactPairLimit {
		columns = append(columns, "HreflangCount")
	}
	return append(columns, "Issues")
}

func row(record analyzer.PageRecord, maxAlternates int) []string {
	fields := []string{
		record.RequestedURL,
		record.Status,
		record.Title,
		record.Language,
		indexableFlag(record.Indexable),
		record.Method,
		record.UserAgent,
	}
	for i := 0; i < maxAlternates; i++ {
		if i < len(record.Alternates) {
			fields = append(fields, record.Alternates[i].HreflangCode, record.Alternates[i].TargetURL)
		} else {
			fields = append(fields, "", "")
		}
	}
	if maxAlternates > compactPairLimit {
		fields = append(fields, fmt.Sprintf("%d", record.HreflangCount))
	}
	return append(fields, issuesField(record.Issues))
}

func indexableFlag(indexable bool) string {
	if indexable {
		return "Yes"
	}
	return "No"
}

func issuesField(issues []string) string {
	if len(issues) == 0 {
		return "Valid"
	}
	return strings.Join(issues, ", ")
}
