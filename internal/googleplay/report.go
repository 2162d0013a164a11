package googleplay

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// mergeReportArchives extracts every CSV member of every archive and joins
// them into one report. Rows are merged when the CSVs share a header line;
// repeated headers from later files are dropped. A summary header notes the
// month and the source archives.
func mergeReportArchives(kind ReportKind, month string, archives map[string][]byte) (string, error) {
	names := make([]string, 0, len(archives))
	for name := range archives {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		header string
		rows   []string
		files  int
	)

	for _, name := range names {
		csvs, err := extractCSVs(archives[name])
		if err != nil {
			return "", fmt.Errorf("failed to read archive %s: %w", name, err)
		}

		for _, content := range csvs {
			files++
			lines := splitLines(content)
			if len(lines) == 0 {
				continue
			}

			if header == "" {
				header = lines[0]
				rows = append(rows, lines[1:]...)
				continue
			}

			if lines[0] == header {
				rows = append(rows, lines[1:]...)
			} else {
				// Different layout: keep its header inline so no
				// column meaning is lost.
				rows = append(rows, lines...)
			}
		}
	}

	if files == 0 {
		return "", fmt.Errorf("no CSV files found in %s report archives for %s", kind, month)
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("# Google Play %s report for %s\n", kind, month))
	out.WriteString(fmt.Sprintf("# Merged from %d CSV file(s) across %d archive(s): %s\n",
		files, len(names), strings.Join(names, ", ")))
	if header != "" {
		out.WriteString(header)
		out.WriteString("\n")
	}
	out.WriteString(strings.Join(rows, "\n"))
	return strings.TrimRight(out.String(), "\n"), nil
}

// extractCSVs returns the content of each CSV member, keyed by member order.
func extractCSVs(archive []byte) ([]string, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, err
	}

	var contents []string
	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(file.Name), ".csv") {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.Name, err)
		}
		contents = append(contents, string(data))
	}
	return contents, nil
}

// splitLines splits CSV text into non-empty lines, tolerating CRLF endings.
func splitLines(content string) []string {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
