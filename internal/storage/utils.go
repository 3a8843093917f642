package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// ReportIndex is the entry page of every stored report folder.
const ReportIndex = "index.html"

// ErrNoReports is returned when storage holds no report folder.
var ErrNoReports = errors.New("no reports found")

// GenerateReportFolderPath generates a consistent folder path for reports
// Format: YYYY/MM/DD/SalesReport-YYYY-MM-DD-HH-MM-SS
func GenerateReportFolderPath(timestamp time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d/SalesReport-%04d-%02d-%02d-%02d-%02d-%02d",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css"
	case ".md":
		return "text/markdown"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// CleanPath normalizes a storage path and rejects paths escaping the root.
func CleanPath(p string) (string, error) {
	slashed := strings.ReplaceAll(p, "\\", "/")
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", fmt.Errorf("invalid path %q", p)
		}
	}
	return strings.TrimPrefix(path.Clean("/"+slashed), "/"), nil
}

// ListReports returns report folders (those holding an index.html), newest first.
func ListReports(ctx context.Context, client StorageClient, limit int) ([]string, error) {
	files, err := client.ListDir(ctx, "", true)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	var folders []string
	for _, f := range files {
		if path.Base(f) == ReportIndex && path.Dir(f) != "." {
			folders = append(folders, path.Dir(f))
		}
	}

	// folder names embed the timestamp, so reverse lexical order is newest first
	sort.Sort(sort.Reverse(sort.StringSlice(folders)))

	if limit > 0 && limit < len(folders) {
		folders = folders[:limit]
	}
	return folders, nil
}

// LatestReport returns the newest report folder.
func LatestReport(ctx context.Context, client StorageClient) (string, error) {
	reports, err := ListReports(ctx, client, 1)
	if err != nil {
		return "", err
	}
	if len(reports) == 0 {
		return "", ErrNoReports
	}
	return reports[0], nil
}
