package parser

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"

	"github.com/transitlint/gtfs-validator/notice"
)

// FeedLoader loads GTFS feeds from various sources: a zip file on disk, an
// in-memory zip byte buffer, or a directory. All three sources present the
// same uniform view of "logical files by name" to the rest of the engine.
type FeedLoader struct {
	filePaths map[string]string    // For directory files
	zipReader *zip.ReadCloser      // For on-disk ZIP files
	zipCloser io.Closer            // Closer for in-memory zip (bytes.Reader has none, kept for symmetry)
	zipFiles  map[string]*zip.File // For ZIP files (on-disk or in-memory)
	isDir     bool                 // True if loading from directory

	// subfolderRebase holds the single subfolder prefix every file was
	// found under, when the archive violates the "files at root" rule.
	// Non-empty only when that condition was detected; see indexZipFiles.
	subfolderRebase string
	notices         []notice.Notice
}

// LoadFromZip loads a GTFS feed from a zip file on disk.
func LoadFromZip(zipPath string) (*FeedLoader, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open zip file %s", zipPath)
	}

	loader := &FeedLoader{
		filePaths: make(map[string]string),
		zipReader: reader,
		zipFiles:  make(map[string]*zip.File),
	}
	loader.indexZipFiles(reader.File)
	return loader, nil
}

// LoadFromBytes loads a GTFS feed from an in-memory zip archive, as used by
// embedded and hosted front-ends that receive the archive as a byte slice
// rather than a path (an external collaborator concern; this is the
// primitive they build on).
func LoadFromBytes(data []byte) (*FeedLoader, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open zip byte buffer")
	}

	loader := &FeedLoader{
		filePaths: make(map[string]string),
		zipFiles:  make(map[string]*zip.File),
	}
	loader.indexZipFiles(reader.File)
	return loader, nil
}

// indexZipFiles populates zipFiles, detecting the GTFS "all files live in a
// single subfolder" misplacement (spec §4.3) and transparently rebasing
// lookups to that subfolder while keeping every subsequent notice tagged
// with the original (root-relative) file name.
func (l *FeedLoader) indexZipFiles(files []*zip.File) {
	var candidates []*zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		name := f.Name
		base := filepath.Base(name)
		if !strings.HasSuffix(base, ".txt") && !strings.HasSuffix(base, ".geojson") {
			continue
		}
		candidates = append(candidates, f)
	}

	commonPrefix, allInSubfolder := detectSingleSubfolder(candidates)
	if allInSubfolder {
		l.subfolderRebase = commonPrefix
		l.notices = append(l.notices, notice.NewInvalidInputFilesInSubfolderNotice(commonPrefix))
	}

	for _, f := range candidates {
		name := filepath.Base(f.Name)
		l.zipFiles[name] = f
	}
}

// detectSingleSubfolder reports whether every candidate file lives under the
// exact same one-level subfolder (rather than at archive root).
func detectSingleSubfolder(files []*zip.File) (string, bool) {
	if len(files) == 0 {
		return "", false
	}
	var prefix string
	for i, f := range files {
		dir := filepath.Dir(f.Name)
		if dir == "." || dir == "" || strings.Contains(dir, "/") {
			return "", false
		}
		if i == 0 {
			prefix = dir
		} else if dir != prefix {
			return "", false
		}
	}
	return prefix, true
}

// LoadFromDirectory loads a GTFS feed from a directory.
func LoadFromDirectory(dirPath string) (*FeedLoader, error) {
	loader := &FeedLoader{
		filePaths: make(map[string]string),
		isDir:     true,
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read directory %s", dirPath)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") && !strings.HasSuffix(name, ".geojson") {
			continue
		}

		filePath := filepath.Join(dirPath, name)
		loader.filePaths[name] = filePath
	}

	return loader, nil
}

// GetFile returns a reader for the specified GTFS file.
func (l *FeedLoader) GetFile(filename string) (io.ReadCloser, error) {
	if l.isDir {
		filePath, exists := l.filePaths[filename]
		if !exists {
			return nil, errors.Errorf("file not found: %s", filename)
		}
		f, err := os.Open(filePath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", filename)
		}
		return f, nil
	}

	zipFile, exists := l.zipFiles[filename]
	if !exists {
		return nil, errors.Errorf("file not found: %s", filename)
	}
	rc, err := zipFile.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s within archive", filename)
	}
	return rc, nil
}

// HasFile returns true if the specified file exists in the feed.
func (l *FeedLoader) HasFile(filename string) bool {
	if l.isDir {
		_, exists := l.filePaths[filename]
		return exists
	}
	_, exists := l.zipFiles[filename]
	return exists
}

// ListFiles returns a list of all files in the feed.
func (l *FeedLoader) ListFiles() []string {
	if l.isDir {
		files := make([]string, 0, len(l.filePaths))
		for filename := range l.filePaths {
			files = append(files, filename)
		}
		return files
	}
	files := make([]string, 0, len(l.zipFiles))
	for filename := range l.zipFiles {
		files = append(files, filename)
	}
	return files
}

// LoadNotices returns notices generated while locating files in the
// archive (currently only invalid_input_files_in_subfolder). The engine adds
// them to its notice container before the validators run.
func (l *FeedLoader) LoadNotices() []notice.Notice {
	return l.notices
}

// Close closes all open file readers.
func (l *FeedLoader) Close() error {
	var firstErr error

	if l.zipReader != nil {
		if err := l.zipReader.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if l.zipCloser != nil {
		if err := l.zipCloser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// RequiredFiles lists the required GTFS files.
var RequiredFiles = []string{
	"agency.txt",
	"stops.txt",
	"routes.txt",
	"trips.txt",
	"stop_times.txt",
}

// ConditionallyRequiredFiles lists files that may be required based on feed content.
var ConditionallyRequiredFiles = []string{
	"calendar.txt",
	"calendar_dates.txt",
	"feed_info.txt",
}

// OptionalFiles lists common optional GTFS files, including the GTFS-Flex
// and Fares v2 extensions this engine supports.
var OptionalFiles = []string{
	"fare_attributes.txt",
	"fare_rules.txt",
	"shapes.txt",
	"frequencies.txt",
	"transfers.txt",
	"pathways.txt",
	"levels.txt",
	"translations.txt",
	"attributions.txt",
	"locations.geojson",
	"booking_rules.txt",
	"timeframes.txt",
	"fare_products.txt",
	"fare_leg_rules.txt",
	"fare_transfer_rules.txt",
	"fare_media.txt",
	"rider_categories.txt",
	"areas.txt",
	"stop_areas.txt",
	"networks.txt",
	"route_networks.txt",
}
