package harness

import (
	"archive/zip"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// The sample document every load scenario opens.
const (
	SampleArchive    = "workiva.zip"
	SampleEntryPoint = "wk-20220331.htm"
)

// Fixture describes the sample archive a scenario loads: where it is, how
// many entries it has and where the entry point sits among them. The archive
// picker lists entries in archive order, so the index doubles as a row.
type Fixture struct {
	ResourceRoot string
	ArchivePath  string
	EntryPoint   string
	Entries      []string
	EntryIndex   int
}

// EntryCount is the number of entries the archive picker will list.
func (f *Fixture) EntryCount() int { return len(f.Entries) }

// NewFixture opens the sample archive under resourceRoot.
func NewFixture(resourceRoot string) (*Fixture, error) {
	return LoadFixture(filepath.Join(resourceRoot, SampleArchive), SampleEntryPoint)
}

// LoadFixture reads the entry list of archivePath and locates entryPoint by
// file name. Exactly one entry must match.
func LoadFixture(archivePath, entryPoint string) (*Fixture, error) {
	abs, err := filepath.Abs(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", archivePath, err)
	}

	zr, err := zip.OpenReader(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	f := &Fixture{
		ResourceRoot: filepath.Dir(abs),
		ArchivePath:  abs,
		EntryPoint:   entryPoint,
		EntryIndex:   -1,
	}
	for i, zf := range zr.File {
		f.Entries = append(f.Entries, zf.Name)
		if path.Base(zf.Name) != entryPoint || zf.FileInfo().IsDir() {
			continue
		}
		if f.EntryIndex >= 0 {
			return nil, fmt.Errorf("entry point %s appears more than once in %s", entryPoint, abs)
		}
		f.EntryIndex = i
	}
	if f.EntryIndex < 0 {
		return nil, fmt.Errorf("entry point %s not found in %s", entryPoint, abs)
	}
	return f, nil
}

// WriteArchive creates a zip at dst holding the named entries in order.
// Names ending in "/" become directories.
func WriteArchive(dst string, entries []string) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	zw := zip.NewWriter(out)
	for _, name := range entries {
		w, err := zw.Create(name)
		if err != nil {
			out.Close()
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
		if name[len(name)-1] != '/' {
			fmt.Fprintf(w, "<!-- %s -->\n", name)
		}
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return out.Close()
}
