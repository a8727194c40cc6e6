package storage

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/manav03panchal/rollcall/internal/errors"
	"github.com/manav03panchal/rollcall/internal/logging"
	"github.com/manav03panchal/rollcall/internal/model"
)

const (
	// MembersFileName holds one `name,department` line per member.
	MembersFileName = "members.txt"
	// RecordsFileName holds the attendance table as CSV.
	RecordsFileName = "attendance.csv"
)

// RecordColumns is the attendance table header, in write order.
var RecordColumns = []string{"date", "name", "department", "status", "note"}

// utf8BOM is stripped from the first header cell; spreadsheet exports add it.
const utf8BOM = "\ufeff"

// FileBackend stores members in a text file and records in a CSV file.
// Every rewrite goes through SafeWrite, so a crash never leaves a torn file.
type FileBackend struct {
	dir         string
	membersPath string
	recordsPath string
	minFree     uint64
}

// OpenFiles opens the file stores in dir, creating empty ones if missing.
func OpenFiles(dir string, minFree uint64) (*FileBackend, error) {
	if minFree == 0 {
		minFree = MinFreeSpace
	}
	if err := EnsureDirectory(dir, minFree); err != nil {
		return nil, err
	}

	b := &FileBackend{
		dir:         dir,
		membersPath: filepath.Join(dir, MembersFileName),
		recordsPath: filepath.Join(dir, RecordsFileName),
		minFree:     minFree,
	}
	if err := b.bootstrap(); err != nil {
		return nil, err
	}
	return b, nil
}

// bootstrap creates the empty stores. It is idempotent.
func (b *FileBackend) bootstrap() error {
	if _, err := os.Stat(b.membersPath); os.IsNotExist(err) {
		if err := SafeWrite(b.membersPath, nil, 0644, b.minFree); err != nil {
			return err
		}
	} else if err != nil {
		return errors.NewStorageError("stat members", b.membersPath, err)
	}

	if _, err := os.Stat(b.recordsPath); os.IsNotExist(err) {
		data, err := encodeRecords(nil)
		if err != nil {
			return errors.NewStorageError("encode records", b.recordsPath, err)
		}
		if err := SafeWrite(b.recordsPath, data, 0644, b.minFree); err != nil {
			return err
		}
	} else if err != nil {
		return errors.NewStorageError("stat records", b.recordsPath, err)
	}

	return nil
}

// Location returns the data directory.
func (b *FileBackend) Location() string {
	return b.dir
}

// Close is a no-op; files are opened per operation.
func (b *FileBackend) Close() error {
	return nil
}

// LoadMembers parses the member file. Blank lines are skipped; any other line
// must be exactly `name,department`.
func (b *FileBackend) LoadMembers() ([]model.Member, error) {
	data, err := os.ReadFile(b.membersPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewStorageError("read members", b.membersPath, err)
	}

	var members []model.Member
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		if line == "" {
			continue
		}
		name, dept, ok := strings.Cut(line, ",")
		if !ok || strings.Contains(dept, ",") {
			return nil, errors.NewStorageError("read members", b.membersPath,
				fmt.Errorf("line %d: want 'name,department', got %q", lineNo, line))
		}
		members = append(members, model.Member{
			Name:       strings.TrimSpace(name),
			Department: model.Department(strings.TrimSpace(dept)),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewStorageError("read members", b.membersPath, err)
	}

	return members, nil
}

// AppendMember appends one line to the member file.
func (b *FileBackend) AppendMember(m model.Member) error {
	if err := CheckDiskSpace(b.dir, b.minFree); err != nil {
		return err
	}

	f, err := os.OpenFile(b.membersPath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return writeError("open members", b.membersPath, err)
	}
	defer f.Close()

	line := formatMemberLine(m)
	// A hand-edited file may lack the final newline.
	missing, err := missingTrailingNewline(f)
	if err != nil {
		return errors.NewStorageError("read members", b.membersPath, err)
	}
	if missing {
		logging.Warn("member file lacked a trailing newline", logging.KeyPath, b.membersPath)
		line = "\n" + line
	}

	if _, err := f.WriteString(line); err != nil {
		return writeError("append member", b.membersPath, err)
	}
	if err := f.Sync(); err != nil {
		return writeError("sync members", b.membersPath, err)
	}
	return nil
}

// ReplaceMembers rewrites the member file.
func (b *FileBackend) ReplaceMembers(members []model.Member) error {
	var buf bytes.Buffer
	for _, m := range members {
		buf.WriteString(formatMemberLine(m))
	}
	return SafeWrite(b.membersPath, buf.Bytes(), 0644, b.minFree)
}

func formatMemberLine(m model.Member) string {
	return m.Name + "," + string(m.Department) + "\n"
}

// missingTrailingNewline reports whether a non-empty file does not end in '\n'.
func missingTrailingNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && err != io.EOF {
		return false, err
	}
	return last[0] != '\n', nil
}

// LoadRecords parses the attendance CSV. Columns are located by header name.
func (b *FileBackend) LoadRecords() ([]model.Record, error) {
	f, err := os.Open(b.recordsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewStorageError("read records", b.recordsPath, err)
	}
	defer f.Close()

	records, err := decodeRecords(f, b.recordsPath)
	if err != nil {
		return nil, errors.NewStorageError("read records", b.recordsPath, err)
	}
	return records, nil
}

// ReplaceRecords rewrites the attendance CSV.
func (b *FileBackend) ReplaceRecords(records []model.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return errors.NewStorageError("encode records", b.recordsPath, err)
	}
	return SafeWrite(b.recordsPath, data, 0644, b.minFree)
}

func encodeRecords(records []model.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteRecordsCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteRecordsCSV writes records as CSV with the RecordColumns header, the
// same layout the file backend stores.
func WriteRecordsCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RecordColumns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Date, r.Name, string(r.Department), string(r.Status), r.Note}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// requiredColumns must appear in the header and in every row. The note
// column may be missing from a row; spreadsheets drop trailing empty cells.
var requiredColumns = RecordColumns[:4]

func decodeRecords(r io.Reader, path string) ([]model.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q in header %v", col, header)
		}
	}

	records := make([]model.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		// Row 1 is the header.
		rowNo := i + 2
		cell := func(col string) (string, bool) {
			j, ok := index[col]
			if !ok || j >= len(row) {
				return "", false
			}
			return row[j], true
		}

		var fields [4]string
		for k, col := range requiredColumns {
			v, ok := cell(col)
			if !ok {
				return nil, fmt.Errorf("row %d: missing %q field", rowNo, col)
			}
			fields[k] = v
		}
		note, ok := cell("note")
		if _, inHeader := index["note"]; !ok && inHeader {
			logging.Warn("attendance row without note field",
				logging.KeyPath, path, "row", rowNo)
		}

		rec := model.Record{
			Date:       fields[0],
			Name:       fields[1],
			Department: model.Department(fields[2]),
			Status:     model.Status(fields[3]),
			Note:       note,
		}
		if !rec.Status.Valid() {
			return nil, fmt.Errorf("row %d: invalid status %q", rowNo, rec.Status)
		}
		records = append(records, rec)
	}
	return records, nil
}
