package datasets

import "encoding/csv"
import "fmt"
import "io"
import "os"
import "strings"

import "github.com/neurlang/dgadetect"

// LoadCSV reads a tabular corpus with a header row. domainCol and labelCol
// name the columns to use; row order does not matter. Labels may be the
// integers 0/1 or the words benign/dga (any case).
func LoadCSV(path, domainCol, labelCol string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, domainCol, labelCol)
}

// ReadCSV is LoadCSV over an already open reader.
func ReadCSV(r io.Reader, domainCol, labelCol string) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", dgadetect.ErrData, err)
	}
	di, li := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case domainCol:
			di = i
		case labelCol:
			li = i
		}
	}
	if di < 0 || li < 0 {
		return nil, fmt.Errorf("%w: columns %q/%q not found in header %v", dgadetect.ErrData, domainCol, labelCol, header)
	}
	var ds Dataset
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", dgadetect.ErrData, row, err)
		}
		if di >= len(rec) || li >= len(rec) {
			return nil, fmt.Errorf("%w: row %d has %d fields", dgadetect.ErrData, row, len(rec))
		}
		label, err := parseLabel(rec[li])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", dgadetect.ErrData, row, err)
		}
		ds = append(ds, Sample{Domain: rec[di], Label: label})
	}
	return ds, nil
}

func parseLabel(s string) (uint16, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "benign", "legit":
		return LabelBenign, nil
	case "1", "dga", "malicious":
		return LabelDGA, nil
	}
	return 0, fmt.Errorf("unknown label %q", s)
}
