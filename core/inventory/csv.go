package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"shaper-sync/core/utils"
)

// Columns is the ShapedDevices.csv header, in file order.
var Columns = []string{
	"Circuit ID", "Circuit Name", "Device ID", "Device Name", "Parent Node",
	"MAC", "IPv4", "IPv6", "Download Min Mbps", "Upload Min Mbps",
	"Download Max Mbps", "Upload Max Mbps", "Comment",
}

// Load reads an inventory file. A missing file is an empty inventory.
func Load(path string) (*Inventory, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory %s: %w", path, err)
	}
	defer f.Close()

	inv, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory %s: %w", path, err)
	}
	return inv, nil
}

// Decode parses CSV rows with a header line. Columns are matched by name;
// a repeated circuit name keeps its first position and its last values.
func Decode(r io.Reader) (*Inventory, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	inv := New()

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return inv, nil
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := index["Circuit Name"]; !ok {
		return nil, fmt.Errorf("missing %q column", "Circuit Name")
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := &Record{
			CircuitID:       get("Circuit ID"),
			CircuitName:     get("Circuit Name"),
			DeviceID:        get("Device ID"),
			DeviceName:      get("Device Name"),
			ParentNode:      get("Parent Node"),
			MAC:             get("MAC"),
			IPv4:            get("IPv4"),
			IPv6:            get("IPv6"),
			DownloadMinMbps: toMbps(get("Download Min Mbps")),
			UploadMinMbps:   toMbps(get("Upload Min Mbps")),
			DownloadMaxMbps: toMbps(get("Download Max Mbps")),
			UploadMaxMbps:   toMbps(get("Upload Max Mbps")),
			Comment:         get("Comment"),
		}
		if rec.CircuitName == "" {
			continue
		}
		inv.Put(rec)
	}

	return inv, nil
}

// Encode writes the header and every record in order.
func Encode(w io.Writer, inv *Inventory) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}

	itoa := strconv.Itoa
	for _, r := range inv.Records() {
		row := []string{
			r.CircuitID, r.CircuitName, r.DeviceID, r.DeviceName, r.ParentNode,
			r.MAC, r.IPv4, r.IPv6,
			itoa(r.DownloadMinMbps), itoa(r.UploadMinMbps),
			itoa(r.DownloadMaxMbps), itoa(r.UploadMaxMbps),
			r.Comment,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Save writes the inventory atomically (temp file + rename).
func Save(path string, inv *Inventory) error {
	return utils.WriteFileAtomic(path, func(w io.Writer) error {
		return Encode(w, inv)
	})
}

func toMbps(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(math.Floor(f))
	}
	return 0
}
