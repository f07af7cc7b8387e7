package inventory

import (
	"strconv"
	"strings"
)

// StaticComment marks a record that pruning must never remove.
const StaticComment = "static"

// Record is one shaped circuit/device row.
type Record struct {
	CircuitID       string `json:"circuit_id"`
	CircuitName     string `json:"circuit_name"`
	DeviceID        string `json:"device_id"`
	DeviceName      string `json:"device_name"`
	ParentNode      string `json:"parent_node"`
	MAC             string `json:"mac"`
	IPv4            string `json:"ipv4"`
	IPv6            string `json:"ipv6"`
	DownloadMinMbps int    `json:"download_min_mbps"`
	UploadMinMbps   int    `json:"upload_min_mbps"`
	DownloadMaxMbps int    `json:"download_max_mbps"`
	UploadMaxMbps   int    `json:"upload_max_mbps"`
	Comment         string `json:"comment"`
}

// IsStatic reports whether the record is exempt from pruning.
func (r *Record) IsStatic() bool {
	return strings.EqualFold(strings.TrimSpace(r.Comment), StaticComment)
}

// Diff lists the fields that differ between r and other as
// "field: old=x new=y". An empty result means the records are equal.
func (r *Record) Diff(other *Record) []string {
	var changes []string
	add := func(field, a, b string) {
		if a != b {
			changes = append(changes, field+": old="+a+" new="+b)
		}
	}
	itoa := strconv.Itoa

	add("circuit_id", r.CircuitID, other.CircuitID)
	add("circuit_name", r.CircuitName, other.CircuitName)
	add("device_id", r.DeviceID, other.DeviceID)
	add("device_name", r.DeviceName, other.DeviceName)
	add("parent_node", r.ParentNode, other.ParentNode)
	add("mac", r.MAC, other.MAC)
	add("ipv4", r.IPv4, other.IPv4)
	add("ipv6", r.IPv6, other.IPv6)
	add("download_min_mbps", itoa(r.DownloadMinMbps), itoa(other.DownloadMinMbps))
	add("upload_min_mbps", itoa(r.UploadMinMbps), itoa(other.UploadMinMbps))
	add("download_max_mbps", itoa(r.DownloadMaxMbps), itoa(other.DownloadMaxMbps))
	add("upload_max_mbps", itoa(r.UploadMaxMbps), itoa(other.UploadMaxMbps))
	add("comment", r.Comment, other.Comment)

	return changes
}
