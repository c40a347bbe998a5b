package model

// UploadResult summarizes a completed batch upload.
type UploadResult struct {
	Count      int      `json:"count"`
	TotalBytes int64    `json:"total_bytes"`
	URLs       []string `json:"urls"`
}
