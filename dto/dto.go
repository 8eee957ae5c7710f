package dto

// SourceReference identifies the input video object for one job.
type SourceReference struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}
