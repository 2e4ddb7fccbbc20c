package dto

type SyncRequest struct {
	// Kind labels such as "LoRA" or "Textual Inversion". An empty list is a
	// valid request that selects nothing.
	Kinds           []string `json:"kinds" validate:"dive,required"`
	Overwrite       bool     `json:"overwrite"`
	Markdown        bool     `json:"markdown"`
	Images          bool     `json:"images"`
	OverwriteImages bool     `json:"overwrite_images"`
}

type DescribeRequest struct {
	Type     string `query:"type" validate:"required"`
	Name     string `query:"name" validate:"required"`
	Markdown bool   `query:"markdown"`
}

type SyncStats struct {
	Kind         string `json:"kind"`
	Success      int    `json:"success"`
	Failed       int    `json:"failed"`
	Skipped      int    `json:"skipped"`
	ImageSuccess int    `json:"image_success"`
	ImageFailed  int    `json:"image_failed"`
	ImageSkipped int    `json:"image_skipped"`
}

type SyncResponse struct {
	RunId   string      `json:"run_id"`
	Stats   []SyncStats `json:"stats"`
	Summary string      `json:"summary"`
}
