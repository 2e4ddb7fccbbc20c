package dto

type ExportRequest struct {
	Format      string `json:"format" validate:"required,oneof=txt md html csv"`
	Destination string `json:"destination" validate:"required,oneof=model_dir output_dir"`
	Naming      string `json:"naming" validate:"required,oneof=name hash"`
	OutputDir   string `json:"output_dir"`
	Overwrite   bool   `json:"overwrite"`
}

type ExportResponse struct {
	RunId    string `json:"run_id"`
	Success  int    `json:"success"`
	NotFound int    `json:"not_found"`
	Error    int    `json:"error"`
	Summary  string `json:"summary"`
}

type ImportRequest struct {
	// Formats in priority order; the first file found for a model wins.
	Formats   []string `json:"formats" validate:"required,min=1,dive,oneof=txt md html csv"`
	Overwrite bool     `json:"overwrite"`
	Naming    string   `json:"naming" validate:"required,oneof=name hash"`
	Source    string   `json:"source" validate:"required,oneof=model_dir output_dir"`
	InputDir  string   `json:"input_dir"`
}

type ImportResponse struct {
	RunId    string `json:"run_id"`
	Success  int    `json:"success"`
	NotFound int    `json:"not_found"`
	Skipped  int    `json:"skipped"`
	Error    int    `json:"error"`
	Summary  string `json:"summary"`
}
