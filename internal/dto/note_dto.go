package dto

type GetNoteByHashRequest struct {
	Hash string `query:"hash" validate:"required"`
}

type GetNoteByNameRequest struct {
	Type     string `query:"type" validate:"required"`
	Name     string `query:"name" validate:"required"`
	Markdown bool   `query:"markdown"`
}

// Note may legitimately be empty: saving "" clears the note.
type SetNoteByHashRequest struct {
	Type string `query:"type" validate:"required"`
	Hash string `query:"hash" validate:"required"`
	Note string `query:"note"`
}

type SetNoteByNameRequest struct {
	Type string `query:"type" validate:"required"`
	Name string `query:"name" validate:"required"`
	Note string `query:"note"`
}

type ConvertMarkdownRequest struct {
	Text string `query:"text"`
}

type ListNotesRequest struct {
	Type string `query:"type" validate:"required"`
}

type NoteResponse struct {
	Note string `json:"note"`
	Html string `json:"html,omitempty"`
}

type HtmlResponse struct {
	Html string `json:"html"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type NoteItem struct {
	ModelHash string `json:"model_hash"`
	ModelType string `json:"model_type"`
	Note      string `json:"note"`
}

type ListNotesResponse struct {
	Notes []NoteItem `json:"notes"`
}

type SettingsResponse struct {
	Autosave                 bool `json:"autosave"`
	Markdown                 bool `json:"markdown"`
	HideExtraNetworkNotes    bool `json:"hide_extra_network_notes"`
	InjectExtraPreviewButton bool `json:"inject_extra_preview_button"`
}
