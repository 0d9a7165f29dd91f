package domain

// SessionView is a snapshot of everything the demo page shows for one session.
type SessionView struct {
	SessionID    string        `json:"session_id"`
	Status       string        `json:"status"`
	TaskID       string        `json:"task_id,omitempty"`
	ResultURL    string        `json:"result_url,omitempty"`
	Document     string        `json:"document,omitempty"`
	DocumentHTML string        `json:"document_html,omitempty"`
	FileName     string        `json:"file_name,omitempty"`
	Pages        []PageImage   `json:"pages"`
	Polling      bool          `json:"polling"`
	Options      SubmitOptions `json:"options"`
}
