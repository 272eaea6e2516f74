package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type AskResponse struct {
	Answer *Answer `json:"answer"`
}

type ProcessingDocumentStatus struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Fingerprint string `json:"fingerprint,omitempty"`
}
