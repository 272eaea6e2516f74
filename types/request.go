package types

type AskRequest struct {
	Question   string `json:"question"`
	TopK       int    `json:"top_k,omitempty"`
	MaxContext int    `json:"max_context,omitempty"`
}

type UploadRequest struct {
	Title string `json:"title"`
}

type DeleteDocumentRequest struct {
	Fingerprint string `json:"fingerprint"`
}
