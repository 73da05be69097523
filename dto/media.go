package dto

type MediaUploadResponse struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	ObjectName  string `json:"objectName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}
