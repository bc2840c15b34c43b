package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	SizeBytes    int64  `json:"size_bytes"`
}

type CreateJobRequest struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

type OptimizeRequest struct {
	DocumentID         string `json:"document_id"`
	JobID              string `json:"job_id"`
	CustomInstructions string `json:"custom_instructions"`
}

type OptimizeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type OptimizationResultResponse struct {
	ID              string  `json:"id"`
	Status          string  `json:"status"`
	OptimizedResume *string `json:"optimized_resume,omitempty"`
	Analysis        *string `json:"analysis,omitempty"`
	ErrorMessage    *string `json:"error_message,omitempty"`
}

type SimilarJobResponse struct {
	Job   Job     `json:"job"`
	Score float32 `json:"score"`
}
