package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Format       string `json:"format"`
}

type AnalyzeRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
	Role           string `json:"role"`
}

type PredictRequest struct {
	ResumeText string `json:"resume_text"`
	InputRole  string `json:"input_role"`
}

type CreateAnalysisRequest struct {
	DocumentID     string `json:"document_id"`
	JobDescription string `json:"job_description"`
	Role           string `json:"role"`
}

type CreateAnalysisResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SearchRequest struct {
	JobDescription string `json:"job_description"`
	Limit          int    `json:"limit"`
}
