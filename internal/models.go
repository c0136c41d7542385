package internal

type (
	// Upload is one file submitted for captioning: the name and media type
	// the client declared for it, plus its raw content.
	Upload struct {
		Name        string
		ContentType string
		Data        []byte
	}

	ErrorResponse struct {
		Detail string `json:"detail"`
	}

	CaptionResult struct {
		Success         bool    `json:"success"`
		Caption         string  `json:"caption"`
		ConfidenceScore float64 `json:"confidence_score"`
		MethodUsed      string  `json:"method_used"`
		WordCount       int     `json:"word_count"`
		ImageDimensions []int   `json:"image_dimensions"`
		Filename        string  `json:"filename"`
		ModelMode       string  `json:"model_mode"`
	}

	BatchItem struct {
		Filename        string `json:"filename"`
		Success         bool   `json:"success"`
		Caption         string `json:"caption,omitempty"`
		ImageDimensions []int  `json:"image_dimensions,omitempty"`
		Error           string `json:"error,omitempty"`
	}

	BatchSummary struct {
		TotalProcessed int    `json:"total_processed"`
		Successful     int    `json:"successful"`
		Failed         int    `json:"failed"`
		ModelMode      string `json:"model_mode"`
	}

	BatchResult struct {
		Success bool         `json:"success"`
		Results []BatchItem  `json:"results"`
		Summary BatchSummary `json:"summary"`
	}

	HealthStatus struct {
		Status       string `json:"status"`
		ModelsLoaded bool   `json:"models_loaded"`
		ModelMode    string `json:"model_mode"`
		APIVersion   string `json:"api_version"`
	}
)
