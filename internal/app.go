package internal

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	APIVersion       = "2.0.0"
	defaultBeamWidth = 3
)

type App struct {
	Config    *AppConfig
	Captioner *Captioner
	ModelMode string
}

func NewApp(c *AppConfig) *App {
	return &App{
		Config:    c,
		Captioner: NewCaptioner(),
		ModelMode: "mock",
	}
}

func (a *App) maxFileSize() int64 {
	return int64(a.Config.Service.MaxFileSizeMB) << 20
}

func (a *App) Home(c *gin.Context) {
	page := fmt.Sprintf(statusPage, strings.ToUpper(a.ModelMode), APIVersion)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (a *App) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{
		Status:       "healthy",
		ModelsLoaded: true,
		ModelMode:    a.ModelMode,
		APIVersion:   APIVersion,
	})
}

func (a *App) GenerateCaption(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithDetail(c, http.StatusBadRequest, "No file provided")
		return
	}

	if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
		AbortWithDetail(c, http.StatusBadRequest, "File must be an image")
		return
	}

	method := c.DefaultPostForm("method", "beam_search")
	if method != "beam_search" && method != "greedy_search" {
		AbortWithDetail(c, http.StatusBadRequest, "Invalid method")
		return
	}

	beamWidth, err := strconv.Atoi(c.DefaultPostForm("beam_width", "3"))
	if err != nil || beamWidth < 1 {
		AbortWithDetail(c, http.StatusBadRequest, "Invalid beam width")
		return
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		slog.Error("Failed to read upload",
			slog.String("request_id", RequestIDFromContext(c)),
			slog.String("filename", fileHeader.Filename),
			slog.String("error", err.Error()))
		AbortWithDetail(c, http.StatusInternalServerError, fmt.Sprintf("Processing failed: %s", err.Error()))
		return
	}

	if int64(len(data)) > a.maxFileSize() {
		AbortWithDetail(c, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	features := a.Captioner.ExtractFeatures(data)

	var caption string
	if method == "beam_search" {
		caption = a.Captioner.BeamSearchCaption(features, beamWidth)
	} else {
		caption = a.Captioner.GreedyCaption(features)
	}

	words := strings.Fields(caption)
	confidence := a.Captioner.ConfidenceScore(features, words)

	c.JSON(http.StatusOK, CaptionResult{
		Success:         true,
		Caption:         title(caption),
		ConfidenceScore: math.Round(confidence*1000) / 1000,
		MethodUsed:      method,
		WordCount:       len(words),
		ImageDimensions: []int{features.Width, features.Height},
		Filename:        fileHeader.Filename,
		ModelMode:       a.ModelMode,
	})
}

func (a *App) BatchGenerate(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		AbortWithDetail(c, http.StatusBadRequest, "No files provided")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		AbortWithDetail(c, http.StatusBadRequest, "No files provided")
		return
	}
	if len(files) > a.Config.Service.MaxBatchSize {
		AbortWithDetail(c, http.StatusBadRequest,
			fmt.Sprintf("Max %d files allowed", a.Config.Service.MaxBatchSize))
		return
	}

	results := make([]BatchItem, 0, len(files))
	successful := 0

	for _, fileHeader := range files {
		item := a.captionBatchFile(c, fileHeader)
		if item.Success {
			successful++
		}
		results = append(results, item)
	}

	c.JSON(http.StatusOK, BatchResult{
		Success: true,
		Results: results,
		Summary: BatchSummary{
			TotalProcessed: len(files),
			Successful:     successful,
			Failed:         len(files) - successful,
			ModelMode:      a.ModelMode,
		},
	})
}

func (a *App) captionBatchFile(c *gin.Context, fileHeader *multipart.FileHeader) BatchItem {
	if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
		return BatchItem{Filename: fileHeader.Filename, Error: "Invalid file type"}
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		slog.Error("Failed to read batch upload",
			slog.String("request_id", RequestIDFromContext(c)),
			slog.String("filename", fileHeader.Filename),
			slog.String("error", err.Error()))
		return BatchItem{Filename: fileHeader.Filename, Error: err.Error()}
	}

	features := a.Captioner.ExtractFeatures(data)
	caption := a.Captioner.BeamSearchCaption(features, defaultBeamWidth)

	return BatchItem{
		Filename:        fileHeader.Filename,
		Success:         true,
		Caption:         title(caption),
		ImageDimensions: []int{features.Width, features.Height},
	}
}

// title capitalizes each caption word for presentation. A fresh Caser per
// call since cases.Caser is not safe for concurrent use.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}

func AbortWithDetail(c *gin.Context, code int, detail string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Detail: detail})
}

const statusPage = `<!DOCTYPE html>
<html>
<head>
    <title>Image Caption Generator API</title>
    <meta charset="utf-8">
</head>
<body>
    <h1>Image Caption Generator API</h1>
    <p>Status: %s MODE</p>
    <p>Version: %s</p>
</body>
</html>
`
