package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"

	"captionit/internal"
)

func main() {
	var cfg internal.AppConfig

	configPath := flag.String("config", "config.yaml", "Path to config")
	health := flag.Bool("health", false, "Check service health and exit")
	method := flag.String("method", "", "Caption method: beam_search or greedy_search")
	beamWidth := flag.Int("beam-width", 0, "Beam width for beam_search")

	flag.Parse()

	if err := cleanenv.ReadConfig(*configPath, &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to read config:", err)
		os.Exit(1)
	}

	gateway := internal.NewGateway(internal.GatewayConfig{BaseURL: cfg.Client.BaseURL})
	ctx := context.Background()

	if *health {
		status, err := gateway.CheckHealth(ctx)
		if err != nil {
			fail(err)
		}
		fmt.Printf("%s (models loaded: %v, mode: %s)\n", status.Status, status.ModelsLoaded, status.ModelMode)
		return
	}

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: caption [flags] image...")
		os.Exit(2)
	}

	files := make([]internal.Upload, 0, len(paths))
	for _, path := range paths {
		file, err := readUpload(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		files = append(files, file)
	}

	if len(files) == 1 {
		var opts *internal.CaptionOptions
		if *method != "" || *beamWidth > 0 {
			opts = &internal.CaptionOptions{Method: *method, BeamWidth: *beamWidth}
		}

		result, err := gateway.GenerateCaption(ctx, files[0], opts)
		if err != nil {
			fail(err)
		}
		fmt.Printf("%s: %s (confidence %.3f)\n", result.Filename, result.Caption, result.ConfidenceScore)
		return
	}

	result, err := gateway.BatchGenerateCaptions(ctx, files)
	if err != nil {
		fail(err)
	}
	for _, item := range result.Results {
		if item.Success {
			fmt.Printf("%s: %s\n", item.Filename, item.Caption)
		} else {
			fmt.Printf("%s: error: %s\n", item.Filename, item.Error)
		}
	}
	fmt.Printf("%d/%d captioned\n", result.Summary.Successful, result.Summary.TotalProcessed)
}

func readUpload(path string) (internal.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return internal.Upload{}, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return internal.Upload{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func fail(err error) {
	var gwErr *internal.GatewayError
	if errors.As(err, &gwErr) {
		fmt.Fprintln(os.Stderr, gwErr.Message)
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}
