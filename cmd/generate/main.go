package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/argo-bars/internal/version"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata"
	"gopkg.in/yaml.v3"
)

const (
	schemaName       = "argo-bars-job.json"
	sampleConfigName = "argo-bars-job.yaml"
)

// sampleJob is written as the starting point for new job files.
func sampleJob() marketdata.JobConfig {
	job := marketdata.JobConfig{
		Version:    version.JobSchemaVersion,
		Tickers:    []string{"AAPL", "MSFT"},
		Start:      "2024-01-01",
		Indicators: []string{"SMA_50", "RSI_14", "MACD"},
	}
	job.ApplyDefaults()

	return job
}

// generate writes the job schema into dir, plus a sample job when none exists yet.
func generate(dir string) (schemaPath string, samplePath string, err error) {
	schemaJSON, err := marketdata.JobConfigSchema()
	if err != nil {
		return "", "", err
	}

	schemaPath = filepath.Join(dir, schemaName)
	samplePath = filepath.Join(dir, sampleConfigName)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", err
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return "", "", err
	}

	// an existing sample may have been edited
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(sampleJob())
		if err != nil {
			return "", "", err
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)

		if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
			return "", "", err
		}

		log.Printf("Sample job successfully generated at %s", samplePath)
	}

	return schemaPath, samplePath, nil
}

func main() {
	schemaPath, _, err := generate("./config")
	if err != nil {
		log.Fatalf("Failed to generate schema: %v", err)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)
}
