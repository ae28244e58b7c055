package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikogura/campaign-planner/pkg/campaign"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Write.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Extension returns the file extension for format.
func Extension(format string) (ext string) {
	switch format {
	case FormatJSON:
		ext = ".json"
	case FormatYAML:
		ext = ".yaml"
	default:
		ext = ".md"
	}
	return ext
}

// NormalizeFormat maps aliases onto the supported formats.
func NormalizeFormat(format string) (normalized string, err error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatMarkdown, "md":
		normalized = FormatMarkdown
	case FormatJSON:
		normalized = FormatJSON
	case FormatYAML, "yml":
		normalized = FormatYAML
	default:
		err = errors.Errorf("unsupported output format %q (expected markdown, json or yaml)", format)
	}
	return normalized, err
}

// Write renders result in format and writes it to outputPath.
func Write(result campaign.Result, format, outputPath string) (err error) {
	format, err = NormalizeFormat(format)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		err = WriteJSON(result, outputPath)
	case FormatYAML:
		err = WriteYAML(result, outputPath)
	default:
		err = WriteMarkdown(RenderMarkdown(result), outputPath)
	}

	return err
}

// WriteMarkdown writes markdown content to a file.
func WriteMarkdown(content, outputPath string) (err error) {
	err = writeFile([]byte(content), outputPath)
	if err != nil {
		err = errors.Wrap(err, "failed to write markdown file")
		return err
	}
	return err
}

// WriteJSON writes the result bundle as indented JSON.
func WriteJSON(result campaign.Result, outputPath string) (err error) {
	var data []byte
	data, err = json.MarshalIndent(result, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal result")
		return err
	}

	err = writeFile(append(data, '\n'), outputPath)
	if err != nil {
		err = errors.Wrap(err, "failed to write JSON file")
		return err
	}

	return err
}

// WriteYAML writes the result bundle as YAML.
func WriteYAML(result campaign.Result, outputPath string) (err error) {
	var data []byte
	data, err = yaml.Marshal(result)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal result")
		return err
	}

	err = writeFile(data, outputPath)
	if err != nil {
		err = errors.Wrap(err, "failed to write YAML file")
		return err
	}

	return err
}

// CleanupMarkdown removes markdown files after PDF generation.
func CleanupMarkdown(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to remove markdown file: %s", path)
			return err
		}
	}
	return err
}

func writeFile(data []byte, outputPath string) (err error) {
	// Ensure output directory exists
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write %s", outputPath)
		return err
	}

	return err
}
