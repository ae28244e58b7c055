package report

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

// RenderPDF converts markdown to PDF using pandoc. templatePath is optional;
// pandoc's default LaTeX template is used when it is empty.
func RenderPDF(ctx context.Context, markdownPath, outputPath, templatePath string) (err error) {
	// Validate pandoc exists
	err = checkPandocExists(ctx)
	if err != nil {
		return err
	}

	// Validate input files exist
	files := []string{markdownPath}
	if templatePath != "" {
		files = append(files, templatePath)
	}
	err = validateFiles(files...)
	if err != nil {
		return err
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	args := pandocArgs(markdownPath, outputPath, templatePath)
	cmd := exec.CommandContext(ctx, "pandoc", args...)

	// Capture output
	var output []byte
	output, err = cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "pandoc failed: %s", string(output))
		return err
	}

	return err
}

// pandocArgs builds the pandoc command line. Wide calendar tables need the
// landscape geometry.
func pandocArgs(markdownPath, outputPath, templatePath string) (args []string) {
	args = []string{
		"-f", "markdown",
		"-t", "pdf",
		"-o", outputPath,
		"-V", "geometry:landscape,margin=1.5cm",
	}

	if templatePath != "" {
		args = append(args, "--template", templatePath)
	}

	args = append(args, markdownPath)
	return args
}

// checkPandocExists verifies pandoc is installed.
func checkPandocExists(ctx context.Context) (err error) {
	cmd := exec.CommandContext(ctx, "pandoc", "--version")
	err = cmd.Run()
	if err != nil {
		err = errors.New("pandoc not found in PATH (install pandoc to generate PDFs)")
		return err
	}
	return err
}

// validateFiles checks that required files exist.
func validateFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return err
		}
	}
	return err
}
