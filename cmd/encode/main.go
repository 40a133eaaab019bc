// Command encode converts every image in ./images into the base64 text the
// try-on API accepts, one .txt file per image under ./encoded.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jianancybercoder/nextDoppl/internal/domain/valueobjects"
)

func main() {
	files, err := os.ReadDir("images")
	if err != nil {
		log.Fatal(err)
	}

	validExtensions := []string{".jpg", ".jpeg", ".png", ".webp"}

	for _, file := range files {
		if !slices.Contains(validExtensions, strings.ToLower(filepath.Ext(file.Name()))) {
			continue
		}

		encoded, err := encode(filepath.Join("images", file.Name()))
		if err != nil {
			log.Printf("skipping %s: %v", file.Name(), err)
			continue
		}

		name := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
		if err := save(name, encoded); err != nil {
			log.Printf("failed to save %s: %v", name, err)
		}
	}
}

func encode(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	imageData, err := valueobjects.NewImageData(data, "")
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	// Normalize the same way the server does before sending.
	prepared, err := imageData.FitWithin(1536)
	if err != nil {
		return "", fmt.Errorf("failed to normalize image: %w", err)
	}

	return prepared.ToBase64(), nil
}

func save(name, encoded string) error {
	return os.WriteFile(fmt.Sprintf("encoded/%s.txt", name), []byte(encoded), 0644)
}
