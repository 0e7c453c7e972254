package utils

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ReadJSONFile читает JSON-файл и декодирует его в значение типа T.
func ReadJSONFile[T any](filePath string) (T, error) {
	var out T
	data, err := os.ReadFile(filePath)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s: %w", filePath, err)
	}
	return out, nil
}
