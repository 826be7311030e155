package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"https://cdn.test", "exports/a.csv", "https://cdn.test/exports/a.csv"},
		{"https://cdn.test/", "/exports/a.csv", "https://cdn.test/exports/a.csv"},
		{"https://cdn.test/files", "a.csv", "https://cdn.test/files/a.csv"},
		{"", "a.csv", ""},
		{"https://cdn.test", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PublicURL(tt.base, tt.key), "base=%q key=%q", tt.base, tt.key)
	}
}

func TestNewS3UploaderRequiresConfig(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3UploaderConfig{BucketName: "standings"})
	require.Error(t, err)
}
