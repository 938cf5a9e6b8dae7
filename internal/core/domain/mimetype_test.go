package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseMIMEType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"text/plain", "text/plain"},
		{"Text/HTML; charset=UTF-8", "text/html"},
		{"  application/PDF ", "application/pdf"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, BaseMIMEType(tt.input))
		})
	}
}

func TestIsTextual(t *testing.T) {
	tests := []struct {
		contentType string
		expected    bool
	}{
		{"text/plain", true},
		{"text/x-unknown-dialect", true},
		{"text/csv; charset=latin1", true},
		{"image/svg+xml", true},
		{"application/ld+json", true},
		{"application/json", true},
		{"application/xml", true},
		{"application/pdf", false},
		{"application/octet-stream", false},
		{"image/png", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTextual(tt.contentType))
		})
	}
}
