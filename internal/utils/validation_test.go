package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "numeric station ID",
			id:      "1947",
			wantErr: false,
		},
		{
			name:    "session ID",
			id:      "0b0f6d3e-8c1a-4c8e-9d6b-5b8f3f1a2c44",
			wantErr: false,
		},
		{
			name:    "empty ID",
			id:      "",
			wantErr: true,
			errMsg:  "id cannot be empty",
		},
		{
			name:    "ID too long",
			id:      strings.Repeat("a", 101),
			wantErr: true,
			errMsg:  "id too long (max 100 characters)",
		},
		{
			name:    "ID with invalid characters",
			id:      "12<script>",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "ID with path traversal",
			id:      "../../../etc/passwd",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "ID with spaces",
			id:      "Place des Fêtes",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.wantErr {
				assert.Error(t, err, "ValidateID should return error for invalid ID")
				assert.Contains(t, err.Error(), tt.errMsg, "Error message should contain expected text")
			} else {
				assert.NoError(t, err, "ValidateID should not return error for valid ID")
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{name: "empty query", query: ""},
		{name: "station name", query: "Barbès Rochechouart"},
		{name: "line token", query: "7bis"},
		{name: "too long", query: strings.Repeat("a", 201), wantErr: true},
		{name: "html", query: "<b>Anvers</b>", wantErr: true},
		{name: "sql comment", query: "Anvers'; --", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Pigalle", SanitizeInput("  <i>Pigalle</i> "))
	assert.Equal(t, "Saint-Lazare", SanitizeInput("Saint-Lazare"))
}

func TestValidateAndSanitizeQuery(t *testing.T) {
	q, err := ValidateAndSanitizeQuery("  Abbesses ")
	assert.NoError(t, err)
	assert.Equal(t, "Abbesses", q)

	_, err = ValidateAndSanitizeQuery("<script>")
	assert.Error(t, err)
}
