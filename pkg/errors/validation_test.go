package errors

import (
	"testing"

	"golang.org/x/text/language"
)

func TestValidatePaperSize(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"A4", 210, 297, false},
		{"square", 100, 100, false},
		{"zero width", 0, 297, true},
		{"negative height", 210, -1, true},
		{"too large", 6000, 297, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePaperSize(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaperSize(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPaper) {
				t.Errorf("ValidatePaperSize() code = %v, want %v", GetCode(err), ErrCodeInvalidPaper)
			}
		})
	}
}

func TestValidateScale(t *testing.T) {
	tests := []struct {
		name    string
		scale   float64
		wantErr bool
	}{
		{"typical", 5000, false},
		{"zero", 0, true},
		{"negative", -10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScale(tt.scale)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScale(%v) error = %v, wantErr %v", tt.scale, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilePrefix(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "citymap", false},
		{"nested", "out/citymap", false},
		{"absolute", "/tmp/citymap", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"path traversal", "out/../etc/passwd", true},
		{"null byte", "map\x00", true},
		{"backslash", "out\\map", true},
		{"control char", "map\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilePrefix(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilePrefix(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLanguage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    language.Tag
		wantErr bool
	}{
		{"empty defaults to english", "", language.English, false},
		{"bcp47", "fr-FR", language.MustParse("fr-FR"), false},
		{"posix locale", "de_DE.UTF-8", language.MustParse("de-DE"), false},
		{"arabic", "ar", language.Arabic, false},
		{"garbage", "not a language!", language.Und, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateLanguage(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateLanguage(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ValidateLanguage(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
