package render

import (
	"context"
	"testing"

	"github.com/matzehuels/repostory/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{" PNG ", FormatPNG, false},
		{"pdf", FormatPDF, false},
		{"dot", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in, FormatSVG, FormatPNG, FormatPDF)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("code = %v", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvertSVGPassthrough(t *testing.T) {
	in := []byte("<svg/>")
	out, err := Convert(context.Background(), in, FormatSVG, 1)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != string(in) {
		t.Errorf("Convert(svg) = %q", out)
	}

	if _, err := Convert(context.Background(), in, FormatDOT, 1); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Convert(dot) error = %v", err)
	}
}
