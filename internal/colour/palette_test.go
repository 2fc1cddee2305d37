package colour

import (
	"image/color"
	"testing"
)

func TestToRGB(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  RGB
	}{
		{
			name:  "red",
			color: color.RGBA{R: 255, G: 0, B: 0, A: 255},
			want:  RGB{R: 255, G: 0, B: 0},
		},
		{
			name:  "white",
			color: color.RGBA{R: 255, G: 255, B: 255, A: 255},
			want:  RGB{R: 255, G: 255, B: 255},
		},
		{
			name:  "black",
			color: color.RGBA{R: 0, G: 0, B: 0, A: 255},
			want:  RGB{R: 0, G: 0, B: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToRGB(tt.color)
			if got != tt.want {
				t.Errorf("ToRGB() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRGBHex(t *testing.T) {
	tests := []struct {
		name      string
		rgb       RGB
		want      string
		wantUpper string
	}{
		{name: "red", rgb: RGB{R: 255}, want: "#ff0000", wantUpper: "#FF0000"},
		{name: "green", rgb: RGB{G: 255}, want: "#00ff00", wantUpper: "#00FF00"},
		{name: "blue", rgb: RGB{B: 255}, want: "#0000ff", wantUpper: "#0000FF"},
		{name: "grey", rgb: RGB{R: 128, G: 128, B: 128}, want: "#808080", wantUpper: "#808080"},
		{name: "mixed", rgb: RGB{R: 0x1a, G: 0x2b, B: 0x3c}, want: "#1a2b3c", wantUpper: "#1A2B3C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rgb.Hex(); got != tt.want {
				t.Errorf("Hex() = %s, want %s", got, tt.want)
			}
			if got := tt.rgb.HexUpper(); got != tt.wantUpper {
				t.Errorf("HexUpper() = %s, want %s", got, tt.wantUpper)
			}
		})
	}
}

func TestRGBString(t *testing.T) {
	got := RGB{R: 12, G: 34, B: 56}.String()
	if got != "rgb(12, 34, 56)" {
		t.Errorf("String() = %s, want rgb(12, 34, 56)", got)
	}
}

// TestHexRoundTrip checks every component value survives hex formatting and parsing.
func TestHexRoundTrip(t *testing.T) {
	for v := 0; v <= 255; v++ {
		for _, rgb := range []RGB{
			{R: uint8(v)},
			{G: uint8(v)},
			{B: uint8(v)},
			{R: uint8(v), G: uint8(255 - v), B: uint8(v / 2)},
		} {
			for _, hex := range []string{rgb.Hex(), rgb.HexUpper()} {
				got, err := ParseHex(hex)
				if err != nil {
					t.Fatalf("ParseHex(%q) error = %v", hex, err)
				}
				if got != rgb {
					t.Fatalf("ParseHex(%q) = %+v, want %+v", hex, got, rgb)
				}
			}
		}
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{in: "#ff8800", want: RGB{R: 255, G: 136, B: 0}},
		{in: "FF8800", want: RGB{R: 255, G: 136, B: 0}},
		{in: "#f80", want: RGB{R: 255, G: 136, B: 0}},
		{in: "  #000000 ", want: RGB{}},
		{in: "#gg0000", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCSS(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{in: "rgb(255, 0, 0)", want: RGB{R: 255}},
		{in: "rgb(0,255,0)", want: RGB{G: 255}},
		{in: "rgba(0, 0, 255, 0.5)", want: RGB{B: 255}},
		{in: "#0000ff", want: RGB{B: 255}},
		{in: "hsl(0, 100%, 50%)", wantErr: true},
		{in: "rgb(1, 2)", wantErr: true},
		{in: "rgb(a, b, c)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCSS(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCSS(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseCSS(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromTripleClamps(t *testing.T) {
	got := FromTriple([3]int{-5, 128, 300})
	want := RGB{R: 0, G: 128, B: 255}
	if got != want {
		t.Errorf("FromTriple() = %+v, want %+v", got, want)
	}
}
