package signature

import (
	"bytes"
	"image/png"
	"testing"
)

func TestRenderBlankName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t"} {
		data, err := Render(name)
		if err != nil {
			t.Fatalf("Render(%q) error: %v", name, err)
		}
		if data != nil {
			t.Errorf("Render(%q) produced %d bytes, want none", name, len(data))
		}
	}
}

func TestRenderProducesPNG(t *testing.T) {
	data, err := Render("Jane Q. Traveler")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a decodable PNG: %v", err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		t.Fatal("empty image")
	}

	// the name and its underline must leave dark pixels behind
	dark := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r < 0x4000 && g < 0x4000 && bl < 0x4000 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("rendered signature contains no dark pixels")
	}
}

func TestRenderLongNameStillFits(t *testing.T) {
	long := "Alexandrina Montgomery-Fitzwilliam von Hapsburg the Third"
	data, err := Render(long)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w := img.Bounds().Dx(); w > 800 {
		t.Errorf("downscaled width = %d, want <= 800", w)
	}
}
