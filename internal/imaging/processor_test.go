// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/mvargas/campana-go/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(width, height), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestProcessorIsImage(t *testing.T) {
	p := NewProcessor(t.TempDir())

	tests := []struct {
		mimeType string
		want     bool
	}{
		{model.MimeTypeJPEG, true},
		{model.MimeTypePNG, true},
		{model.MimeTypeGIF, true},
		{model.MimeTypeWebP, true},
		{model.MimeTypeMP4, false},
		{model.MimeTypeWebM, false},
		{"application/octet-stream", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := p.IsImage(tt.mimeType); got != tt.want {
				t.Errorf("IsImage(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFormatFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"foto.jpg", "jpeg"},
		{"foto.jpeg", "jpeg"},
		{"foto.JPG", "jpeg"},
		{"foto.png", "png"},
		{"foto.gif", "gif"},
		{"foto.webp", "webp"},
		{"foto.unknown", "jpeg"},
		{"sinextension", "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := detectFormatFromFilename(tt.filename); got != tt.want {
				t.Errorf("detectFormatFromFilename(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestVariantObjectPath(t *testing.T) {
	got := VariantObjectPath("campaign-images/eventos/abc.jpg", model.VariantThumbnail)
	want := "campaign-images/variants/thumbnail/eventos/abc.jpg"
	if got != want {
		t.Errorf("VariantObjectPath = %q, want %q", got, want)
	}

	got = VariantObjectPath("campaign-images/abc.jpg", model.VariantMedium)
	want = "campaign-images/variants/medium/abc.jpg"
	if got != want {
		t.Errorf("VariantObjectPath = %q, want %q", got, want)
	}
}

func TestProcessImageAndVariants(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	data := encodeTestJPEG(t, 1200, 900)
	objectPath := "campaign-images/eventos/test.jpg"

	result, err := p.ProcessImage(bytes.NewReader(data), objectPath)
	if err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}
	if result.Width != 1200 || result.Height != 900 {
		t.Errorf("dimensions = %dx%d, want 1200x900", result.Width, result.Height)
	}
	if result.MimeType != model.MimeTypeJPEG {
		t.Errorf("MimeType = %q", result.MimeType)
	}
	if _, err := os.Stat(filepath.Join(dir, "campaign-images", "eventos", "test.jpg")); err != nil {
		t.Errorf("original not on disk: %v", err)
	}

	variants, err := p.CreateAllVariants(objectPath)
	if err != nil {
		t.Fatalf("CreateAllVariants: %v", err)
	}
	if len(variants) != len(model.ImageVariants) {
		t.Errorf("got %d variants, want %d", len(variants), len(model.ImageVariants))
	}
	for _, v := range variants {
		if _, err := os.Stat(v.FilePath); err != nil {
			t.Errorf("%s variant not on disk: %v", v.Type, err)
		}
	}

	thumb, err := p.CreateVariant(objectPath, model.ImageVariants[model.VariantThumbnail], model.VariantThumbnail)
	if err != nil {
		t.Fatalf("CreateVariant: %v", err)
	}
	if thumb.Width != 150 || thumb.Height != 150 {
		t.Errorf("thumbnail = %dx%d, want 150x150", thumb.Width, thumb.Height)
	}
}

func TestCreateVariantSkipsSmallSource(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	data := encodeTestJPEG(t, 100, 80)
	objectPath := "campaign-images/small.jpg"
	if _, err := p.ProcessImage(bytes.NewReader(data), objectPath); err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}

	result, err := p.CreateVariant(objectPath, model.ImageVariants[model.VariantMedium], model.VariantMedium)
	if err != nil {
		t.Fatalf("CreateVariant: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result for small source, got %+v", result)
	}
}

func TestDeleteObjectFiles(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	data := encodeTestJPEG(t, 1000, 1000)
	objectPath := "campaign-images/noticias/gone.jpg"
	if _, err := p.ProcessImage(bytes.NewReader(data), objectPath); err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}
	if _, err := p.CreateAllVariants(objectPath); err != nil {
		t.Fatalf("CreateAllVariants: %v", err)
	}

	if err := p.DeleteObjectFiles(objectPath); err != nil {
		t.Fatalf("DeleteObjectFiles: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "campaign-images", "noticias", "gone.jpg")); !os.IsNotExist(err) {
		t.Error("original still on disk")
	}
	if _, err := os.Stat(filepath.Join(dir, "campaign-images", "variants", "thumbnail", "noticias", "gone.jpg")); !os.IsNotExist(err) {
		t.Error("thumbnail still on disk")
	}

	// Deleting again is a no-op.
	if err := p.DeleteObjectFiles(objectPath); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestObjectPathTraversalRejected(t *testing.T) {
	p := NewProcessor(t.TempDir())

	for _, bad := range []string{"../escape.jpg", "campaign-images/../../etc/passwd", "."} {
		if _, err := p.objectFilePath(bad); err == nil {
			t.Errorf("objectFilePath(%q) should fail", bad)
		}
	}
}

func TestSaveRaw(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	size, filePath, err := p.SaveRaw(bytes.NewReader([]byte("video-bytes")), "campaign-videos/clip.mp4")
	if err != nil {
		t.Fatalf("SaveRaw: %v", err)
	}
	if size != int64(len("video-bytes")) {
		t.Errorf("size = %d", size)
	}
	got, err := os.ReadFile(filePath)
	if err != nil || string(got) != "video-bytes" {
		t.Errorf("stored content mismatch: %q err=%v", got, err)
	}
}

func TestApplyOrientation(t *testing.T) {
	for _, orientation := range []int{1, 2, 3, 4, 5, 6, 7, 8, 0, 9} {
		img := createTestImage(10, 10)
		if result := applyOrientation(img, orientation); result == nil {
			t.Errorf("applyOrientation(%d) returned nil", orientation)
		}
	}
}
