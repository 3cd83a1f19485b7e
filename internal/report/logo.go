package report

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const (
	logoMaxWidth  = 256
	logoMaxHeight = 128
)

// LoadLogo reads an image file and normalizes it with NormalizeLogo.
func LoadLogo(path string) ([]byte, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("report: opening logo: %w", err)
	}
	return encodeLogo(img)
}

// NormalizeLogo decodes image bytes, fits them within 256x128, and re-encodes PNG.
func NormalizeLogo(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("report: decoding logo: %w", err)
	}
	return encodeLogo(img)
}

func encodeLogo(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > logoMaxWidth || b.Dy() > logoMaxHeight {
		img = imaging.Fit(img, logoMaxWidth, logoMaxHeight, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("report: encoding logo: %w", err)
	}
	return buf.Bytes(), nil
}

func resolveLogo(rc Context) ([]byte, error) {
	if len(rc.Logo) > 0 {
		return NormalizeLogo(rc.Logo)
	}
	return LoadLogo(rc.LogoPath)
}
