// Package logos fetches the institutional header logos, scrubs their
// dark or transparent backgrounds to white and crops them to content
// so they sit cleanly on the printed page.
package logos

import (
	"image"
	"image/color"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

const (
	defaultLeftURL  = "https://raw.githubusercontent.com/JiaqinWu/HRSA64_Dash/main/Georgetown_logo_blueRGB.png"
	defaultRightURL = "https://raw.githubusercontent.com/JiaqinWu/HRSA64_Dash/main/ADVANCE%20Logo_Horizontal%20Blue.png"

	leftHeightPx  = 120
	rightHeightPx = 60
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

var (
	cacheMu sync.Mutex
	cache   = map[string]image.Image{}
)

func leftURL() string {
	if u := os.Getenv("LOGO_LEFT_URL"); u != "" {
		return u
	}
	return defaultLeftURL
}

func rightURL() string {
	if u := os.Getenv("LOGO_RIGHT_URL"); u != "" {
		return u
	}
	return defaultRightURL
}

// Left returns the primary logo scaled for the header, or nil when the
// source is unreachable. The document renders without it in that case.
func Left() image.Image {
	return logoAt(leftURL(), leftHeightPx)
}

// Right returns the secondary logo scaled for the header, or nil.
func Right() image.Image {
	return logoAt(rightURL(), rightHeightPx)
}

func logoAt(url string, height int) image.Image {
	cacheMu.Lock()
	if img, ok := cache[url]; ok {
		cacheMu.Unlock()
		return img
	}
	cacheMu.Unlock()

	resp, err := httpClient.Get(url)
	if err != nil {
		log.Println("logo fetch:", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Println("logo fetch: status", resp.StatusCode, "for", url)
		return nil
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		log.Println("logo decode:", err)
		return nil
	}

	cleaned := Cleanup(img)
	cropped := imaging.Crop(cleaned, contentBounds(cleaned))
	final := imaging.Resize(cropped, 0, height, imaging.Lanczos)

	cacheMu.Lock()
	cache[url] = final
	cacheMu.Unlock()
	return final
}

// Cleanup turns transparent and near-black pixels white. The source
// logos ship with dark artifacts around the lettering that look like
// smudges once printed.
func Cleanup(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := out.NRGBAAt(x, y)
			if c.A == 0 || (c.R < 60 && c.G < 60 && c.B < 60) {
				out.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	return out
}

// contentBounds finds the box holding every pixel that is not close to
// white, so the surrounding whitespace can be cropped away.
func contentBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.R < 245 || c.G < 245 || c.B < 245 {
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
				found = true
			}
		}
	}
	if !found {
		return b
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
