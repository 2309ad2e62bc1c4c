// Package asset loads the typefaces the screens draw with. A TTF found in
// the config fonts folder wins, then the usual system monospace locations;
// the embedded bitmap face is the last resort so rendering never fails.
package asset

import (
	"io/ioutil"
	"path/filepath"

	"github.com/hajimehoshi/bitmapfont/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

const preferredFontFilename = "DejaVuSansMono.ttf"

var systemFontFilenames = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
	"/usr/share/fonts/truetype/freefont/FreeMono.ttf",
}

// FontSet holds the faces sized for the 128x128 panel.
type FontSet struct {
	Title font.Face
	Body  font.Face
	Small font.Face
	Big   font.Face
}

func LoadFontSet(fontFolder string) *FontSet {
	parsed := loadTruetype(fontFolder)
	if parsed == nil {
		logrus.Infof("No truetype font available, using builtin bitmap font")
		return &FontSet{
			Title: bitmapfont.Face,
			Body:  bitmapfont.Face,
			Small: bitmapfont.Face,
			Big:   bitmapfont.Face,
		}
	}

	return &FontSet{
		Title: newFace(parsed, 11),
		Body:  newFace(parsed, 9),
		Small: newFace(parsed, 8),
		Big:   newFace(parsed, 13),
	}
}

func loadTruetype(fontFolder string) *opentype.Font {
	candidates := append(
		[]string{filepath.Join(fontFolder, preferredFontFilename)},
		systemFontFilenames...)

	for _, filename := range candidates {
		raw, err := ioutil.ReadFile(filename)
		if err != nil {
			continue
		}
		parsed, err := opentype.Parse(raw)
		if err != nil {
			logrus.Warnf("Unable to parse font %s: %v", filename, err)
			continue
		}
		logrus.Debugf("Loaded font %s", filename)
		return parsed
	}
	return nil
}

func newFace(parsed *opentype.Font, size float64) font.Face {
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		logrus.Warnf("Unable to build font face: %v", err)
		return bitmapfont.Face
	}
	return face
}
