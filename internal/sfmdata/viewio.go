package sfmdata

import (
	"fmt"
	"hash/fnv"
	"image"
	_ "image/jpeg"
	"os"
	"strconv"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/camtools/camerainit/internal/model"
)

// NewViewFromImage creates a view for an image path and populates it once
// with the embedded camera metadata (make, model, focal length, serial
// number) and the pixel dimensions. Missing metadata is not an error: the
// pipeline handles incomplete views by policy.
func NewViewFromImage(path string) (*model.View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	v := model.NewView(viewID(path), path)

	if x, err := exif.Decode(f); err == nil {
		readExif(v, x)
	}

	if v.Width == 0 || v.Height == 0 {
		if _, err := f.Seek(0, 0); err == nil {
			if cfg, _, err := image.DecodeConfig(f); err == nil {
				v.Width = cfg.Width
				v.Height = cfg.Height
			}
		}
	}
	return v, nil
}

func readExif(v *model.View, x *exif.Exif) {
	if s, err := stringTag(x, exif.Make); err == nil {
		v.Metadata[model.MetaMake] = s
	}
	if s, err := stringTag(x, exif.Model); err == nil {
		v.Metadata[model.MetaModel] = s
	}
	if tag, err := x.Get(exif.FocalLength); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			v.Metadata[model.MetaFocalLength] = strconv.FormatFloat(float64(num)/float64(den), 'g', -1, 64)
		}
	}
	if tag, err := x.Get(exif.PixelXDimension); err == nil {
		if w, err := tag.Int(0); err == nil {
			v.Width = w
		}
	}
	if tag, err := x.Get(exif.PixelYDimension); err == nil {
		if h, err := tag.Int(0); err == nil {
			v.Height = h
		}
	}
}

func stringTag(x *exif.Exif, name exif.FieldName) (string, error) {
	tag, err := x.Get(name)
	if err != nil {
		return "", err
	}
	return tag.StringVal()
}

// viewID derives a stable view identifier from the image path, so re-running
// ingestion over the same folder yields the same ids.
func viewID(path string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path))
	return h.Sum32()
}
