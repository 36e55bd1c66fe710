package sfmdata

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the image formats accepted when building a dataset
// from a raw folder.
var DefaultExtensions = []string{".jpg", ".jpeg", ".tif", ".tiff", ".exr"}

// ListImages recursively lists image files under folderOrFile, filtered by
// extension (case-insensitive). A single matching file path is accepted as
// well. Finding no image at all is an error: the run cannot proceed on an
// empty input set.
func ListImages(folderOrFile string, extensions []string) ([]string, error) {
	info, err := os.Stat(folderOrFile)
	if err != nil {
		return nil, fmt.Errorf("%q is not a valid folder or file path: %w", folderOrFile, err)
	}

	if !info.IsDir() {
		if hasExtension(folderOrFile, extensions) {
			return []string{folderOrFile}, nil
		}
		return nil, fmt.Errorf("%q does not match the accepted image extensions %v", folderOrFile, extensions)
	}

	var paths []string
	walkErr := filepath.WalkDir(folderOrFile, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && hasExtension(path, extensions) {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("list images in %q: %w", folderOrFile, walkErr)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no image with extensions %v found in %q", extensions, folderOrFile)
	}
	return paths, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
