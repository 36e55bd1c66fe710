package camera

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ParseKMatrix validates a calibration matrix override of the form
// "f;0;ppx;0;f;ppy;0;0;1" and extracts the focal length and principal point.
func ParseKMatrix(s string) (focal, ppx, ppy float64, err error) {
	parts := strings.Split(s, ";")
	if len(parts) != 9 {
		return 0, 0, 0, fmt.Errorf("K matrix string must contain 9 ';'-separated values, got %d", len(parts))
	}

	values := make([]float64, 9)
	for i, part := range parts {
		v, parseErr := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if parseErr != nil {
			return 0, 0, 0, fmt.Errorf("K matrix value %d is not a number: %q", i, part)
		}
		values[i] = v
	}

	k := mat.NewDense(3, 3, values)
	return k.At(0, 0), k.At(0, 2), k.At(1, 2), nil
}
