package payload

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Point struct {
	X, Y float64
}

// PointCloud is a flat list of 2D points, e.g. tracked joints.
type PointCloud struct {
	Points []Point
}

// PointCloudCodec writes one "x y" pair per line. Decode accepts any
// whitespace between the two numbers.
type PointCloudCodec struct{}

func (PointCloudCodec) Extension() string { return "txt" }

func (PointCloudCodec) Encode(w io.Writer, v PointCloud) error {
	bw := bufio.NewWriter(w)
	for _, p := range v.Points {
		bw.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (PointCloudCodec) Decode(r io.Reader) (PointCloud, error) {
	var out PointCloud
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			return PointCloud{}, fmt.Errorf("point cloud line %d: want 2 fields, got %d", line, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return PointCloud{}, fmt.Errorf("point cloud line %d: %w", line, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return PointCloud{}, fmt.Errorf("point cloud line %d: %w", line, err)
		}
		out.Points = append(out.Points, Point{X: x, Y: y})
	}
	return out, scanner.Err()
}
