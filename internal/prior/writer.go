// Package prior serializes the resolved camera model and approximate poses
// into the initialization files consumed by the reconstruction engine.
package prior

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aerialworks/dronesplat/internal/camera"
	"github.com/aerialworks/dronesplat/internal/pose"
)

// File names inside the prior directory. The engine expects exactly these.
const (
	CamerasFile = "cameras.txt"
	ImagesFile  = "images.txt"
	ProjectFile = "project.ini"
)

// Write emits the three initialization artifacts into dir, creating it if
// absent. Writing is idempotent: identical inputs always produce
// byte-identical files, and a re-run overwrites without merging.
func Write(dir string, model camera.Model, poses []pose.Estimate, imagePath string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating prior directory: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{CamerasFile, camerasText(model)},
		{ImagesFile, imagesText(poses)},
		{ProjectFile, projectText(imagePath)},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	return nil
}

// Exists reports whether dir holds a complete set of initialization files.
// The sequencer uses this to decide between seeded and unseeded mapping.
func Exists(dir string) bool {
	for _, name := range []string{CamerasFile, ImagesFile, ProjectFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

func camerasText(m camera.Model) []byte {
	var b bytes.Buffer
	b.WriteString("# Camera list with one line of data per camera:\n")
	b.WriteString("#   CAMERA_ID, MODEL, WIDTH, HEIGHT, PARAMS[]\n")
	b.WriteString("# Number of cameras: 1\n")
	fmt.Fprintf(&b, "%d %s %d %d %s %s %s %s\n",
		pose.SharedCameraID, m.Kind, m.Width, m.Height,
		ftoa(m.FocalLength), ftoa(m.Cx), ftoa(m.Cy), ftoa(m.K1))
	return b.Bytes()
}

func imagesText(poses []pose.Estimate) []byte {
	var b bytes.Buffer
	b.WriteString("# Image list with two lines of data per image:\n")
	b.WriteString("#   IMAGE_ID, QW, QX, QY, QZ, TX, TY, TZ, CAMERA_ID, NAME\n")
	b.WriteString("#   POINTS2D[] as (X, Y, POINT3D_ID)\n")

	for _, p := range poses {
		fmt.Fprintf(&b, "%d %s %s %s %s %s %s %s %d %s\n",
			p.Index,
			ftoa(p.Rotation.Real), ftoa(p.Rotation.Imag), ftoa(p.Rotation.Jmag), ftoa(p.Rotation.Kmag),
			ftoa(p.Translation.X), ftoa(p.Translation.Y), ftoa(p.Translation.Z),
			p.CameraID, p.ImageName)

		// Empty 2D observation list, filled in by the engine.
		b.WriteByte('\n')
	}

	return b.Bytes()
}

// projectText emits the mapper tuning stub. The values are fixed defaults
// known to behave on aerial sets with a single shared camera, not computed.
func projectText(imagePath string) []byte {
	var b bytes.Buffer
	b.WriteString("[General]\n")
	b.WriteString("database_path=database.db\n")
	fmt.Fprintf(&b, "image_path=%s\n", imagePath)
	b.WriteString("[Mapper]\n")
	b.WriteString("init_min_tri_angle=4\n")
	b.WriteString("multiple_models=0\n")
	b.WriteString("extract_colors=1\n")
	b.WriteString("ba_refine_focal_length=1\n")
	b.WriteString("ba_refine_extra_params=1\n")
	b.WriteString("min_focal_length_ratio=0.1\n")
	b.WriteString("max_focal_length_ratio=10\n")
	b.WriteString("max_extra_param=1\n")
	return b.Bytes()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
