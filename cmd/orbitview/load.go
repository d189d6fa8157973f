package main

import (
	"fmt"
	"math"

	"fortio.org/log"

	"github.com/taigrr/orbitview/internal/config"
	"github.com/taigrr/orbitview/pkg/models"
	"github.com/taigrr/orbitview/pkg/render"
)

// loadSettings reads the optional config file and applies flags over it.
func loadSettings(flags settingsFlags) (config.Config, error) {
	var cfg config.Config
	if flags.configPath != "" {
		var err error
		cfg, err = config.Load(flags.configPath)
		if err != nil {
			return config.Config{}, err
		}
	}

	cfg.Resolve(config.Flags{
		Background: flags.background,
		BaseColor:  flags.baseColor,
		FPS:        flags.fps,
		Workers:    flags.workers,
		FOV:        flags.fov,
		Wireframe:  flags.wireframe,
		AutoRotate: flags.autoRotate,
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadModel loads a mesh and fits it to size units, centered on the origin.
func loadModel(path string, size float64) (*models.Mesh, error) {
	mesh, err := models.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if mesh.TriangleCount() == 0 {
		log.Warnf("%s has no triangles", path)
	}

	mesh.Normalize(size)
	log.Infof("Loaded %s: %d vertices, %d triangles", mesh.Name, mesh.VertexCount(), mesh.TriangleCount())
	return mesh, nil
}

// newScene builds the camera and renderer for a width x height pixel
// framebuffer from resolved settings. Config values were validated, so
// color parse errors cannot happen here.
func newScene(cfg config.Config, width, height int) (*render.Camera, *render.Renderer) {
	cam := render.NewCamera(float64(width), float64(height))
	cam.FOV = cfg.FOV * math.Pi / 180
	cam.AutoRotate = cfg.AutoRotate

	r := render.NewRenderer(cam, render.NewFramebuffer(width, height))
	r.Background, _ = config.ParseRGB(cfg.Background)
	r.Base, _ = config.ParseRGB(cfg.BaseColor)
	r.Workers = cfg.Workers
	if cfg.Wireframe {
		r.Mode = render.ModeWireframe
	}
	return cam, r
}
