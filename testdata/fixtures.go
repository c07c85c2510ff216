// Package testdata ships recorded landmark fixtures for classifier
// regression tests. World files are flat arrays of 33 {x,y,z} objects;
// each has a parallel <name>.image.json with normalized {x,y,z,visibility}
// entries.
package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ayusman/limber/internal/detector"
)

//go:embed landmarks/*
var landmarksFS embed.FS

// LoadWorld loads the world-space landmarks of a fixture by name
// ("yoga-mountain" etc).
func LoadWorld(name string) ([detector.NumLandmarks]detector.Point3D, error) {
	var world [detector.NumLandmarks]detector.Point3D

	data, err := landmarksFS.ReadFile("landmarks/" + name + ".json")
	if err != nil {
		return world, fmt.Errorf("load landmarks %s: %w", name, err)
	}
	if err := json.Unmarshal(data, &world); err != nil {
		return world, fmt.Errorf("decode landmarks %s: %w", name, err)
	}

	return world, nil
}

// LoadBody loads a fixture's world and image landmark files into a single
// BodyLandmarks record.
func LoadBody(name string) (detector.BodyLandmarks, error) {
	var body detector.BodyLandmarks

	world, err := LoadWorld(name)
	if err != nil {
		return body, err
	}

	data, err := landmarksFS.ReadFile("landmarks/" + name + ".image.json")
	if err != nil {
		return body, fmt.Errorf("load image landmarks %s: %w", name, err)
	}
	if err := json.Unmarshal(data, &body.Image); err != nil {
		return body, fmt.Errorf("decode image landmarks %s: %w", name, err)
	}

	body.World = world
	return body, nil
}

// Names lists the available world-landmark fixtures without the .json
// suffix.
func Names() ([]string, error) {
	entries, err := landmarksFS.ReadDir("landmarks")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, ".image.json") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".json"))
	}

	return names, nil
}
