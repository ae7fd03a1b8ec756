package main

import (
	"log/slog"

	"github.com/chazu/keelwright/pkg/engine"
	"github.com/chazu/keelwright/pkg/kernel"
	"github.com/chazu/keelwright/pkg/kernel/sdfx"
	"github.com/chazu/keelwright/pkg/scene"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the editor backend: a console engine bound to one scene and the
// kernel that meshes rigid parts.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	log    *slog.Logger
}

// MeshData is the JSON-serializable mesh format sent to renderers.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
	PartID  string `json:"partId,omitempty"`
}

// EvalResult is the full result of one console evaluation.
type EvalResult struct {
	Value    string          `json:"value"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App on s. Rigid parts are meshed by the sdfx kernel
// at the configured resolution.
func NewApp(s *scene.Scene, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		engine: engine.NewEngine(s),
		kernel: sdfx.New(s.Config().Mesh.ProxyCells),
		log:    logger,
	}
}

// Scene returns the edited scene.
func (a *App) Scene() *scene.Scene {
	return a.engine.Scene()
}

// Evaluate runs a console script and returns its value together with the
// meshes of the whole scene afterwards. Meshes are omitted when the script
// fails.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	value, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		a.log.Debug("script failed", "errors", len(evalErrs))
		return result
	}
	result.Value = value

	for _, w := range a.engine.Warnings() {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Message: w.Message,
			PartID:  w.PartID.String(),
		})
	}

	meshes, err := a.Meshes()
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}
	result.Meshes = meshes
	return result
}

// Meshes tessellates the scene and assigns each part a palette color.
func (a *App) Meshes() ([]MeshData, error) {
	meshes, err := a.Scene().Meshes(a.kernel)
	if err != nil {
		a.log.Error("tessellate failed", "err", err)
		return nil, err
	}
	out := make([]MeshData, 0, len(meshes))
	for i, m := range meshes {
		out = append(out, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return out, nil
}
