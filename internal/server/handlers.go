package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"tonecraft.systems/grade/internal/jobs"
	"tonecraft.systems/grade/pkg/cube"
	"tonecraft.systems/grade/pkg/ffmpeg"
	"tonecraft.systems/grade/pkg/grade"
	"tonecraft.systems/grade/pkg/shader"
)

// HandleListControls returns the control catalog so clients render
// sliders and wheels from the engine's declared ranges.
func (s *Webserver) HandleListControls() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, grade.Controls())
	}
}

// HandleListPresets returns the built-in preset library.
func (s *Webserver) HandleListPresets() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, grade.Presets())
	}
}

func (s *Webserver) HandleBlendPreset() echo.HandlerFunc {
	type request struct {
		Preset    string  `json:"preset" validate:"required"`
		Intensity float64 `json:"intensity" validate:"gte=0,lte=100"`
	}
	return func(c echo.Context) error {
		var req request
		if err := c.Bind(&req); err != nil {
			return c.String(http.StatusBadRequest, "invalid json")
		}
		if err := s.validate.Struct(req); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}

		preset, ok := grade.PresetByName(req.Preset)
		if !ok {
			return c.String(http.StatusNotFound, "preset not found")
		}
		return c.JSON(http.StatusOK, grade.Blend(preset, req.Intensity))
	}
}

func (s *Webserver) HandleShader() echo.HandlerFunc {
	type response struct {
		Vertex   string `json:"vertex"`
		Fragment string `json:"fragment"`
	}
	return func(c echo.Context) error {
		p, err := bindParameters(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, response{
			Vertex:   shader.VertexSource,
			Fragment: shader.FragmentSource(p),
		})
	}
}

func (s *Webserver) HandleFilterChain() echo.HandlerFunc {
	type response struct {
		Filter string `json:"filter"`
	}
	return func(c echo.Context) error {
		p, err := bindParameters(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, response{Filter: ffmpeg.GradeFilterChain(p)})
	}
}

func (s *Webserver) HandleLUTExport() echo.HandlerFunc {
	type request struct {
		Params grade.Parameters `json:"params"`
		Size   int              `json:"size" validate:"omitempty,gte=2,lte=129"`
	}
	return func(c echo.Context) error {
		req := request{Params: grade.Identity()}
		if err := c.Bind(&req); err != nil {
			return c.String(http.StatusBadRequest, "invalid json")
		}
		if err := s.validate.Struct(req); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		if req.Size == 0 {
			req.Size = cube.DefaultSize
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="grade.cube"`)
		return c.Blob(http.StatusOK, "text/plain; charset=utf-8",
			[]byte(cube.Generate(req.Params.Clamp(), req.Size)))
	}
}

func (s *Webserver) HandleLUTImport() echo.HandlerFunc {
	type response struct {
		Title string `json:"title"`
		Size  int    `json:"size"`
	}
	return func(c echo.Context) error {
		body, err := readBody(c)
		if err != nil {
			return c.String(http.StatusBadRequest, "unreadable body")
		}

		l, err := cube.Parse(string(body))
		if err != nil {
			if errors.Is(err, cube.ErrInvalidLUT) {
				return c.String(http.StatusBadRequest, err.Error())
			}
			return c.String(http.StatusInternalServerError, "failed to parse LUT")
		}
		return c.JSON(http.StatusOK, response{Title: l.Title, Size: l.Size})
	}
}

func (s *Webserver) HandleCreateExport() echo.HandlerFunc {
	type request struct {
		Input  string           `json:"input" validate:"required"`
		Params grade.Parameters `json:"params"`
	}
	type response struct {
		ID string `json:"id"`
	}
	return func(c echo.Context) error {
		req := request{Params: grade.Identity()}
		if err := c.Bind(&req); err != nil {
			return c.String(http.StatusBadRequest, "invalid json")
		}
		if err := s.validate.Struct(req); err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}

		// The job outlives this request; it is tied to process lifetime,
		// not the HTTP connection.
		id := s.exporter.Start(s.baseCtx, req.Input, req.Params)
		slog.Info("export queued", "job_id", id, "input", req.Input)
		return c.JSON(http.StatusAccepted, response{ID: id})
	}
}

func (s *Webserver) HandleExportStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := s.exporter.Jobs().Get(c.Param("id"))
		if err != nil {
			if errors.Is(err, jobs.ErrNotFound) {
				return c.String(http.StatusNotFound, "job not found")
			}
			return c.String(http.StatusInternalServerError, "failed to load job")
		}
		return c.JSON(http.StatusOK, job)
	}
}

// bindParameters decodes a Parameters body and clamps it into range.
// Absent fields keep their identity values, so {} is a no-op grade.
func bindParameters(c echo.Context) (grade.Parameters, error) {
	p := grade.Identity()
	if err := c.Bind(&p); err != nil {
		return p, echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	return p.Clamp(), nil
}

func readBody(c echo.Context) ([]byte, error) {
	defer c.Request().Body.Close()
	return io.ReadAll(c.Request().Body)
}
