package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tonecraft.systems/grade/internal/config"
	"tonecraft.systems/grade/internal/exporter"
	"tonecraft.systems/grade/internal/jobs"
	"tonecraft.systems/grade/pkg/cube"
	"tonecraft.systems/grade/pkg/ffmpeg"
	"tonecraft.systems/grade/pkg/grade"
	"tonecraft.systems/grade/pkg/shader"
)

const usage = `usage: gradetool <command> [flags]

commands:
  presets                      list the built-in presets
  blend   -preset -intensity   blend a preset toward identity
  chain   -params              print the ffmpeg filter chain
  shader  -params              print the fragment shader
  lut     -params -size -o     write a .cube LUT
  export  -input -params       grade a video file
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "presets":
		err = runPresets()
	case "blend":
		err = runBlend(os.Args[2:])
	case "chain":
		err = runChain(os.Args[2:])
	case "shader":
		err = runShader(os.Args[2:])
	case "lut":
		err = runLUT(os.Args[2:])
	case "export":
		err = runExport(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

// loadParams parses grading parameters from an inline JSON string, or
// from stdin when the value is "-". An empty value is the identity.
func loadParams(raw string) (grade.Parameters, error) {
	p := grade.Identity()
	if raw == "" {
		return p, nil
	}
	data := []byte(raw)
	if raw == "-" {
		var err error
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return p, fmt.Errorf("read stdin: %w", err)
		}
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse params: %w", err)
	}
	return p.Clamp(), nil
}

func runPresets() error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(grade.Presets())
}

func runBlend(args []string) error {
	fs := flag.NewFlagSet("blend", flag.ExitOnError)
	name := fs.String("preset", "", "preset name")
	intensity := fs.Float64("intensity", 100, "blend intensity 0-100")
	fs.Parse(args)

	preset, ok := grade.PresetByName(*name)
	if !ok {
		return fmt.Errorf("unknown preset %q", *name)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(grade.Blend(preset, *intensity))
}

func runChain(args []string) error {
	fs := flag.NewFlagSet("chain", flag.ExitOnError)
	params := fs.String("params", "", "grading parameters as JSON, or - for stdin")
	fs.Parse(args)

	p, err := loadParams(*params)
	if err != nil {
		return err
	}
	fmt.Println(ffmpeg.GradeFilterChain(p))
	return nil
}

func runShader(args []string) error {
	fs := flag.NewFlagSet("shader", flag.ExitOnError)
	params := fs.String("params", "", "grading parameters as JSON, or - for stdin")
	fs.Parse(args)

	p, err := loadParams(*params)
	if err != nil {
		return err
	}
	fmt.Print(shader.FragmentSource(p))
	return nil
}

func runLUT(args []string) error {
	fs := flag.NewFlagSet("lut", flag.ExitOnError)
	params := fs.String("params", "", "grading parameters as JSON, or - for stdin")
	size := fs.Int("size", cube.DefaultSize, "grid size per axis")
	out := fs.String("o", "grade.cube", "output path")
	fs.Parse(args)

	p, err := loadParams(*params)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, []byte(cube.Generate(p, *size)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	slog.Info("LUT written", "path", *out, "size", *size)
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	input := fs.String("input", "", "input video path")
	params := fs.String("params", "", "grading parameters as JSON, or - for stdin")
	outDir := fs.String("dir", ".", "output directory")
	format := fs.String("format", "mp4", "output container (mp4 or webm)")
	fs.Parse(args)

	if *input == "" {
		return fmt.Errorf("export: -input is required")
	}
	p, err := loadParams(*params)
	if err != nil {
		return err
	}

	cfg := &config.Config{
		ExportDir:       *outDir,
		ExportFormat:    *format,
		FrameQueueDepth: 8,
		LUTSize:         cube.DefaultSize,
	}
	registry := jobs.NewRegistry()
	exp := exporter.New(cfg, registry)

	id := exp.Start(ctx, *input, p)
	for {
		job, err := registry.Get(id)
		if err != nil {
			return err
		}
		switch job.Status {
		case jobs.StatusComplete:
			fmt.Println(*job.OutputPath)
			return nil
		case jobs.StatusError:
			return fmt.Errorf("export: %s", *job.Error)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
			slog.Info("exporting", "job_id", id, "progress", fmt.Sprintf("%.0f%%", job.Progress*100))
		}
	}
}
