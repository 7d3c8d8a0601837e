// Package exporter renders graded videos to disk. The primary path
// transcribes the grade into an ffmpeg filter chain; when that fails
// (a filter missing from the local ffmpeg build, for instance) it falls
// back to piping raw frames through the exact transform via a LUT.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"tonecraft.systems/grade/internal/config"
	"tonecraft.systems/grade/internal/jobs"
	"tonecraft.systems/grade/pkg/cube"
	"tonecraft.systems/grade/pkg/ffmpeg"
	"tonecraft.systems/grade/pkg/grade"
)

// Exporter owns the export pipeline and its job registry.
type Exporter struct {
	jobs       *jobs.Registry
	exportDir  string
	format     string
	queueDepth int
	lutSize    int
}

// New creates an exporter writing into cfg.ExportDir.
func New(cfg *config.Config, registry *jobs.Registry) *Exporter {
	return &Exporter{
		jobs:       registry,
		exportDir:  cfg.ExportDir,
		format:     cfg.ExportFormat,
		queueDepth: cfg.FrameQueueDepth,
		lutSize:    cfg.LUTSize,
	}
}

// Jobs exposes the registry for status queries.
func (e *Exporter) Jobs() *jobs.Registry {
	return e.jobs
}

// Start begins an asynchronous export and returns its job ID. Errors
// after this point are reported through the job, not returned.
func (e *Exporter) Start(ctx context.Context, input string, p grade.Parameters) string {
	id := e.jobs.Create()
	go e.run(ctx, id, input, p.Clamp())
	return id
}

func (e *Exporter) run(ctx context.Context, id, input string, p grade.Parameters) {
	started := time.Now()

	probe, err := ffmpeg.Probe(ctx, input)
	if err != nil {
		slog.Error("export input probe failed", "job_id", id, "input", input, "error", err)
		e.jobs.Fail(id, fmt.Sprintf("input is not decodable: %v", err))
		return
	}
	if !probe.HasVideo() {
		e.jobs.Fail(id, "input has no video stream")
		return
	}

	_, _, ext := ffmpeg.ExportPresetForFormat(e.format, "")
	output := filepath.Join(e.exportDir, id+ext)
	if err := os.MkdirAll(e.exportDir, 0o755); err != nil {
		e.jobs.Fail(id, fmt.Sprintf("create export dir: %v", err))
		return
	}

	slog.Info("export started", "job_id", id, "input", input,
		"duration", probe.Duration, "size", humanize.Bytes(uint64(probe.Size)))

	err = e.exportFiltered(ctx, id, input, output, p, probe)
	if err != nil {
		slog.Warn("filter chain export failed, falling back to LUT pipeline",
			"job_id", id, "error", err)
		_ = os.Remove(output)
		err = e.exportLUT(ctx, id, input, output, p, probe)
	}
	if err != nil {
		slog.Error("export failed", "job_id", id, "error", err)
		_ = os.Remove(output)
		e.jobs.Fail(id, err.Error())
		return
	}

	st, statErr := os.Stat(output)
	if statErr != nil {
		e.jobs.Fail(id, fmt.Sprintf("output file missing: %v", statErr))
		return
	}
	// Validate the output is a playable media file before reporting it.
	if check, checkErr := ffmpeg.Probe(ctx, output); checkErr != nil || !check.HasVideo() {
		_ = os.Remove(output)
		e.jobs.Fail(id, "output validation failed")
		return
	}

	e.jobs.Complete(id, output)
	slog.Info("export complete", "job_id", id, "output", output,
		"size", humanize.Bytes(uint64(st.Size())), "elapsed", time.Since(started))
}

// exportFiltered runs the single-pass ffmpeg filter chain export with
// progress reporting.
func (e *Exporter) exportFiltered(ctx context.Context, id, input, output string, p grade.Parameters, probe *ffmpeg.ProbeResult) error {
	video, audio, _ := ffmpeg.ExportPresetForFormat(e.format, "")
	opts := ffmpeg.Flatten(video)
	if probe.HasAudio() {
		opts = append(opts, ffmpeg.Flatten(audio)...)
	} else {
		opts = append(opts, ffmpeg.NoAudio)
	}
	opts = append(opts, ffmpeg.Filter(ffmpeg.GradeFilterChain(p)))

	progressChan := make(chan ffmpeg.Progress, 100)
	proc, err := ffmpeg.NewCommand(input, output, opts...).StartWithProgress(ctx, progressChan)
	if err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	for progress := range progressChan {
		if probe.Duration <= 0 {
			continue
		}
		frac := progress.OutTimeSeconds() / probe.Duration
		if frac > 0.99 {
			frac = 0.99
		}
		e.jobs.SetProgress(id, frac)
	}

	return proc.Wait()
}

// exportLUT decodes raw frames, grades each through a sampled LUT, and
// re-encodes. Audio is carried by a sequential pre-pass and a final
// stream-copy mux, so the frame pipe stays video-only.
func (e *Exporter) exportLUT(ctx context.Context, id, input, output string, p grade.Parameters, probe *ffmpeg.ProbeResult) error {
	video, audio, ext := ffmpeg.ExportPresetForFormat(e.format, "")
	lut := cube.Build(p, e.lutSize)

	videoOut := output
	var audioOut string
	if probe.HasAudio() {
		videoOut = output + ".video" + ext
		audioOut = output + ".audio" + ext
		defer os.Remove(videoOut)
		defer os.Remove(audioOut)

		if err := ffmpeg.ExtractAudio(ctx, input, audioOut, audio...); err != nil {
			return fmt.Errorf("extract audio: %w", err)
		}
	}

	enc, err := ffmpeg.StartRawEncoder(ctx, videoOut, probe.Width, probe.Height, probe.FPS, video...)
	if err != nil {
		return fmt.Errorf("start encoder: %w", err)
	}
	dec, err := ffmpeg.StartRawDecoder(ctx, input)
	if err != nil {
		enc.Kill()
		return fmt.Errorf("start decoder: %w", err)
	}

	totalFrames := probe.FrameCount()
	frameSize := probe.Width * probe.Height * 3
	_, pumpErr := gradeStream(ctx, lut, dec.Frames, enc.Frames, frameSize, e.queueDepth, func(n int64) {
		if totalFrames <= 0 {
			return
		}
		frac := float64(n) / float64(totalFrames)
		if frac > 0.99 {
			frac = 0.99
		}
		e.jobs.SetProgress(id, frac)
	})

	if pumpErr != nil {
		// A dead pump leaves both processes mid-stream; kill them so
		// Wait cannot block on a stalled pipe.
		_ = dec.Kill()
		_ = enc.Kill()
	}
	_ = enc.Frames.Close()
	encErr := enc.Wait()
	decErr := dec.Wait()

	if pumpErr != nil {
		return pumpErr
	}
	if encErr != nil {
		return fmt.Errorf("encode: %w", encErr)
	}
	if decErr != nil {
		return fmt.Errorf("decode: %w", decErr)
	}

	if audioOut != "" {
		if err := ffmpeg.MuxVideoAudio(ctx, videoOut, audioOut, output); err != nil {
			return fmt.Errorf("mux: %w", err)
		}
	}
	return nil
}
