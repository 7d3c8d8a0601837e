package ffmpeg

import "context"

// ExtractAudio encodes the first audio stream of input into a
// standalone audio file, dropping video. Codec options come from the
// caller so the track matches the final container.
func ExtractAudio(ctx context.Context, input, output string, opts ...Option) error {
	all := []Option{NoVideo, MapStream("0:a:0")}
	all = append(all, opts...)
	return Run(ctx, input, output, all...)
}

// MuxVideoAudio combines the video stream(s) from videoInput with the
// first audio stream from audioSource into one container. All streams
// are copied without re-encoding.
func MuxVideoAudio(ctx context.Context, videoInput, audioSource, output string) error {
	args := []string{
		"-hide_banner", "-y",
		"-i", videoInput,
		"-i", audioSource,
		"-map", "0:v",
		"-map", "1:a:0",
		"-c", "copy",
		"-movflags", "+faststart",
		output,
	}
	return run(ctx, args, nil)
}
