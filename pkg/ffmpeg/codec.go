package ffmpeg

// Preset bundles combine common option combinations.

// PresetExportHQ returns options for high-quality h264 export. The
// medium preset enables the full x264 feature set (CABAC, B-frames,
// multiple reference frames, subpixel ME); CRF 21 is high quality
// without bloating file sizes.
func PresetExportHQ() []Option {
	return []Option{
		VideoCodec("libx264"),
		CRF(21),
		Preset("medium"),
		PixelFormat("yuv420p"),
	}
}

// PresetExportAAC returns options for high-quality AAC audio export.
func PresetExportAAC() []Option {
	return []Option{
		AudioCodec("aac"),
		AudioBitrate("192k"),
		AudioChannels(2),
	}
}

// PresetExportWebM returns options for high-quality VP9 WebM export.
// Uses CRF 24 with row-mt for reasonable encode speed.
func PresetExportWebM() []Option {
	return []Option{
		VideoCodec("libvpx-vp9"),
		CRF(24),
		ExtraArgs("-b:v", "0", "-row-mt", "1"),
		PixelFormat("yuv420p"),
	}
}

// PresetExportOpus returns options for Opus audio in WebM container.
func PresetExportOpus() []Option {
	return []Option{
		AudioCodec("libopus"),
		AudioBitrate("128k"),
		AudioChannels(2),
	}
}

// ExportPresetForFormat returns (video codec options, audio options,
// file extension) for the given format string. Unknown formats fall
// back to (h264, aac, ".mp4").
func ExportPresetForFormat(format, quality string) (video []Option, audio []Option, ext string) {
	switch format {
	case "webm":
		video = PresetExportWebM()
		audio = PresetExportOpus()
		ext = ".webm"
		if quality == "max" {
			video = append(video, CRF(18))
		}
	default: // "mp4"
		video = PresetExportHQ()
		audio = PresetExportAAC()
		ext = ".mp4"
		if quality == "max" {
			video = append(video, CRF(17), Preset("slow"))
		}
	}
	return
}

// Flatten merges multiple option slices into one.
func Flatten(groups ...[]Option) []Option {
	var all []Option
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}
