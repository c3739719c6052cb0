package config

const (
	defaultConfigPath     = "~/.config/chaptermux/config.toml"
	projectConfigName     = "chaptermux.toml"
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultMetadataFile   = "FFMETADATAFILE.txt"
	defaultChapterFormat  = "auto"
	defaultStitching      = "auto"
	defaultSubtitleCodec  = "mov_text"
	defaultOriginalSuffix = "_original"
	defaultUpdatedSuffix  = "_updated"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	ffmpegBinaryEnvVar    = "CHAPTERMUX_FFMPEG"
	ffprobeBinaryEnvVar   = "CHAPTERMUX_FFPROBE"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		FFmpeg: FFmpeg{
			Binary:        defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Metadata: Metadata{
			FileName: defaultMetadataFile,
		},
		Chapters: Chapters{
			Format:           defaultChapterFormat,
			Stitching:        defaultStitching,
			WarnPastDuration: true,
		},
		Subtitles: Subtitles{
			Codec: defaultSubtitleCodec,
		},
		Output: Output{
			KeepOriginal:   true,
			InPlace:        true,
			OriginalSuffix: defaultOriginalSuffix,
			UpdatedSuffix:  defaultUpdatedSuffix,
			Verify:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
