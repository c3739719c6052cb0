package ffmpeg

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
)

// Operation names a feature applied to the video.
type Operation string

const (
	OperationChapter   Operation = "chapter"
	OperationSubtitle  Operation = "subtitle"
	OperationThumbnail Operation = "thumbnail"
)

// DefaultSubtitleCodec is the subtitle codec MP4 containers accept for text tracks.
const DefaultSubtitleCodec = "mov_text"

// ApplyRequest describes one stream-copy invocation. Metadata, Subtitle, and
// Thumbnail are optional; at least one must be set.
type ApplyRequest struct {
	Video            string
	Metadata         string
	Subtitle         string
	Thumbnail        string
	SubtitleCodec    string
	SubtitleLanguage string // ISO 639-2, written only when set
	Output           string
}

// Operations lists the present operations in their fixed order.
func (r ApplyRequest) Operations() []Operation {
	var ops []Operation
	if r.Metadata != "" {
		ops = append(ops, OperationChapter)
	}
	if r.Subtitle != "" {
		ops = append(ops, OperationSubtitle)
	}
	if r.Thumbnail != "" {
		ops = append(ops, OperationThumbnail)
	}
	return ops
}

// ExtractMetadataArgs dumps the global metadata of video into doc, replacing
// any existing file.
func ExtractMetadataArgs(video, doc string) Args {
	var args Args
	args.Add("-y")
	args.Input(video)
	args.Flag("-f", "ffmetadata")
	args.Add(doc)
	return args
}

// BuildApplyArgs produces the stream-copy invocation. Inputs are ordered
// video, metadata, subtitle, thumbnail; the thumbnail is mapped first so it
// becomes stream 0 and can carry the attached_pic disposition.
func BuildApplyArgs(req ApplyRequest) (Args, error) {
	if strings.TrimSpace(req.Video) == "" {
		return nil, errors.New("video path is required")
	}
	if strings.TrimSpace(req.Output) == "" {
		return nil, errors.New("output path is required")
	}
	if len(req.Operations()) == 0 {
		return nil, errors.New("at least one of metadata, subtitle, or thumbnail is required")
	}

	var args Args
	args.Input(req.Video)

	index := 1
	metadataIndex, subtitleIndex, thumbnailIndex := -1, -1, -1
	if req.Metadata != "" {
		args.Input(req.Metadata)
		metadataIndex = index
		index++
	}
	if req.Subtitle != "" {
		args.Input(req.Subtitle)
		subtitleIndex = index
		index++
	}
	if req.Thumbnail != "" {
		args.Input(req.Thumbnail)
		thumbnailIndex = index
	}

	if thumbnailIndex >= 0 {
		args.Map(strconv.Itoa(thumbnailIndex))
	}
	args.Map("0")
	if metadataIndex >= 0 {
		args.Flag("-map_metadata", strconv.Itoa(metadataIndex))
	}
	if subtitleIndex >= 0 {
		args.Map(strconv.Itoa(subtitleIndex) + ":s:0")
	}

	args.Flag("-c", "copy")
	if subtitleIndex >= 0 {
		codec := strings.TrimSpace(req.SubtitleCodec)
		if codec == "" {
			codec = DefaultSubtitleCodec
		}
		args.Flag("-c:s", codec)
		if lang := strings.TrimSpace(req.SubtitleLanguage); lang != "" {
			args.Flag("-metadata:s:s:0", "language="+lang)
		}
	}
	if thumbnailIndex >= 0 {
		args.Flag("-disposition:0", "attached_pic")
	}
	args.Add("-n", req.Output)
	return args, nil
}

// OperationSuffix joins base and the operation names, e.g.
// "_updated-chapter-thumbnail".
func OperationSuffix(base string, ops []Operation) string {
	parts := make([]string, 0, len(ops)+1)
	parts = append(parts, base)
	for _, op := range ops {
		parts = append(parts, string(op))
	}
	return strings.Join(parts, "-")
}

// OutputPath places the updated file next to video with the operation suffix
// inserted before the extension.
func OutputPath(video, base string, ops []Operation) string {
	ext := filepath.Ext(video)
	return strings.TrimSuffix(video, ext) + OperationSuffix(base, ops) + ext
}
