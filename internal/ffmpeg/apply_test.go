package ffmpeg

import (
	"reflect"
	"testing"
)

func TestExtractMetadataArgs(t *testing.T) {
	got := ExtractMetadataArgs("/v/my movie.mp4", "/v/FFMETADATAFILE.txt").Slice()
	want := []string{"-y", "-i", "/v/my movie.mp4", "-f", "ffmetadata", "/v/FFMETADATAFILE.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %q\nwant %q", got, want)
	}
}

func TestBuildApplyArgs(t *testing.T) {
	tests := []struct {
		name string
		req  ApplyRequest
		want []string
	}{
		{
			name: "all operations",
			req: ApplyRequest{
				Video: "test.mp4", Metadata: "FFMETADATAFILE.txt", Subtitle: "sub.srt", Thumbnail: "thumb.jpg",
				Output: "out.mp4",
			},
			want: []string{
				"-i", "test.mp4", "-i", "FFMETADATAFILE.txt", "-i", "sub.srt", "-i", "thumb.jpg",
				"-map", "3", "-map", "0", "-map_metadata", "1", "-map", "2:s:0",
				"-c", "copy", "-c:s", "mov_text", "-disposition:0", "attached_pic",
				"-n", "out.mp4",
			},
		},
		{
			name: "chapters only",
			req:  ApplyRequest{Video: "test.mp4", Metadata: "meta.txt", Output: "out.mp4"},
			want: []string{
				"-i", "test.mp4", "-i", "meta.txt",
				"-map", "0", "-map_metadata", "1",
				"-c", "copy", "-n", "out.mp4",
			},
		},
		{
			name: "subtitle with language",
			req: ApplyRequest{
				Video: "test.mp4", Subtitle: "sub.srt", SubtitleCodec: "srt", SubtitleLanguage: "eng",
				Output: "out.mkv",
			},
			want: []string{
				"-i", "test.mp4", "-i", "sub.srt",
				"-map", "0", "-map", "1:s:0",
				"-c", "copy", "-c:s", "srt", "-metadata:s:s:0", "language=eng",
				"-n", "out.mkv",
			},
		},
		{
			name: "thumbnail and chapters",
			req:  ApplyRequest{Video: "test.mp4", Metadata: "meta.txt", Thumbnail: "thumb.png", Output: "out.mp4"},
			want: []string{
				"-i", "test.mp4", "-i", "meta.txt", "-i", "thumb.png",
				"-map", "2", "-map", "0", "-map_metadata", "1",
				"-c", "copy", "-disposition:0", "attached_pic",
				"-n", "out.mp4",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := BuildApplyArgs(tt.req)
			if err != nil {
				t.Fatalf("BuildApplyArgs returned error: %v", err)
			}
			if !reflect.DeepEqual(args.Slice(), tt.want) {
				t.Fatalf("unexpected args:\n got %q\nwant %q", args.Slice(), tt.want)
			}
		})
	}
}

func TestBuildApplyArgsRejectsIncompleteRequests(t *testing.T) {
	for name, req := range map[string]ApplyRequest{
		"no video":      {Metadata: "m", Output: "o"},
		"no output":     {Video: "v", Metadata: "m"},
		"no operations": {Video: "v", Output: "o"},
	} {
		if _, err := BuildApplyArgs(req); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestOutputPath(t *testing.T) {
	ops := ApplyRequest{Metadata: "m", Subtitle: "s", Thumbnail: "t"}.Operations()
	got := OutputPath("/videos/test.mp4", "_updated", ops)
	if got != "/videos/test_updated-chapter-subtitle-thumbnail.mp4" {
		t.Fatalf("unexpected output path %q", got)
	}
	got = OutputPath("/videos/test.mkv", "_updated", []Operation{OperationThumbnail})
	if got != "/videos/test_updated-thumbnail.mkv" {
		t.Fatalf("unexpected output path %q", got)
	}
}

func TestArgsStringQuotesForDisplay(t *testing.T) {
	args := ExtractMetadataArgs("my movie.mp4", `say "hi".txt`)
	got := CommandLine("ffmpeg", args)
	want := `ffmpeg -y -i "my movie.mp4" -f ffmetadata "say \"hi\".txt"`
	if got != want {
		t.Fatalf("unexpected command line:\n got %s\nwant %s", got, want)
	}
}
