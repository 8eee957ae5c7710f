package service

import (
	"fmt"
	"strings"

	"itube-transcoder/constant"
)

// Resolution is one rung of the output bitrate ladder.
type Resolution struct {
	Width   int
	Height  int
	Bitrate string
}

// The ladder is fixed for every job. A low-resolution source is still encoded
// against all three rungs, upscaling included.
var renditions = []Resolution{
	{Width: 640, Height: 360, Bitrate: "1000k"},
	{Width: 1280, Height: 720, Bitrate: "4000k"},
	{Width: 1920, Height: 1080, Bitrate: "8000k"},
}

// GOP length and minimum keyframe interval are pinned to the same value so
// segment boundaries line up across renditions. Players cannot switch rungs
// cleanly without this alignment.
const (
	gopSize      = "48"
	audioBitrate = "128k"
	segmentTime  = "6"
)

// BuildTranscodeCommand returns the full ffmpeg argument vector, binary
// included, for transcoding inputPath into the fixed ladder under outputDir.
// The packaging mode decides the container and manifest layout; one run only
// ever produces one of them.
func BuildTranscodeCommand(inputPath, outputDir string, mode constant.PackagingMode) []string {
	if mode == constant.PackagingHLS {
		return buildHLSCommand(inputPath, outputDir)
	}
	return buildDASHCommand(inputPath, outputDir)
}

// filterComplex splits the source video stream into one branch per rung and
// scales each with the fast bilinear scaler.
func filterComplex() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[0:v]split=%d", len(renditions)))
	for i := range renditions {
		b.WriteString(fmt.Sprintf("[v%d]", i+1))
	}
	b.WriteString(";")
	for i, r := range renditions {
		b.WriteString(fmt.Sprintf("[v%d]scale=%d:%d:flags=fast_bilinear[%dp]", i+1, r.Width, r.Height, r.Height))
		if i < len(renditions)-1 {
			b.WriteString(";")
		}
	}
	return b.String()
}

func buildHLSCommand(inputPath, outputDir string) []string {
	args := []string{
		"ffmpeg",
		"-i", inputPath,
		"-filter_complex", filterComplex(),
	}

	for _, r := range renditions {
		args = append(args, "-map", fmt.Sprintf("[%dp]", r.Height))
	}

	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-profile:v", "high",
		"-level:v", "4.1",
		"-g", gopSize,
		"-keyint_min", gopSize,
		"-sc_threshold", "0",
	)

	for i, r := range renditions {
		args = append(args, fmt.Sprintf("-b:v:%d", i), r.Bitrate)
	}

	// One audio stream shared by all variants through the audio group.
	args = append(args,
		"-map", "0:a",
		"-c:a", "aac",
		"-b:a", audioBitrate,
	)

	streamMap := make([]string, 0, len(renditions)+1)
	for i := range renditions {
		streamMap = append(streamMap, fmt.Sprintf("v:%d,agroup:audio", i))
	}
	streamMap = append(streamMap, "a:0,agroup:audio")

	args = append(args,
		"-f", "hls",
		"-hls_time", segmentTime,
		"-hls_playlist_type", "vod",
		"-hls_flags", "independent_segments",
		"-hls_segment_type", "mpegts",
		"-hls_list_size", "0",
		"-master_pl_name", "master.m3u8",
		"-var_stream_map", strings.Join(streamMap, " "),
		"-hls_segment_filename", fmt.Sprintf("%s/%%v/segment_%%03d.ts", outputDir),
		fmt.Sprintf("%s/%%v/playlist.m3u8", outputDir),
	)
	return args
}

func buildDASHCommand(inputPath, outputDir string) []string {
	args := []string{
		"ffmpeg",
		"-i", inputPath,
		"-filter_complex", filterComplex(),
	}

	for i, r := range renditions {
		args = append(args,
			"-map", fmt.Sprintf("[%dp]", r.Height),
			fmt.Sprintf("-c:v:%d", i), "libx264",
			fmt.Sprintf("-b:v:%d", i), r.Bitrate,
			"-preset", "veryfast",
			"-profile:v", "high",
			"-level:v", "4.1",
			"-g", gopSize,
			"-keyint_min", gopSize,
		)
	}

	args = append(args,
		"-map", "0:a",
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-use_timeline", "1",
		"-use_template", "1",
		"-window_size", "5",
		"-adaptation_sets", "id=0,streams=v id=1,streams=a",
		"-f", "dash",
		fmt.Sprintf("%s/manifest.mpd", outputDir),
	)
	return args
}
