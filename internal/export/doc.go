// Package export converts saved animations to MP4 video with ffmpeg.
package export
