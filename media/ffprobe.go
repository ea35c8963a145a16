package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

var ErrFFprobeDurationInvalid = fmt.Errorf("got no packets from ffprobe, likely a bad file")

type packet struct {
	PtsTime      string `json:"pts_time"`
	DurationTime string `json:"duration_time"`

	parsedPtsTime      float64
	parsedDurationTime float64
}

type ffprobePacketsOutput struct {
	Packets []packet `json:"packets"`
}

func (f *FFmpeg) ffprobeGetPacketsFromFile(ctx context.Context, filePath string) ([]packet, error) {
	cmd := exec.CommandContext(ctx,
		f.ffprobeBinary,
		"-i", filePath,
		"-v", "error",
		"-print_format", "json",
		"-show_packets",
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running ffprobe: %w", err)
	}

	var response ffprobePacketsOutput
	err = json.Unmarshal(output, &response)
	if err != nil {
		return nil, fmt.Errorf("parsing ffprobe json response: %w", err)
	}

	for i := range response.Packets {
		p := &response.Packets[i]

		p.parsedPtsTime, err = strconv.ParseFloat(p.PtsTime, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing pts_time: %w", err)
		}
		p.parsedDurationTime, err = strconv.ParseFloat(p.DurationTime, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing duration_time: %w", err)
		}
	}

	return response.Packets, nil
}

// FFprobeDurationFromFile gets the duration of the input file using ffprobe
//
// Parses packet metadata to determine length: `max pts time + duration time`.
// Returns ErrFFprobeDurationInvalid if no packets.
//
// This uses packet metadata because MP3 containers often carry no duration
// metadata at all, and it reflects what actually gets decoded downstream.
func (f *FFmpeg) FFprobeDurationFromFile(ctx context.Context, filePath string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, f.commandTimeout)
	defer cancel()

	packets, err := f.ffprobeGetPacketsFromFile(ctx, filePath)
	if err != nil {
		return 0, fmt.Errorf("getting packets: %w", err)
	}

	if len(packets) == 0 {
		return 0, ErrFFprobeDurationInvalid
	}

	var maxPacket packet
	for _, p := range packets {
		if p.parsedPtsTime > maxPacket.parsedPtsTime {
			maxPacket = p
		}
	}

	return maxPacket.parsedPtsTime + maxPacket.parsedDurationTime, nil
}
