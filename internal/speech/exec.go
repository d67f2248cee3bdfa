package speech

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	espeakBaseWPM   = 175
	espeakBasePitch = 50
)

// ExecEngine drives an espeak-ng compatible binary.
type ExecEngine struct {
	binary string
}

func NewExecEngine(binary string) *ExecEngine {
	if binary == "" {
		binary = "espeak-ng"
	}
	return &ExecEngine{binary: binary}
}

func (e *ExecEngine) Probe(ctx context.Context) error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return fmt.Errorf("%s not found: %w", e.binary, err)
	}
	return nil
}

func (e *ExecEngine) Speak(ctx context.Context, u Utterance, started func()) error {
	cmd := exec.CommandContext(ctx, e.binary, speakArgs(u)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", e.binary, err)
	}
	if started != nil {
		started()
	}
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", e.binary, err, msg)
		}
		return fmt.Errorf("%s: %w", e.binary, err)
	}
	return nil
}

func (e *ExecEngine) Voices(ctx context.Context) ([]Voice, error) {
	out, err := exec.CommandContext(ctx, e.binary, "--voices").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s --voices: %s", e.binary, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s --voices: %w", e.binary, err)
	}
	return parseVoiceTable(out), nil
}

func speakArgs(u Utterance) []string {
	args := make([]string, 0, 8)
	switch {
	case u.Voice != nil && u.Voice.ID != "":
		args = append(args, "-v", u.Voice.ID)
	case u.Lang != "":
		args = append(args, "-v", strings.ToLower(u.Lang))
	}
	if u.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(int(espeakBaseWPM*u.Rate)))
	}
	if u.Pitch > 0 {
		p := int(espeakBasePitch * u.Pitch)
		p = max(0, min(p, 99))
		args = append(args, "-p", strconv.Itoa(p))
	}
	// "--" keeps text starting with a dash from being read as a flag
	return append(args, "--", u.Text)
}

// parseVoiceTable reads the table printed by "espeak-ng --voices":
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  de              --/M      German             gmw/de
func parseVoiceTable(out []byte) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			if strings.HasPrefix(strings.TrimSpace(line), "Pty") {
				continue
			}
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		voices = append(voices, Voice{
			ID:   fields[1],
			Name: strings.ReplaceAll(fields[3], "_", " "),
			Lang: fields[1],
		})
	}
	return voices
}
