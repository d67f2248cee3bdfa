package app

import (
	"errors"
	"fmt"
	"strings"

	"relicpanel/internal/commands"
	"relicpanel/internal/discussion"
)

// ErrNotCommand is returned for input that is not a slash command.
var ErrNotCommand = errors.New("not a command (commands start with /)")

// Action tells the presentation layer what to show after a command.
type Action int

const (
	ActionNone Action = iota
	ActionShowHistory
	ActionShowHelp
	ActionQuit
)

var actionNames = [...]string{"none", "history", "help", "quit"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Result is the outcome of a command.
type Result struct {
	Message string `json:"message,omitempty"`
	Action  Action `json:"action"`
}

// ExecuteLine parses and executes one command line.
func (a *App) ExecuteLine(line string) (Result, error) {
	cmd := commands.Parse(line)
	if cmd == nil {
		return Result{}, ErrNotCommand
	}
	return a.Execute(cmd)
}

// Execute runs a parsed command.
func (a *App) Execute(cmd commands.Command) (Result, error) {
	switch c := cmd.(type) {
	case commands.ParseError:
		return Result{}, c

	case commands.Help:
		return Result{Message: commands.HelpText(), Action: ActionShowHelp}, nil

	case commands.Start:
		if err := a.StartDiscussion(c.Topic); err != nil {
			if errors.Is(err, discussion.ErrRunning) {
				return Result{Message: "discussion already running"}, nil
			}
			return Result{}, err
		}
		if c.Topic != "" {
			return Result{Message: fmt.Sprintf("discussion started: %s", c.Topic)}, nil
		}
		return Result{Message: "discussion started"}, nil

	case commands.Stop:
		a.StopDiscussion()
		return Result{Message: "discussion stopped"}, nil

	case commands.TogglePanel:
		if a.TogglePanel() {
			return Result{Message: "panel open"}, nil
		}
		return Result{Message: "panel closed"}, nil

	case commands.ClosePanel:
		a.SetPanel(false)
		return Result{Message: "panel closed"}, nil

	case commands.Discuss:
		if err := a.Discuss(c.Index); err != nil {
			return Result{}, err
		}
		f, _ := a.Feature(c.Index)
		return Result{Message: fmt.Sprintf("discussing %s", f.Title)}, nil

	case commands.Read:
		reading, err := a.ReadCard(c.Index)
		if err != nil {
			return Result{}, err
		}
		if reading {
			return Result{Message: fmt.Sprintf("reading card %d", c.Index+1)}, nil
		}
		return Result{Message: "read-aloud stopped"}, nil

	case commands.ListVoices:
		return Result{Message: a.formatVoices()}, nil

	case commands.ShowHistory:
		return Result{Action: ActionShowHistory}, nil

	case commands.Export:
		path, err := a.ExportTranscript(c.Dir)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: "transcript saved to " + path}, nil

	case commands.Quit:
		return Result{Action: ActionQuit}, nil

	default:
		return Result{}, fmt.Errorf("unhandled command %q", cmd.Type())
	}
}

func (a *App) formatVoices() string {
	list := a.VoiceList()
	if len(list) == 0 {
		return "no voices available, the engine default is used"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d voices:\n", len(list))
	for _, v := range list {
		fmt.Fprintf(&sb, "  %-24s %-8s", v.Name, v.Lang)
		if len(v.AssignedTo) > 0 {
			fmt.Fprintf(&sb, " <- %s", strings.Join(v.AssignedTo, ", "))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
