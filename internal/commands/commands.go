// Package commands handles slash command parsing for the TUI command
// line and the HTTP /command endpoint.
package commands

import (
	"strconv"
	"strings"
)

// Command interface for all command types
type Command interface {
	Type() string
}

// Help returns help text
type Help struct{}

func (Help) Type() string { return "help" }

// Start starts or resumes the discussion, optionally on a topic
type Start struct {
	Topic string
}

func (Start) Type() string { return "start" }

// Stop stops the running discussion
type Stop struct{}

func (Stop) Type() string { return "stop" }

// TogglePanel shows or hides the discussion panel
type TogglePanel struct{}

func (TogglePanel) Type() string { return "panel" }

// ClosePanel stops the discussion and clears the transcript
type ClosePanel struct{}

func (ClosePanel) Type() string { return "close" }

// Discuss opens the panel seeded with a feature card as topic
type Discuss struct {
	Index int // 0-based card index
}

func (Discuss) Type() string { return "discuss" }

// Read reads a feature card aloud, or stops it if it is playing
type Read struct {
	Index int // 0-based card index
}

func (Read) Type() string { return "read" }

// ListVoices lists the voice catalog and current assignments
type ListVoices struct{}

func (ListVoices) Type() string { return "voices" }

// ShowHistory shows the run log
type ShowHistory struct{}

func (ShowHistory) Type() string { return "history" }

// Export writes the current transcript as markdown
type Export struct {
	Dir string // empty uses the configured export directory
}

func (Export) Type() string { return "export" }

// Quit exits the application
type Quit struct{}

func (Quit) Type() string { return "quit" }

// ParseError represents a command parsing error
type ParseError struct {
	Message string
}

func (ParseError) Type() string { return "error" }

func (e ParseError) Error() string { return e.Message }

// Parse parses user input and returns the appropriate Command.
// Returns nil if the input is not a slash command.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/help", "/?":
		return Help{}

	case "/start":
		return Start{Topic: strings.Join(args, " ")}

	case "/stop":
		return Stop{}

	case "/panel":
		return TogglePanel{}

	case "/close":
		return ClosePanel{}

	case "/discuss":
		idx, err := cardIndex(cmd, args)
		if err != nil {
			return *err
		}
		return Discuss{Index: idx}

	case "/read":
		idx, err := cardIndex(cmd, args)
		if err != nil {
			return *err
		}
		return Read{Index: idx}

	case "/voices":
		return ListVoices{}

	case "/history":
		return ShowHistory{}

	case "/export":
		return Export{Dir: strings.Join(args, " ")}

	case "/quit", "/exit":
		return Quit{}

	default:
		return ParseError{Message: "unknown command: " + cmd}
	}
}

// cardIndex parses the 1-based card number argument.
func cardIndex(cmd string, args []string) (int, *ParseError) {
	if len(args) != 1 {
		return 0, &ParseError{Message: cmd + " requires a card number"}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, &ParseError{Message: cmd + ": invalid card number " + strconv.Quote(args[0])}
	}
	return n - 1, nil
}

// HelpText returns the help text for all available commands.
func HelpText() string {
	return `Available commands:
  /help            - Show this help
  /start [topic]   - Start or resume the discussion
  /stop            - Stop the discussion
  /panel           - Show or hide the discussion panel
  /close           - Stop and clear the discussion
  /discuss <card#> - Discuss a feature card
  /read <card#>    - Read a feature card aloud (again to stop)
  /voices          - List voices and assignments
  /history         - Show past discussion runs
  /export [dir]    - Save the transcript as markdown
  /quit            - Exit`
}
