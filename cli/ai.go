// ABOUTME: AI-assisted CLI commands
// ABOUTME: Drafts outreach scripts and parses LinkedIn profiles into prospects
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harperreed/prospector/ai"
	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
)

// AIClient is the part of ai.Client the commands use.
type AIClient interface {
	GenerateScript(ctx context.Context, p models.Prospect, focus ai.Focus) string
	ParseProfileText(ctx context.Context, text string) (*ai.Profile, error)
	ParseProfileImages(ctx context.Context, images []ai.Image) (*ai.Profile, error)
}

// ErrNoAI is returned when an AI command runs without a configured key.
var ErrNoAI = errors.New("AI is not configured: set GEMINI_API_KEY or ai.api_key in the config file")

func aiContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// ScriptCommand drafts an outreach message for a prospect.
func ScriptCommand(t *tracker.Tracker, client AIClient, timeout time.Duration, args []string) error {
	fs := flag.NewFlagSet("script", flag.ExitOnError)
	focusFlag := fs.String("focus", string(ai.DefaultFocus), "Focus: central-banks, fintech, institutional")
	logIt := fs.Bool("log", false, "Save the draft to the prospect's history as a chat entry")
	_ = fs.Parse(args)

	if client == nil {
		return ErrNoAI
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("prospect ID required")
	}

	focus, err := ai.ParseFocus(*focusFlag)
	if err != nil {
		return err
	}
	p, err := t.Get(fs.Arg(0))
	if err != nil {
		return err
	}

	ctx, cancel := aiContext(timeout)
	defer cancel()

	result := client.GenerateScript(ctx, p, focus)
	if ai.IsErrorResult(result) {
		return errors.New(ai.ErrorMessage(result))
	}

	_, _ = fmt.Fprintln(stdout, result)

	if *logIt {
		if _, err := t.AddInteraction(p.ID, models.InteractionChat, result); err != nil {
			return fmt.Errorf("failed to log script: %w", err)
		}
		_, _ = fmt.Fprintf(stdout, "\n✓ Script saved to %s's history\n", p.Name)
	}
	return nil
}

type stringList []string

func (s *stringList) String() string { return fmt.Sprint(*s) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// ParseProfileCommand extracts a profile from pasted text or screenshots and
// optionally adds it as a prospect.
func ParseProfileCommand(t *tracker.Tracker, client AIClient, timeout time.Duration, args []string) error {
	fs := flag.NewFlagSet("parse-profile", flag.ExitOnError)
	file := fs.String("file", "", "Text file with the pasted profile ('-' for stdin)")
	var images stringList
	fs.Var(&images, "image", "Profile screenshot (repeatable)")
	add := fs.Bool("add", false, "Create a prospect from the parsed profile")
	status := fs.String("status", "", "Initial status when adding")
	platform := fs.String("platform", "", "Platform when adding")
	_ = fs.Parse(args)

	if client == nil {
		return ErrNoAI
	}
	if *file == "" && len(images) == 0 {
		return fmt.Errorf("--file or --image is required")
	}

	ctx, cancel := aiContext(timeout)
	defer cancel()

	var profile *ai.Profile
	var err error
	if *file != "" {
		text, readErr := readInput(*file)
		if readErr != nil {
			return readErr
		}
		profile, err = client.ParseProfileText(ctx, text)
	} else {
		loaded := make([]ai.Image, 0, len(images))
		for _, path := range images {
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return fmt.Errorf("failed to read image: %w", readErr)
			}
			loaded = append(loaded, ai.NewImage(data, ""))
		}
		profile, err = client.ParseProfileImages(ctx, loaded)
	}
	if err != nil {
		return err
	}

	printField := func(label, value string) {
		if value != "" {
			_, _ = fmt.Fprintf(stdout, "  %-10s %s\n", label+":", value)
		}
	}
	_, _ = fmt.Fprintf(stdout, "%s\n", profile.Name)
	printField("Headline", profile.Headline)
	printField("Position", profile.Position)
	printField("Company", profile.Company)
	printField("Website", profile.CompanyWebsite)

	if !*add {
		return nil
	}

	fields := profile.Fields()
	fields.Status = models.Status(*status)
	fields.Platform = models.Platform(*platform)
	p, err := t.Create(fields)
	if err != nil {
		return fmt.Errorf("failed to create prospect: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "\n✓ Prospect created: %s (ID: %s)\n", p.Name, p.ID)
	return nil
}

func readInput(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read profile text: %w", err)
	}
	return string(data), nil
}
