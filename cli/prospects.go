// ABOUTME: Prospect CLI commands
// ABOUTME: Human-friendly commands for adding, listing, updating, logging, and deleting prospects
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/prospector/handlers"
	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
)

// Output destinations; tests swap them.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// AddCommand adds a new prospect.
func AddCommand(t *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "Prospect name (required)")
	company := fs.String("company", "", "Company name")
	position := fs.String("position", "", "Job title")
	email := fs.String("email", "", "Email address")
	platform := fs.String("platform", "linkedin", "Platform: linkedin, email, whatsapp, twitter")
	status := fs.String("status", string(models.StatusInitialContact), "Initial status")
	dealValue := fs.Float64("deal-value", 0, "Potential deal value in dollars")
	highValue := fs.Bool("high-value", false, "Flag as high-value prospect")
	headline := fs.String("headline", "", "Profile headline")
	website := fs.String("website", "", "Company website")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	p, err := t.Create(models.ProspectFields{
		Name:           *name,
		Company:        *company,
		Position:       *position,
		Email:          *email,
		Platform:       models.Platform(*platform),
		Status:         models.Status(*status),
		DealValue:      *dealValue,
		IsHighValue:    *highValue,
		Headline:       *headline,
		CompanyWebsite: *website,
	})
	if err != nil {
		return fmt.Errorf("failed to create prospect: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Prospect created: %s (ID: %s)\n", p.Name, p.ID)
	if p.Company != "" {
		_, _ = fmt.Fprintf(stdout, "  Company: %s\n", p.Company)
	}
	_, _ = fmt.Fprintf(stdout, "  Status: %s\n", p.Status.Label())
	return nil
}

// ListCommand lists prospects.
func ListCommand(t *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("query", "", "Search by name or company")
	status := fs.String("status", "", "Filter by status value")
	group := fs.String("group", "", "Filter by funnel group")
	highValue := fs.Bool("high-value", false, "Only high-value prospects")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if *status != "" {
		if _, err := models.ParseStatus(*status); err != nil {
			return err
		}
	}

	matches := handlers.FilterProspects(t.Find(*query), *status, *group, *highValue)

	if len(matches) == 0 {
		_, _ = fmt.Fprintln(stdout, "No prospects found")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCOMPANY\tSTATUS\tDEAL VALUE")
	_, _ = fmt.Fprintln(w, "--\t----\t-------\t------\t----------")
	for i, p := range matches {
		if i == *limit {
			break
		}
		name := p.Name
		if p.IsHighValue {
			name += " ★"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%.0f\n", p.ID, name, p.Company, p.Status.Label(), p.DealValue)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(stdout, "\n%d prospect(s)\n", len(matches))
	return nil
}

// ShowCommand prints one prospect with its history newest first.
func ShowCommand(t *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("prospect ID required")
	}

	p, err := t.Get(fs.Arg(0))
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "%s (ID: %s)\n", p.Name, p.ID)
	printField := func(label, value string) {
		if value != "" {
			_, _ = fmt.Fprintf(stdout, "  %-10s %s\n", label+":", value)
		}
	}
	printField("Company", p.Company)
	printField("Position", p.Position)
	printField("Email", p.Email)
	printField("Platform", string(p.Platform))
	printField("Status", fmt.Sprintf("%s [%s]", p.Status.Label(), models.StatusGroup(p.Status)))
	printField("Deal", fmt.Sprintf("$%.0f", p.DealValue))
	if p.IsHighValue {
		printField("Priority", "high value")
	}
	printField("Headline", p.Headline)
	printField("Website", p.CompanyWebsite)

	history := make([]models.Interaction, len(p.History))
	copy(history, p.History)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.After(history[j].Timestamp)
	})

	_, _ = fmt.Fprintf(stdout, "\nHistory (%d):\n", len(history))
	for _, h := range history {
		_, _ = fmt.Fprintf(stdout, "  %s  %-12s %s\n",
			h.Timestamp.Format("2006-01-02 15:04"), h.Type, firstLine(h.Content))
	}
	return nil
}

// UpdateCommand updates fields on an existing prospect. Only flags that are
// passed are applied.
func UpdateCommand(t *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	name := fs.String("name", "", "Prospect name")
	company := fs.String("company", "", "Company name")
	position := fs.String("position", "", "Job title")
	email := fs.String("email", "", "Email address")
	platform := fs.String("platform", "", "Platform")
	status := fs.String("status", "", "New status; the change is recorded in history")
	dealValue := fs.Float64("deal-value", 0, "Deal value in dollars")
	highValue := fs.Bool("high-value", false, "High-value flag")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("prospect ID required")
	}

	p, err := t.Get(fs.Arg(0))
	if err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		return fmt.Errorf("no fields to update")
	}

	if set["name"] {
		p.Name = *name
	}
	if set["company"] {
		p.Company = *company
	}
	if set["position"] {
		p.Position = *position
	}
	if set["email"] {
		p.Email = *email
	}
	if set["platform"] {
		p.Platform = models.Platform(*platform)
	}
	if set["status"] {
		p.Status = models.Status(*status)
	}
	if set["deal-value"] {
		p.DealValue = *dealValue
	}
	if set["high-value"] {
		p.IsHighValue = *highValue
	}

	updated, err := t.Update(p)
	if err != nil {
		return fmt.Errorf("failed to update prospect: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Prospect updated: %s (ID: %s)\n", updated.Name, updated.ID)
	_, _ = fmt.Fprintf(stdout, "  Status: %s\n", updated.Status.Label())
	return nil
}

// LogCommand appends an interaction to a prospect's history.
func LogCommand(t *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	kind := fs.String("type", string(models.InteractionNote), "Interaction type: note, chat, email, call")
	content := fs.String("content", "", "What happened (required)")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("prospect ID required")
	}
	if strings.TrimSpace(*content) == "" {
		return fmt.Errorf("--content is required")
	}

	entry, err := t.AddInteraction(fs.Arg(0), models.InteractionType(*kind), *content)
	if err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Logged %s at %s\n", entry.Type, entry.Timestamp.Format("2006-01-02 15:04"))
	return nil
}

// DeleteCommand removes a prospect after confirmation.
func DeleteCommand(t *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("prospect ID required")
	}
	id := fs.Arg(0)

	p, err := t.Get(id)
	if err != nil {
		return err
	}

	if !*yes && !confirm(fmt.Sprintf("Delete %s and all of their history? [y/N] ", p.Name)) {
		_, _ = fmt.Fprintln(stdout, "Cancelled")
		return nil
	}

	if t.Delete(id) {
		_, _ = fmt.Fprintf(stdout, "✓ Prospect deleted: %s\n", p.Name)
	}
	return nil
}

// ResetSeedCommand discards every prospect and restores the seed dataset.
func ResetSeedCommand(t *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("reset-seed", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	_ = fs.Parse(args)

	if !*yes && !confirm("Replace all prospects with the seed dataset? [y/N] ") {
		_, _ = fmt.Fprintln(stdout, "Cancelled")
		return nil
	}

	t.Reset()
	_, _ = fmt.Fprintf(stdout, "✓ Restored %d seed prospects\n", len(t.List()))
	return nil
}

func confirm(question string) bool {
	_, _ = fmt.Fprint(stdout, question)
	answer, _ := bufio.NewReader(stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
