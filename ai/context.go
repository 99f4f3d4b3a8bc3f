// ABOUTME: Builds the prompt context handed to the script drafting model
// ABOUTME: Recent history summary plus profile and situation fields
package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/prospector/models"
)

// HistoryWindow is how many recent interactions the prompt includes.
const HistoryWindow = 5

const noHistory = "No interaction history yet."

// FormatHistory renders the most recent interactions oldest first, one per
// line, as "[Sat Jun 01 2024 - chat] content".
func FormatHistory(history []models.Interaction) string {
	if len(history) == 0 {
		return noHistory
	}

	sorted := make([]models.Interaction, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	if len(sorted) > HistoryWindow {
		sorted = sorted[len(sorted)-HistoryWindow:]
	}

	lines := make([]string, len(sorted))
	for i, h := range sorted {
		lines[i] = fmt.Sprintf("[%s - %s] %s", h.Timestamp.Format("Mon Jan 02 2006"), h.Type, h.Content)
	}
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// TimelinePhase renders a status the way the prompt describes it.
func TimelinePhase(s models.Status) string {
	return strings.ReplaceAll(string(s), "-", " ")
}

// BuildScriptPrompt assembles the full drafting prompt for p.
func BuildScriptPrompt(p models.Prospect, focus Focus) string {
	firstName := p.FirstName()

	var chatRules string
	if p.Platform.IsChat() {
		chatRules = fmt.Sprintf(`
**CRITICAL RULES FOR THIS CHAT PLATFORM (%s):**
- Your tone MUST be conversational, concise, and personal.
- Address the prospect by their FIRST NAME ONLY: %s.
- You MUST NOT use any Markdown formatting (no **bold**, no *italics*, no lists).
- You MUST NOT use any formal email signatures or closings (e.g., "Best regards", "Julián Uribe", etc.).
`, strings.ToUpper(string(p.Platform)), firstName)
	}

	var b strings.Builder
	b.WriteString("\nYou are an expert sales scriptwriter specializing in hyper-personalized outreach for the Blockchain Summit LATAM 2025. ")
	b.WriteString("Your main advantage is your ability to analyze detailed profiles AND recent interaction history to create compelling, relevant messages.\n")
	b.WriteString(chatRules)
	b.WriteString(`
**CRITICAL ANALYSIS & SCRIPTING GOAL (Process in this order):**

1.  **DETECT LANGUAGE:** Analyze the language in the "Interaction History". Your entire response MUST be generated in that same language (e.g., if the history is in Spanish, the script must be in Spanish).

2.  **DEEP PROFILE & HISTORY ANALYSIS (YOUR MOST IMPORTANT TASK):**
    *   **Analyze the 'Interaction History':** This is your primary source for context. Understand what was last discussed to make your message relevant and not repetitive.
    *   **Analyze the 'Prospect Profile':** Look for specific phrases, stated passions, or keywords the prospect uses to describe themself to build rapport.

3.  **CRAFT THE SCRIPT:**
`)
	fmt.Fprintf(&b, `    *   **THE HOOK (Opening Line):** This is CRITICAL. Your opening line MUST be a hyper-personalized hook directly derived from the recent **Interaction History**.
        *   **Good Example (from history):** "Hi %[1]s, following up on our chat about the regulatory panel..."
        *   **Bad Example (Generic):** "Hi %[1]s, I'm reaching out about the Blockchain Summit LATAM."
    *   **THE BRIDGE:** Connect the last interaction to the next logical step in the sales journey.
    *   **THE PITCH:** Briefly present the event, using social proof (BIS, BlackRock, JP Morgan).
    *   **THE CTA:** End with a clear call-to-action question.
`, firstName)

	fmt.Fprintf(&b, `
**PROSPECT'S DETAILED PROFILE:**
- Contact: %s
- Position: %s
- Company: %s
- Headline: %s
- About: %s
- Experience: %s
`, firstName, p.Position, p.Company, orNA(p.Headline), orNA(p.About), orNA(p.Experience))

	fmt.Fprintf(&b, `
**SITUATION DETAILS:**
- Platform: %s
- Timeline Phase: %s
- Specific Focus Area: %s
`, p.Platform, TimelinePhase(p.Status), focus.Label())

	fmt.Fprintf(&b, `
**RECENT INTERACTION HISTORY (last %d interactions):**
---
%s
---

---
**GENERAL RULES:**
- If not a chat platform, your response MUST be in well-formatted Markdown.
- Tone: Professional, confident, value-first, and highly personalized based on the history.
`, HistoryWindow, FormatHistory(p.History))

	return b.String()
}
