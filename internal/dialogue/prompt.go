// internal/dialogue/prompt.go
package dialogue

import (
	"fmt"
	"strings"

	"relicpanel/internal/models"
)

const behaviourRules = `WICHTIGE VERHALTENSREGELN:
1.  **ERZEUGE KONFLIKT:** Deine Hauptaufgabe ist es, eine lebhafte, kontroverse Debatte zu führen. Stimme deinem Vorredner NICHT einfach zu. Finde einen Kritikpunkt, eine alternative Perspektive oder eine Schwäche in seiner Aussage.
2.  **VERMEIDE ZUSTIMMUNG:** Benutze keine Phrasen wie "Das stimmt", "Genau", oder "Ich stimme zu". Fordere die Aussage stattdessen heraus. Beispiel: Statt "Ja, das ist effizient" sage "Effizient vielleicht, aber ist es auch inspirierend für die Spieler?".
3.  **SEI PRÄGNANT:** Deine Antwort MUSS kurz sein (maximal 1-2 Sätze).
4.  **BLEIBE IM CHARAKTER:** Argumentiere immer aus der Perspektive deiner zugewiesenen Rolle.
5.  **NUR TEXT AUSGEBEN:** Gib NUR den Text für deine nächste Zeile aus, ohne den Namen des Sprechers oder andere Präfixe.`

// SystemInstruction describes the panel and its house rules.
func SystemInstruction(project string, roster models.Roster) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Du bist ein KI-Experte in einem deutschen Tech-Panel über das fiktive Projekt %q.\n", project)
	sb.WriteString("Die Diskussionsteilnehmer haben klare, oft gegensätzliche Meinungen:\n")
	for _, p := range roster.All() {
		sb.WriteString("- ")
		sb.WriteString(p.Label())
		if p.Persona != "" {
			sb.WriteString(": ")
			sb.WriteString(p.Persona)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(behaviourRules)
	return sb.String()
}

func openingPrompt(project string, moderator models.Participant, topic string) string {
	var sb strings.Builder
	if moderator.Role != "" {
		fmt.Fprintf(&sb, "Du bist %s, %s des Panels. ", moderator.Name, moderator.Role)
	} else {
		fmt.Fprintf(&sb, "Du bist %s, die Moderation des Panels. ", moderator.Name)
	}
	if topic != "" {
		fmt.Fprintf(&sb, "Beginne die Diskussion mit einer interessanten, offenen Frage zum Feature %q von %s.", topic, project)
	} else {
		fmt.Fprintf(&sb, "Beginne die Diskussion mit einer interessanten, offenen Frage zu einem der technischen Features von %s.", project)
	}
	sb.WriteString(" Formuliere jedes Mal eine andere Frage.")
	return sb.String()
}

// historyText renders one "name (role): text" line per transcript entry.
func historyText(history []models.TranscriptLine, roster models.Roster) string {
	lines := make([]string, 0, len(history))
	for _, line := range history {
		label := fmt.Sprintf("Sprecher %d", line.Speaker)
		if roster.Valid(line.Speaker) {
			label = roster.Get(line.Speaker).Label()
		}
		lines = append(lines, label+": "+line.Text)
	}
	return strings.Join(lines, "\n")
}

func nextLinePrompt(history []models.TranscriptLine, roster models.Roster, next int, topic string) string {
	last := history[len(history)-1]
	lastName := fmt.Sprintf("Sprecher %d", last.Speaker)
	if roster.Valid(last.Speaker) {
		lastName = roster.Get(last.Speaker).Name
	}

	var sb strings.Builder
	if topic != "" {
		fmt.Fprintf(&sb, "Thema der Runde: %q\n\n", topic)
	}
	sb.WriteString("Die bisherige Konversation:\n")
	sb.WriteString(historyText(history, roster))
	fmt.Fprintf(&sb, "\n\nDu bist jetzt %s. Gib eine kurze, prägnante Antwort, die auf die letzte Aussage von %s eingeht.",
		roster.Get(next).Name, lastName)
	return sb.String()
}
