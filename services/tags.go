package services

import "strings"

// NormalizeTags zerlegt die Komma-Eingabe und trimmt jeden Eintrag.
// Leere Einträge bleiben erhalten: "IA,,Tesis" ergibt ["IA", "", "Tesis"].
func NormalizeTags(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// normalizeSkills wie NormalizeTags, aber ohne leere Einträge.
func normalizeSkills(raw string) []string {
	skills := []string{}
	for _, s := range NormalizeTags(raw) {
		if s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
