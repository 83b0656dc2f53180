package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
)

// Command is one command palette entry.
type Command struct {
	ID          string
	Label       string
	Description string
	Category    string
	Enabled     func(a *App) (bool, string)
	Execute     func(a *App) (tea.Cmd, error)
}

type CommandMatch struct {
	Command        Command
	Score          int
	Enabled        bool
	DisabledReason string
}

type CommandRegistry struct {
	commands []Command
	byID     map[string]Command
}

func NewCommandRegistry(commands []Command) *CommandRegistry {
	r := &CommandRegistry{byID: make(map[string]Command, len(commands))}
	for _, cmd := range commands {
		if cmd.ID == "" {
			continue
		}
		if _, dup := r.byID[cmd.ID]; dup {
			continue
		}
		r.commands = append(r.commands, cmd)
		r.byID[cmd.ID] = cmd
	}
	return r
}

func (r *CommandRegistry) All() []Command {
	if r == nil {
		return nil
	}
	return append([]Command(nil), r.commands...)
}

// Search ranks commands against query. Enabled commands come first, then
// the most recently run one, then by score.
func (r *CommandRegistry) Search(query string, a *App, lastCommandID string) []CommandMatch {
	if r == nil {
		return nil
	}
	q := strings.TrimSpace(query)
	out := make([]CommandMatch, 0, len(r.commands))
	for _, cmd := range r.commands {
		matched, score := commandMatchScore(cmd, q)
		if !matched {
			continue
		}
		enabled := true
		reason := ""
		if cmd.Enabled != nil {
			enabled, reason = cmd.Enabled(a)
		}
		out = append(out, CommandMatch{
			Command:        cmd,
			Score:          score,
			Enabled:        enabled,
			DisabledReason: reason,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Enabled != out[j].Enabled {
			return out[i].Enabled
		}
		iMRU := lastCommandID != "" && out[i].Command.ID == lastCommandID
		jMRU := lastCommandID != "" && out[j].Command.ID == lastCommandID
		if iMRU != jMRU {
			return iMRU
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		li := strings.ToLower(out[i].Command.Label)
		lj := strings.ToLower(out[j].Command.Label)
		if li != lj {
			return li < lj
		}
		return out[i].Command.ID < out[j].Command.ID
	})
	return out
}

func (r *CommandRegistry) ExecuteByID(id string, a *App) (tea.Cmd, error) {
	if r == nil {
		return nil, fmt.Errorf("command registry is not initialized")
	}
	cmd, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", id)
	}
	if cmd.Enabled != nil {
		enabled, reason := cmd.Enabled(a)
		if !enabled {
			if strings.TrimSpace(reason) == "" {
				reason = "command is disabled"
			}
			return nil, fmt.Errorf("%s", reason)
		}
	}
	if cmd.Execute == nil {
		return nil, fmt.Errorf("command %q has no executor", id)
	}
	return cmd.Execute(a)
}

func commandMatchScore(cmd Command, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	best := -1
	fields := []string{cmd.Label, cmd.ID, cmd.Description}
	for _, field := range fields {
		matched, score := fuzzyMatchScore(field, query)
		if !matched {
			continue
		}
		if strings.EqualFold(field, query) {
			score += 15
		}
		if score > best {
			best = score
		}
	}
	if best < 0 {
		return typoMatchScore(cmd, query)
	}
	return true, best
}

func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	matchIdx := make([]int, 0, len(queryLower))
	searchFrom := 0
	for i := 0; i < len(queryLower); i++ {
		ch := queryLower[i]
		found := false
		for j := searchFrom; j < len(labelLower); j++ {
			if labelLower[j] == ch {
				matchIdx = append(matchIdx, j)
				searchFrom = j + 1
				found = true
				break
			}
		}
		if !found {
			return false, 0
		}
	}

	score := len(queryLower)
	if len(matchIdx) > 0 && matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}

// minTypoSimilarity is the edit-distance similarity a query word needs
// against a label word to count as a misspelling of it.
const minTypoSimilarity = 0.55

// typoMatchScore accepts queries like "clera" for "clear" that the
// subsequence matcher rejects. The score is the number of matched words.
func typoMatchScore(cmd Command, query string) (bool, int) {
	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) == 0 {
		return false, 0
	}
	labelWords := strings.Fields(strings.ToLower(cmd.Label + " " + strings.ReplaceAll(cmd.ID, "_", " ")))
	matched := 0
	for _, qw := range queryWords {
		if len(qw) < 3 {
			continue
		}
		for _, lw := range labelWords {
			if wordSimilarity(qw, lw) >= minTypoSimilarity {
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return false, 0
	}
	return true, matched
}

func wordSimilarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
