package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knufflepuffle/lfg-bot/internal/services"
)

const suggestLayout = "2006-01-02 15:04"

// splitCommand separates a prefixed message into command name and arguments.
func splitCommand(prefix, content string) (string, []string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// ParseMention accepts <@id>, <@!id> or a bare numeric id.
func ParseMention(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<@") && strings.HasSuffix(s, ">") {
		s = strings.TrimPrefix(strings.TrimSuffix(s, ">"), "<@")
		s = strings.TrimPrefix(s, "!")
	}
	if s == "" {
		return "", false
	}
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return "", false
	}
	return s, true
}

// ParseDates reads "YYYY-MM-DD HH:MM" pairs in loc.
func ParseDates(args []string, loc *time.Location) ([]time.Time, error) {
	if len(args)%2 != 0 {
		return nil, services.Invalid("missing time, give each date as YYYY-MM-DD HH:MM")
	}

	dates := make([]time.Time, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		raw := args[i] + " " + args[i+1]
		d, err := time.ParseInLocation(suggestLayout, raw, loc)
		if err != nil {
			return nil, services.Invalid(fmt.Sprintf("invalid date format: %s, use YYYY-MM-DD HH:MM", raw))
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// parsePlayers reads the optional min and max player arguments.
func parsePlayers(args []string, defMin, defMax int) (int, int, error) {
	minPlayers, maxPlayers := defMin, defMax
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, 0, services.Invalid("the minimum player count must be a number")
		}
		minPlayers = n
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, services.Invalid("the maximum player count must be a number")
		}
		maxPlayers = n
	}
	return minPlayers, maxPlayers, nil
}

func parseHours(args []string) (time.Duration, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, services.Invalid("the vote duration must be a positive number of hours")
	}
	return time.Duration(n) * time.Hour, nil
}
