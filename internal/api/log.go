package api

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"liftoff/pkg/logging"
)

// maxParamLen drops attribute values too long for a status line.
const maxParamLen = 20

// Regex to capture key=value or key="value with spaces"
var logRegex = regexp.MustCompile(`([a-zA-Z0-9_\-.]+)=(?:"([^"]*)"|([^ ]+))`)

// maxLogLines bounds the ?n= history of /api/log/latest.
const maxLogLines = 20

// handleLatestLog returns the last captured server log line, plus up to n
// earlier ones when ?n= is given.
func handleLatestLog(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"log": formatLogLine(logging.GlobalLogCapture.GetLastLine()),
	}
	if v := r.URL.Query().Get("n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "n must be a positive integer", http.StatusBadRequest)
			return
		}
		lines := logging.GlobalLogCapture.Recent(min(n, maxLogLines))
		for i, l := range lines {
			lines[i] = formatLogLine(l)
		}
		resp["lines"] = lines
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleLatestEvent returns the last flight event line.
func handleLatestEvent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"event": logging.GlobalEventCapture.GetLastLine(),
	})
}

// formatLogLine condenses a slog text line to "HH:MM:SS msg (k=v, ...)".
// Level is dropped, attributes are sorted and long values left out.
func formatLogLine(raw string) string {
	matches := logRegex.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return raw
	}

	var msg, timeStr string
	var params []string

	for _, m := range matches {
		key, val := m[1], m[2]
		if val == "" {
			val = m[3]
		}
		val = strings.TrimSpace(val)

		switch key {
		case "time":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				timeStr = t.Format("15:04:05")
			}
		case "level":
		case "msg":
			msg = val
		default:
			if len(val) <= maxParamLen {
				params = append(params, key+"="+val)
			}
		}
	}

	if msg == "" {
		return raw
	}
	sort.Strings(params)

	out := msg
	if timeStr != "" {
		out = fmt.Sprintf("%s %s", timeStr, msg)
	}
	if len(params) > 0 {
		out = fmt.Sprintf("%s (%s)", out, strings.Join(params, ", "))
	}
	return out
}
