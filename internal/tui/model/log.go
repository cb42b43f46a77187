package model

// AddRawLineToActivityLog appends a line, dropping the oldest lines beyond
// MaxActivityLogLines.
func AddRawLineToActivityLog(m *Model, line string) {
	m.ActivityLog = append(m.ActivityLog, line)
	if over := len(m.ActivityLog) - MaxActivityLogLines; over > 0 {
		m.ActivityLog = append([]string(nil), m.ActivityLog[over:]...)
	}
	m.ActivityLogDirty = true
}
