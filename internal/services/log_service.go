package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/luo-one/inbox-agent/internal/database/models"
	"github.com/luo-one/inbox-agent/internal/functions"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LogService records operational log entries. Every entry goes to the console
// logger; entries at or above the configured level are also stored in the
// database when one is attached.
type LogService struct {
	db       *gorm.DB
	logger   *logrus.Logger
	logLevel models.LogLevel
}

// NewLogService creates a new LogService instance
func NewLogService(db *gorm.DB) *LogService {
	return NewLogServiceWithLevel(db, string(models.LogLevelInfo))
}

// NewLogServiceWithLevel creates a new LogService instance with specified log level
func NewLogServiceWithLevel(db *gorm.DB, level string) *LogService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	s := &LogService{db: db, logger: logger}
	s.SetLogLevel(level)
	return s
}

// parseLogLevel converts a string to LogLevel
func parseLogLevel(level string) models.LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return models.LogLevelDebug
	case "INFO":
		return models.LogLevelInfo
	case "WARN", "WARNING":
		return models.LogLevelWarn
	case "ERROR":
		return models.LogLevelError
	default:
		return models.LogLevelInfo
	}
}

var logrusLevels = map[models.LogLevel]logrus.Level{
	models.LogLevelDebug: logrus.DebugLevel,
	models.LogLevelInfo:  logrus.InfoLevel,
	models.LogLevelWarn:  logrus.WarnLevel,
	models.LogLevelError: logrus.ErrorLevel,
}

// SetLogLevel sets the minimum log level
func (s *LogService) SetLogLevel(level string) {
	s.logLevel = parseLogLevel(level)
	s.logger.SetLevel(logrusLevels[s.logLevel])
}

// GetLogLevel returns the current log level
func (s *LogService) GetLogLevel() models.LogLevel {
	return s.logLevel
}

// Logger exposes the console logger so callers can attach their own fields
func (s *LogService) Logger() *logrus.Logger {
	return s.logger
}

// shouldLog checks if a log entry should be recorded based on log level
func (s *LogService) shouldLog(level models.LogLevel) bool {
	levelPriority := map[models.LogLevel]int{
		models.LogLevelDebug: 0,
		models.LogLevelInfo:  1,
		models.LogLevelWarn:  2,
		models.LogLevelError: 3,
	}

	return levelPriority[level] >= levelPriority[s.logLevel]
}

// LogEntry represents a log entry to be created
type LogEntry struct {
	Level   models.LogLevel
	Module  models.LogModule
	Action  string
	Message string
	Details interface{} // Will be serialized to JSON
}

// Log creates a new log entry
func (s *LogService) Log(entry LogEntry) error {
	if !s.shouldLog(entry.Level) {
		return nil
	}

	var detailsJSON string
	if entry.Details != nil {
		bytes, err := json.Marshal(entry.Details)
		if err != nil {
			detailsJSON = "{}"
		} else {
			detailsJSON = string(bytes)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"module":  entry.Module,
		"action":  entry.Action,
		"details": detailsJSON,
	}).Log(logrusLevels[entry.Level], entry.Message)

	if s.db == nil {
		return nil
	}

	log := &models.Log{
		Level:   string(entry.Level),
		Module:  string(entry.Module),
		Action:  entry.Action,
		Message: entry.Message,
		Details: detailsJSON,
	}

	return s.db.Create(log).Error
}

// LogInfo creates an INFO level log entry
func (s *LogService) LogInfo(module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{Level: models.LogLevelInfo, Module: module, Action: action, Message: message, Details: details})
}

// LogWarn creates a WARN level log entry
func (s *LogService) LogWarn(module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{Level: models.LogLevelWarn, Module: module, Action: action, Message: message, Details: details})
}

// LogError creates an ERROR level log entry
func (s *LogService) LogError(module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{Level: models.LogLevelError, Module: module, Action: action, Message: message, Details: details})
}

// LogDebug creates a DEBUG level log entry
func (s *LogService) LogDebug(module models.LogModule, action, message string, details interface{}) error {
	return s.Log(LogEntry{Level: models.LogLevelDebug, Module: module, Action: action, Message: message, Details: details})
}

// ===== Agent Run Logging =====

// AgentRunDetails represents details for an agent run log
type AgentRunDetails struct {
	Tone           models.ToneLevel      `json:"tone"`
	Aggressiveness models.Aggressiveness `json:"aggressiveness"`
	EmailCount     int                   `json:"email_count"`
	Summary        functions.RunSummary  `json:"summary"`
	DurationMs     int64                 `json:"duration_ms"`
}

// LogAgentRun logs the outcome of one processing run
func (s *LogService) LogAgentRun(opts functions.AgentOptions, result functions.ProcessResult, duration time.Duration) error {
	return s.LogInfo(models.LogModuleAgent, "run", "Inbox processed", AgentRunDetails{
		Tone:           opts.FormalToneLevel,
		Aggressiveness: opts.UnsubscribeAggressiveness,
		EmailCount:     len(result.Emails),
		Summary:        result.Summary,
		DurationMs:     duration.Milliseconds(),
	})
}

// EmailDecisionDetails represents the per-email decision trail
type EmailDecisionDetails struct {
	EmailID    string            `json:"email_id"`
	Category   models.Category   `json:"category"`
	Score      int               `json:"score"`
	AutoAction models.AutoAction `json:"auto_action,omitempty"`
	Reason     string            `json:"reason"`
}

// LogEmailDecision logs why an email received its category and action
func (s *LogService) LogEmailDecision(email models.Email, reason string) error {
	return s.LogDebug(models.LogModuleAgent, "decide", "Email triaged", EmailDecisionDetails{
		EmailID:    email.ID,
		Category:   email.Category,
		Score:      email.Score(),
		AutoAction: email.AutoAction,
		Reason:     reason,
	})
}

// ===== Inbox and Source Logging =====

// InboxChangeDetails represents details for inbox mutations
type InboxChangeDetails struct {
	EmailID string `json:"email_id"`
	Sender  string `json:"sender,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// LogEmailInjected logs an email added to the inbox
func (s *LogService) LogEmailInjected(email models.Email) error {
	return s.LogInfo(models.LogModuleInbox, "inject", "Email added to inbox", InboxChangeDetails{
		EmailID: email.ID,
		Sender:  email.Sender,
		Subject: email.Subject,
	})
}

// LogEmailRemoved logs an email removed from the inbox
func (s *LogService) LogEmailRemoved(id string) error {
	return s.LogInfo(models.LogModuleInbox, "remove", "Email removed from inbox", InboxChangeDetails{EmailID: id})
}

// SourceLoadDetails represents details for an email source load
type SourceLoadDetails struct {
	Source     string `json:"source"`
	EmailCount int    `json:"email_count"`
	Status     string `json:"status"`
	ErrorMsg   string `json:"error_msg,omitempty"`
}

// LogSourceLoad logs loading emails from a source
func (s *LogService) LogSourceLoad(source string, emailCount int, err error) error {
	details := SourceLoadDetails{
		Source:     source,
		EmailCount: emailCount,
		Status:     "success",
	}

	level := models.LogLevelInfo
	message := "Loaded emails from source"

	if err != nil {
		level = models.LogLevelError
		details.Status = "failed"
		details.ErrorMsg = err.Error()
		message = "Failed to load emails from source"
	}

	return s.Log(LogEntry{
		Level:   level,
		Module:  models.LogModuleSource,
		Action:  "load",
		Message: message,
		Details: details,
	})
}

// ===== API Logging =====

// APIRequestDetails represents details for API request logs
type APIRequestDetails struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	StatusCode int    `json:"status_code"`
	Duration   int64  `json:"duration_ms"`
	ClientIP   string `json:"client_ip"`
}

// LogAPIRequest logs an API request
func (s *LogService) LogAPIRequest(method, path string, statusCode int, durationMs int64, clientIP string) error {
	level := models.LogLevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = models.LogLevelWarn
	} else if statusCode >= 500 {
		level = models.LogLevelError
	}

	return s.Log(LogEntry{
		Level:   level,
		Module:  models.LogModuleAPI,
		Action:  "request",
		Message: method + " " + path,
		Details: APIRequestDetails{
			Method:     method,
			Path:       path,
			StatusCode: statusCode,
			Duration:   durationMs,
			ClientIP:   clientIP,
		},
	})
}

// LogAPIKeyReset logs an API key reset event
func (s *LogService) LogAPIKeyReset() error {
	return s.LogInfo(models.LogModuleCLI, "api_key_reset", "API key reset", nil)
}

// ===== Log Query Methods =====

// LogQuery represents query parameters for log retrieval
type LogQuery struct {
	Level     string
	Module    string
	Action    string
	StartTime *time.Time
	EndTime   *time.Time
	Page      int
	Limit     int
}

// LogQueryResult represents the result of a log query
type LogQueryResult struct {
	Total int64
	Logs  []models.Log
}

// QueryLogs retrieves logs based on query parameters
func (s *LogService) QueryLogs(query LogQuery) (*LogQueryResult, error) {
	if s.db == nil {
		return &LogQueryResult{}, nil
	}

	db := s.db.Model(&models.Log{})

	if query.Level != "" {
		db = db.Where("level = ?", strings.ToUpper(query.Level))
	}
	if query.Module != "" {
		db = db.Where("module = ?", query.Module)
	}
	if query.Action != "" {
		db = db.Where("action = ?", query.Action)
	}
	if query.StartTime != nil {
		db = db.Where("created_at >= ?", query.StartTime)
	}
	if query.EndTime != nil {
		db = db.Where("created_at <= ?", query.EndTime)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 50
	}

	offset := (query.Page - 1) * query.Limit

	var logs []models.Log
	if err := db.Order("created_at DESC").Offset(offset).Limit(query.Limit).Find(&logs).Error; err != nil {
		return nil, err
	}

	return &LogQueryResult{
		Total: total,
		Logs:  logs,
	}, nil
}

// GetRecentLogs retrieves the most recent logs
func (s *LogService) GetRecentLogs(limit int) ([]models.Log, error) {
	result, err := s.QueryLogs(LogQuery{Limit: limit})
	if err != nil {
		return nil, err
	}
	return result.Logs, nil
}
