package utils

import (
	"fmt"
	"log"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
	colorGray   = "\033[90m"
)

func logf(levelColor, level, component, message string, args ...interface{}) {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	log.Printf("%s[%s]%s %s[%s]%s %s",
		levelColor, level, colorReset,
		colorCyan, component, colorReset,
		message)
}

func LogInfo(component, message string, args ...interface{}) {
	logf(colorGray, "INFO", component, message, args...)
}

func LogSuccess(component, message string, args ...interface{}) {
	logf(colorGreen, "SUCCESS", component, message, args...)
}

func LogWarning(component, message string, args ...interface{}) {
	logf(colorYellow, "WARNING", component, message, args...)
}

func LogDebug(component, message string, args ...interface{}) {
	logf(colorPurple, "DEBUG", component, message, args...)
}

func LogError(component, message string, err error) {
	if err != nil {
		log.Printf("%s[ERROR]%s %s[%s]%s %s: %s%v%s",
			colorRed, colorReset,
			colorCyan, component, colorReset,
			message,
			colorRed, err, colorReset)
		return
	}
	log.Printf("%s[ERROR]%s %s[%s]%s %s",
		colorRed, colorReset,
		colorCyan, component, colorReset,
		message)
}

// LogIncident is for conditions that indicate real inconsistency (a failed
// rollback, financial drift). They must never disappear into the normal
// error stream.
func LogIncident(component, message string, err error) {
	log.Printf("%s[INCIDENT]%s %s[%s]%s %s: %v",
		colorRed, colorReset,
		colorRed, component, colorReset,
		message, err)
}

func LogRequest(method, path, identity string) {
	log.Printf("%s[REQUEST]%s %s%s%s %s | %s%s%s",
		colorCyan, colorReset,
		colorWhite, method, colorReset,
		path,
		colorYellow, identity, colorReset)
}

func LogResponse(path string, statusCode int, duration time.Duration) {
	color := colorGreen
	if statusCode >= 500 {
		color = colorRed
	} else if statusCode >= 400 {
		color = colorYellow
	}
	log.Printf("%s[RESPONSE]%s %s | Status: %s%d%s | Duration: %v",
		colorGray, colorReset,
		path,
		color, statusCode, colorReset,
		duration)
}
