package utils

import (
	"context"
	"etf-dashboard/pkg/logger"
	"log"
	"runtime"
	"strings"
)

// ContainsString checks if a slice of strings contains a specific string.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}

// UniqueStrings returns the non-empty values of slice in first-seen order.
func UniqueStrings(slice []string) []string {
	seen := make(map[string]struct{}, len(slice))
	out := make([]string, 0, len(slice))
	for _, item := range slice {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// GoSafe runs the given function in a new goroutine and recovers from any panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
			}
		}()
		fn()
	}()
}

func ToPointer[T any](value T) *T {
	return &value
}

func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		pc, _, _, ok := runtime.Caller(1)
		funcName := "unknown"
		if ok {
			fn := runtime.FuncForPC(pc)
			if fn != nil {
				parts := strings.Split(fn.Name(), "/")
				funcName = parts[len(parts)-1]
			}
		}

		log.Warn("Context cancelled",
			logger.StringField("caller", funcName),
		)
		return false
	default:
		return true
	}
}
