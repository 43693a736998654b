package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// EdgeField identifies a directed edge in log output.
func EdgeField(from, to uint64) Field {
	return Field{Key: "edge", Value: []uint64{from, to}}
}

// NodeCount tags a message with the number of graph nodes involved.
func NodeCount(n int) Field {
	return Field{Key: "node_count", Value: n}
}

// DiamondCount tags a message with the number of diamonds involved.
func DiamondCount(n int) Field {
	return Field{Key: "diamond_count", Value: n}
}
